// Package harness provides conformance testing for vocabdb stores.
//
// The harness compiles a CUE vocabulary into a fresh store, runs a
// scenario's steps against it, and checks assertions over the final
// store and the step trace.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	vocabulary: ../vocab/session.cue
//	ticks_per_second: 60
//	steps:
//	  - bind: { as: c1, arg: obs.<count>, value: 80 }
//	  - place: { ref: c1 }
//	  - copy: { ref: c1, as: c2 }
//	  - edit:
//	      element: obs
//	      args:
//	        - { arg: <count>, max: 50 }
//	        - { arg: <mood>, unapprove: [sad] }
//	        - { arg: <note>, delete: true }
//	  - remove: { element: tag }
//	  - bind: { as: bad, arg: obs.<count>, value: "x" }
//	    expect: { error: TYPE_MISMATCH }
//	assertions:
//	  - { type: value, ref: c1, equals: "50" }
//	  - { type: unset, ref: m1 }
//	  - { type: db_string, ref: c1, contains: "(itsCellID 1)" }
//	  - { type: element_count, count: 17 }
//	  - { type: args, element: obs, args: [<count>, <score>] }
//	  - { type: outcome_count, outcome: TYPE_MISMATCH, count: 1 }
//
// A step without an expect clause must succeed; a step with one must fail
// with exactly that store error code. Either way execution continues with
// the next step.
//
// # Deterministic Testing
//
// Each run uses a fresh store, so IDs depend only on the vocabulary and
// the steps. Step numbers and automatic cell IDs come from
// testutil.Sequence. Snapshot renders the trace and every named value's
// debug string for golden file comparison.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/narrow.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
