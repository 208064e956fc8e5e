package schema

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/roach88/vocabdb/internal/db"
)

// MatrixKind is the declared type of a matrix vocabulary element.
type MatrixKind int

const (
	KindUndefined MatrixKind = iota
	KindFloat
	KindInteger
	KindNominal
	KindText
	KindPredicate
	KindMatrix
)

var matrixKindNames = [...]string{
	KindUndefined: "UNDEFINED",
	KindFloat:     "FLOAT",
	KindInteger:   "INTEGER",
	KindNominal:   "NOMINAL",
	KindText:      "TEXT",
	KindPredicate: "PREDICATE",
	KindMatrix:    "MATRIX",
}

func (k MatrixKind) String() string {
	if k < 0 || int(k) >= len(matrixKindNames) {
		return fmt.Sprintf("MatrixKind(%d)", int(k))
	}
	return matrixKindNames[k]
}

// ParseMatrixKind is the inverse of MatrixKind.String.
func ParseMatrixKind(s string) (MatrixKind, error) {
	for i, name := range matrixKindNames {
		if name == s {
			return MatrixKind(i), nil
		}
	}
	return KindUndefined, db.Errorf(db.ErrCodeTypeMismatch, "ParseMatrixKind", "unknown matrix kind %q", s)
}

// ArgType returns the only formal argument kind a single-argument matrix of
// kind k accepts, or FargUndefined when k places no restriction.
func (k MatrixKind) ArgType() FargType {
	switch k {
	case KindFloat:
		return FargFloat
	case KindInteger:
		return FargInteger
	case KindNominal:
		return FargNominal
	case KindText:
		return FargText
	case KindPredicate:
		return FargPredicate
	}
	return FargUndefined
}

// restricted reports whether k caps the list at one argument of ArgType.
func (k MatrixKind) restricted() bool {
	return k != KindUndefined && k != KindMatrix
}

// kindEvents allows exactly one transition per concrete kind, out of
// UNDEFINED. Every other transition is an invalid event.
var kindEvents = func() fsm.Events {
	var events fsm.Events
	for k := KindFloat; k <= KindMatrix; k++ {
		events = append(events, fsm.EventDesc{
			Name: k.String(),
			Src:  []string{KindUndefined.String()},
			Dst:  k.String(),
		})
	}
	return events
}()

func newKindMachine(k MatrixKind) *fsm.FSM {
	return fsm.NewFSM(k.String(), kindEvents, fsm.Callbacks{})
}

// MatrixVocabElement is a vocabulary element with a declared kind.
//
// While the kind is KindUndefined the argument list may be staged freely.
// The kind is write-once. Once it is a concrete kind other than KindMatrix
// the list holds at most one argument of the matching type; KindMatrix
// accepts any number of heterogeneous arguments.
type MatrixVocabElement struct {
	veBase
	kind    MatrixKind
	machine *fsm.FSM
}

// NewMatrixVocabElement creates an empty matrix of kind KindUndefined.
func NewMatrixVocabElement(d *db.DB, name string) (*MatrixVocabElement, error) {
	b, err := newVEBase("NewMatrixVocabElement", d, name)
	if err != nil {
		return nil, err
	}
	return &MatrixVocabElement{veBase: b, kind: KindUndefined, machine: newKindMachine(KindUndefined)}, nil
}

func (m *MatrixVocabElement) Kind() MatrixKind { return m.kind }

// SetKind fixes the kind. It fails if k is KindUndefined, the kind is
// already set, or the staged arguments do not fit k.
func (m *MatrixVocabElement) SetKind(k MatrixKind) error {
	const op = "MatrixVocabElement.SetKind"
	if k <= KindUndefined || k > KindMatrix {
		return db.Errorf(db.ErrCodeRangeViolation, op, "cannot set kind to %s", k)
	}
	if !m.machine.Can(k.String()) {
		return db.Errorf(db.ErrCodeImmutableFieldChange, op, "kind already set to %s", m.kind)
	}
	if k.restricted() {
		if len(m.args) > 1 {
			return db.Errorf(db.ErrCodeTypeMismatch, op, "kind %s takes one argument, %d staged", k, len(m.args))
		}
		if len(m.args) == 1 && m.args[0].Type() != k.ArgType() {
			return db.Errorf(db.ErrCodeTypeMismatch, op, "kind %s does not accept %s argument", k, m.args[0].Type())
		}
	}
	if err := m.machine.Event(context.Background(), k.String()); err != nil {
		return db.Errorf(db.ErrCodeImmutableFieldChange, op, "kind transition: %v", err)
	}
	m.kind = k
	return nil
}

// SetSystem marks the element as system-owned. It requires a concrete kind.
func (m *MatrixVocabElement) SetSystem() error {
	if m.kind == KindUndefined {
		return db.Errorf(db.ErrCodeStateInvariantViolation, "MatrixVocabElement.SetSystem", "kind is undefined")
	}
	m.system = true
	return nil
}

// SetVarLen enables variable-length argument lists; only KindMatrix
// elements may be variable length.
func (m *MatrixVocabElement) SetVarLen(varLen bool) error {
	if varLen && m.kind != KindMatrix {
		return db.Errorf(db.ErrCodeTypeMismatch, "MatrixVocabElement.SetVarLen", "kind %s cannot be variable length", m.kind)
	}
	m.varLen = varLen
	return nil
}

// NumElements is NumFormalArgs.
func (m *MatrixVocabElement) NumElements() int { return len(m.args) }

func (m *MatrixVocabElement) checkKindFit(op string, a FormalArg, replacing bool) error {
	if !m.kind.restricted() || isNilArg(a) {
		return nil
	}
	limit := 0
	if replacing {
		limit = 1
	}
	if len(m.args) != limit {
		return db.Errorf(db.ErrCodeRangeViolation, op, "kind %s holds exactly one argument", m.kind)
	}
	if a.Type() != m.kind.ArgType() {
		return db.Errorf(db.ErrCodeTypeMismatch, op, "kind %s does not accept %s argument", m.kind, a.Type())
	}
	return nil
}

func (m *MatrixVocabElement) AppendFormalArg(a FormalArg) error {
	const op = "MatrixVocabElement.AppendFormalArg"
	if err := m.checkKindFit(op, a, false); err != nil {
		return err
	}
	return m.insertArg(op, a, len(m.args))
}

func (m *MatrixVocabElement) InsertFormalArg(a FormalArg, i int) error {
	const op = "MatrixVocabElement.InsertFormalArg"
	if err := m.checkKindFit(op, a, false); err != nil {
		return err
	}
	return m.insertArg(op, a, i)
}

func (m *MatrixVocabElement) ReplaceFormalArg(a FormalArg, i int) error {
	const op = "MatrixVocabElement.ReplaceFormalArg"
	if err := m.checkKindFit(op, a, true); err != nil {
		return err
	}
	return m.replaceArg(op, a, i)
}

func (m *MatrixVocabElement) DeleteFormalArg(i int) error {
	return m.deleteArg("MatrixVocabElement.DeleteFormalArg", i)
}

// IsWellFormed requires a concrete kind and an argument list that fits it.
// With systemCheck the element must also be registered consistently.
func (m *MatrixVocabElement) IsWellFormed(systemCheck bool) bool {
	if m.kind == KindUndefined || len(m.args) == 0 {
		return false
	}
	if m.kind.restricted() && (len(m.args) != 1 || m.args[0].Type() != m.kind.ArgType()) {
		return false
	}
	if !systemCheck {
		return true
	}
	return m.registeredConsistently(m)
}

func (m *MatrixVocabElement) DBString() string {
	return fmt.Sprintf("((MatrixVocabElement: %d %s) (system: %t) (type: %s) (varLen: %t) (fArgList: %s))",
		m.ID(), m.name, m.system, m.kind, m.varLen, m.argListDBString())
}

func (m *MatrixVocabElement) CloneVE() VocabElement {
	return &MatrixVocabElement{veBase: m.cloneBase(), kind: m.kind, machine: newKindMachine(m.kind)}
}
