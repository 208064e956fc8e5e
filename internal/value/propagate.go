package value

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/vocabdb/internal/db"
	"github.com/roach88/vocabdb/internal/schema"
)

// Propagator keeps registered data values in step with schema edits. Attach
// it with DB.AddSchemaListener.
//
// After a vocabulary element is replaced, every registered value bound to a
// retained argument is refreshed with UpdateForFargChange and re-committed
// to the index. Values bound to removed arguments are left as they are and
// reported at Warn; deciding their fate belongs to the caller.
type Propagator struct {
	d      *db.DB
	logger *slog.Logger
}

// NewPropagator creates a propagator for d and registers it as a listener.
func NewPropagator(d *db.DB) *Propagator {
	p := &Propagator{d: d, logger: d.Logger().With("component", "propagator")}
	d.AddSchemaListener(p)
	return p
}

// VocabElementChanged implements db.SchemaListener. Each value is updated
// independently; failures are joined into the returned error.
func (p *Propagator) VocabElementChanged(c db.SchemaChange) error {
	retained := make(map[db.ID]bool, len(c.Retained))
	for _, id := range c.Retained {
		retained[id] = true
	}
	removed := make(map[db.ID]bool, len(c.Removed))
	for _, id := range c.Removed {
		removed[id] = true
	}
	if len(retained) == 0 && len(removed) == 0 {
		return nil
	}

	var errs []error
	updated := 0
	for _, e := range p.d.Index().Elements() {
		dv, ok := e.(DataValue)
		if !ok {
			continue
		}
		switch {
		case retained[dv.FargID()]:
			if err := p.update(dv); err != nil {
				errs = append(errs, err)
				continue
			}
			updated++
		case removed[dv.FargID()]:
			p.logger.Warn("data value bound to removed formal argument",
				"value", dv.ID(), "farg", dv.FargID())
		}
	}
	p.logger.Debug("schema change propagated", "updated", updated, "failed", len(errs))
	return errors.Join(errs...)
}

func (p *Propagator) update(dv DataValue) error {
	e, err := p.d.Index().Get(dv.FargID())
	if err != nil {
		return fmt.Errorf("value %d: %w", dv.ID(), err)
	}
	farg, ok := e.(schema.FormalArg)
	if !ok {
		return db.Errorf(db.ErrCodeTypeMismatch, "Propagator.update", "element %d is not a formal argument", dv.FargID())
	}
	if err := dv.UpdateForFargChange(farg); err != nil {
		return fmt.Errorf("value %d: %w", dv.ID(), err)
	}
	return p.d.Index().Replace(dv)
}
