package schema

import (
	"fmt"

	"github.com/roach88/vocabdb/internal/db"
)

// PredicateVocabElement is a vocabulary element with an unrestricted,
// heterogeneous argument list.
type PredicateVocabElement struct {
	veBase
}

// NewPredicateVocabElement creates an empty predicate.
func NewPredicateVocabElement(d *db.DB, name string) (*PredicateVocabElement, error) {
	b, err := newVEBase("NewPredicateVocabElement", d, name)
	if err != nil {
		return nil, err
	}
	return &PredicateVocabElement{veBase: b}, nil
}

func (p *PredicateVocabElement) SetSystem() error {
	p.system = true
	return nil
}

func (p *PredicateVocabElement) SetVarLen(varLen bool) error {
	p.varLen = varLen
	return nil
}

func (p *PredicateVocabElement) AppendFormalArg(a FormalArg) error {
	return p.insertArg("PredicateVocabElement.AppendFormalArg", a, len(p.args))
}

func (p *PredicateVocabElement) InsertFormalArg(a FormalArg, i int) error {
	return p.insertArg("PredicateVocabElement.InsertFormalArg", a, i)
}

func (p *PredicateVocabElement) ReplaceFormalArg(a FormalArg, i int) error {
	return p.replaceArg("PredicateVocabElement.ReplaceFormalArg", a, i)
}

func (p *PredicateVocabElement) DeleteFormalArg(i int) error {
	return p.deleteArg("PredicateVocabElement.DeleteFormalArg", i)
}

// IsWellFormed is false for a predicate without arguments. Otherwise it is
// true, unless systemCheck is set and the predicate is not registered
// consistently with its store.
func (p *PredicateVocabElement) IsWellFormed(systemCheck bool) bool {
	if len(p.args) == 0 {
		return false
	}
	if !systemCheck {
		return true
	}
	return p.registeredConsistently(p)
}

func (p *PredicateVocabElement) DBString() string {
	return fmt.Sprintf("((PredicateVocabElement: %d %s) (system: %t) (varLen: %t) (fArgList: %s))",
		p.ID(), p.name, p.system, p.varLen, p.argListDBString())
}

func (p *PredicateVocabElement) CloneVE() VocabElement {
	return &PredicateVocabElement{veBase: p.cloneBase()}
}
