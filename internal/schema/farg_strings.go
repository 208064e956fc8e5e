package schema

import (
	"fmt"

	"github.com/roach88/vocabdb/internal/db"
)

func identity(s string) string { return s }

// checkApprovedString validates a candidate for an approved set and returns
// its normalised form.
func checkApprovedString(op, s string, valid func(string) bool) (string, error) {
	if s == "" {
		return "", db.Errorf(db.ErrCodeNullInput, op, "value is empty")
	}
	s = db.NormalizeName(s)
	if !valid(s) {
		return "", db.Errorf(db.ErrCodeNameSyntaxViolation, op, "invalid value %q", s)
	}
	return s, nil
}

// NominalFormalArg accepts nominals. When sub-ranged, only values in the
// approved set are valid.
type NominalFormalArg struct {
	fargBase
	approved subRangeSet[string]
}

// NewNominalFormalArg creates a nominal argument without a sub-range.
func NewNominalFormalArg(d *db.DB, name string) (*NominalFormalArg, error) {
	b, err := newFargBase("NewNominalFormalArg", d, name)
	if err != nil {
		return nil, err
	}
	return &NominalFormalArg{fargBase: b}, nil
}

func (a *NominalFormalArg) Type() FargType { return FargNominal }
func (a *NominalFormalArg) SubRange() bool { return a.approved.SubRange() }

// SetSubRange turning on allocates an empty approved set; turning off
// discards it.
func (a *NominalFormalArg) SetSubRange(on bool) { a.approved.setSubRange(on) }

// AddApproved adds s to the approved set. s must be a valid nominal not
// already present.
func (a *NominalFormalArg) AddApproved(s string) error {
	const op = "NominalFormalArg.AddApproved"
	s, err := checkApprovedString(op, s, db.IsValidNominal)
	if err != nil {
		return err
	}
	return a.approved.add(op, s)
}

// DeleteApproved removes s from the approved set.
func (a *NominalFormalArg) DeleteApproved(s string) error {
	const op = "NominalFormalArg.DeleteApproved"
	s, err := checkApprovedString(op, s, db.IsValidNominal)
	if err != nil {
		return err
	}
	return a.approved.remove(op, s)
}

// Approved reports whether s is in the approved set.
func (a *NominalFormalArg) Approved(s string) (bool, error) {
	const op = "NominalFormalArg.Approved"
	s, err := checkApprovedString(op, s, db.IsValidNominal)
	if err != nil {
		return false, err
	}
	return a.approved.approved(op, s)
}

// ApprovedList returns the approved set in sorted order, or nil when it is
// empty.
func (a *NominalFormalArg) ApprovedList() ([]string, error) {
	return a.approved.approvedList("NominalFormalArg.ApprovedList")
}

// ApprovedSetString renders the approved set, e.g. "(alpha, charlie)".
func (a *NominalFormalArg) ApprovedSetString() string {
	return a.approved.render(identity)
}

func (a *NominalFormalArg) IsValidValue(v any) (bool, error) {
	if v == nil {
		return false, nilValue("NominalFormalArg.IsValidValue")
	}
	s, ok := v.(string)
	if !ok || !db.IsValidNominal(s) {
		return false, nil
	}
	return a.approved.permits(db.NormalizeName(s)), nil
}

func (a *NominalFormalArg) DBString() string {
	return fmt.Sprintf("(NominalFormalArg %d %s %t %s)", a.ID(), a.name, a.SubRange(), a.ApprovedSetString())
}

func (a *NominalFormalArg) CloneArg() FormalArg {
	return &NominalFormalArg{fargBase: a.cloneBase(), approved: a.approved.clone()}
}

// QuoteStringFormalArg accepts quote strings: printable text without the
// quote delimiter. When sub-ranged, only values in the approved set are
// valid.
type QuoteStringFormalArg struct {
	fargBase
	approved subRangeSet[string]
}

// NewQuoteStringFormalArg creates a quote-string argument without a
// sub-range.
func NewQuoteStringFormalArg(d *db.DB, name string) (*QuoteStringFormalArg, error) {
	b, err := newFargBase("NewQuoteStringFormalArg", d, name)
	if err != nil {
		return nil, err
	}
	return &QuoteStringFormalArg{fargBase: b}, nil
}

func (a *QuoteStringFormalArg) Type() FargType      { return FargQuoteString }
func (a *QuoteStringFormalArg) SubRange() bool      { return a.approved.SubRange() }
func (a *QuoteStringFormalArg) SetSubRange(on bool) { a.approved.setSubRange(on) }

func (a *QuoteStringFormalArg) AddApproved(s string) error {
	const op = "QuoteStringFormalArg.AddApproved"
	s, err := checkApprovedString(op, s, db.IsValidQuoteString)
	if err != nil {
		return err
	}
	return a.approved.add(op, s)
}

func (a *QuoteStringFormalArg) DeleteApproved(s string) error {
	const op = "QuoteStringFormalArg.DeleteApproved"
	s, err := checkApprovedString(op, s, db.IsValidQuoteString)
	if err != nil {
		return err
	}
	return a.approved.remove(op, s)
}

func (a *QuoteStringFormalArg) Approved(s string) (bool, error) {
	const op = "QuoteStringFormalArg.Approved"
	s, err := checkApprovedString(op, s, db.IsValidQuoteString)
	if err != nil {
		return false, err
	}
	return a.approved.approved(op, s)
}

func (a *QuoteStringFormalArg) ApprovedList() ([]string, error) {
	return a.approved.approvedList("QuoteStringFormalArg.ApprovedList")
}

func (a *QuoteStringFormalArg) ApprovedSetString() string {
	return a.approved.render(identity)
}

func (a *QuoteStringFormalArg) IsValidValue(v any) (bool, error) {
	if v == nil {
		return false, nilValue("QuoteStringFormalArg.IsValidValue")
	}
	s, ok := v.(string)
	if !ok || !db.IsValidQuoteString(s) {
		return false, nil
	}
	return a.approved.permits(db.NormalizeName(s)), nil
}

func (a *QuoteStringFormalArg) DBString() string {
	return fmt.Sprintf("(QuoteStringFormalArg %d %s %t %s)", a.ID(), a.name, a.SubRange(), a.ApprovedSetString())
}

func (a *QuoteStringFormalArg) CloneArg() FormalArg {
	return &QuoteStringFormalArg{fargBase: a.cloneBase(), approved: a.approved.clone()}
}

// TextStringFormalArg accepts free text. It has no sub-range.
type TextStringFormalArg struct {
	fargBase
}

func NewTextStringFormalArg(d *db.DB, name string) (*TextStringFormalArg, error) {
	b, err := newFargBase("NewTextStringFormalArg", d, name)
	if err != nil {
		return nil, err
	}
	return &TextStringFormalArg{fargBase: b}, nil
}

func (a *TextStringFormalArg) Type() FargType { return FargText }
func (a *TextStringFormalArg) SubRange() bool { return false }

func (a *TextStringFormalArg) IsValidValue(v any) (bool, error) {
	if v == nil {
		return false, nilValue("TextStringFormalArg.IsValidValue")
	}
	s, ok := v.(string)
	return ok && db.IsValidTextString(s), nil
}

func (a *TextStringFormalArg) DBString() string {
	return fmt.Sprintf("(TextStringFormalArg %d %s %t)", a.ID(), a.name, a.hidden)
}

func (a *TextStringFormalArg) CloneArg() FormalArg {
	return &TextStringFormalArg{fargBase: a.cloneBase()}
}
