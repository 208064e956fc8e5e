package schema

import "github.com/roach88/vocabdb/internal/db"

// NewFormalArg creates an unrestricted formal argument of type t. On error
// the returned FormalArg is a nil interface.
func NewFormalArg(d *db.DB, name string, t FargType) (FormalArg, error) {
	switch t {
	case FargUntyped:
		return asFormalArg(NewUnTypedFormalArg(d, name))
	case FargInteger:
		return asFormalArg(NewIntFormalArg(d, name))
	case FargFloat:
		return asFormalArg(NewFloatFormalArg(d, name))
	case FargNominal:
		return asFormalArg(NewNominalFormalArg(d, name))
	case FargQuoteString:
		return asFormalArg(NewQuoteStringFormalArg(d, name))
	case FargText:
		return asFormalArg(NewTextStringFormalArg(d, name))
	case FargTimeStamp:
		return asFormalArg(NewTimeStampFormalArg(d, name))
	case FargPredicate:
		return asFormalArg(NewPredFormalArg(d, name))
	}
	return nil, db.Errorf(db.ErrCodeTypeMismatch, "NewFormalArg", "cannot create a formal argument of type %s", t)
}

// asFormalArg keeps a typed nil pointer out of the interface.
func asFormalArg[T FormalArg](a T, err error) (FormalArg, error) {
	if err != nil {
		return nil, err
	}
	return a, nil
}
