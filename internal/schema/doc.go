// Package schema defines the vocabulary of a store: formal arguments (typed
// column descriptors) and the vocabulary elements that own them.
//
// Every type here embeds db.Base and is registered through a *db.DB. A
// vocabulary element and its formal arguments are registered together with
// DB.AddVocabElement; edits to a registered element are committed with
// DB.ReplaceVocabElement.
//
// Formal argument kinds:
//
//	UnTypedFormalArg      any value
//	IntFormalArg          int64 within [min, max]
//	FloatFormalArg        float64 within [min, max]
//	NominalFormalArg      nominal string, optionally from an approved set
//	QuoteStringFormalArg  quote string, optionally from an approved set
//	TextStringFormalArg   free text
//	TimeStampFormalArg    TimeStamp within [min, max]
//	PredFormalArg         predicate reference, optionally from an approved set
//
// Every mutating method either succeeds or returns a *db.Error and leaves the
// receiver unchanged.
package schema
