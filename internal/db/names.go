package db

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Identifier grammar.
//
//	nominal      = char { char | " " } char | char
//	char         = any printable rune except reserved and whitespace
//	reserved     = "(" | ")" | "<" | ">" | "|" | "," | ";" | "\"" | "\\"
//	farg-name    = "<" body ">"
//	body         = 1*( printable rune except reserved and whitespace )
//	ve-name      = nominal
//	quote-string = *( printable rune except "\"" )
//	text-string  = *( printable rune | "\t" | "\n" | "\r" )
//
// Matching is case sensitive. All checks operate on the NFC form of the
// input; NormalizeName returns that form so callers store what was checked.
const reservedChars = "()<>|,;\"\\"

// NormalizeName returns the NFC form of s.
func NormalizeName(s string) string {
	return norm.NFC.String(s)
}

func isNameRune(r rune) bool {
	return unicode.IsPrint(r) && !unicode.IsSpace(r) && !strings.ContainsRune(reservedChars, r)
}

// IsValidNominal reports whether s is a legal nominal: non-empty, no leading
// or trailing whitespace, no reserved characters. Interior spaces are allowed.
func IsValidNominal(s string) bool {
	s = NormalizeName(s)
	if s == "" || !utf8.ValidString(s) {
		return false
	}
	first, _ := utf8.DecodeRuneInString(s)
	last, _ := utf8.DecodeLastRuneInString(s)
	if !isNameRune(first) || !isNameRune(last) {
		return false
	}
	for _, r := range s {
		if r == ' ' {
			continue
		}
		if !isNameRune(r) {
			return false
		}
	}
	return true
}

// IsValidVEName reports whether s is a legal vocabulary element name.
func IsValidVEName(s string) bool {
	return IsValidNominal(s)
}

// IsValidFargName reports whether s is a legal formal argument name: an
// angle-bracket-delimited token with a non-empty body and no whitespace,
// commas or nested brackets, e.g. "<onset>".
func IsValidFargName(s string) bool {
	s = NormalizeName(s)
	if len(s) < 3 || s[0] != '<' || s[len(s)-1] != '>' || !utf8.ValidString(s) {
		return false
	}
	for _, r := range s[1 : len(s)-1] {
		if !isNameRune(r) {
			return false
		}
	}
	return true
}

// IsValidQuoteString reports whether s may be stored in a quote string: any
// printable text that does not contain the quote delimiter.
func IsValidQuoteString(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		if r == '"' || !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}

// IsValidTextString reports whether s may be stored in a text value.
func IsValidTextString(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		if r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		if !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}
