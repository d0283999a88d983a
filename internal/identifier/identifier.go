// Package identifier checks strings against the declaration grammar used for
// usernames and passwords.
//
// A valid identifier is non-empty, starts with a letter, '_' or '$', continues
// with letters, digits, '_' or '$', and is not one of the reserved words
// listed in ReservedWords. A lone '_' is not an identifier. Both fields of a record must pass independently.
package identifier

import (
	"errors"
	"unicode"
	"unicode/utf8"
)

// Symbol is the single non-alphanumeric, non-underscore rune the grammar allows.
const Symbol = '$'

// ReservedWordCount is the size of the closed reserved-word set.
const ReservedWordCount = 53

// ReservedWords holds the keywords and literals that can never be used as a
// type or member name.
var ReservedWords = map[string]struct{}{
	"abstract": {}, "assert": {}, "boolean": {}, "break": {}, "byte": {},
	"case": {}, "catch": {}, "char": {}, "class": {}, "const": {},
	"continue": {}, "default": {}, "do": {}, "double": {}, "else": {},
	"enum": {}, "extends": {}, "final": {}, "finally": {}, "float": {},
	"for": {}, "goto": {}, "if": {}, "implements": {}, "import": {},
	"instanceof": {}, "int": {}, "interface": {}, "long": {}, "native": {},
	"new": {}, "package": {}, "private": {}, "protected": {}, "public": {},
	"return": {}, "short": {}, "static": {}, "strictfp": {}, "super": {},
	"switch": {}, "synchronized": {}, "this": {}, "throw": {}, "throws": {},
	"transient": {}, "try": {}, "void": {}, "volatile": {}, "while": {},
	"true": {}, "false": {}, "null": {},
}

// Rules is the user-facing description of what a valid username or password
// looks like.
const Rules = `Your username and/or password is invalid. Valid usernames and passwords must follow these rules:

 - The only allowed characters are letters, digits, "$" (dollar sign) and "_" (underscore). For example "password@" is not valid as it contains the '@' special character.
 - Usernames/passwords must not start with a digit. For example "123password" is not a valid username or password.
 - Reserved words can't be used as a username or password. For example "while" is invalid as "while" is a reserved word. There are 53 reserved words.`

// ErrInvalid is matched by every ValidationError.
var ErrInvalid = errors.New("invalid username/password")

// ValidationError reports that a username/password pair failed validation.
// It deliberately does not say which of the two fields was rejected.
type ValidationError struct {
	Rules string
}

func (e *ValidationError) Error() string {
	return ErrInvalid.Error()
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

// IsStart reports whether r may begin an identifier.
func IsStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_' || r == Symbol
}

// IsPart reports whether r may appear after the first rune of an identifier.
func IsPart(r rune) bool {
	return IsStart(r) || unicode.IsDigit(r)
}

// IsReserved reports whether s is one of the reserved words.
func IsReserved(s string) bool {
	_, ok := ReservedWords[s]
	return ok
}

// Valid reports whether s is a usable identifier.
func Valid(s string) bool {
	if s == "" || s == "_" || !utf8.ValidString(s) {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !IsStart(r) {
				return false
			}
			continue
		}
		if !IsPart(r) {
			return false
		}
	}
	return !IsReserved(s)
}

// Validate checks both fields and returns a single *ValidationError when
// either one is rejected.
func Validate(username, password string) error {
	if !Valid(username) || !Valid(password) {
		return &ValidationError{Rules: Rules}
	}
	return nil
}
