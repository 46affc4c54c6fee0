/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package code

import (
	"bytes"
	"encoding"
	"errors"
	"regexp"
	"strings"
)

// Code is a canonical machine code such as "not_found" or "unavailable".
//
// Generic errors that do not know their HTTP status can declare one of these
// instead (see apis.CodedError); the status resolver then picks the status.
// Keeping Code a distinct type stops raw, unnormalized input from reaching
// the resolver by accident. Use Parse to obtain one from a string.
type Code string

// Length limits for a canonical code.
//
// They are exported so tests and callers that mirror the format (for
// example a config loader) can report the same bounds.
const (
	// MinLength rejects ambiguous one- or two-letter codes such as "x" or
	// "e1".
	MinLength = 3

	// MaxLength keeps codes short enough to log and to use as metric
	// labels; "dependency_failed" and friends fit comfortably.
	MaxLength = 64
)

// codeFmt is the canonical code pattern:
//
//	[a-z]            first character is a lowercase ASCII letter;
//	[a-z0-9_]{2,63}  then lowercase letters, digits or underscores.
//
// The quantifier makes the total length MinLength..MaxLength (1 + 2..63).
// Changing either constant means changing the quantifier too.
const codeFmt = `^[a-z][a-z0-9_]{2,63}$`

// codeRe is compiled once; Classify may validate a code on every request.
//
// Valid: "invalid", "not_found", "rate_limited".
// Invalid: "NotFound" (uppercase), "not-found" (dash), "x" (too short),
// "1st_try" (leading digit).
var codeRe = regexp.MustCompile(codeFmt)

// ErrCodeInvalid is returned when a value cannot be parsed or validated as a
// code. Callers can tell format problems apart from other errors with
// errors.Is.
var ErrCodeInvalid = errors.New("envelope: invalid code")

var (
	_ encoding.TextMarshaler   = (*Code)(nil)
	_ encoding.TextUnmarshaler = (*Code)(nil)
)

// Empty is the zero code, meaning "no code declared". It never validates.
var Empty Code = ""

// Parse normalizes s and validates the result. On success it returns a
// canonical Code.
func Parse(s string) (Code, error) {
	s = Normalize(s)
	if err := validate(s); err != nil {
		return Empty, err
	}
	return Code(s), nil
}

// MustParse is like Parse but panics on invalid input. Intended for
// package-level variables.
func MustParse(s string) Code {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Normalize brings s closer to the canonical form with non-lossy edits only:
//
//   - trims surrounding spaces;
//   - lowercases the value;
//   - turns '-' and ' ' into '_'.
//
// Upper-snake tags such as "NOT_FOUND" normalize to "not_found", so errors
// borrowed from other libraries may declare their codes in either style.
// The result is not guaranteed to be valid; Parse validates it.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return strings.NewReplacer("-", "_", " ", "_").Replace(s)
}

// Validate reports whether c is canonical. The empty code is invalid.
func Validate(c Code) error {
	return validate(string(c))
}

// String returns the code as a plain string.
func (c Code) String() string { return string(c) }

// MarshalText implements encoding.TextMarshaler. Invalid codes fail to
// marshal, so a bad value never reaches a config file or wire format.
func (c Code) MarshalText() ([]byte, error) {
	if err := Validate(c); err != nil {
		return nil, err
	}
	return []byte(c), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. The text is normalized
// and validated before it is assigned.
func (c *Code) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(bytes.TrimSpace(text)))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func validate(s string) error {
	if !codeRe.MatchString(s) {
		return ErrCodeInvalid
	}
	return nil
}
