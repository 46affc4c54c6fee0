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

package envelope

import (
	"fmt"
	"strings"
)

// Constraint is one named rule that a field failed, e.g.
// {Name: "isNotEmpty", Message: "name must not be empty"}.
type Constraint struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// FieldViolation is a single field-level validation failure as reported by a
// validation collaborator.
//
// Constraints is an ordered slice rather than a map: the order is the one the
// collaborator reported, and Flatten relies on it to pick the representative
// message. Names are expected to be unique within one violation.
type FieldViolation struct {
	// PropertyPath is the logical path of the failing field, e.g. "name" or
	// "address.zip". May be empty for whole-object failures.
	PropertyPath string `json:"property"`

	// Value is the offending value, if the collaborator exposes it. It is
	// never copied into the envelope.
	Value any `json:"-"`

	// Constraints lists the failed rules in report order.
	Constraints []Constraint `json:"constraints,omitempty"`
}

// Constraint returns the message of the named constraint.
func (v FieldViolation) Constraint(name string) (string, bool) {
	for _, c := range v.Constraints {
		if c.Name == name {
			return c.Message, true
		}
	}
	return "", false
}

// String renders the violation without relying on its constraints. Flatten
// uses it for violations that carry no constraint at all.
func (v FieldViolation) String() string {
	if strings.TrimSpace(v.PropertyPath) == "" {
		return "a value failed validation"
	}
	return fmt.Sprintf("field %q failed validation", v.PropertyPath)
}
