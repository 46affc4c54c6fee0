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

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"dirpx.dev/envelope"
	"github.com/go-playground/validator/v10"
)

// defaultMessages renders go-playground tags. {field} is the json path of
// the field and {param} the tag parameter.
var defaultMessages = map[string]string{
	"required": "{field} must not be empty",
	"email":    "{field} must be an email",
	"url":      "{field} must be a URL address",
	"uuid":     "{field} must be a UUID",
	"numeric":  "{field} must be a number",
	"number":   "{field} must be a number",
	"boolean":  "{field} must be a boolean value",
	"oneof":    "{field} must be one of the following values: {param}",
	"len":      "{field} must be exactly {param} long",
	"min":      "{field} must be at least {param}",
	"max":      "{field} must be at most {param}",
	"eq":       "{field} must be equal to {param}",
	"ne":       "{field} must not be equal to {param}",
	"gt":       "{field} must be greater than {param}",
	"gte":      "{field} must not be less than {param}",
	"lt":       "{field} must be less than {param}",
	"lte":      "{field} must not be greater than {param}",
}

// Validator validates tagged structs and reports failures as envelope
// request failures. It is safe for concurrent use once built.
type Validator struct {
	validate *validator.Validate
	messages map[string]string
}

// Option configures a Validator.
type Option func(*Validator)

// WithMessage sets the message template for tag. The template may use the
// {field} and {param} placeholders.
func WithMessage(tag, template string) Option {
	return func(v *Validator) {
		v.messages[tag] = template
	}
}

// New returns a Validator that names fields after their json tags.
func New(opts ...Option) *Validator {
	v := &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		messages: make(map[string]string, len(defaultMessages)),
	}
	for tag, tmpl := range defaultMessages {
		v.messages[tag] = tmpl
	}
	v.validate.RegisterTagNameFunc(jsonName)
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Engine exposes the underlying go-playground validator, e.g. for
// registering custom tags.
func (v *Validator) Engine() *validator.Validate { return v.validate }

// Struct validates s. It returns nil, an *envelope.RequestError carrying one
// violation per failing field, or a wrapped error when s cannot be validated
// at all (for example, s is not a struct).
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if errors.As(err, &ves) {
		return &envelope.RequestError{Violations: v.violations(ves), Cause: err}
	}
	return fmt.Errorf("validation: %w", err)
}

// Violations converts go-playground validation errors found in err.
func (v *Validator) Violations(err error) ([]envelope.FieldViolation, bool) {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return nil, false
	}
	return v.violations(ves), true
}

// Recognize is an envelope.Recognizer for raw validator.ValidationErrors
// using the default messages.
func Recognize(err error) (envelope.Failure, bool) {
	vs, ok := defaultValidator.Violations(err)
	if !ok {
		return nil, false
	}
	return &envelope.RequestError{Violations: vs, Cause: err}, true
}

var defaultValidator = New()

func (v *Validator) violations(ves validator.ValidationErrors) []envelope.FieldViolation {
	out := make([]envelope.FieldViolation, 0, len(ves))
	index := make(map[string]int, len(ves))
	for _, fe := range ves {
		path := fieldPath(fe)
		i, seen := index[path]
		if !seen {
			i = len(out)
			index[path] = i
			out = append(out, envelope.FieldViolation{PropertyPath: path, Value: fe.Value()})
		}
		out[i].Constraints = append(out[i].Constraints, envelope.Constraint{
			Name:    fe.Tag(),
			Message: v.message(fe, path),
		})
	}
	return out
}

func (v *Validator) message(fe validator.FieldError, path string) string {
	tmpl, ok := v.messages[fe.Tag()]
	if !ok {
		return fmt.Sprintf("%s failed on the %s rule", path, fe.Tag())
	}
	param := fe.Param()
	switch fe.Tag() {
	case "oneof":
		param = strings.Join(strings.Fields(param), ", ")
	case "len", "min", "max":
		param = sizeParam(fe)
	}
	return strings.NewReplacer("{field}", path, "{param}", param).Replace(tmpl)
}

// sizeParam adds a unit to length constraints on strings and collections.
func sizeParam(fe validator.FieldError) string {
	switch fe.Kind() {
	case reflect.String:
		return fe.Param() + " characters"
	case reflect.Slice, reflect.Array, reflect.Map:
		return fe.Param() + " items"
	default:
		return fe.Param()
	}
}

// fieldPath drops the top-level struct name from the namespace:
// "CreateUser.address.zip" becomes "address.zip".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	default:
		return name
	}
}
