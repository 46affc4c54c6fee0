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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"dirpx.dev/envelope"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "schema.json"

// ErrMalformedJSON is returned (wrapped in a request failure) when the
// document to validate is not JSON at all.
var ErrMalformedJSON = errors.New("malformed json")

// Schema is a compiled JSON Schema (draft 7) that reports failures as
// envelope request failures.
type Schema struct {
	schema *jsonschema.Schema
}

// CompileSchema compiles a draft 7 JSON Schema document.
func CompileSchema(raw []byte) (*Schema, error) {
	if !json.Valid(raw) {
		return nil, errors.New("validation: schema must be valid json")
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7
	if err := compiler.AddResource(schemaURL, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("validation: add schema: %w", err)
	}
	sch, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("validation: compile schema: %w", err)
	}
	return &Schema{schema: sch}, nil
}

// Validate checks a JSON document against the schema.
//
// It returns nil, or an *envelope.RequestError. Undecodable input yields a
// request failure with a plain body; schema violations yield one violation
// per failing instance location, ordered by path.
func (s *Schema) Validate(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return &envelope.RequestError{
			Body:  envelope.Body{Error: "MalformedJSON", Message: err.Error()},
			Cause: fmt.Errorf("%w: %w", ErrMalformedJSON, err),
		}
	}
	return s.ValidateValue(v)
}

// ValidateValue checks an already decoded JSON value.
func (s *Schema) ValidateValue(v any) error {
	err := s.schema.Validate(v)
	if err == nil {
		return nil
	}
	if vs, ok := SchemaViolations(err); ok {
		return &envelope.RequestError{Violations: vs, Cause: err}
	}
	return &envelope.RequestError{Body: err.Error(), Cause: err}
}

// SchemaViolations converts a jsonschema validation error found in err.
func SchemaViolations(err error) ([]envelope.FieldViolation, bool) {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, false
	}
	var out []envelope.FieldViolation
	index := make(map[string]int)
	add := func(path, keyword, msg string) {
		i, seen := index[path]
		if !seen {
			i = len(out)
			index[path] = i
			out = append(out, envelope.FieldViolation{PropertyPath: path})
		}
		out[i].Constraints = append(out[i].Constraints, envelope.Constraint{Name: keyword, Message: msg})
	}
	for _, leaf := range leaves(ve) {
		keyword := lastSegment(leaf.KeywordLocation)
		path := pointerToPath(leaf.InstanceLocation)
		if keyword == "required" {
			for _, name := range missingProperties(leaf.Message) {
				p := joinPath(path, name)
				add(p, keyword, p+" is required")
			}
			continue
		}
		add(path, keyword, describe(path, leaf.Message))
	}
	if len(out) == 0 {
		return nil, false
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PropertyPath < out[j].PropertyPath
	})
	return out, true
}

// RecognizeSchema is an envelope.Recognizer for raw
// *jsonschema.ValidationError values.
func RecognizeSchema(err error) (envelope.Failure, bool) {
	vs, ok := SchemaViolations(err)
	if !ok {
		return nil, false
	}
	return &envelope.RequestError{Violations: vs, Cause: err}, true
}

func leaves(ve *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*jsonschema.ValidationError{ve}
	}
	var out []*jsonschema.ValidationError
	for _, c := range ve.Causes {
		out = append(out, leaves(c)...)
	}
	return out
}

func describe(path, msg string) string {
	if path == "" {
		return msg
	}
	return path + ": " + msg
}

// missingProperties parses "missing properties: 'a', 'b'".
func missingProperties(msg string) []string {
	list, ok := strings.CutPrefix(msg, "missing properties: ")
	if !ok {
		return []string{""}
	}
	var names []string
	for _, q := range strings.Split(list, ", ") {
		names = append(names, strings.Trim(q, "'"))
	}
	return names
}

// pointerToPath turns a JSON pointer ("/address/zip") into a dotted path
// ("address.zip").
func pointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}
	segs := strings.Split(ptr, "/")
	for i, s := range segs {
		s = strings.ReplaceAll(s, "~1", "/")
		segs[i] = strings.ReplaceAll(s, "~0", "~")
	}
	return strings.Join(segs, ".")
}

func joinPath(parent, name string) string {
	switch {
	case parent == "":
		return name
	case name == "":
		return parent
	default:
		return parent + "." + name
	}
}

func lastSegment(loc string) string {
	if i := strings.LastIndexByte(loc, '/'); i >= 0 {
		return loc[i+1:]
	}
	return loc
}
