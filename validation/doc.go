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

// Package validation turns the reports of validation libraries into
// envelope request failures.
//
// Two collaborators are supported:
//
//   - github.com/go-playground/validator/v10 for tagged Go structs (Validator);
//   - github.com/santhosh-tekuri/jsonschema/v5 for raw JSON documents (Schema).
//
// Both produce an *envelope.RequestError whose Violations carry one entry per
// failing field, so the engine flattens them into a newline-joined message.
// Recognize and RecognizeSchema register the same conversion with an
// envelope.Engine for errors that reach it unconverted:
//
//	e := envelope.NewEngine(
//	    envelope.WithRecognizer(validation.Recognize),
//	    envelope.WithRecognizer(validation.RecognizeSchema),
//	)
package validation
