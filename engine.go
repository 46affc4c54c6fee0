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
	"net/http"

	"dirpx.dev/envelope/apis"
	"dirpx.dev/envelope/status"
)

// unclassifiable is the message used when classification itself blew up.
const unclassifiable = "unclassifiable failure"

// Engine classifies failures and builds envelopes.
//
// An Engine is a snapshot: options are applied once in NewEngine and the
// value is never mutated afterwards, so one instance can serve every request.
type Engine struct {
	// resolver turns machine codes and gRPC codes into HTTP statuses.
	resolver apis.Resolver

	// recognizers are consulted after the built-in envelope types, in order.
	recognizers []Recognizer

	// defaultStatus seeds Result.Code for failures that declare no status.
	defaultStatus int

	// rules refine the seeded result, in priority order.
	rules []rule
}

// EngineOption configures an Engine at build time.
type EngineOption func(*Engine)

// WithResolver replaces the status resolver (status.Default by default).
// A nil resolver is ignored.
func WithResolver(r apis.Resolver) EngineOption {
	return func(e *Engine) {
		if r != nil {
			e.resolver = r
		}
	}
}

// WithRecognizer registers a recognizer for foreign error types. Recognizers
// run in registration order, after the envelope's own types.
func WithRecognizer(r Recognizer) EngineOption {
	return func(e *Engine) {
		if r != nil {
			e.recognizers = append(e.recognizers, r)
		}
	}
}

// WithDefaultStatus changes the status used for failures that declare none,
// request failures included. Invalid statuses are ignored.
func WithDefaultStatus(s int) EngineOption {
	return func(e *Engine) {
		if validHTTPStatus(s) {
			e.defaultStatus = s
		}
	}
}

// NewEngine builds an Engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		resolver:      status.Default(),
		defaultStatus: http.StatusBadRequest,
		rules:         defaultRules,
	}
	for _, opt := range opts {
		opt(e)
	}
	// Detach from the caller's option slice backing arrays.
	e.recognizers = append([]Recognizer(nil), e.recognizers...)
	return e
}

var defaultEngine = NewEngine()

// Default returns the engine used by the package-level functions.
func Default() *Engine { return defaultEngine }

// Resolver returns the status resolver the engine was built with.
func (e *Engine) Resolver() apis.Resolver { return e.resolver }

// Normalize builds the envelope for err using the default engine.
func Normalize(err error) Result {
	return defaultEngine.Normalize(err)
}

// Normalize builds the envelope for err.
//
// The result is seeded with the default status and the failure's text as
// message and errorCode; the rules then refine it. If a recognizer or rule
// panics, the seeded result is returned.
func (e *Engine) Normalize(err error) Result {
	_, res := e.NormalizeFailure(err)
	return res
}

// NormalizeFailure is Normalize that also returns the failure err was
// classified as. Host adapters use it to log the same classification the
// envelope was built from.
func (e *Engine) NormalizeFailure(err error) (Failure, Result) {
	f := e.classifySafely(err)
	seed := Result{
		Code:      e.defaultStatus,
		Message:   f.Error(),
		ErrorCode: f.Error(),
	}
	return f, e.apply(f, seed)
}

func (e *Engine) apply(f Failure, seed Result) (res Result) {
	defer func() {
		if recover() != nil {
			res = seed
		}
	}()
	res = seed
	for _, r := range e.rules {
		res = r(f, res)
	}
	return res
}

func (e *Engine) classifySafely(err error) (f Failure) {
	defer func() {
		if recover() != nil {
			f = &GenericError{Msg: unclassifiable, Cause: err}
		}
	}()
	return e.Classify(err)
}
