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

import "net/http"

// Failure is the closed set of failure shapes the engine understands.
//
// Only *DomainError, *RequestError and *GenericError implement it. Arbitrary
// Go errors are turned into one of them by Classify before normalization.
type Failure interface {
	error
	failure()
}

var (
	_ Failure = (*DomainError)(nil)
	_ Failure = (*RequestError)(nil)
	_ Failure = (*GenericError)(nil)
)

// badRequestText is the message of a request failure whose body is not a
// plain string.
var badRequestText = http.StatusText(http.StatusBadRequest)

// Body is the composite response body of a structured request failure.
//
// Message is either a string or a sequence of strings ([]string, or []any
// holding strings when the body was decoded from JSON).
type Body struct {
	Error   string `json:"error"`
	Message any    `json:"message"`
}

// RequestError describes invalid caller input detected upstream of the
// business logic.
//
// A request failure declares no status of its own to the engine: its
// envelope code is the engine's default status, 400 unless the engine was
// built with WithDefaultStatus.
type RequestError struct {
	// Body is the description of the failure: a plain string, a Body, or a
	// map[string]any with "error" and "message" keys.
	Body any

	// Violations are the field-level failures reported by a validator.
	Violations []FieldViolation

	// Cause holds the collaborator's native error, if any.
	Cause error
}

// BadRequest returns a request failure described by body.
func BadRequest(body any) *RequestError {
	return &RequestError{Body: body}
}

// Invalid returns a request failure carrying field violations.
func Invalid(violations ...FieldViolation) *RequestError {
	return &RequestError{Violations: violations}
}

// Error returns the body when it is a plain string and the standard
// "Bad Request" text otherwise.
func (e *RequestError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if s, ok := e.Body.(string); ok && s != "" {
		return s
	}
	return badRequestText
}

// HTTPStatus reports 400 for callers outside the engine, such as
// middleware that only checks the status. Engine.Normalize ignores it and
// uses its default status instead.
func (*RequestError) HTTPStatus() int { return http.StatusBadRequest }

// Unwrap returns the collaborator's native error.
func (e *RequestError) Unwrap() error { return e.Cause }

func (*RequestError) failure() {}

// GenericError is any failure that is neither a domain nor a request failure.
//
// Status is the status the failure declared about itself; zero means none.
// Payload is a structured message that should reach the caller unchanged;
// nil means the message is just Msg.
type GenericError struct {
	Msg     string
	Status  int
	Payload any
	Cause   error
}

// Error returns Msg.
func (e *GenericError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Msg
}

// Unwrap returns the original error this failure was classified from.
func (e *GenericError) Unwrap() error { return e.Cause }

func (*GenericError) failure() {}
