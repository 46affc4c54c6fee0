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

// DomainError is a failure raised deliberately by business logic.
//
// It carries:
//   - StatusCode: the HTTP status the caller should receive;
//   - Message: human text that also serves as the application error tag;
//   - Data: optional structured payload passed through to the envelope verbatim;
//   - Cause: wrapped underlying error, never serialized.
//
// A DomainError is treated as immutable once returned. All WithX helpers
// return a shallow copy.
type DomainError struct {
	// StatusCode is the declared HTTP status, e.g. 404 or 409.
	StatusCode int

	// Message is both the human-readable text and, by convention, the
	// errorCode of the resulting envelope ("USER_NOT_FOUND").
	Message string

	// Data is copied into the envelope as-is. It must be JSON-marshalable.
	Data any

	// Cause holds the wrapped underlying error (if any) for errors.Is / errors.As.
	Cause error
}

// E is a convenience constructor for DomainError.
//
// Usage:
//
//	return envelope.E(http.StatusNotFound, "USER_NOT_FOUND",
//	    envelope.WithDataOption(map[string]any{"id": id}),
//	)
func E(status int, msg string, opts ...Option) *DomainError {
	e := &DomainError{StatusCode: status, Message: msg}
	for _, opt := range opts {
		e = opt(e)
	}
	return e
}

// Error implements the built-in error interface. It returns Message unchanged,
// so the error string and the envelope tag are always identical.
func (e *DomainError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

// HTTPStatus returns the declared status. A zero or out-of-range status
// degrades to 400, the envelope default.
func (e *DomainError) HTTPStatus() int {
	if e == nil || !validHTTPStatus(e.StatusCode) {
		return http.StatusBadRequest
	}
	return e.StatusCode
}

// Unwrap returns the underlying cause.
func (e *DomainError) Unwrap() error { return e.Cause }

// WithMessage returns a shallow copy of e with a replaced message (and tag).
func (e *DomainError) WithMessage(msg string) *DomainError {
	cp := *e
	cp.Message = msg
	return &cp
}

// WithData returns a shallow copy of e carrying data as payload.
func (e *DomainError) WithData(data any) *DomainError {
	cp := *e
	cp.Data = data
	return &cp
}

// WithCause returns a shallow copy of e with the given cause attached.
// If err is nil, e is returned unchanged.
func (e *DomainError) WithCause(err error) *DomainError {
	if err == nil {
		return e
	}
	cp := *e
	cp.Cause = err
	return &cp
}

func (*DomainError) failure() {}

func validHTTPStatus(s int) bool {
	return s >= 100 && s <= 599
}
