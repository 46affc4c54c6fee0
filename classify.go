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
	"context"
	"errors"
	"strconv"

	"dirpx.dev/envelope/apis"
	"dirpx.dev/envelope/code"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"
)

// ErrorDomain is the ErrorInfo domain used when envelopes travel as gRPC
// status details.
const ErrorDomain = "envelope.dirpx.dev"

// MetadataHTTPStatus is the ErrorInfo metadata key holding the envelope's
// HTTP status.
const MetadataHTTPStatus = "http_status"

// Recognizer converts errors of a foreign type (typically a validation
// library's) into a Failure. It returns false for errors it does not know.
type Recognizer func(err error) (Failure, bool)

// Classify maps err onto the closed Failure set using the default engine.
func Classify(err error) Failure {
	return defaultEngine.Classify(err)
}

// Classify maps err onto the closed Failure set. First match wins:
//
//  1. a *DomainError anywhere in the chain;
//  2. a *RequestError (or an already classified *GenericError) anywhere
//     in the chain;
//  3. registered recognizers, in registration order;
//  4. a gRPC status error (BadRequest details become a *RequestError);
//  5. an apis.StatusCoder;
//  6. an apis.CodedError with a canonical code;
//  7. context cancellation and deadline errors;
//  8. an apis.PayloadError with a structured payload;
//  9. anything else, as a plain *GenericError.
//
// A nil error yields an empty *GenericError.
func (e *Engine) Classify(err error) Failure {
	if err == nil {
		return &GenericError{}
	}
	var de *DomainError
	if errors.As(err, &de) && de != nil {
		return de
	}
	var re *RequestError
	if errors.As(err, &re) && re != nil {
		return re
	}
	var ge *GenericError
	if errors.As(err, &ge) && ge != nil {
		return ge
	}

	for _, rec := range e.recognizers {
		if f, ok := rec(err); ok && f != nil {
			return f
		}
	}

	if f, ok := e.fromGRPC(err); ok {
		return f
	}

	var sc apis.StatusCoder
	if errors.As(err, &sc) && validHTTPStatus(sc.HTTPStatus()) {
		return &GenericError{Msg: sc.Error(), Status: sc.HTTPStatus(), Cause: err}
	}

	var ce apis.CodedError
	if errors.As(err, &ce) {
		if c, perr := code.Parse(ce.ErrorCode()); perr == nil {
			return &GenericError{Msg: ce.Error(), Status: e.resolver.HTTPStatus(c), Cause: err}
		}
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &GenericError{Msg: err.Error(), Status: e.resolver.HTTPStatus(code.Timeout), Cause: err}
	case errors.Is(err, context.Canceled):
		return &GenericError{Msg: err.Error(), Status: e.resolver.HTTPStatus(code.Canceled), Cause: err}
	}

	var pe apis.PayloadError
	if errors.As(err, &pe) {
		if p := pe.ErrorPayload(); p != nil {
			if _, isText := p.(string); !isText {
				return &GenericError{Msg: err.Error(), Payload: p, Cause: err}
			}
		}
	}

	return &GenericError{Msg: err.Error(), Cause: err}
}

// fromGRPC classifies errors carrying a gRPC status.
//
// A BadRequest detail turns the failure into a request failure with one
// violation per field. An ErrorInfo detail from another envelope-aware
// service restores the exact HTTP status it sent; otherwise the gRPC code is
// translated by the resolver.
func (e *Engine) fromGRPC(err error) (Failure, bool) {
	st, ok := grpcstatus.FromError(err)
	if !ok || st == nil || st.Code() == codes.OK {
		return nil, false
	}

	httpStatus := e.resolver.FromGRPC(st.Code())
	for _, d := range st.Details() {
		switch det := d.(type) {
		case *errdetails.BadRequest:
			if vs := violationsFromBadRequest(det); len(vs) > 0 {
				return &RequestError{Body: st.Message(), Violations: vs, Cause: err}, true
			}
		case *errdetails.ErrorInfo:
			if det.GetDomain() != ErrorDomain {
				continue
			}
			if s, perr := strconv.Atoi(det.GetMetadata()[MetadataHTTPStatus]); perr == nil && validHTTPStatus(s) {
				httpStatus = s
			}
		}
	}
	return &GenericError{Msg: st.Message(), Status: httpStatus, Cause: err}, true
}

// violationsFromBadRequest groups BadRequest entries by field, keeping the
// order in which fields first appear.
func violationsFromBadRequest(br *errdetails.BadRequest) []FieldViolation {
	var out []FieldViolation
	index := make(map[string]int)
	for _, fv := range br.GetFieldViolations() {
		name := fv.GetReason()
		if name == "" {
			name = "invalid"
		}
		i, seen := index[fv.GetField()]
		if !seen {
			i = len(out)
			index[fv.GetField()] = i
			out = append(out, FieldViolation{PropertyPath: fv.GetField()})
		}
		// An entry without a description still marks the field as invalid.
		if d := fv.GetDescription(); d != "" {
			out[i].Constraints = append(out[i].Constraints, Constraint{Name: name, Message: d})
		}
	}
	return out
}
