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
	"fmt"
	"net/http"
	"reflect"
	"sync"
	"testing"

	"dirpx.dev/envelope/code"
	"dirpx.dev/envelope/status"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"
)

type statusErr struct {
	msg    string
	status int
}

func (e statusErr) Error() string   { return e.msg }
func (e statusErr) HTTPStatus() int { return e.status }

type codedErr struct {
	msg  string
	code string
}

func (e codedErr) Error() string     { return e.msg }
func (e codedErr) ErrorCode() string { return e.code }

type payloadErr struct {
	msg     string
	payload any
}

func (e payloadErr) Error() string     { return e.msg }
func (e payloadErr) ErrorPayload() any { return e.payload }

func assertResult(t *testing.T, got, want Result) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("result mismatch\n got: %#v\nwant: %#v", got, want)
	}
}

func TestNormalize_Scenario1_Domain(t *testing.T) {
	got := Normalize(E(http.StatusNotFound, "USER_NOT_FOUND", WithDataOption(map[string]any{"id": 5})))
	assertResult(t, got, Result{
		Code:      404,
		Message:   "USER_NOT_FOUND",
		ErrorCode: "USER_NOT_FOUND",
		Data:      map[string]any{"id": 5},
	})
}

func TestNormalize_Scenario2_BodyWithMessageList(t *testing.T) {
	got := Normalize(BadRequest(Body{
		Error:   "BadRequest",
		Message: []string{"name must not be empty", "age must be a number"},
	}))
	assertResult(t, got, Result{Code: 400, Message: "name must not be empty", ErrorCode: "BadRequest"})
}

func TestNormalize_Scenario3_Violations(t *testing.T) {
	got := Normalize(Invalid(
		violation("name", "isNotEmpty", "name must not be empty"),
		violation("age", "isNumber", "age must be a number"),
	))
	if got.Message != "name must not be empty\nage must be a number" {
		t.Fatalf("message = %q", got.Message)
	}
	if got.Code != 400 {
		t.Fatalf("code = %d", got.Code)
	}
}

func TestNormalize_Scenario4_GenericWithStatus(t *testing.T) {
	got := Normalize(statusErr{msg: "disk full", status: 503})
	assertResult(t, got, Result{Code: 503, Message: "disk full", ErrorCode: "disk full"})
}

func TestNormalize_PlainError(t *testing.T) {
	for _, msg := range []string{"boom", "", "with\nnewline"} {
		got := Normalize(errors.New(msg))
		assertResult(t, got, Result{Code: 400, Message: msg, ErrorCode: msg})
	}
}

func TestNormalize_DomainProperty(t *testing.T) {
	for _, s := range []int{400, 401, 403, 404, 409, 422, 429, 500, 503} {
		data := []int{s}
		e := E(s, fmt.Sprintf("E_%d", s), WithDataOption(data))
		got := Normalize(e)
		if got.Code != e.HTTPStatus() || got.Message != e.Message || got.ErrorCode != e.Message {
			t.Fatalf("status %d: %#v", s, got)
		}
		if !reflect.DeepEqual(got.Data, data) {
			t.Fatalf("status %d: data %#v", s, got.Data)
		}
	}
}

func TestNormalize_DomainWrapped(t *testing.T) {
	got := Normalize(fmt.Errorf("service: %w", E(http.StatusConflict, "EMAIL_TAKEN")))
	assertResult(t, got, Result{Code: 409, Message: "EMAIL_TAKEN", ErrorCode: "EMAIL_TAKEN"})
}

func TestNormalize_RequestBodies(t *testing.T) {
	cases := []struct {
		name string
		body any
		want Result
	}{
		{
			name: "plain string keeps defaults",
			body: "missing id",
			want: Result{Code: 400, Message: "missing id", ErrorCode: "missing id"},
		},
		{
			name: "pointer body with string message",
			body: &Body{Error: "Bad Request", Message: "unexpected token"},
			want: Result{Code: 400, Message: "unexpected token", ErrorCode: "Bad Request"},
		},
		{
			name: "decoded JSON map",
			body: map[string]any{"error": "BadRequest", "message": []any{"first", "second"}},
			want: Result{Code: 400, Message: "first", ErrorCode: "BadRequest"},
		},
		{
			name: "empty tag keeps default errorCode",
			body: Body{Message: []string{"only"}},
			want: Result{Code: 400, Message: "only", ErrorCode: "Bad Request"},
		},
		{
			name: "empty sequence keeps default message",
			body: Body{Error: "BadRequest", Message: []string{}},
			want: Result{Code: 400, Message: "Bad Request", ErrorCode: "BadRequest"},
		},
		{
			name: "structured message passes through",
			body: Body{Error: "BadRequest", Message: map[string]any{"field": "x"}},
			want: Result{Code: 400, Message: map[string]any{"field": "x"}, ErrorCode: "BadRequest"},
		},
		{
			name: "non-string sequence passes through",
			body: map[string]any{"error": "BadRequest", "message": []any{1, 2}},
			want: Result{Code: 400, Message: []any{1, 2}, ErrorCode: "BadRequest"},
		},
		{
			name: "nil pointer body",
			body: (*Body)(nil),
			want: Result{Code: 400, Message: "Bad Request", ErrorCode: "Bad Request"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assertResult(t, Normalize(BadRequest(tc.body)), tc.want)
		})
	}
}

func TestNormalize_BodyTagAndViolationsCombine(t *testing.T) {
	re := &RequestError{
		Body:       Body{Error: "ValidationFailed", Message: []string{"ignored"}},
		Violations: []FieldViolation{violation("name", "isNotEmpty", "name must not be empty")},
	}
	assertResult(t, Normalize(re), Result{
		Code:      400,
		Message:   "name must not be empty",
		ErrorCode: "ValidationFailed",
	})
}

func TestNormalize_ViolationsInsideBody(t *testing.T) {
	got := Normalize(BadRequest(Body{
		Error: "BadRequest",
		Message: []FieldViolation{
			violation("a", "x", "a is bad"),
			violation("b", "y", "b is bad"),
		},
	}))
	if got.Message != "a is bad\nb is bad" || got.ErrorCode != "BadRequest" {
		t.Fatalf("got %#v", got)
	}
}

func TestNormalize_GenericPayload(t *testing.T) {
	payload := map[string]any{"retryAfter": 30}
	got := Normalize(payloadErr{msg: "slow down", payload: payload})
	assertResult(t, got, Result{Code: 400, Message: payload, ErrorCode: "slow down"})

	// A declared status wins over the structured message.
	ge := &GenericError{Msg: "busy", Status: 503, Payload: payload}
	assertResult(t, Normalize(ge), Result{Code: 503, Message: "busy", ErrorCode: "busy"})

	// String payloads are not structured.
	got = Normalize(payloadErr{msg: "plain", payload: "text"})
	assertResult(t, got, Result{Code: 400, Message: "plain", ErrorCode: "plain"})
}

func TestNormalize_CodedErrors(t *testing.T) {
	got := Normalize(codedErr{msg: "no such user", code: "not_found"})
	assertResult(t, got, Result{Code: 404, Message: "no such user", ErrorCode: "no such user"})

	// Non-canonical codes are ignored.
	got = Normalize(codedErr{msg: "weird", code: "?!"})
	assertResult(t, got, Result{Code: 400, Message: "weird", ErrorCode: "weird"})
}

func TestNormalize_InvalidDeclaredStatusIgnored(t *testing.T) {
	got := Normalize(statusErr{msg: "odd", status: 42})
	assertResult(t, got, Result{Code: 400, Message: "odd", ErrorCode: "odd"})
}

func TestNormalize_ContextErrors(t *testing.T) {
	if got := Normalize(context.DeadlineExceeded); got.Code != http.StatusGatewayTimeout {
		t.Fatalf("deadline: %#v", got)
	}
	if got := Normalize(fmt.Errorf("query: %w", context.Canceled)); got.Code != http.StatusRequestTimeout {
		t.Fatalf("canceled: %#v", got)
	}
}

func TestNormalize_Nil(t *testing.T) {
	// The message is always set, even when it is empty.
	assertResult(t, Normalize(nil), Result{Code: 400, Message: "", ErrorCode: ""})
}

func TestNormalize_GRPCStatus(t *testing.T) {
	err := grpcstatus.Error(codes.NotFound, "user 5 not found")
	assertResult(t, Normalize(err), Result{Code: 404, Message: "user 5 not found", ErrorCode: "user 5 not found"})
}

func TestNormalize_GRPCBadRequest(t *testing.T) {
	st, err := grpcstatus.New(codes.InvalidArgument, "invalid request").WithDetails(&errdetails.BadRequest{
		FieldViolations: []*errdetails.BadRequest_FieldViolation{
			{Field: "name", Reason: "required", Description: "name must not be empty"},
			{Field: "age", Reason: "number", Description: "age must be a number"},
			{Field: "name", Reason: "min", Description: "name is too short"},
		},
	})
	if err != nil {
		t.Fatalf("WithDetails: %v", err)
	}

	f := Classify(st.Err())
	re, ok := f.(*RequestError)
	if !ok {
		t.Fatalf("want *RequestError, got %T", f)
	}
	if len(re.Violations) != 2 || len(re.Violations[0].Constraints) != 2 {
		t.Fatalf("violations not grouped by field: %#v", re.Violations)
	}
	assertResult(t, Normalize(st.Err()), Result{
		Code:      400,
		Message:   "name must not be empty\nage must be a number",
		ErrorCode: "invalid request",
	})
}

func TestNormalize_GRPCErrorInfoRestoresStatus(t *testing.T) {
	st, err := grpcstatus.New(codes.Aborted, "EMAIL_TAKEN").WithDetails(&errdetails.ErrorInfo{
		Reason:   "EMAIL_TAKEN",
		Domain:   ErrorDomain,
		Metadata: map[string]string{MetadataHTTPStatus: "422"},
	})
	if err != nil {
		t.Fatalf("WithDetails: %v", err)
	}
	if got := Normalize(st.Err()); got.Code != 422 {
		t.Fatalf("code = %d, want 422", got.Code)
	}

	foreign, err := grpcstatus.New(codes.Aborted, "x").WithDetails(&errdetails.ErrorInfo{
		Domain:   "example.com",
		Metadata: map[string]string{MetadataHTTPStatus: "422"},
	})
	if err != nil {
		t.Fatalf("WithDetails: %v", err)
	}
	if got := Normalize(foreign.Err()); got.Code != http.StatusConflict {
		t.Fatalf("foreign domain must not override; code = %d", got.Code)
	}
}

func TestEngine_Options(t *testing.T) {
	r, err := status.New(status.WithHTTPStatus(code.NotFound, http.StatusGone))
	if err != nil {
		t.Fatalf("status.New: %v", err)
	}
	type legacy struct{ error }
	e := NewEngine(
		WithResolver(r),
		WithDefaultStatus(http.StatusUnprocessableEntity),
		WithDefaultStatus(42), // ignored
		WithRecognizer(func(err error) (Failure, bool) {
			var l legacy
			if errors.As(err, &l) {
				return BadRequest(Body{Error: "Legacy", Message: l.Error()}), true
			}
			return nil, false
		}),
	)

	if got := e.Normalize(codedErr{msg: "gone", code: "not_found"}); got.Code != http.StatusGone {
		t.Fatalf("resolver override ignored: %#v", got)
	}
	if got := e.Normalize(errors.New("x")); got.Code != http.StatusUnprocessableEntity {
		t.Fatalf("default status ignored: %#v", got)
	}
	got := e.Normalize(legacy{errors.New("old style")})
	assertResult(t, got, Result{Code: http.StatusUnprocessableEntity, Message: "old style", ErrorCode: "Legacy"})

	if Default().Resolver() == e.Resolver() {
		t.Fatal("engines must not share resolvers")
	}
}

func TestEngine_DefaultStatusAppliesToRequestFailures(t *testing.T) {
	e := NewEngine(WithDefaultStatus(http.StatusUnprocessableEntity))
	re := BadRequest("x")

	assertResult(t, e.Normalize(re), Result{Code: http.StatusUnprocessableEntity, Message: "x", ErrorCode: "x"})
	assertResult(t, Normalize(re), Result{Code: http.StatusBadRequest, Message: "x", ErrorCode: "x"})
	if re.HTTPStatus() != http.StatusBadRequest {
		t.Fatalf("HTTPStatus() = %d", re.HTTPStatus())
	}
}

func TestEngine_NormalizeFailure(t *testing.T) {
	type legacy struct{ error }
	e := NewEngine(WithRecognizer(func(err error) (Failure, bool) {
		var l legacy
		if errors.As(err, &l) {
			return BadRequest(l.Error()), true
		}
		return nil, false
	}))

	f, res := e.NormalizeFailure(legacy{errors.New("bad input")})
	if _, ok := f.(*RequestError); !ok {
		t.Fatalf("want *RequestError, got %T", f)
	}
	assertResult(t, res, e.Normalize(legacy{errors.New("bad input")}))

	// The default engine has no recognizer for the same error.
	if _, ok := Classify(legacy{errors.New("bad input")}).(*GenericError); !ok {
		t.Fatal("default engine must classify as generic")
	}
}

func TestEngine_PanickingRecognizer(t *testing.T) {
	e := NewEngine(WithRecognizer(func(error) (Failure, bool) { panic("boom") }))
	assertResult(t, e.Normalize(errors.New("x")), Result{
		Code:      400,
		Message:   unclassifiable,
		ErrorCode: unclassifiable,
	})
}

func TestEngine_PanickingRuleYieldsSeed(t *testing.T) {
	e := NewEngine()
	e.rules = append([]rule{func(Failure, Result) Result { panic("boom") }}, defaultRules...)
	got := e.Normalize(E(http.StatusNotFound, "NF"))
	assertResult(t, got, Result{Code: 400, Message: "NF", ErrorCode: "NF"})
}

func TestClassify_Variants(t *testing.T) {
	de := E(404, "NF")
	re := Invalid()
	ge := &GenericError{Msg: "g"}

	if Classify(de) != Failure(de) {
		t.Fatal("domain error must classify as itself")
	}
	if Classify(fmt.Errorf("wrap: %w", re)) != Failure(re) {
		t.Fatal("request error must be found through wrapping")
	}
	if Classify(ge) != Failure(ge) {
		t.Fatal("generic error must classify as itself")
	}
	if _, ok := Classify(errors.New("x")).(*GenericError); !ok {
		t.Fatal("plain error must be generic")
	}
}

// Concurrency smoke test: the default engine is shared and immutable.
func TestNormalize_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				msg := fmt.Sprintf("E_%d_%d", i, j)
				got := Normalize(E(http.StatusConflict, msg))
				if got.Code != http.StatusConflict || got.ErrorCode != msg {
					t.Errorf("got %#v", got)
					return
				}
			}
		}(i)
	}
	wg.Wait()
}

func BenchmarkNormalize_Domain(b *testing.B) {
	err := E(http.StatusNotFound, "USER_NOT_FOUND")
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Normalize(err)
	}
}

func BenchmarkNormalize_Violations(b *testing.B) {
	err := Invalid(
		violation("name", "isNotEmpty", "name must not be empty"),
		violation("age", "isNumber", "age must be a number"),
	)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Normalize(err)
	}
}
