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

package grpcx

import (
	"context"
	"errors"
	"strconv"

	"dirpx.dev/envelope"
	"dirpx.dev/envelope/adapter"
	"dirpx.dev/envelope/apis"
	"go.uber.org/zap"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	gstatus "google.golang.org/grpc/status"
	"google.golang.org/protobuf/protoadapt"
	"google.golang.org/protobuf/types/known/structpb"
)

// UnaryServerInterceptor returns a gRPC UnaryServerInterceptor that turns
// handler errors into gRPC statuses carrying the normalized envelope.
//
// The status code is r.ToGRPC(result.Code) and the status message is the
// envelope message. Details, in order:
//   - errdetails.ErrorInfo{Reason: errorCode, Domain: envelope.ErrorDomain}
//     with the HTTP status in metadata;
//   - errdetails.BadRequest when the failure carried field violations;
//   - the envelope itself as a structpb.Struct.
//
// Errors that already carry a gRPC status (and are not envelope failures)
// are returned untouched. Nil arguments select the defaults: the default
// engine, its resolver, and a no-op logger.
func UnaryServerInterceptor(e *envelope.Engine, r apis.Resolver, log *zap.Logger) grpc.UnaryServerInterceptor {
	if e == nil {
		e = envelope.Default()
	}
	if r == nil {
		r = e.Resolver()
	}
	if log == nil {
		log = zap.NewNop()
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		if err == nil {
			return resp, nil
		}

		if _, ok := gstatus.FromError(err); ok && !isEnvelopeFailure(err) {
			log.Debug("grpc status passed through",
				zap.String("method", info.FullMethod), zap.Error(err))
			return nil, err
		}

		f, res := e.NormalizeFailure(err)
		fields := append([]zap.Field{zap.String("method", info.FullMethod)}, adapter.Fields(f, res, err)...)
		if res.Code >= 500 {
			log.Error("grpc request failed", fields...)
		} else {
			log.Warn("grpc request failed", fields...)
		}

		return nil, ToStatus(res, violationsOf(f), r).Err()
	}
}

// ToStatus projects a normalized envelope onto a gRPC status.
//
// If a detail cannot be attached the status is returned with the details
// attached so far.
func ToStatus(res envelope.Result, violations []envelope.FieldViolation, r apis.Resolver) *gstatus.Status {
	if r == nil {
		r = envelope.Default().Resolver()
	}
	st := gstatus.New(r.ToGRPC(res.Code), res.MessageString())

	details := []protoadapt.MessageV1{
		&errdetails.ErrorInfo{
			Reason: res.ErrorCode,
			Domain: envelope.ErrorDomain,
			Metadata: map[string]string{
				envelope.MetadataHTTPStatus: strconv.Itoa(res.Code),
			},
		},
	}
	if br := badRequest(violations); br != nil {
		details = append(details, br)
	}
	if s, err := adapter.ToStruct(res); err == nil {
		details = append(details, s)
	}

	for _, d := range details {
		with, err := st.WithDetails(d)
		if err != nil {
			break
		}
		st = with
	}
	return st
}

// ExtractResult pulls the envelope out of a gRPC error produced by
// UnaryServerInterceptor. Useful in tests and client code.
func ExtractResult(err error) (envelope.Result, bool) {
	if err == nil {
		return envelope.Result{}, false
	}
	st, ok := gstatus.FromError(err)
	if !ok {
		return envelope.Result{}, false
	}
	for _, d := range st.Details() {
		if s, ok := d.(*structpb.Struct); ok {
			return adapter.FromStruct(s), true
		}
	}
	return envelope.Result{}, false
}

func isEnvelopeFailure(err error) bool {
	var de *envelope.DomainError
	var re *envelope.RequestError
	return errors.As(err, &de) || errors.As(err, &re)
}

func violationsOf(f envelope.Failure) []envelope.FieldViolation {
	if re, ok := f.(*envelope.RequestError); ok {
		return re.Violations
	}
	return nil
}

func badRequest(vs []envelope.FieldViolation) *errdetails.BadRequest {
	if len(vs) == 0 {
		return nil
	}
	br := &errdetails.BadRequest{}
	for _, v := range vs {
		if len(v.Constraints) == 0 {
			br.FieldViolations = append(br.FieldViolations, &errdetails.BadRequest_FieldViolation{
				Field:       v.PropertyPath,
				Description: v.String(),
			})
			continue
		}
		for _, c := range v.Constraints {
			br.FieldViolations = append(br.FieldViolations, &errdetails.BadRequest_FieldViolation{
				Field:       v.PropertyPath,
				Reason:      c.Name,
				Description: c.Message,
			})
		}
	}
	return br
}
