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

package status

import (
	"net/http"

	"dirpx.dev/envelope/code"
	"google.golang.org/grpc/codes"
)

// defaultHTTP maps the built-in machine codes to HTTP statuses.
var defaultHTTP = map[code.Code]int{
	// 4xx: caller input.
	code.Invalid:     http.StatusBadRequest,
	code.Missing:     http.StatusBadRequest,
	code.Unsupported: http.StatusUnsupportedMediaType,
	code.TooLarge:    http.StatusRequestEntityTooLarge,

	// 4xx: resource state.
	code.NotFound:           http.StatusNotFound,
	code.Gone:               http.StatusGone,
	code.AlreadyExists:      http.StatusConflict,
	code.Conflict:           http.StatusConflict,
	code.PreconditionFailed: http.StatusPreconditionFailed,

	// AuthN / AuthZ.
	code.Unauthenticated:  http.StatusUnauthorized,
	code.PermissionDenied: http.StatusForbidden,

	// Rate / quota.
	code.RateLimited:   http.StatusTooManyRequests,
	code.QuotaExceeded: http.StatusTooManyRequests,

	// 5xx.
	code.Internal:         http.StatusInternalServerError,
	code.NotImplemented:   http.StatusNotImplemented,
	code.Unavailable:      http.StatusServiceUnavailable,
	code.DependencyFailed: http.StatusBadGateway,
	code.Timeout:          http.StatusGatewayTimeout,

	// Canceled requests are reported as timeouts; 499 is available via override.
	code.Canceled: http.StatusRequestTimeout,
}

// defaultFromGRPC is the conventional gRPC -> HTTP table (the same one
// grpc-gateway uses).
var defaultFromGRPC = map[codes.Code]int{
	codes.OK:                 http.StatusOK,
	codes.Canceled:           499,
	codes.Unknown:            http.StatusInternalServerError,
	codes.InvalidArgument:    http.StatusBadRequest,
	codes.DeadlineExceeded:   http.StatusGatewayTimeout,
	codes.NotFound:           http.StatusNotFound,
	codes.AlreadyExists:      http.StatusConflict,
	codes.PermissionDenied:   http.StatusForbidden,
	codes.ResourceExhausted:  http.StatusTooManyRequests,
	codes.FailedPrecondition: http.StatusBadRequest,
	codes.Aborted:            http.StatusConflict,
	codes.OutOfRange:         http.StatusBadRequest,
	codes.Unimplemented:      http.StatusNotImplemented,
	codes.Internal:           http.StatusInternalServerError,
	codes.Unavailable:        http.StatusServiceUnavailable,
	codes.DataLoss:           http.StatusInternalServerError,
	codes.Unauthenticated:    http.StatusUnauthorized,
}

// defaultToGRPC maps the HTTP statuses an envelope commonly carries to gRPC
// codes. Statuses missing here fall back by class (see Resolver.ToGRPC).
var defaultToGRPC = map[int]codes.Code{
	http.StatusBadRequest:            codes.InvalidArgument,
	http.StatusUnauthorized:          codes.Unauthenticated,
	http.StatusForbidden:             codes.PermissionDenied,
	http.StatusNotFound:              codes.NotFound,
	http.StatusRequestTimeout:        codes.DeadlineExceeded,
	http.StatusConflict:              codes.Aborted,
	http.StatusGone:                  codes.NotFound,
	http.StatusPreconditionFailed:    codes.FailedPrecondition,
	http.StatusRequestEntityTooLarge: codes.InvalidArgument,
	http.StatusUnsupportedMediaType:  codes.InvalidArgument,
	http.StatusTooManyRequests:       codes.ResourceExhausted,
	499:                              codes.Canceled,
	http.StatusInternalServerError:   codes.Internal,
	http.StatusNotImplemented:        codes.Unimplemented,
	http.StatusBadGateway:            codes.Unavailable,
	http.StatusServiceUnavailable:    codes.Unavailable,
	http.StatusGatewayTimeout:        codes.DeadlineExceeded,
}
