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

// Package status resolves transport statuses for the envelope engine and its
// adapters.
//
// # Overview
//
// Three translations are needed around a normalized failure:
//
//  1. machine code -> HTTP status, for generic errors that declare a code
//     (apis.CodedError) instead of a status;
//  2. gRPC code -> HTTP status, for failures that arrive from a downstream
//     gRPC call;
//  3. HTTP status -> gRPC code, for the gRPC adapter sending an envelope.
//
// A Resolver is an immutable snapshot: library defaults are seeded, options
// are applied, and the result is frozen. It is safe to share across
// goroutines.
//
// # Resolution model
//
// For machine codes the order is:
//
//  1. explicit override registered with WithHTTPStatus;
//  2. library default for the code;
//  3. fallback (500 unless changed with WithFallback).
//
// gRPC translations follow the same override -> default -> fallback order.
//
// # Building a resolver
//
//	r, err := status.New(
//	    status.WithHTTPStatus(code.Canceled, 499),
//	    status.WithGRPCTranslation(codes.FailedPrecondition, http.StatusConflict),
//	)
//	if err != nil {
//	    // invalid status in an option
//	}
//	r.HTTPStatus(code.NotFound) // 404
//
// # Diagnostics
//
// Explain returns a short trace of which tier resolved a code. It is meant
// for humans, not for parsing.
package status
