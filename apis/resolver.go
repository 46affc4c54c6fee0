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

package apis

import (
	"dirpx.dev/envelope/code"
	"google.golang.org/grpc/codes"
)

// Resolver is an immutable, concurrency-safe view of the status rules.
// It translates between machine codes, HTTP statuses and gRPC codes.
type Resolver interface {
	// HTTPStatus returns the HTTP status for the given machine code.
	HTTPStatus(c code.Code) int

	// FromGRPC returns the HTTP status a downstream gRPC code should surface as.
	FromGRPC(c codes.Code) int

	// ToGRPC returns the gRPC code used when an envelope with the given HTTP
	// status is sent over gRPC.
	ToGRPC(httpStatus int) codes.Code

	// Explain returns a human-readable description of which rule matched.
	Explain(c code.Code) string
}
