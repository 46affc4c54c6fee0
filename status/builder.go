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

// builder collects option values before New validates and freezes them.
//
// Values stay raw here; validation happens once, in New, so an Option is a
// plain assignment and can never fail on its own. The builder is discarded
// after New; the Resolver keeps copies, never the builder's maps.
type builder struct {
	// httpOverride holds per-code HTTP statuses set with WithHTTPStatus.
	httpOverride map[code.Code]int

	// fromGRPC holds gRPC -> HTTP translations set with WithGRPCTranslation.
	fromGRPC map[codes.Code]int

	// toGRPC holds HTTP -> gRPC translations set with WithGRPCCode.
	toGRPC map[int]codes.Code

	// fallbackHTTP is used for codes nobody knows about.
	fallbackHTTP int
}

// newBuilder returns an empty builder. Only the fallback is seeded: the
// default tables are merged in New, not here, so options cannot mutate them.
func newBuilder() *builder {
	return &builder{
		// overrides are usually few; let the maps grow on demand
		httpOverride: make(map[code.Code]int),
		fromGRPC:     make(map[codes.Code]int),
		toGRPC:       make(map[int]codes.Code),
		fallbackHTTP: http.StatusInternalServerError,
	}
}
