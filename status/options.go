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
	"dirpx.dev/envelope/code"
	"google.golang.org/grpc/codes"
)

// Option configures a Resolver at build time.
type Option func(*builder)

// WithHTTPStatus registers an explicit HTTP status for a machine code. It
// takes precedence over the library default for that code.
func WithHTTPStatus(c code.Code, http int) Option {
	return func(b *builder) { b.httpOverride[c] = http }
}

// WithGRPCTranslation changes the HTTP status a downstream gRPC code
// surfaces as.
func WithGRPCTranslation(gc codes.Code, http int) Option {
	return func(b *builder) { b.fromGRPC[gc] = http }
}

// WithGRPCCode changes the gRPC code used when an envelope with the given
// HTTP status is sent over gRPC.
func WithGRPCCode(http int, gc codes.Code) Option {
	return func(b *builder) { b.toGRPC[http] = gc }
}

// WithFallback replaces the status used for unknown machine codes and
// unknown gRPC codes.
func WithFallback(http int) Option {
	return func(b *builder) { b.fallbackHTTP = http }
}
