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
	"errors"
	"fmt"
	"strings"

	"dirpx.dev/envelope/apis"
	"dirpx.dev/envelope/code"
	"google.golang.org/grpc/codes"
)

// ErrInvalidStatus is returned by New when an option carries an HTTP status
// outside 100..599.
var ErrInvalidStatus = errors.New("status: invalid HTTP status")

var _ apis.Resolver = (*Resolver)(nil)

// Resolver is an immutable set of status translations. The zero value is
// not usable; build one with New or use Default.
type Resolver struct {
	// httpOverride holds caller-registered statuses per machine code.
	httpOverride map[code.Code]int

	// httpDefault holds the library statuses per machine code. It is a copy
	// of defaultHTTP so Explain can tell a default hit from a fallback.
	httpDefault map[code.Code]int

	// fromGRPC holds gRPC -> HTTP translations (defaults merged with options).
	fromGRPC map[codes.Code]int

	// toGRPC holds HTTP -> gRPC translations (defaults merged with options).
	toGRPC map[int]codes.Code

	// fallbackHTTP answers codes and gRPC codes found in no table. It is 500
	// unless changed with WithFallback.
	fallbackHTTP int
}

// New builds a Resolver from the library defaults and opts.
//
// The returned Resolver is immutable and safe for concurrent use. It owns
// every map it reads from: neither the package defaults nor anything an
// option captured is referenced after New returns.
//
// Build process:
//
//  1. Collect options into a builder. Options only record values.
//  2. Validate every code and status they mention: override codes must be
//     canonical, every HTTP status must lie in 100..599.
//  3. Copy defaults, then options on top, into fresh maps owned by the
//     snapshot. Option values win over defaults for the same key.
//
// An error wraps ErrInvalidStatus or code.ErrCodeInvalid and names the
// offending entry. No partial Resolver is returned.
func New(opts ...Option) (*Resolver, error) {
	// (1) Record options. Later options for the same key replace earlier ones.
	b := newBuilder()
	for _, opt := range opts {
		opt(b)
	}

	// (2) Validate before allocating the snapshot.
	if !validHTTP(b.fallbackHTTP) {
		return nil, fmt.Errorf("%w: fallback %d", ErrInvalidStatus, b.fallbackHTTP)
	}
	for c, v := range b.httpOverride {
		if err := code.Validate(c); err != nil {
			return nil, fmt.Errorf("status: override for %q: %w", c, err)
		}
		if !validHTTP(v) {
			return nil, fmt.Errorf("%w: %d for code %q", ErrInvalidStatus, v, c)
		}
	}
	for gc, v := range b.fromGRPC {
		if !validHTTP(v) {
			return nil, fmt.Errorf("%w: %d for gRPC code %s", ErrInvalidStatus, v, gc)
		}
	}
	for v := range b.toGRPC {
		if !validHTTP(v) {
			return nil, fmt.Errorf("%w: %d in gRPC code mapping", ErrInvalidStatus, v)
		}
	}

	// (3) Freeze into fresh maps, sized for defaults plus options.
	r := &Resolver{
		httpOverride: make(map[code.Code]int, len(b.httpOverride)),
		httpDefault:  make(map[code.Code]int, len(defaultHTTP)),
		fromGRPC:     make(map[codes.Code]int, len(defaultFromGRPC)+len(b.fromGRPC)),
		toGRPC:       make(map[int]codes.Code, len(defaultToGRPC)+len(b.toGRPC)),
		fallbackHTTP: b.fallbackHTTP,
	}
	for k, v := range b.httpOverride {
		r.httpOverride[k] = v
	}
	for k, v := range defaultHTTP {
		r.httpDefault[k] = v
	}
	for k, v := range defaultFromGRPC {
		r.fromGRPC[k] = v
	}
	for k, v := range b.fromGRPC {
		r.fromGRPC[k] = v
	}
	for k, v := range defaultToGRPC {
		r.toGRPC[k] = v
	}
	for k, v := range b.toGRPC {
		r.toGRPC[k] = v
	}
	return r, nil
}

// defaultResolver is built once from the library tables. A build error here
// means a broken table and panics at init.
var defaultResolver = func() *Resolver {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}()

// Default returns the shared resolver built from library defaults only.
func Default() *Resolver { return defaultResolver }

// HTTPStatus resolves the HTTP status for a machine code.
//
// Resolution order:
//  1. explicit override;
//  2. library default;
//  3. fallback.
func (r *Resolver) HTTPStatus(c code.Code) int {
	if v, ok := r.httpOverride[c]; ok {
		return v
	}
	if v, ok := r.httpDefault[c]; ok {
		return v
	}
	return r.fallbackHTTP
}

// FromGRPC resolves the HTTP status for a gRPC code.
func (r *Resolver) FromGRPC(gc codes.Code) int {
	if v, ok := r.fromGRPC[gc]; ok {
		return v
	}
	return r.fallbackHTTP
}

// ToGRPC resolves the gRPC code for an HTTP status. Statuses without an
// entry fall back by class: 4xx -> InvalidArgument, 5xx -> Internal,
// anything else -> Unknown.
func (r *Resolver) ToGRPC(httpStatus int) codes.Code {
	if v, ok := r.toGRPC[httpStatus]; ok {
		return v
	}
	switch {
	case httpStatus >= 400 && httpStatus < 500:
		return codes.InvalidArgument
	case httpStatus >= 500 && httpStatus < 600:
		return codes.Internal
	default:
		return codes.Unknown
	}
}

// Explain describes how HTTPStatus resolved c and what gRPC code the result
// travels as.
//
// Example output:
//
//	code="not_found"
//	http: source=default -> 404
//	grpc: NOTFOUND(5)
func (r *Resolver) Explain(c code.Code) string {
	var b strings.Builder
	_, _ = fmt.Fprintf(&b, "code=%q\n", c)

	src := "fallback"
	if _, ok := r.httpOverride[c]; ok {
		src = "override"
	} else if _, ok := r.httpDefault[c]; ok {
		src = "default"
	}
	st := r.HTTPStatus(c)
	_, _ = fmt.Fprintf(&b, "http: source=%s -> %d\n", src, st)

	gc := r.ToGRPC(st)
	_, _ = fmt.Fprintf(&b, "grpc: %s(%d)", strings.ToUpper(gc.String()), int(gc))
	return b.String()
}

func validHTTP(s int) bool {
	return s >= 100 && s <= 599
}
