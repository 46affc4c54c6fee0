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

// StatusCoder is implemented by errors that declare their own HTTP status.
//
// The classifier treats such an error as a generic typed failure: the
// declared status becomes the envelope code and the error text its message.
// Statuses outside 100..599 are ignored.
type StatusCoder interface {
	error

	// HTTPStatus returns the HTTP status for this error.
	HTTPStatus() int
}

// CodedError represents an error classified into a machine-readable code
// such as "not_found" or "unavailable".
//
// The code is resolved into an HTTP status through a Resolver. Codes that do
// not parse as canonical codes (see package code) are ignored and the error
// falls through to the next rule.
type CodedError interface {
	error

	// ErrorCode returns the machine-readable error code.
	ErrorCode() string
}

// PayloadError is implemented by errors whose message is structured data
// rather than text, e.g. a map of per-field problems produced by a legacy
// layer.
//
// The payload reaches the caller as the envelope message, unchanged, unless
// the error also declares a status.
type PayloadError interface {
	error

	// ErrorPayload returns the structured message. Returning nil or a string
	// means "no structured message".
	ErrorPayload() any
}
