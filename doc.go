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

// Package envelope turns arbitrary Go errors into one uniform response
// envelope:
//
//	{"code": 404, "message": "USER_NOT_FOUND", "errorCode": "USER_NOT_FOUND", "data": {"id": 5}}
//
// # Failure shapes
//
// The engine understands a closed set of failures (see Failure):
//
//   - *DomainError: raised on purpose by business logic, with a status, a
//     message that doubles as the error tag, and optional data;
//   - *RequestError: invalid caller input, described by a plain string, a
//     composite Body, and/or a list of FieldViolation values;
//   - *GenericError: everything else, optionally with a declared status or a
//     structured message.
//
// Classify maps any error onto that set. Wrapped errors are unwrapped with
// errors.As; gRPC status errors and errors implementing the interfaces in
// package apis are recognized too. Validation libraries plug in through
// recognizers (see package validation).
//
// # Normalization
//
// Engine.Normalize seeds a result with code 400 and the failure's text as
// both message and errorCode, then applies an ordered list of rules. Rules
// refine fields rather than replace each other, so a request failure can take
// its errorCode from a composite body and its message from flattened field
// violations at the same time. Normalize never fails and never panics.
//
// Engines are immutable and safe for concurrent use; Normalize at package
// level uses a default engine.
package envelope
