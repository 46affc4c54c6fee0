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

// Package code defines the machine-readable codes a generic Go error can
// declare about itself (via apis.CodedError) so that the envelope engine can
// pick an HTTP status for it.
//
// Codes are short, lowercase, underscore-separated identifiers such as
// "not_found" or "unavailable". They are never copied into the envelope's
// errorCode field; they only drive status resolution.
package code
