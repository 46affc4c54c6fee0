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

package envelope

import "fmt"

// Result is the uniform envelope delivered to the caller.
//
// The JSON form is field-exact: code, message, errorCode and data, with data
// omitted when no payload was supplied.
type Result struct {
	// Code is the HTTP status to send. Always set.
	Code int `json:"code"`

	// Message is usually a string; it may be structured data when the failure
	// carried a structured message or body.
	Message any `json:"message"`

	// ErrorCode is the application error tag, e.g. "USER_NOT_FOUND".
	ErrorCode string `json:"errorCode"`

	// Data is the optional payload of a domain error.
	Data any `json:"data,omitempty"`
}

// MessageString returns Message as text. Structured messages are rendered
// with %v.
func (r Result) MessageString() string {
	switch m := r.Message.(type) {
	case nil:
		return ""
	case string:
		return m
	default:
		return fmt.Sprintf("%v", m)
	}
}
