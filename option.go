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

// Option is a functional option for constructing a DomainError with E.
type Option func(*DomainError) *DomainError

// WithDataOption attaches a payload on construction.
func WithDataOption(data any) Option {
	return func(e *DomainError) *DomainError {
		return e.WithData(data)
	}
}

// WithCauseOption attaches a cause on construction.
func WithCauseOption(err error) Option {
	return func(e *DomainError) *DomainError {
		return e.WithCause(err)
	}
}
