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

package code

// Caller input problems.
const (
	Invalid     Code = "invalid"     // malformed input or failed validation
	Missing     Code = "missing"     // required value absent
	Unsupported Code = "unsupported" // known but unsupported option or media type
	TooLarge    Code = "too_large"   // payload exceeds a limit
)

// Resource state.
const (
	NotFound           Code = "not_found"
	Gone               Code = "gone"
	AlreadyExists      Code = "already_exists"
	Conflict           Code = "conflict"
	PreconditionFailed Code = "precondition_failed"
)

// Authentication and authorization.
const (
	Unauthenticated  Code = "unauthenticated"
	PermissionDenied Code = "permission_denied"
)

// Rate limiting.
const (
	RateLimited   Code = "rate_limited"
	QuotaExceeded Code = "quota_exceeded"
)

// Server side and dependencies.
const (
	Internal         Code = "internal"
	NotImplemented   Code = "not_implemented"
	Unavailable      Code = "unavailable"
	DependencyFailed Code = "dependency_failed"
	Timeout          Code = "timeout"
	// Canceled is used when the caller went away before the work completed.
	Canceled Code = "canceled"
)
