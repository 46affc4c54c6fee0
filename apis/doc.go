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

// Package apis defines the small capability interfaces that the envelope
// classifier looks for on arbitrary Go errors, plus the status-resolver
// contract the engine and the transport adapters depend on.
//
// Errors do not have to import the envelope package to be normalized well:
// implementing one of these interfaces is enough to declare a status, a
// machine code, or a structured message. This package must remain
// lightweight; it only contains interfaces.
package apis
