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

import "strings"

// Flatten reduces a list of field violations to one message.
//
// For every violation the first constraint message is taken (report order,
// never re-sorted); a violation without constraints contributes its String
// form instead. Segments are joined with "\n" in input order, so the result
// has exactly len(vs)-1 separators. Callers are expected to pass a non-empty
// slice; an empty one yields "".
func Flatten(vs []FieldViolation) string {
	switch len(vs) {
	case 0:
		return ""
	case 1:
		return representative(vs[0])
	}
	var b strings.Builder
	for i, v := range vs {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(representative(v))
	}
	return b.String()
}

func representative(v FieldViolation) string {
	if len(v.Constraints) == 0 {
		return v.String()
	}
	return v.Constraints[0].Message
}
