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

// rule refines a partially built result. Rules never see their own earlier
// output; each one reads the failure and returns a new Result.
type rule func(f Failure, res Result) Result

// defaultRules is the priority order. Later rules refine fields set by
// earlier ones.
var defaultRules = []rule{
	domainRule,
	requestBodyRule,
	violationsRule,
	statusRule,
	payloadRule,
}

func domainRule(f Failure, res Result) Result {
	de, ok := f.(*DomainError)
	if !ok || de == nil {
		return res
	}
	res.Code = de.HTTPStatus()
	res.Message = de.Message
	res.ErrorCode = de.Message
	res.Data = de.Data
	return res
}

func requestBodyRule(f Failure, res Result) Result {
	re, ok := f.(*RequestError)
	if !ok || re == nil {
		return res
	}
	tag, msg, ok := composite(re.Body)
	if !ok {
		return res
	}
	if tag != "" {
		res.ErrorCode = tag
	}
	if m, ok := representativeMessage(msg); ok {
		res.Message = m
	}
	return res
}

func violationsRule(f Failure, res Result) Result {
	re, ok := f.(*RequestError)
	if !ok || re == nil || len(re.Violations) == 0 {
		return res
	}
	res.Message = Flatten(re.Violations)
	return res
}

func statusRule(f Failure, res Result) Result {
	ge, ok := f.(*GenericError)
	if !ok || ge == nil || !validHTTPStatus(ge.Status) {
		return res
	}
	res.Code = ge.Status
	res.Message = ge.Msg
	return res
}

func payloadRule(f Failure, res Result) Result {
	ge, ok := f.(*GenericError)
	if !ok || ge == nil || validHTTPStatus(ge.Status) || ge.Payload == nil {
		return res
	}
	res.Message = ge.Payload
	return res
}

// composite unpacks a structured request body into its error tag and its
// message. Plain strings and unknown shapes are not composite.
func composite(body any) (tag string, msg any, ok bool) {
	switch b := body.(type) {
	case Body:
		return b.Error, b.Message, true
	case *Body:
		if b == nil {
			return "", nil, false
		}
		return b.Error, b.Message, true
	case map[string]any:
		if b == nil {
			return "", nil, false
		}
		tag, _ = b["error"].(string)
		return tag, b["message"], true
	default:
		return "", nil, false
	}
}

// representativeMessage picks what a body message contributes to the
// envelope: the first element of a string sequence, a flattened violation
// list, or the value itself. ok is false when the message is absent.
func representativeMessage(msg any) (any, bool) {
	switch m := msg.(type) {
	case nil:
		return nil, false
	case string:
		return m, m != ""
	case []string:
		if len(m) == 0 {
			return nil, false
		}
		return m[0], true
	case []FieldViolation:
		if len(m) == 0 {
			return nil, false
		}
		return Flatten(m), true
	case []any:
		if len(m) == 0 {
			return nil, false
		}
		if s, ok := m[0].(string); ok {
			return s, true
		}
		return m, true
	default:
		return m, true
	}
}
