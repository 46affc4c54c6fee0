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

package adapter

import (
	"encoding/json"
	"fmt"

	"dirpx.dev/envelope"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// ToStruct converts an envelope into a protobuf Struct with the same four
// JSON fields, so it can travel as a gRPC status detail.
//
// The conversion goes through the envelope's JSON form: Data and structured
// messages must therefore be JSON-marshalable.
func ToStruct(res envelope.Result) (*structpb.Struct, error) {
	b, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("adapter: marshal envelope: %w", err)
	}
	s := &structpb.Struct{}
	if err := protojson.Unmarshal(b, s); err != nil {
		return nil, fmt.Errorf("adapter: envelope to struct: %w", err)
	}
	return s, nil
}

// FromStruct rebuilds an envelope from its Struct form.
//
// Numbers come back as float64 inside Data and structured messages, as with
// any JSON round trip. A nil Struct yields the zero Result.
func FromStruct(s *structpb.Struct) envelope.Result {
	if s == nil {
		return envelope.Result{}
	}
	m := s.AsMap()
	var res envelope.Result
	if c, ok := m["code"].(float64); ok {
		res.Code = int(c)
	}
	res.Message = m["message"]
	res.ErrorCode, _ = m["errorCode"].(string)
	res.Data = m["data"]
	return res
}
