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
	"dirpx.dev/envelope"
	"go.uber.org/zap"
)

// Fields converts an envelope, the failure it was built from and the
// original error into zap fields for structured logging. Pass the pair
// returned by Engine.NormalizeFailure so the logged kind matches the
// envelope; a nil failure or error is skipped.
//
// Data is never logged: it is caller-facing payload and may be large.
func Fields(f envelope.Failure, res envelope.Result, err error) []zap.Field {
	fields := []zap.Field{
		zap.Int("http_status", res.Code),
		zap.String("error_code", res.ErrorCode),
		zap.String("message", res.MessageString()),
	}
	if f != nil {
		fields = append(fields, zap.String("failure", kind(f)))
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	return fields
}

func kind(f envelope.Failure) string {
	switch f.(type) {
	case *envelope.DomainError:
		return "domain"
	case *envelope.RequestError:
		return "request"
	default:
		return "generic"
	}
}
