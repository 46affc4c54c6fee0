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

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"dirpx.dev/envelope"
	"dirpx.dev/envelope/internal/demoapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp(zap.NewNop())
	app.Writer = &out
	app.ErrWriter = io.Discard
	err := app.Run(context.Background(), append([]string{"envelopectl"}, args...))
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestExplain_Code(t *testing.T) {
	out, err := run(t, "explain", "--code", "not_found")
	require.NoError(t, err)
	assert.Equal(t, "code=\"not_found\"\nhttp: source=default -> 404\ngrpc: NOTFOUND(5)\n", out)
}

func TestExplain_GRPC(t *testing.T) {
	out, err := run(t, "explain", "--grpc", "RESOURCE_EXHAUSTED")
	require.NoError(t, err)
	assert.Equal(t, "grpc=RESOURCEEXHAUSTED(8) -> http 429\n", out)
}

func TestExplain_Errors(t *testing.T) {
	_, err := run(t, "explain")
	require.Error(t, err)

	_, err = run(t, "explain", "--code", "x", "--grpc", "5")
	require.Error(t, err)

	_, err = run(t, "explain", "--code", "Not Valid!")
	require.Error(t, err)
}

func TestParseGRPC(t *testing.T) {
	for _, in := range []string{"NOT_FOUND", "not_found", "NotFound", "5"} {
		c, err := parseGRPC(in)
		require.NoError(t, err, in)
		assert.Equal(t, codes.NotFound, c, in)
	}
	_, err := parseGRPC("NOPE")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	schema := writeFile(t, "schema.json", demoapi.UserSchema)

	out, err := run(t, "validate", "--schema", schema, "--data", writeFile(t, "ok.json", `{"name":"Ada","age":36}`))
	require.NoError(t, err)
	assert.Equal(t, "ok\n", out)

	out, err = run(t, "validate", "--schema", schema, "--data", writeFile(t, "bad.json", `{"name":"Ada"}`))
	require.ErrorIs(t, err, errInvalidDocument)

	var res envelope.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 400, res.Code)
	assert.Equal(t, "age is required", res.Message)
}

func TestValidate_MissingFile(t *testing.T) {
	_, err := run(t, "validate", "--schema", "/does/not/exist.json", "--data", "/nope.json")
	require.Error(t, err)
}
