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

package demoapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelopeBody struct {
	Code      int    `json:"code"`
	Message   any    `json:"message"`
	ErrorCode string `json:"errorCode"`
	Data      any    `json:"data"`
}

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	h, err := NewHandler(nil)
	require.NoError(t, err)
	return h.Router()
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelopeBody) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	var env envelopeBody
	if rec.Code >= 400 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
		assert.Equal(t, rec.Code, env.Code)
	}
	return rec, env
}

func TestUsers_CreateAndGet(t *testing.T) {
	h := newRouter(t)

	rec, _ := do(t, h, http.MethodPost, "/v1/users", `{"name":"Ada","email":"ada@example.com","age":36}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec, _ = do(t, h, http.MethodGet, "/v1/users/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Ada"`)
}

func TestUsers_NotFound(t *testing.T) {
	_, env := do(t, newRouter(t), http.MethodGet, "/v1/users/5", "")
	assert.Equal(t, envelopeBody{
		Code:      404,
		Message:   "USER_NOT_FOUND",
		ErrorCode: "USER_NOT_FOUND",
		Data:      map[string]any{"id": float64(5)},
	}, env)
}

func TestUsers_BadID(t *testing.T) {
	_, env := do(t, newRouter(t), http.MethodGet, "/v1/users/abc", "")
	assert.Equal(t, 400, env.Code)
	assert.Equal(t, "id must be a number", env.Message)
	assert.Equal(t, "id must be a number", env.ErrorCode)
}

func TestUsers_Validation(t *testing.T) {
	_, env := do(t, newRouter(t), http.MethodPost, "/v1/users", `{"name":"","email":"nope","age":36}`)
	assert.Equal(t, 400, env.Code)
	assert.Equal(t, "name must not be empty\nemail must be an email", env.Message)
	assert.Equal(t, "Bad Request", env.ErrorCode)
}

func TestUsers_MalformedBody(t *testing.T) {
	_, env := do(t, newRouter(t), http.MethodPost, "/v1/users", `{"name":`)
	assert.Equal(t, 400, env.Code)
	assert.Equal(t, "BadRequest", env.ErrorCode)

	_, env = do(t, newRouter(t), http.MethodPost, "/v1/users", ``)
	assert.Equal(t, "request body must not be empty", env.Message)
}

func TestUsers_EmailTaken(t *testing.T) {
	h := newRouter(t)
	body := `{"name":"Ada","email":"ada@example.com","age":36}`
	do(t, h, http.MethodPost, "/v1/users", body)

	_, env := do(t, h, http.MethodPost, "/v1/users", body)
	assert.Equal(t, 409, env.Code)
	assert.Equal(t, "EMAIL_TAKEN", env.ErrorCode)
	assert.Equal(t, map[string]any{"id": float64(1)}, env.Data)
}

func TestProfiles_Schema(t *testing.T) {
	h := newRouter(t)

	rec, _ := do(t, h, http.MethodPost, "/v1/profiles", `{"name":"Ada","age":36}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	_, env := do(t, h, http.MethodPost, "/v1/profiles", `{"age":-1}`)
	assert.Equal(t, 400, env.Code)
	assert.Equal(t, "age: must be >= 0 but found -1\nname is required", env.Message)
}

func TestGenericFailures(t *testing.T) {
	h := newRouter(t)

	_, env := do(t, h, http.MethodGet, "/v1/disk", "")
	assert.Equal(t, envelopeBody{Code: 503, Message: "disk full", ErrorCode: "disk full"}, env)

	_, env = do(t, h, http.MethodGet, "/v1/quota", "")
	assert.Equal(t, 400, env.Code)
	assert.Equal(t, map[string]any{"limit": float64(100), "used": float64(100)}, env.Message)
	assert.Equal(t, "quota exceeded", env.ErrorCode)

	_, env = do(t, h, http.MethodGet, "/v1/upstream", "")
	assert.Equal(t, 503, env.Code)
	assert.Equal(t, "inventory service unavailable", env.Message)
}

func TestPanicAndRouting(t *testing.T) {
	h := newRouter(t)

	_, env := do(t, h, http.MethodGet, "/v1/panic", "")
	assert.Equal(t, 500, env.Code)
	assert.Equal(t, "internal server error", env.Message)

	_, env = do(t, h, http.MethodGet, "/nowhere", "")
	assert.Equal(t, "ROUTE_NOT_FOUND", env.ErrorCode)

	_, env = do(t, h, http.MethodDelete, "/v1/disk", "")
	assert.Equal(t, 405, env.Code)
}
