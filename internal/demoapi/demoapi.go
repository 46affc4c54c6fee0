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

// Package demoapi is a small users API whose routes fail in every way the
// envelope engine classifies. It backs the "serve" command of envelopectl.
package demoapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"sync"

	"dirpx.dev/envelope"
	"dirpx.dev/envelope/httpx"
	"dirpx.dev/envelope/validation"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const maxJSONBodySize = 1 << 20

// UserSchema validates the free-form profile documents of POST /v1/profiles.
const UserSchema = `{
  "type": "object",
  "required": ["name", "age"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "age": {"type": "number", "minimum": 0}
  }
}`

// User is the resource served by the API.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Age   int    `json:"age" validate:"gte=0,lte=150"`
}

// quotaError declares a structured message through ErrorPayload.
type quotaError struct {
	limit, used int
}

func (e quotaError) Error() string { return "quota exceeded" }

func (e quotaError) ErrorPayload() any {
	return map[string]any{"limit": e.limit, "used": e.used}
}

// diskError declares its own status through HTTPStatus.
type diskError struct{}

func (diskError) Error() string   { return "disk full" }
func (diskError) HTTPStatus() int { return http.StatusServiceUnavailable }

// Handler serves the demo routes.
type Handler struct {
	w        httpx.Writer
	validate *validation.Validator
	schema   *validation.Schema

	mu     sync.RWMutex
	users  map[int]User
	emails map[string]int
	nextID int
}

// NewHandler builds a Handler with an engine that also recognizes raw
// validator and jsonschema errors.
func NewHandler(log *zap.Logger) (*Handler, error) {
	schema, err := validation.CompileSchema([]byte(UserSchema))
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	e := envelope.NewEngine(
		envelope.WithRecognizer(validation.Recognize),
		envelope.WithRecognizer(validation.RecognizeSchema),
	)
	return &Handler{
		w:        httpx.Writer{Engine: e, Logger: log},
		validate: validation.New(),
		schema:   schema,
		users:    make(map[int]User),
		emails:   make(map[string]int),
		nextID:   1,
	}, nil
}

// Router returns the chi router with request ids and panic recovery.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(httpx.RequestID)
	r.Use(h.w.Recoverer)

	r.NotFound(func(rw http.ResponseWriter, req *http.Request) {
		h.w.Write(rw, req, envelope.E(http.StatusNotFound, "ROUTE_NOT_FOUND"))
	})
	r.MethodNotAllowed(func(rw http.ResponseWriter, req *http.Request) {
		h.w.Write(rw, req, envelope.E(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED"))
	})

	r.Get("/healthz", h.healthz)

	r.Route("/v1", func(v1 chi.Router) {
		v1.Method(http.MethodPost, "/users", h.w.Handle(h.createUser))
		v1.Method(http.MethodGet, "/users/{id}", h.w.Handle(h.getUser))
		v1.Method(http.MethodPost, "/profiles", h.w.Handle(h.checkProfile))
		v1.Method(http.MethodGet, "/quota", h.w.Handle(h.quota))
		v1.Method(http.MethodGet, "/disk", h.w.Handle(h.disk))
		v1.Method(http.MethodGet, "/upstream", h.w.Handle(h.upstream))
		v1.Get("/panic", func(http.ResponseWriter, *http.Request) {
			panic("demo panic")
		})
	})
	return r
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) error {
	var u User
	if err := decodeJSON(r, &u); err != nil {
		return err
	}
	if err := h.validate.Struct(u); err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if id, taken := h.emails[u.Email]; taken {
		return envelope.E(http.StatusConflict, "EMAIL_TAKEN", envelope.WithDataOption(map[string]any{"id": id}))
	}
	u.ID = h.nextID
	h.nextID++
	h.users[u.ID] = u
	h.emails[u.Email] = u.ID

	writeJSON(w, http.StatusCreated, u)
	return nil
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) error {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return envelope.BadRequest("id must be a number")
	}

	h.mu.RLock()
	u, ok := h.users[id]
	h.mu.RUnlock()
	if !ok {
		return envelope.E(http.StatusNotFound, "USER_NOT_FOUND", envelope.WithDataOption(map[string]any{"id": id}))
	}
	writeJSON(w, http.StatusOK, u)
	return nil
}

func (h *Handler) checkProfile(w http.ResponseWriter, r *http.Request) error {
	b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBodySize))
	if err != nil {
		return envelope.BadRequest(envelope.Body{Error: "BadRequest", Message: []string{err.Error()}})
	}
	if err := h.schema.Validate(b); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *Handler) quota(http.ResponseWriter, *http.Request) error {
	return quotaError{limit: 100, used: 100}
}

func (h *Handler) disk(http.ResponseWriter, *http.Request) error {
	return diskError{}
}

// upstream fails the way a downstream gRPC dependency would.
func (h *Handler) upstream(http.ResponseWriter, *http.Request) error {
	return status.Error(codes.Unavailable, "inventory service unavailable")
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var msg string
		var syn *json.SyntaxError
		switch {
		case errors.Is(err, io.EOF):
			msg = "request body must not be empty"
		case errors.As(err, &syn):
			msg = "request body contains malformed json at offset " + strconv.FormatInt(syn.Offset, 10)
		default:
			msg = err.Error()
		}
		return &envelope.RequestError{
			Body:  envelope.Body{Error: "BadRequest", Message: []string{msg}},
			Cause: err,
		}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
