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

package httpx

import (
	"encoding/json"
	"net/http"

	"dirpx.dev/envelope"
	"dirpx.dev/envelope/adapter"
	"go.uber.org/zap"
)

// panicMessage is the only text a client sees when a handler panics.
const panicMessage = "internal server error"

// HandlerFunc is an http.HandlerFunc that may fail. A non-nil error is
// normalized and written by Writer.Handle.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// Writer is a thin adapter that turns any error into an HTTP envelope
// response using the provided engine.
//
// The zero value is usable: a nil Engine selects envelope.Default and a nil
// Logger discards log output.
type Writer struct {
	Engine *envelope.Engine
	Logger *zap.Logger
}

// Write normalizes err and writes the envelope as JSON with Result.Code as
// the response status. A nil err writes nothing.
//
// No redaction is performed here: message, errorCode and data are exposed
// exactly as normalization produced them. The error itself is only logged.
func (w Writer) Write(rw http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}
	f, res := w.engine().NormalizeFailure(err)
	w.log(r, f, res, err)
	writeJSON(rw, res)
}

// Handle adapts h to an http.Handler that writes an envelope when h fails.
// If h already wrote a response, the error is logged but nothing else is
// sent.
func (w Writer) Handle(h HandlerFunc) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		tw := &trackingWriter{ResponseWriter: rw}
		if err := h(tw, r); err != nil {
			w.finish(tw, r, err)
		}
	})
}

// Recoverer is middleware that converts a handler panic into a 500 envelope
// with a fixed message. The panic value is logged, never serialized. If the
// handler had already started its response, the panic is only logged.
func (w Writer) Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		tw := &trackingWriter{ResponseWriter: rw}
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			w.logger().Error("panic recovered",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("request_id", FromContext(r.Context())),
				zap.Bool("response_started", tw.wrote),
				zap.Any("panic", rec),
				zap.Stack("stack"),
			)
			w.finish(tw, r, &envelope.GenericError{Msg: panicMessage, Status: http.StatusInternalServerError})
		}()
		next.ServeHTTP(tw, r)
	})
}

// finish writes the envelope for err unless the response already started,
// in which case it only logs.
func (w Writer) finish(tw *trackingWriter, r *http.Request, err error) {
	f, res := w.engine().NormalizeFailure(err)
	w.log(r, f, res, err)
	if !tw.wrote {
		writeJSON(tw, res)
	}
}

func (w Writer) engine() *envelope.Engine {
	if w.Engine == nil {
		return envelope.Default()
	}
	return w.Engine
}

func (w Writer) logger() *zap.Logger {
	if w.Logger == nil {
		return zap.NewNop()
	}
	return w.Logger
}

func (w Writer) log(r *http.Request, f envelope.Failure, res envelope.Result, err error) {
	fields := make([]zap.Field, 0, 8)
	if r != nil {
		fields = append(fields,
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", FromContext(r.Context())),
		)
	}
	fields = append(fields, adapter.Fields(f, res, err)...)
	if res.Code >= http.StatusInternalServerError {
		w.logger().Error("request failed", fields...)
		return
	}
	w.logger().Warn("request failed", fields...)
}

func writeJSON(rw http.ResponseWriter, res envelope.Result) {
	b, err := json.Marshal(res)
	if err != nil {
		// Data could not be encoded; send the envelope without it.
		res.Data = nil
		if _, ok := res.Message.(string); !ok {
			res.Message = res.MessageString()
		}
		b, _ = json.Marshal(res)
	}
	rw.Header().Set("Content-Type", "application/json")
	rw.Header().Set("X-Content-Type-Options", "nosniff")
	rw.WriteHeader(res.Code)
	_, _ = rw.Write(b)
}

// trackingWriter records whether the handler started a response.
type trackingWriter struct {
	http.ResponseWriter
	wrote bool
}

func (t *trackingWriter) WriteHeader(code int) {
	t.wrote = true
	t.ResponseWriter.WriteHeader(code)
}

func (t *trackingWriter) Write(b []byte) (int, error) {
	t.wrote = true
	return t.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (t *trackingWriter) Unwrap() http.ResponseWriter { return t.ResponseWriter }
