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

// Command envelopectl serves the demo API, explains status resolution and
// validates JSON documents into envelopes.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"dirpx.dev/envelope"
	"dirpx.dev/envelope/code"
	"dirpx.dev/envelope/internal/demoapi"
	"dirpx.dev/envelope/status"
	"dirpx.dev/envelope/validation"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
)

// errInvalidDocument is returned by validate when the document fails the
// schema; the envelope has already been printed.
var errInvalidDocument = errors.New("document does not match the schema")

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := newApp(log).Run(context.Background(), os.Args); err != nil {
		log.Fatal("envelopectl failed", zap.Error(err))
	}
}

func newApp(log *zap.Logger) *cli.Command {
	return &cli.Command{
		Name:  "envelopectl",
		Usage: "Inspect and exercise the failure envelope",
		Commands: []*cli.Command{
			serveCommand(log),
			explainCommand(),
			validateCommand(),
		},
	}
}

func serveCommand(log *zap.Logger) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the demo API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Value:   ":8080",
				Sources: cli.EnvVars("ENVELOPE_ADDR"),
				Usage:   "HTTP listen address",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			h, err := demoapi.NewHandler(log)
			if err != nil {
				return fmt.Errorf("create handler: %w", err)
			}
			server := &http.Server{
				Addr:              c.String("addr"),
				Handler:           h.Router(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info("listening", zap.String("addr", server.Addr))
				errCh <- server.ListenAndServe()
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			select {
			case <-ctx.Done():
			case sig := <-sigCh:
				log.Info("received signal", zap.String("signal", sig.String()))
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}
}

func explainCommand() *cli.Command {
	return &cli.Command{
		Name:  "explain",
		Usage: "Show how a machine code or gRPC code resolves to an HTTP status",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "code", Usage: "machine code, e.g. not_found"},
			&cli.StringFlag{Name: "grpc", Usage: "gRPC code name or number, e.g. NOT_FOUND"},
		},
		Action: func(_ context.Context, c *cli.Command) error {
			out := c.Root().Writer
			r := status.Default()
			switch {
			case c.String("code") != "" && c.String("grpc") != "":
				return errors.New("explain: --code and --grpc are mutually exclusive")
			case c.String("code") != "":
				cc, err := code.Parse(c.String("code"))
				if err != nil {
					return fmt.Errorf("explain: %w", err)
				}
				_, err = fmt.Fprintln(out, r.Explain(cc))
				return err
			case c.String("grpc") != "":
				gc, err := parseGRPC(c.String("grpc"))
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(out, "grpc=%s(%d) -> http %d\n", strings.ToUpper(gc.String()), int(gc), r.FromGRPC(gc))
				return err
			default:
				return errors.New("explain: one of --code or --grpc is required")
			}
		},
	}
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Validate a JSON document against a JSON Schema and print the envelope",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "schema", Required: true, Usage: "JSON Schema file (draft 7)"},
			&cli.StringFlag{Name: "data", Required: true, Usage: "JSON document to validate"},
		},
		Action: func(_ context.Context, c *cli.Command) error {
			rawSchema, err := os.ReadFile(c.String("schema"))
			if err != nil {
				return fmt.Errorf("read schema: %w", err)
			}
			data, err := os.ReadFile(c.String("data"))
			if err != nil {
				return fmt.Errorf("read data: %w", err)
			}
			sch, err := validation.CompileSchema(rawSchema)
			if err != nil {
				return err
			}
			out := c.Root().Writer
			verr := sch.Validate(data)
			if verr == nil {
				_, err = fmt.Fprintln(out, "ok")
				return err
			}
			if err := printEnvelope(out, envelope.Normalize(verr)); err != nil {
				return err
			}
			return errInvalidDocument
		},
	}
}

func printEnvelope(w io.Writer, res envelope.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// parseGRPC accepts NOT_FOUND, not_found, NotFound or 5.
func parseGRPC(s string) (codes.Code, error) {
	if n, err := strconv.ParseUint(s, 10, 32); err == nil {
		return codes.Code(n), nil
	}
	name := strings.ToUpper(strings.TrimSpace(s))
	for c := codes.OK; c <= codes.Unauthenticated; c++ {
		if strings.ReplaceAll(name, "_", "") == strings.ToUpper(c.String()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("explain: unknown gRPC code %q", s)
}
