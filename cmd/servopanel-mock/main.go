// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Servopanel-mock is an in-memory stand-in for the servo panel
// backend, for demos and tests. It serves the HTTP API and the
// Server-Sent Events stream on --listen and, with --socket, the same
// events as CBOR frames on a Unix socket.
//
// Positions are clamped and nudged the way the hardware backend does,
// scenes live in memory, and nothing drives real servos.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/servopanel/cmd/servopanel/cli"
	"github.com/bureau-foundation/servopanel/lib/config"
	"github.com/bureau-foundation/servopanel/lib/mockbackend"
	"github.com/bureau-foundation/servopanel/lib/schema"
	"github.com/bureau-foundation/servopanel/lib/servo"
	"github.com/bureau-foundation/servopanel/lib/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, os.Args[1:])
	stop()
	os.Exit(cli.Report(os.Stderr, err))
}

// options are the parsed command-line flags.
type options struct {
	listen      string
	socket      string
	servos      int
	scenes      int
	style       string
	names       []string
	rawValues   bool
	nudgeStep   int
	positions   servo.Range
	logLevel    string
	showVersion bool
}

func parseFlags(args []string) (*options, error) {
	parsed := &options{positions: servo.DefaultRange()}
	flagSet := pflag.NewFlagSet("servopanel-mock", pflag.ContinueOnError)
	flagSet.StringVar(&parsed.listen, "listen", "127.0.0.1:5000", "HTTP listen address")
	flagSet.StringVar(&parsed.socket, "socket", "", "also serve CBOR push events on this Unix socket")
	flagSet.IntVar(&parsed.servos, "servos", 8, "number of servos")
	flagSet.IntVar(&parsed.scenes, "scenes", 8, "number of scene slots")
	flagSet.StringVar(&parsed.style, "style", string(schema.DisplayBar), "indicator style: bar, rectangle, percentage or all")
	flagSet.StringSliceVar(&parsed.names, "names", nil, "comma-separated servo names, in servo order")
	flagSet.BoolVar(&parsed.rawValues, "show-raw", false, "ask the panel to show native positions")
	flagSet.IntVar(&parsed.nudgeStep, "nudge-step", servo.DefaultNudgeStep, "position change of one nudge")
	flagSet.IntVar(&parsed.positions.Min, "min", servo.DefaultMinPosition, "lowest native position")
	flagSet.IntVar(&parsed.positions.Max, "max", servo.DefaultMaxPosition, "highest native position")
	flagSet.StringVar(&parsed.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	flagSet.BoolVar(&parsed.showVersion, "version", false, "print version information and exit")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "Usage:\n  servopanel-mock [flags]\n\nFlags:\n%s", flagSet.FlagUsages())
			return nil, &cli.ExitError{Code: 0}
		}
		return nil, cli.Validation("%w", err)
	}
	if flagSet.NArg() > 0 {
		return nil, cli.Validation("unexpected argument: %s", flagSet.Arg(0))
	}
	if parsed.servos <= 0 || parsed.scenes <= 0 {
		return nil, cli.Validation("--servos and --scenes must be positive")
	}
	if parsed.nudgeStep <= 0 {
		return nil, cli.Validation("--nudge-step must be positive")
	}
	if err := parsed.positions.Validate(); err != nil {
		return nil, cli.Validation("--min/--max: %w", err)
	}
	if schema.DisplayStyle(parsed.style).Normalize() != schema.DisplayStyle(parsed.style) {
		return nil, cli.Validation("unknown --style %q", parsed.style)
	}
	if _, err := config.ParseLevel(parsed.logLevel); err != nil {
		return nil, cli.Validation("--log-level: %w", err)
	}
	return parsed, nil
}

// backendOptions builds the fake backend's configuration.
func (parsed *options) backendOptions(logger *slog.Logger) mockbackend.Options {
	panelConfig := schema.PanelConfig{
		NumServos:          parsed.servos,
		MaxScenes:          parsed.scenes,
		ShowRawValues:      parsed.rawValues,
		VisualDisplayStyle: schema.DisplayStyle(parsed.style),
	}
	if len(parsed.names) > 0 {
		panelConfig.ServoNames = schema.ServoNames{}
		for index, name := range parsed.names {
			if name = strings.TrimSpace(name); name != "" {
				panelConfig.ServoNames[index] = name
			}
		}
	}
	return mockbackend.Options{
		Config:    panelConfig,
		Range:     parsed.positions,
		NudgeStep: parsed.nudgeStep,
		Logger:    logger,
	}
}

func run(ctx context.Context, args []string) error {
	parsed, err := parseFlags(args)
	if err != nil {
		return err
	}
	if parsed.showVersion {
		fmt.Printf("servopanel-mock %s\n", version.Full())
		return nil
	}

	level, _ := config.ParseLevel(parsed.logLevel)
	logger := cli.NewCommandLogger(level)
	backend := mockbackend.New(parsed.backendOptions(logger))

	listener, err := net.Listen("tcp", parsed.listen)
	if err != nil {
		return cli.Validation("listening on %s: %w", parsed.listen, err)
	}
	server := &http.Server{
		Handler:           backend,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 2)
	go func() {
		if err := server.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			errs <- fmt.Errorf("http server: %w", err)
		}
	}()

	if parsed.socket != "" {
		os.Remove(parsed.socket)
		socketListener, err := net.Listen("unix", parsed.socket)
		if err != nil {
			server.Close()
			return cli.Validation("listening on %s: %w", parsed.socket, err)
		}
		defer os.Remove(parsed.socket)
		go func() {
			if err := backend.ServeEvents(ctx, socketListener); err != nil {
				errs <- fmt.Errorf("event socket: %w", err)
			}
		}()
	}

	logger.Info("mock backend running",
		"url", "http://"+listener.Addr().String(),
		"socket", parsed.socket,
		"servos", parsed.servos,
		"scenes", parsed.scenes,
	)

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errs:
	}
	logger.Info("shutting down")

	backend.DropSubscribers()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", "error", err)
	}
	return runErr
}
