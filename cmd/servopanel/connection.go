// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/servopanel/cmd/servopanel/cli"
	"github.com/bureau-foundation/servopanel/lib/config"
	"github.com/bureau-foundation/servopanel/lib/panel"
	"github.com/bureau-foundation/servopanel/lib/panelclient"
)

// connectionFlags are the flags every backend command shares. They
// override the settings file.
type connectionFlags struct {
	configPath string
	server     string
	events     string
	logLevel   string
	logOutput  string

	flagSet *pflag.FlagSet
}

func (flags *connectionFlags) addFlags(flagSet *pflag.FlagSet) {
	flags.flagSet = flagSet
	flagSet.StringVar(&flags.configPath, "config", "", "settings file (.yaml, .yml, .json, .jsonc; default $"+config.EnvironmentVariable+")")
	flagSet.StringVar(&flags.server, "server", "", "backend base URL (default "+config.DefaultServer+")")
	flagSet.StringVar(&flags.events, "events", "", "push channel endpoint: an SSE URL or unix:///path/to/socket")
	flagSet.Duration("timeout", 0, "per-request timeout (default from settings, 5s)")
	flagSet.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flagSet.StringVar(&flags.logOutput, "log-output", "", "also write JSON log records to this file")
}

// overrides returns the flags that were given on the command line.
func (flags *connectionFlags) overrides() (config.Overrides, error) {
	overrides := config.Overrides{
		Server:    flags.server,
		Events:    flags.events,
		LogLevel:  flags.logLevel,
		LogOutput: flags.logOutput,
	}
	if flags.flagSet != nil && flags.flagSet.Changed("timeout") {
		timeout, err := flags.flagSet.GetDuration("timeout")
		if err != nil {
			return overrides, err
		}
		overrides.RequestTimeout = &timeout
	}
	return overrides, nil
}

// loadConfig loads the settings file and applies the flags.
func (flags *connectionFlags) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, cli.Validation("%w", err).
			WithHint("Check the settings file, or unset $" + config.EnvironmentVariable + " to use the defaults.")
	}
	overrides, err := flags.overrides()
	if err != nil {
		return nil, cli.Validation("%w", err)
	}
	if err := cfg.Apply(overrides); err != nil {
		return nil, cli.Validation("%w", err)
	}
	return cfg, nil
}

// session is an open connection for a one-shot command.
type session struct {
	config *config.Config
	client *panelclient.Client
	logger *slog.Logger
	close  func()
}

// open loads the configuration and builds the command logger and the
// backend client. The caller must call close.
func (flags *connectionFlags) open(command string) (*session, error) {
	cfg, err := flags.loadConfig()
	if err != nil {
		return nil, err
	}
	level, _ := config.ParseLevel(cfg.Log.Level)

	logger := cli.NewCommandLogger(level)
	closeLog := func() {}
	if cfg.Log.Output != "" {
		fileHandler, closeFile, err := openFileLogHandler(cfg.Log.Output)
		if err != nil {
			return nil, cli.Validation("cannot open log file %s: %w", cfg.Log.Output, err)
		}
		logger = slog.New(fanoutHandler{logger.Handler(), fileHandler})
		closeLog = closeFile
	}
	logger = logger.With("command", command)

	client, err := newClient(cfg, logger)
	if err != nil {
		closeLog()
		return nil, err
	}
	return &session{config: cfg, client: client, logger: logger, close: closeLog}, nil
}

func newClient(cfg *config.Config, logger *slog.Logger) (*panelclient.Client, error) {
	client, err := panelclient.New(cfg.Server,
		panelclient.WithTimeout(cfg.RequestTimeout.Std()),
		panelclient.WithLogger(logger),
	)
	if err != nil {
		return nil, cli.Validation("%w", err)
	}
	return client, nil
}

// dispatcher builds panel state and a dispatcher over the session's
// client. The panel configuration is fetched first, falling back to
// the defaults when the backend does not answer.
func (s *session) dispatcher(ctx context.Context, prompter panel.Prompter) *panel.Dispatcher {
	panelConfig := panel.LoadConfig(ctx, s.client, s.logger)
	state := panel.NewState(panelConfig, s.config.Position, panel.NewLog(panel.LogCapacity), s.logger)
	return panel.NewDispatcher(s.client, state, prompter, s.logger)
}

// classify maps backend and policy errors to categorized CLI errors.
func (s *session) classify(err error) error {
	if err == nil {
		return nil
	}
	var toolError *cli.ToolError
	if errors.As(err, &toolError) {
		return err
	}

	switch {
	case errors.Is(err, panel.ErrSceneLocked):
		return (&cli.ToolError{Category: cli.CategoryForbidden, Err: err}).
			WithHint("Pass --config-mode to write a locked scene.")
	case errors.Is(err, panel.ErrConfigModeRequired):
		return (&cli.ToolError{Category: cli.CategoryForbidden, Err: err}).
			WithHint("Scene metadata can only be edited with --config-mode.")
	case errors.Is(err, panel.ErrSceneNotFound), panelclient.IsNotFound(err):
		return &cli.ToolError{Category: cli.CategoryNotFound, Err: err}
	case errors.Is(err, panel.ErrAborted):
		return &cli.ToolError{Category: cli.CategoryValidation, Err: err}
	}

	var apiError *panelclient.APIError
	if errors.As(err, &apiError) {
		if apiError.Status >= http.StatusBadRequest && apiError.Status < http.StatusInternalServerError {
			return &cli.ToolError{Category: cli.CategoryValidation, Err: err}
		}
		return &cli.ToolError{Category: cli.CategoryTransient, Err: err}
	}
	if errors.Is(err, context.Canceled) {
		return &cli.ExitError{Code: 130}
	}
	return (&cli.ToolError{Category: cli.CategoryTransient, Err: err}).
		WithHint("Is the backend running at " + s.config.Server + "? Set it with --server.")
}

// openFileLogHandler creates a JSON handler writing to path, truncating
// it. Levels are written with panel level names.
func openFileLogHandler(path string) (slog.Handler, func(), error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	handler := slog.NewJSONHandler(file, &slog.HandlerOptions{
		Level:       slog.LevelDebug,
		ReplaceAttr: panel.ReplaceLevelAttr,
	})
	return handler, func() { file.Close() }, nil
}

// fanoutHandler sends each record to every handler enabled for its
// level.
type fanoutHandler []slog.Handler

func (handlers fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (handlers fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, handler := range handlers {
		if handler.Enabled(ctx, record.Level) {
			errs = append(errs, handler.Handle(ctx, record.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (handlers fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := make(fanoutHandler, len(handlers))
	for index, handler := range handlers {
		derived[index] = handler.WithAttrs(attrs)
	}
	return derived
}

func (handlers fanoutHandler) WithGroup(name string) slog.Handler {
	derived := make(fanoutHandler, len(handlers))
	for index, handler := range handlers {
		derived[index] = handler.WithGroup(name)
	}
	return derived
}
