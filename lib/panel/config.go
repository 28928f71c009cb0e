// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package panel

import (
	"context"
	"log/slog"

	"github.com/bureau-foundation/servopanel/lib/schema"
)

// ConfigSource fetches the backend's panel configuration.
type ConfigSource interface {
	Config(ctx context.Context) (schema.PanelConfig, error)
}

// LoadConfig fetches the configuration once. On failure it logs
// "failed to load config" and returns schema.DefaultPanelConfig; the
// panel always starts. Zero servo or scene counts and an empty display
// style in a fetched configuration fall back to the defaults as well.
func LoadConfig(ctx context.Context, source ConfigSource, logger *slog.Logger) schema.PanelConfig {
	config, err := source.Config(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load config", "error", err)
		return schema.DefaultPanelConfig()
	}

	defaults := schema.DefaultPanelConfig()
	if config.NumServos <= 0 {
		config.NumServos = defaults.NumServos
	}
	if config.MaxScenes <= 0 {
		config.MaxScenes = defaults.MaxScenes
	}
	if config.VisualDisplayStyle == "" {
		config.VisualDisplayStyle = defaults.VisualDisplayStyle
	}
	logger.DebugContext(ctx, "loaded panel config",
		"servos", config.NumServos,
		"scenes", config.MaxScenes,
		"style", config.VisualDisplayStyle,
	)
	return config
}
