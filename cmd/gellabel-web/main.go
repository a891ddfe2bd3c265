// Command gellabel-web serves the gel labeling upload page.
package main

import (
	"context"
	"log/slog"
	"os"

	"gel-labeler/internal/cmdutil"
	"gel-labeler/internal/config"
	"gel-labeler/internal/httpserver"
	"gel-labeler/internal/labeler"
	"gel-labeler/internal/version"
	"gel-labeler/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := newLogger(cfg)
	logger.Info("starting gellabel-web",
		slog.String("version", version.String()),
		slog.String("renderer", cfg.Renderer),
		slog.Int("max_rows", cfg.MaxRows),
	)

	r, err := cmdutil.NewRenderer(cfg.Renderer, cfg.Style())
	if err != nil {
		logger.Error("failed to create renderer", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handler := web.New(
		labeler.New(r, labeler.WithMaxRows(cfg.MaxRows)),
		web.WithLogger(logger),
		web.WithMaxUpload(cfg.MaxUploadBytes()),
	)

	srv := httpserver.New(
		httpserver.WithAddr(cfg.Addr),
		httpserver.WithTimeouts(cfg.ReadTimeout, cfg.WriteTimeout),
		httpserver.WithShutdownTimeout(cfg.ShutdownTimeout),
		httpserver.WithLogger(logger),
	)
	if err := srv.Run(context.Background(), handler); err != nil {
		logger.Error("server stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	lvl, _ := cfg.Level()
	opts := &slog.HandlerOptions{Level: lvl}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
