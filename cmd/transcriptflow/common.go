package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/nguyentantai21042004/transcript-flow/internal/config"
	"github.com/nguyentantai21042004/transcript-flow/internal/export"
	"github.com/nguyentantai21042004/transcript-flow/internal/gemini"
	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
	"github.com/nguyentantai21042004/transcript-flow/internal/store"
	"github.com/nguyentantai21042004/transcript-flow/internal/tracing"
	"github.com/nguyentantai21042004/transcript-flow/internal/transcript"
)

// app holds everything the commands share.
type app struct {
	cfg       *config.Config
	log       logger.Logger
	connector transcript.Connector
	pipeline  transcript.Pipeline
	closers   []func(context.Context) error
}

// bootstrap loads the environment and config, then wires logging, tracing,
// the Gemini connector and the optional response cache.
func bootstrap(ctx context.Context) (*app, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log := logger.NewWithOptions(logger.Options{
		Level:    cfg.Logging.Level,
		Format:   cfg.Logging.Format,
		FilePath: cfg.Logging.FilePath,
	})

	rt := &app{cfg: cfg, log: log}

	shutdown, err := tracing.Init(ctx, tracing.Options{
		Endpoint:    cfg.Tracing.Endpoint,
		ServiceName: cfg.Tracing.ServiceName,
		Insecure:    cfg.Tracing.Insecure,
	}, log)
	if err != nil {
		return nil, err
	}
	rt.closers = append(rt.closers, shutdown)

	rt.connector = gemini.New(gemini.Options{
		Model:   cfg.Gemini.Model,
		BaseURL: cfg.Gemini.BaseURL,
	}, log)

	if cfg.Cache.Path != "" {
		db, err := store.New(cfg.Cache.Path)
		if err != nil {
			rt.close(ctx)
			return nil, fmt.Errorf("open response cache: %w", err)
		}
		rt.closers = append(rt.closers, func(context.Context) error { return db.Close() })
		rt.connector = store.Wrap(rt.connector, db, cfg.Gemini.Model, log)
		log.Info(ctx, "Response cache enabled: %s", cfg.Cache.Path)
	}

	rt.pipeline = transcript.New(transcript.Options{
		SummaryLanguage: cfg.SummaryLanguage(),
		TargetLanguage:  cfg.TargetLanguage(),
	}, log)

	return rt, nil
}

// loadConfig reads the config file. A missing default file falls back to
// built-in defaults; an explicitly named one must exist.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, fs.ErrNotExist) && !rootCmd.PersistentFlags().Changed("config") {
		cfg = config.Default()
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return nil, err
}

func (rt *app) close(ctx context.Context) {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](ctx); err != nil {
			rt.log.Warn(ctx, "Shutdown: %v", err)
		}
	}
}

func (rt *app) exportFormats() []export.Format {
	formats := make([]export.Format, 0, len(rt.cfg.Export.Formats))
	for _, f := range rt.cfg.Export.Formats {
		formats = append(formats, export.Format(f))
	}
	return formats
}

// batchAPIKey returns the key used by the watch and process commands.
func batchAPIKey() (string, error) {
	key := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	if key == "" {
		return "", fmt.Errorf("GEMINI_API_KEY is not set")
	}
	return key, nil
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(dirs ...string) error {
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}
