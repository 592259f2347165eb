package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
	"github.com/nguyentantai21042004/transcript-flow/internal/processor"
	"github.com/nguyentantai21042004/transcript-flow/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Process transcripts dropped into the input folder",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		rt, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer rt.close(ctx)
		cfg, log := rt.cfg, rt.log

		proc, err := newBatchProcessor(rt)
		if err != nil {
			return err
		}

		if err := ensureDirectories(cfg.Paths.Input, cfg.Paths.Output, cfg.Paths.Archived); err != nil {
			return err
		}

		// Files already picked up run to completion on shutdown.
		handler := func(ctx context.Context, path string) error {
			_, err := proc.Process(context.WithoutCancel(ctx), path)
			return err
		}
		w, err := watcher.New(watcher.Options{
			InputDir:      cfg.Paths.Input,
			MaxConcurrent: cfg.Performance.MaxConcurrent,
		}, handler, log)
		if err != nil {
			return err
		}
		defer w.Stop()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

		log.Info(ctx, "========================================")
		log.Info(ctx, "Transcript watcher is ready!")
		log.Info(ctx, "System: %s/%s, CPU cores: %d", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
		log.Info(ctx, "Monitoring: %s", cfg.Paths.Input)
		log.Info(ctx, "Output: %s", cfg.Paths.Output)
		log.Info(ctx, "Formats: %v, translate: %v", cfg.Export.Formats, cfg.Export.Translate)
		log.Info(ctx, "Press Ctrl+C to stop")
		log.Info(ctx, "========================================")

		return runWatcher(ctx, w, sigChan, log)
	},
}

// runWatcher runs w until stop fires or w fails. It returns only after Start
// has returned, so in-flight transcripts are finished first.
func runWatcher(ctx context.Context, w watcher.Watcher, stop <-chan os.Signal, log logger.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- w.Start(ctx)
	}()

	var err error
	select {
	case <-stop:
		log.Info(ctx, "Shutdown signal received")
		log.Info(ctx, "Shutting down gracefully...")
		cancel()
		err = <-done
	case err = <-done:
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error(ctx, "Watcher error: %v", err)
		return fmt.Errorf("watcher: %w", err)
	}
	return nil
}

func newBatchProcessor(rt *app) (processor.Processor, error) {
	key, err := batchAPIKey()
	if err != nil {
		return nil, err
	}
	cfg := rt.cfg
	return processor.New(processor.Options{
		APIKey:          key,
		OutputDir:       cfg.Paths.Output,
		ArchiveDir:      cfg.Paths.Archived,
		Formats:         rt.exportFormats(),
		Translate:       cfg.Export.Translate,
		StripTimestamps: cfg.Input.StripTimestamps,
		MaxFileBytes:    cfg.Input.MaxFileBytes,
		MaxConcurrent:   cfg.Performance.MaxConcurrent,
	}, rt.connector, rt.pipeline, rt.log), nil
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
