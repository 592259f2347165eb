package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/transcript-flow/internal/credential"
	"github.com/nguyentantai21042004/transcript-flow/internal/server"
	"github.com/nguyentantai21042004/transcript-flow/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the session API for the browser UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		rt, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer rt.close(ctx)
		cfg, log := rt.cfg, rt.log

		store, closeStore, err := credentialStore(ctx, rt)
		if err != nil {
			return err
		}
		defer closeStore()

		manager := session.NewManager(session.Deps{
			Store:     store,
			Connector: rt.connector,
			Pipeline:  rt.pipeline,
			Logger:    log,
		}, session.Options{
			StripTimestamps: cfg.Input.StripTimestamps,
			MaxFileBytes:    cfg.Input.MaxFileBytes,
			RequestTimeout:  cfg.Gemini.RequestTimeout,
		}, cfg.Session.TTL)

		srv := server.New(manager, server.Options{
			StaticDir:   cfg.Server.StaticDir,
			BodyLimitMB: cfg.Server.BodyLimitMB,
			CorsOrigins: cfg.Server.CorsOrigins,
		}, log)

		errChan := make(chan error, 1)
		go func() {
			errChan <- srv.Listen(cfg.Server.Addr)
		}()

		log.Info(ctx, "========================================")
		log.Info(ctx, "transcript-flow API is ready on %s", cfg.Server.Addr)
		log.Info(ctx, "Model: %s, translation target: %s", cfg.Gemini.Model, cfg.Language.Target)
		log.Info(ctx, "Session backend: %s (ttl %s)", cfg.Session.Backend, cfg.Session.TTL)
		log.Info(ctx, "========================================")

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

		select {
		case <-sigChan:
			log.Info(ctx, "Shutdown signal received")
		case err := <-errChan:
			if err != nil {
				return fmt.Errorf("http server: %w", err)
			}
		}

		log.Info(ctx, "Shutting down gracefully...")
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

// credentialStore builds the configured session key-value store.
func credentialStore(ctx context.Context, rt *app) (credential.Store, func(), error) {
	cfg := rt.cfg
	if cfg.Session.Backend != "redis" {
		return credential.NewMemoryStore(cfg.Session.TTL), func() {}, nil
	}

	rs, err := credential.NewRedisStore(cfg.Session.RedisURL, cfg.Session.TTL, rt.log)
	if err != nil {
		return nil, nil, err
	}
	if err := rs.Ping(ctx); err != nil {
		rs.Close()
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}
	rt.log.Info(ctx, "Credentials stored in redis")
	return rs, func() { rs.Close() }, nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
