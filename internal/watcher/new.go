package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
)

// Options configure which files are picked up and how many run at once.
type Options struct {
	InputDir      string
	MaxConcurrent int
	// Extensions lists accepted file extensions, lower-case with the dot.
	Extensions []string
	// SettleDelay is waited after a create event so the writer can finish.
	SettleDelay time.Duration
}

// New creates a Watcher on opts.InputDir.
func New(opts Options, handler EventHandler, log logger.Logger) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(opts.InputDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 2
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = []string{".txt"}
	}
	if opts.SettleDelay == 0 {
		opts.SettleDelay = 500 * time.Millisecond
	}

	return &implWatcher{
		opts:      opts,
		handler:   handler,
		logger:    log,
		watcher:   watcher,
		semaphore: make(chan struct{}, opts.MaxConcurrent),
	}, nil
}
