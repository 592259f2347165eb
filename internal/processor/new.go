package processor

import (
	"github.com/nguyentantai21042004/transcript-flow/internal/export"
	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
	"github.com/nguyentantai21042004/transcript-flow/internal/transcript"
)

// Options control where artifacts go and which ones are produced.
type Options struct {
	APIKey          string
	OutputDir       string
	ArchiveDir      string
	Formats         []export.Format
	Translate       bool
	StripTimestamps bool
	MaxFileBytes    int64
	MaxConcurrent   int
}

type implProcessor struct {
	opts      Options
	connector transcript.Connector
	pipeline  transcript.Pipeline
	logger    logger.Logger
}

// New creates a Processor. Without formats only plain text is written.
func New(opts Options, connector transcript.Connector, pipeline transcript.Pipeline, log logger.Logger) Processor {
	if len(opts.Formats) == 0 {
		opts.Formats = []export.Format{export.FormatText}
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 2
	}
	return &implProcessor{
		opts:      opts,
		connector: connector,
		pipeline:  pipeline,
		logger:    log,
	}
}
