package transcript

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/language"

	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
)

const tracerName = "github.com/nguyentantai21042004/transcript-flow/internal/transcript"

// Options selects the languages used in prompts.
type Options struct {
	SummaryLanguage language.Tag
	TargetLanguage  language.Tag
}

type implPipeline struct {
	summaryLang language.Tag
	targetLang  language.Tag
	logger      logger.Logger
	tracer      trace.Tracer
}

// New creates a Pipeline. Zero languages default to Italian.
func New(opts Options, log logger.Logger) Pipeline {
	if opts.SummaryLanguage == language.Und {
		opts.SummaryLanguage = language.Italian
	}
	if opts.TargetLanguage == language.Und {
		opts.TargetLanguage = language.Italian
	}
	return &implPipeline{
		summaryLang: opts.SummaryLanguage,
		targetLang:  opts.TargetLanguage,
		logger:      log,
		tracer:      otel.Tracer(tracerName),
	}
}
