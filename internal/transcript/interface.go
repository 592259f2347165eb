package transcript

import (
	"context"

	"golang.org/x/text/language"
)

// Generator is a single request/response text-generation call bound to one
// credential and model.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Connector produces a Generator for the given API key.
type Connector interface {
	Connect(ctx context.Context, apiKey string) (Generator, error)
}

// Pipeline improves, summarizes and translates transcripts through a Generator.
type Pipeline interface {
	ImproveAndSummarize(ctx context.Context, gen Generator, text string) (Result, error)
	TranslateBoth(ctx context.Context, gen Generator, improvedText, summary string) (Translation, error)
	TargetLanguage() language.Tag
}
