// Package transcripttest provides in-memory Generator and Connector fakes.
package transcripttest

import (
	"context"
	"strings"
	"sync"

	"github.com/nguyentantai21042004/transcript-flow/internal/transcript"
)

// Step names a prompt by the pipeline step that produced it.
type Step string

const (
	StepImprove   Step = "improve"
	StepSummarize Step = "summarize"
	StepTranslate Step = "translate"
	StepUnknown   Step = "unknown"
)

// StepOf classifies a prompt.
func StepOf(prompt string) Step {
	switch {
	case strings.HasPrefix(prompt, "Improve the following text"):
		return StepImprove
	case strings.HasPrefix(prompt, "Write a very short and concise summary"):
		return StepSummarize
	case strings.HasPrefix(prompt, "Translate the following text"):
		return StepTranslate
	default:
		return StepUnknown
	}
}

// Body returns the text after the prompt separator.
func Body(prompt string) string {
	if i := strings.LastIndex(prompt, "---\n\n"); i >= 0 {
		return prompt[i+len("---\n\n"):]
	}
	return prompt
}

// Generator records prompts and answers through Respond. Without Respond it
// echoes the prompt body prefixed with the step name.
type Generator struct {
	Respond func(ctx context.Context, prompt string) (string, error)

	mu    sync.Mutex
	calls []string
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.calls = append(g.calls, prompt)
	g.mu.Unlock()

	if g.Respond != nil {
		return g.Respond(ctx, prompt)
	}
	return string(StepOf(prompt)) + ": " + Body(prompt), nil
}

// Calls returns a copy of every prompt seen so far.
func (g *Generator) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

// Steps returns the step of every recorded prompt in call order.
func (g *Generator) Steps() []Step {
	calls := g.Calls()
	steps := make([]Step, len(calls))
	for i, c := range calls {
		steps[i] = StepOf(c)
	}
	return steps
}

// Connector hands out Gen for any key and records the keys it saw.
type Connector struct {
	Gen transcript.Generator
	Err error

	mu   sync.Mutex
	keys []string
}

func (c *Connector) Connect(ctx context.Context, apiKey string) (transcript.Generator, error) {
	c.mu.Lock()
	c.keys = append(c.keys, apiKey)
	c.mu.Unlock()

	if c.Err != nil {
		return nil, c.Err
	}
	return c.Gen, nil
}

// Keys returns every key passed to Connect.
func (c *Connector) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.keys...)
}
