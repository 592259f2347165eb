package store

import (
	"context"

	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
	"github.com/nguyentantai21042004/transcript-flow/internal/transcript"
)

// Wrap returns a Connector whose generators answer repeated prompts from the
// cache. Only successful, non-blank responses are stored.
func Wrap(next transcript.Connector, s *Store, model string, log logger.Logger) transcript.Connector {
	return &cachingConnector{next: next, store: s, model: model, logger: log}
}

type cachingConnector struct {
	next   transcript.Connector
	store  *Store
	model  string
	logger logger.Logger
}

func (c *cachingConnector) Connect(ctx context.Context, apiKey string) (transcript.Generator, error) {
	gen, err := c.next.Connect(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	return &cachingGenerator{next: gen, conn: c}, nil
}

type cachingGenerator struct {
	next transcript.Generator
	conn *cachingConnector
}

func (g *cachingGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	c := g.conn
	if out, ok, err := c.store.Get(ctx, c.model, prompt); err != nil {
		c.logger.Warn(ctx, "Response cache lookup failed: %v", err)
	} else if ok {
		c.logger.Debug(ctx, "Response cache hit (%d chars)", len(out))
		return out, nil
	}

	out, err := g.next.Generate(ctx, prompt)
	if err != nil || out == "" {
		return out, err
	}
	if err := c.store.Put(ctx, c.model, prompt, out); err != nil {
		c.logger.Warn(ctx, "Response cache write failed: %v", err)
	}
	return out, nil
}
