package transcript

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/nguyentantai21042004/transcript-flow/internal/apperror"
)

// TranslateBoth translates the improved text and the summary concurrently.
// It returns only when both calls resolved; any failure discards both results.
func (p *implPipeline) TranslateBoth(ctx context.Context, gen Generator, improvedText, summary string) (Translation, error) {
	if strings.TrimSpace(improvedText) == "" || strings.TrimSpace(summary) == "" {
		return Translation{}, apperror.ErrMissingInput
	}

	ctx, span := p.tracer.Start(ctx, "transcript.translate_both")
	defer span.End()
	span.SetAttributes(attribute.String("transcript.target_language", p.targetLang.String()))

	p.logger.Info(ctx, "Translating results into %s", LanguageName(p.targetLang))

	var translatedImproved, translatedSummary string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := p.generate(gctx, gen, "translate_improved", buildTranslatePrompt(p.targetLang, improvedText))
		if err != nil {
			return err
		}
		translatedImproved = out
		return nil
	})
	g.Go(func() error {
		out, err := p.generate(gctx, gen, "translate_summary", buildTranslatePrompt(p.targetLang, summary))
		if err != nil {
			return err
		}
		translatedSummary = out
		return nil
	})

	if err := g.Wait(); err != nil {
		return Translation{}, p.fail(span, apperror.Upstream("translate text", err))
	}

	return Translation{
		ImprovedText: translatedImproved,
		Summary:      translatedSummary,
		Language:     p.targetLang,
	}, nil
}
