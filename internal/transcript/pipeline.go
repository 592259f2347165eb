package transcript

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/language"

	"github.com/nguyentantai21042004/transcript-flow/internal/apperror"
)

// ImproveAndSummarize improves text and then summarizes the improved version.
// The summary call is only issued after the improvement succeeded.
func (p *implPipeline) ImproveAndSummarize(ctx context.Context, gen Generator, text string) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return Result{}, apperror.ErrMissingInput
	}

	ctx, span := p.tracer.Start(ctx, "transcript.improve_and_summarize")
	defer span.End()
	span.SetAttributes(attribute.Int("transcript.input_chars", len(text)))

	startTime := time.Now()
	p.logger.Info(ctx, "Improving transcript (%d chars)", len(text))

	improved, err := p.generate(ctx, gen, "improve", buildImprovePrompt(text))
	if err != nil {
		return Result{}, p.fail(span, apperror.Upstream("process text", err))
	}

	p.logger.Debug(ctx, "Summarizing improved text (%d chars)", len(improved))

	summary, err := p.generate(ctx, gen, "summarize", buildSummaryPrompt(p.summaryLang, improved))
	if err != nil {
		return Result{}, p.fail(span, apperror.Upstream("process text", err))
	}

	p.logger.Info(ctx, "Transcript processed in %s", time.Since(startTime))
	return Result{ImprovedText: improved, Summary: summary}, nil
}

func (p *implPipeline) TargetLanguage() language.Tag {
	return p.targetLang
}

// generate issues one model call and rejects blank payloads.
func (p *implPipeline) generate(ctx context.Context, gen Generator, step, prompt string) (string, error) {
	ctx, span := p.tracer.Start(ctx, "transcript."+step)
	defer span.End()

	out, err := gen.Generate(ctx, prompt)
	if err != nil {
		p.logger.Warn(ctx, "Model call %s failed: %v", step, err)
		return "", p.fail(span, err)
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return "", p.fail(span, fmt.Errorf("%s: %w", step, apperror.ErrEmptyModelResponse))
	}
	span.SetAttributes(attribute.Int("transcript.output_chars", len(out)))
	return out, nil
}

func (p *implPipeline) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
