package processor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/transcript-flow/internal/apperror"
	"github.com/nguyentantai21042004/transcript-flow/internal/input"
	"github.com/nguyentantai21042004/transcript-flow/internal/normalizer"
)

// Report describes one processed transcript.
type Report struct {
	Source     string
	Outputs    []string
	Translated bool
	Duration   time.Duration
}

// Process improves and summarizes one transcript file, optionally translates
// the results, writes every artifact and archives the source.
func (p *implProcessor) Process(ctx context.Context, path string) (Report, error) {
	startTime := time.Now()
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting transcript processing: %s", path)
	p.logger.Info(ctx, "========================================")

	// Step 1: Read and normalize
	raw, err := input.ReadPath(path, p.opts.MaxFileBytes)
	if err != nil {
		return Report{}, fmt.Errorf("read transcript: %w", err)
	}
	text := normalizer.New(p.opts.StripTimestamps).Normalize(raw)
	if text == "" {
		return Report{}, fmt.Errorf("%s: %w", path, apperror.ErrMissingInput)
	}

	// Step 2: Improve and summarize
	gen, err := p.connector.Connect(ctx, p.opts.APIKey)
	if err != nil {
		return Report{}, fmt.Errorf("connect: %w", err)
	}
	res, err := p.pipeline.ImproveAndSummarize(ctx, gen, text)
	if err != nil {
		return Report{}, err
	}

	// Step 3: Translate
	if p.opts.Translate {
		tr, err := p.pipeline.TranslateBoth(ctx, gen, res.ImprovedText, res.Summary)
		if err != nil {
			return Report{}, err
		}
		res = res.WithTranslation(tr)
	}

	// Step 4: Write artifacts
	outDir := filepath.Join(p.opts.OutputDir, name)
	outputs, err := p.writeArtifacts(ctx, outDir, res)
	if err != nil {
		return Report{}, fmt.Errorf("write artifacts: %w", err)
	}

	// Step 5: Move the source out of the input folder
	if err := p.moveToArchived(ctx, path); err != nil {
		p.logger.Warn(ctx, "Failed to move original to archived folder: %v", err)
	}

	report := Report{
		Source:     path,
		Outputs:    outputs,
		Translated: res.IsTranslated(),
		Duration:   time.Since(startTime),
	}

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Processing completed successfully!")
	p.logger.Info(ctx, "Output folder: %s (%d files)", outDir, len(outputs))
	p.logger.Info(ctx, "Processing time: %s", report.Duration)
	p.logger.Info(ctx, "========================================")

	return report, nil
}
