package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nguyentantai21042004/transcript-flow/internal/export"
	"github.com/nguyentantai21042004/transcript-flow/internal/transcript"
)

// writeArtifacts exports both result kinds in every configured format.
func (p *implProcessor) writeArtifacts(ctx context.Context, dir string, res transcript.Result) ([]string, error) {
	var written []string
	for _, format := range p.opts.Formats {
		for _, kind := range []export.Kind{export.KindImproved, export.KindSummary} {
			artifact, err := export.Export(res, kind, format)
			if err != nil {
				return written, err
			}
			path, err := export.WriteTo(dir, artifact)
			if err != nil {
				return written, err
			}
			p.logger.Debug(ctx, "Wrote %s", path)
			written = append(written, path)
		}
	}
	return written, nil
}

// moveToArchived moves a processed transcript out of the input folder so it
// is not picked up again.
func (p *implProcessor) moveToArchived(ctx context.Context, path string) error {
	if p.opts.ArchiveDir == "" {
		return nil
	}
	if err := os.MkdirAll(p.opts.ArchiveDir, 0755); err != nil {
		return fmt.Errorf("create archive dir: %w", err)
	}

	destPath := filepath.Join(p.opts.ArchiveDir, filepath.Base(path))
	p.logger.Info(ctx, "Archiving: %s -> %s", path, destPath)

	if err := os.Rename(path, destPath); err != nil {
		return fmt.Errorf("move to archived: %w", err)
	}
	return nil
}
