package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Failure pairs a transcript with the error that stopped it.
type Failure struct {
	Source string
	Err    error
}

// Summary is the outcome of a batch run, in file order.
type Summary struct {
	Succeeded []Report
	Failed    []Failure
}

// ProcessAll processes every transcript in dir, at most MaxConcurrent at a
// time. A failing file does not stop the others.
func (p *implProcessor) ProcessAll(ctx context.Context, dir string) (Summary, error) {
	files, err := discoverTranscripts(dir)
	if err != nil {
		return Summary{}, fmt.Errorf("discover transcripts: %w", err)
	}
	if len(files) == 0 {
		p.logger.Info(ctx, "No transcripts found in %s", dir)
		return Summary{}, nil
	}

	p.logger.Info(ctx, "Found %d transcripts (max concurrent: %d)", len(files), p.opts.MaxConcurrent)

	reports := make([]Report, len(files))
	errs := make([]error, len(files))
	sem := newSemaphore(p.opts.MaxConcurrent)
	var wg sync.WaitGroup

	for i, path := range files {
		if err := sem.acquire(ctx); err != nil {
			errs[i] = err
			continue
		}
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			defer sem.release()

			p.logger.Info(ctx, "[%d/%d] Processing: %s", i+1, len(files), filepath.Base(path))
			reports[i], errs[i] = p.Process(ctx, path)
			if errs[i] != nil {
				p.logger.Error(ctx, "Failed to process %s: %v", path, errs[i])
			}
		}(i, path)
	}
	wg.Wait()

	var summary Summary
	for i, path := range files {
		if errs[i] != nil {
			summary.Failed = append(summary.Failed, Failure{Source: path, Err: errs[i]})
			continue
		}
		summary.Succeeded = append(summary.Succeeded, reports[i])
	}

	p.logger.Info(ctx, "Batch complete: %d success, %d failed", len(summary.Succeeded), len(summary.Failed))
	return summary, nil
}

// IsTranscript reports whether path has a transcript extension.
func IsTranscript(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".txt"
}

func discoverTranscripts(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if IsTranscript(e.Name()) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}

	sort.Strings(files)
	return files, nil
}
