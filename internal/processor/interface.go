package processor

import "context"

// Processor runs the transcript pipeline over files on disk.
type Processor interface {
	Process(ctx context.Context, path string) (Report, error)
	ProcessAll(ctx context.Context, dir string) (Summary, error)
}
