package attendance

import (
	"context"
	"io"
)

// SourceLoader delivers raw attendance rows from an external source.
// Implementations wrap failures with ErrSourceUnavailable.
type SourceLoader interface {
	// Load reads every row of the source
	Load(ctx context.Context) ([]RawRow, error)

	// Name identifies the source in logs and metrics
	Name() string
}

// SourceUploader is implemented by loaders whose backing file can be replaced.
type SourceUploader interface {
	// Replace stores a new source file
	Replace(ctx context.Context, file io.Reader, filename string) error
}
