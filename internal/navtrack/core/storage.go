package core

import (
	"context"
)

// ArchiveStorage receives archival files once they are closed by rotation.
// In navtrack this is implemented by the S3 adapter.
type ArchiveStorage interface {
	// Upload copies the local file at path to long-term storage.
	Upload(ctx context.Context, path string) error
}
