package contracts

import "context"

// PayloadArchive stores raw scraped payloads for later inspection.
// Archival is advisory: failures are logged by callers, never surfaced
// as pipeline errors.
type PayloadArchive interface {
	// Store writes one raw payload under the job id and returns the
	// storage path or key.
	Store(ctx context.Context, jobID string, payload []byte) (string, error)
}
