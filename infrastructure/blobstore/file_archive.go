package blobstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"racetally/logging"
)

// FileArchive stores raw scraped payloads on the local filesystem,
// one file per job, grouped by day.
type FileArchive struct {
	baseDir string
	logger  *logging.Logger
}

// NewFileArchive creates the archive root if needed.
func NewFileArchive(baseDir string, logger *logging.Logger) (*FileArchive, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir %s: %w", baseDir, err)
	}

	return &FileArchive{
		baseDir: baseDir,
		logger:  logger.WithComponent("archive"),
	}, nil
}

// Store writes one payload under the job id and returns the file path.
// Empty payloads are skipped.
func (a *FileArchive) Store(ctx context.Context, jobID string, payload []byte) (string, error) {
	if len(payload) == 0 {
		return "", nil
	}

	dir := filepath.Join(a.baseDir, time.Now().Format("2006-01-02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create archive dir %s: %w", dir, err)
	}

	path := filepath.Join(dir, jobID+".raw")
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("write archive file %s: %w", path, err)
	}

	a.logger.Debug("Archived raw payload",
		"job_id", jobID,
		"path", path,
		"bytes", len(payload))

	return path, nil
}
