// Package filesystem reads BUFKIT files from local disk for CLI runs.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/couchcryptid/bufkit-etl/internal/domain"
)

// ErrFileTooLarge is returned for files bigger than the configured limit.
var ErrFileTooLarge = errors.New("file exceeds size limit")

// LoadText reads the whole file at path as text. Files larger than maxBytes
// are rejected without being read in full; maxBytes <= 0 disables the limit.
func LoadText(path string, maxBytes int64) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if maxBytes > 0 {
		r = io.LimitReader(f, maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return "", fmt.Errorf("%s: %w (%d bytes)", path, ErrFileTooLarge, maxBytes)
	}
	return string(data), nil
}

// Extractor hands a fixed list of files to the pipeline and reports io.EOF
// once all have been read. It implements pipeline.BatchExtractor.
type Extractor struct {
	mu       sync.Mutex
	paths    []string
	maxBytes int64
	logger   *slog.Logger
}

// NewExtractor creates an extractor over paths, read in order.
func NewExtractor(paths []string, maxBytes int64, logger *slog.Logger) *Extractor {
	return &Extractor{paths: paths, maxBytes: maxBytes, logger: logger}
}

// ExtractBatch reads up to batchSize of the remaining files. Files that cannot
// be read are logged and skipped.
func (e *Extractor) ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var batch []domain.RawEvent
	for len(batch) < batchSize && len(e.paths) > 0 {
		if err := ctx.Err(); err != nil {
			return batch, err
		}
		path := e.paths[0]
		e.paths = e.paths[1:]

		text, err := LoadText(path, e.maxBytes)
		if err != nil {
			e.logger.Warn("skipping unreadable file", "file", path, "error", err)
			continue
		}
		batch = append(batch, domain.RawEvent{
			Key:     []byte(filepath.Base(path)),
			Value:   []byte(text),
			Headers: map[string]string{domain.FileNameHeader: path},
		})
	}

	if len(batch) == 0 {
		return nil, io.EOF
	}
	return batch, nil
}
