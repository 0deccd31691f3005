// Package watch ingests documents dropped into a watched folder.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/paralog-labs/paralog-cli/internal/core/ports/driving"
	"github.com/paralog-labs/paralog-cli/internal/logger"
)

// settleDelay is how long a new file must sit untouched before ingestion.
// Editors and downloads write in bursts; ingesting mid-write reads a
// truncated document.
const settleDelay = 500 * time.Millisecond

// supportedExtensions are the file types the watcher hands to the pipeline.
var supportedExtensions = map[string]bool{
	".txt":      true,
	".text":     true,
	".md":       true,
	".markdown": true,
	".mdown":    true,
}

// Watcher monitors a directory and ingests each supported file that appears.
type Watcher struct {
	ingest driving.IngestService
	dir    string
}

// New creates a watcher for the given directory.
func New(ingest driving.IngestService, dir string) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("watch directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch path %s is not a directory", dir)
	}

	return &Watcher{
		ingest: ingest,
		dir:    dir,
	}, nil
}

// Run watches the directory until the context is cancelled.
// Each created or renamed-in file with a supported extension is ingested
// once it has settled. Ingest failures are logged, not fatal; one bad
// document must not stop the watch loop.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}

	logger.Info("Watching %s for new documents", w.dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !supportedExtensions[strings.ToLower(filepath.Ext(event.Name))] {
				continue
			}
			w.handleFile(ctx, event.Name)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// handleFile waits for the file to settle, then runs it through the pipeline.
func (w *Watcher) handleFile(ctx context.Context, path string) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(settleDelay):
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Skipping %s: %v", path, err)
		return
	}

	result, err := w.ingest.Ingest(ctx, driving.IngestRequest{
		Filename: filepath.Base(path),
		Raw:      raw,
	})
	if err != nil {
		logger.Error("Ingest failed for %s: %v", path, err)
		return
	}

	logger.Info("Ingested %s as %s (%s)", filepath.Base(path), result.Paper.ID, result.Paper.Domain)
}
