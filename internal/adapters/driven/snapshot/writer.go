// Package snapshot implements the SnapshotStore port on dated JSON files.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/contactmirror/contactmirror/internal/core/domain"
	"github.com/contactmirror/contactmirror/internal/core/ports/driven"
)

// Ensure Writer implements the interface.
var _ driven.SnapshotStore = (*Writer)(nil)

// Writer persists snapshots to <dir>/<date>.<account>_<kind>.json.
// Rerunning on the same calendar date overwrites that day's file, so at
// most one snapshot exists per (date, account, kind).
type Writer struct {
	dir string
	now func() time.Time
}

// NewWriter creates a snapshot writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir, now: time.Now}
}

// NewWriterAt creates a writer with a fixed clock. Used by tests.
func NewWriterAt(dir string, now func() time.Time) *Writer {
	return &Writer{dir: dir, now: now}
}

// Write serialises data as JSON. json.RawMessage values are written
// verbatim so raw API pages survive byte for byte.
func (w *Writer) Write(kind domain.SnapshotKind, account string, data any) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}

	var payload []byte
	switch v := data.(type) {
	case json.RawMessage:
		payload = v
	case []byte:
		payload = v
	default:
		var err error
		payload, err = json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal %s snapshot: %w", kind, err)
		}
	}

	path := w.Path(kind, account)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", path, err)
	}
	return nil
}

// Path returns the file a Write call would produce today.
func (w *Writer) Path(kind domain.SnapshotKind, account string) string {
	name := fmt.Sprintf("%s.%s_%s.json", w.now().Format(time.DateOnly), account, kind)
	return filepath.Join(w.dir, name)
}
