package driven

import "github.com/contactmirror/contactmirror/internal/core/domain"

// SnapshotStore writes dated JSON artifacts. One file exists per
// (date, account, kind) triple; rerunning on the same day overwrites that
// day's file. Snapshots are never read back by this tool.
type SnapshotStore interface {
	// Write serialises data as JSON. Values of type json.RawMessage are
	// written verbatim; anything else is marshalled.
	Write(kind domain.SnapshotKind, account string, data any) error
}
