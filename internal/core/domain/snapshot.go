package domain

// SnapshotKind identifies one of the dated JSON artifacts written per
// account and run: the raw API pages and the assembled final lists.
type SnapshotKind string

const (
	// SnapshotRawContacts is a verbatim connections listing page.
	SnapshotRawContacts SnapshotKind = "raw_contacts"
	// SnapshotRawGroups is the verbatim contact groups response.
	SnapshotRawGroups SnapshotKind = "raw_groups"
	// SnapshotContacts is the assembled list of hydrated contact records.
	SnapshotContacts SnapshotKind = "contacts"
	// SnapshotGroups is the assembled list of contact groups.
	SnapshotGroups SnapshotKind = "groups"
)

// String returns the kind as it appears in snapshot filenames.
func (k SnapshotKind) String() string { return string(k) }
