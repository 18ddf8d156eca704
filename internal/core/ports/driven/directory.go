package driven

import (
	"context"
	"encoding/json"

	"github.com/contactmirror/contactmirror/internal/core/domain"
)

// ContactPage is one verbatim connections listing page, delivered to the
// caller before the next page is requested.
type ContactPage struct {
	// Raw is the page payload exactly as returned by the API.
	Raw json.RawMessage
	// NextSyncToken is the cursor carried by this page. May be empty on
	// non-final pages; callers persist it only when present.
	NextSyncToken string
}

// GroupsResult is the outcome of a contact groups listing.
type GroupsResult struct {
	// Raw is the response payload exactly as returned by the API.
	Raw json.RawMessage
	// Groups are the contact group records, opaque to this tool.
	Groups []json.RawMessage
	// NextSyncToken is the cursor to store for the next incremental run.
	NextSyncToken string
}

// PageFunc receives each listing page as it arrives. Returning an error
// aborts the listing; pages already delivered stay delivered.
type PageFunc func(page ContactPage) error

// DirectoryClient wraps the remote people-directory API for one account.
//
// Contact and group records are opaque documents owned by the remote
// schema; this tool stores them without interpreting them. Transport and
// authorization failures propagate to the caller unretried, except that an
// expired sync token surfaces as domain.ErrSyncTokenExpired so the caller
// can clear the cursor and resync.
type DirectoryClient interface {
	// ListContacts walks the paginated connections listing, invoking
	// onPage per page, then hydrates the collected resource identifiers
	// in fixed-size batches. The returned documents are in batch order,
	// not listing order.
	ListContacts(ctx context.Context, syncToken string, onPage PageFunc) ([]json.RawMessage, error)

	// ListGroups performs a single contact groups listing.
	ListGroups(ctx context.Context, syncToken string) (*GroupsResult, error)
}

// DirectoryFactory builds a DirectoryClient bound to one account's
// credentials.
type DirectoryFactory interface {
	ClientFor(ctx context.Context, account *domain.Account) (DirectoryClient, error)
}
