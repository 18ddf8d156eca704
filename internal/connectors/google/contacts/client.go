// Package contacts implements the DirectoryClient port against the Google
// People API: the paginated connections listing with incremental sync
// tokens, batch hydration of full contact records, and the contact groups
// listing.
package contacts

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"google.golang.org/api/people/v1"

	"github.com/contactmirror/contactmirror/internal/connectors/google"
	"github.com/contactmirror/contactmirror/internal/core/domain"
	"github.com/contactmirror/contactmirror/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.DirectoryClient = (*Client)(nil)

// Client wraps the People API for one account.
type Client struct {
	svc     *people.Service
	limiter *google.RateLimiter
	log     zerolog.Logger
}

// NewClient creates a client around an authenticated People API service.
func NewClient(svc *people.Service, log zerolog.Logger) *Client {
	return &Client{
		svc:     svc,
		limiter: google.NewRateLimiter(),
		log:     log,
	}
}

// ListContacts walks every page of the connections listing, handing each
// raw page to onPage before the next page is requested, then hydrates the
// collected resource names in batches. An empty syncToken means full sync.
//
// Failures propagate unretried; an expired sync token surfaces as
// domain.ErrSyncTokenExpired so the caller can clear the cursor.
func (c *Client) ListContacts(ctx context.Context, syncToken string, onPage driven.PageFunc) ([]json.RawMessage, error) {
	var resourceNames []string
	pageToken := ""
	pages := 0

	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		call := c.svc.People.Connections.List("people/me").
			PageSize(contactsPageSize).
			PersonFields(PersonFields).
			RequestSyncToken(true).
			SortOrder(sortOrder).
			Sources(readSource).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		if syncToken != "" {
			call = call.SyncToken(syncToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, c.classify("list connections", err)
		}
		pages++

		raw, err := json.Marshal(resp)
		if err != nil {
			return nil, fmt.Errorf("encode connections page: %w", err)
		}

		// The caller persists the raw page and the sync token before we
		// request the next page, so an interrupted run resumes from the
		// furthest point reached.
		if onPage != nil {
			if err := onPage(driven.ContactPage{Raw: raw, NextSyncToken: resp.NextSyncToken}); err != nil {
				return nil, err
			}
		}

		for _, conn := range resp.Connections {
			if conn.ResourceName != "" {
				resourceNames = append(resourceNames, conn.ResourceName)
			}
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}

	c.log.Info().Int("pages", pages).Int("contacts", len(resourceNames)).Msg("connections listing complete")

	return c.hydrate(ctx, resourceNames)
}

// hydrate resolves resource names to full contact records in fixed-size
// batches. The result is in batch order; entries without a person payload
// are skipped.
func (c *Client) hydrate(ctx context.Context, resourceNames []string) ([]json.RawMessage, error) {
	contacts := make([]json.RawMessage, 0, len(resourceNames))

	for start := 0; start < len(resourceNames); start += batchGetSize {
		end := min(start+batchGetSize, len(resourceNames))
		chunk := resourceNames[start:end]

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		resp, err := c.svc.People.GetBatchGet().
			ResourceNames(chunk...).
			PersonFields(PersonFields).
			Context(ctx).
			Do()
		if err != nil {
			return nil, c.classify("batch get people", err)
		}

		for _, pr := range resp.Responses {
			if pr.Person == nil {
				continue
			}
			raw, err := json.Marshal(pr.Person)
			if err != nil {
				return nil, fmt.Errorf("encode person: %w", err)
			}
			contacts = append(contacts, raw)
		}
	}

	return contacts, nil
}

// ListGroups performs a single contact groups listing. The People API may
// indicate further pages; this tool deliberately fetches only the first
// (page size 1000 covers realistic group counts) and logs a warning when
// more exist.
func (c *Client) ListGroups(ctx context.Context, syncToken string) (*driven.GroupsResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	call := c.svc.ContactGroups.List().
		PageSize(groupsPageSize).
		GroupFields(GroupFields).
		Context(ctx)
	if syncToken != "" {
		call = call.SyncToken(syncToken)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, c.classify("list contact groups", err)
	}

	if resp.NextPageToken != "" {
		c.log.Warn().
			Int("fetched", len(resp.ContactGroups)).
			Msg("contact groups listing has more pages; only the first page is stored")
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("encode groups response: %w", err)
	}

	groups := make([]json.RawMessage, 0, len(resp.ContactGroups))
	for _, g := range resp.ContactGroups {
		encoded, err := json.Marshal(g)
		if err != nil {
			return nil, fmt.Errorf("encode group: %w", err)
		}
		groups = append(groups, encoded)
	}

	return &driven.GroupsResult{
		Raw:           raw,
		Groups:        groups,
		NextSyncToken: resp.NextSyncToken,
	}, nil
}

// classify maps an API failure to the port contract: expired sync tokens
// become domain.ErrSyncTokenExpired, rate limit responses feed the backoff
// window, everything else propagates with context.
func (c *Client) classify(op string, err error) error {
	if google.IsSyncTokenExpired(err) {
		return fmt.Errorf("%s: %w", op, domain.ErrSyncTokenExpired)
	}
	if google.IsRateLimited(err) {
		c.limiter.RecordRateLimitError(0)
	}
	return fmt.Errorf("%s: %w", op, err)
}
