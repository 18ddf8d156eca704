package contacts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/people/v1"

	"github.com/contactmirror/contactmirror/internal/core/domain"
	"github.com/contactmirror/contactmirror/internal/core/ports/driven"
)

// fakeDirectory serves canned People API responses and records requests.
type fakeDirectory struct {
	t *testing.T

	// pages are served in order for the connections listing.
	pages []string
	// groupsBody is served for the contact groups listing.
	groupsBody string
	// failListCall makes the n-th (1-based) listing call return 500.
	failListCall int
	// expireSyncToken makes listing calls with a syncToken return 410.
	expireSyncToken bool

	listCalls  int
	groupCalls int
	batchSizes []int
	batchNames [][]string
	listParams []map[string]string
	events     []string
}

func (f *fakeDirectory) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/connections"):
			f.listCalls++
			f.events = append(f.events, fmt.Sprintf("list-%d", f.listCalls))
			f.listParams = append(f.listParams, map[string]string{
				"pageSize":         r.URL.Query().Get("pageSize"),
				"pageToken":        r.URL.Query().Get("pageToken"),
				"syncToken":        r.URL.Query().Get("syncToken"),
				"requestSyncToken": r.URL.Query().Get("requestSyncToken"),
				"sortOrder":        r.URL.Query().Get("sortOrder"),
				"sources":          r.URL.Query().Get("sources"),
				"personFields":     r.URL.Query().Get("personFields"),
			})
			if f.expireSyncToken && r.URL.Query().Get("syncToken") != "" {
				http.Error(w, `{"error":{"code":410,"message":"Sync token expired"}}`, http.StatusGone)
				return
			}
			if f.failListCall == f.listCalls {
				http.Error(w, `{"error":{"code":500,"message":"boom"}}`, http.StatusInternalServerError)
				return
			}
			idx := f.listCalls - 1
			require.Less(f.t, idx, len(f.pages), "unexpected extra listing call")
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, f.pages[idx])

		case strings.Contains(r.URL.Path, "people:batchGet"):
			names := r.URL.Query()["resourceNames"]
			f.batchSizes = append(f.batchSizes, len(names))
			f.batchNames = append(f.batchNames, names)

			resp := map[string]any{}
			var responses []map[string]any
			for _, n := range names {
				entry := map[string]any{"requestedResourceName": n}
				// A deleted contact comes back without a person payload.
				if !strings.HasSuffix(n, "gone") {
					entry["person"] = map[string]any{"resourceName": n}
				}
				responses = append(responses, entry)
			}
			resp["responses"] = responses
			w.Header().Set("Content-Type", "application/json")
			require.NoError(f.t, json.NewEncoder(w).Encode(resp))

		case strings.HasSuffix(r.URL.Path, "/contactGroups"):
			f.groupCalls++
			f.events = append(f.events, "groups")
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, f.groupsBody)

		default:
			f.t.Errorf("unexpected request: %s", r.URL.Path)
			http.NotFound(w, r)
		}
	})
}

func newTestClient(t *testing.T, fake *fakeDirectory) (*Client, func()) {
	t.Helper()
	fake.t = t
	srv := httptest.NewServer(fake.handler())

	svc, err := people.NewService(context.Background(),
		option.WithEndpoint(srv.URL),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	return NewClient(svc, zerolog.Nop()), srv.Close
}

func connectionsPage(names []string, nextPage, nextSync string) string {
	conns := make([]map[string]string, 0, len(names))
	for _, n := range names {
		conns = append(conns, map[string]string{"resourceName": n})
	}
	page := map[string]any{"connections": conns}
	if nextPage != "" {
		page["nextPageToken"] = nextPage
	}
	if nextSync != "" {
		page["nextSyncToken"] = nextSync
	}
	data, _ := json.Marshal(page)
	return string(data)
}

func names(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("people/%s%d", prefix, i)
	}
	return out
}

func TestListContacts_PaginationTerminates(t *testing.T) {
	fake := &fakeDirectory{
		pages: []string{
			connectionsPage(names("a", 2), "page-2", "sync-1"),
			connectionsPage(names("b", 2), "page-3", ""),
			connectionsPage(names("c", 1), "", "sync-final"),
		},
	}
	client, done := newTestClient(t, fake)
	defer done()

	var onPageCalls int
	contacts, err := client.ListContacts(context.Background(), "", func(driven.ContactPage) error {
		onPageCalls++
		return nil
	})
	require.NoError(t, err)

	// Exactly N page requests and N page deliveries for N pages.
	assert.Equal(t, 3, fake.listCalls)
	assert.Equal(t, 3, onPageCalls)
	assert.Len(t, contacts, 5)

	// Page tokens chain through the listing.
	assert.Equal(t, "", fake.listParams[0]["pageToken"])
	assert.Equal(t, "page-2", fake.listParams[1]["pageToken"])
	assert.Equal(t, "page-3", fake.listParams[2]["pageToken"])
}

func TestListContacts_RequestParameters(t *testing.T) {
	fake := &fakeDirectory{pages: []string{connectionsPage(nil, "", "s")}}
	client, done := newTestClient(t, fake)
	defer done()

	_, err := client.ListContacts(context.Background(), "stored-sync", nil)
	require.NoError(t, err)

	params := fake.listParams[0]
	assert.Equal(t, "2000", params["pageSize"])
	assert.Equal(t, "stored-sync", params["syncToken"])
	assert.Equal(t, "true", params["requestSyncToken"])
	assert.Equal(t, "LAST_MODIFIED_DESCENDING", params["sortOrder"])
	assert.Equal(t, "READ_SOURCE_TYPE_CONTACT", params["sources"])
	assert.Equal(t, PersonFields, params["personFields"])
}

func TestListContacts_PageDeliveredBeforeNextRequest(t *testing.T) {
	fake := &fakeDirectory{
		pages: []string{
			connectionsPage(names("a", 1), "page-2", "sync-1"),
			connectionsPage(names("b", 1), "", "sync-2"),
		},
	}
	client, done := newTestClient(t, fake)
	defer done()

	var tokens []string
	_, err := client.ListContacts(context.Background(), "", func(p driven.ContactPage) error {
		tokens = append(tokens, p.NextSyncToken)
		fake.events = append(fake.events, fmt.Sprintf("page-delivered-%d", len(tokens)))
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"sync-1", "sync-2"}, tokens)
	// Delivery of page 1 happens before the request for page 2.
	assert.Equal(t, []string{"list-1", "page-delivered-1", "list-2", "page-delivered-2"}, fake.events)
}

func TestListContacts_PageFailureAfterDelivery(t *testing.T) {
	fake := &fakeDirectory{
		pages: []string{
			connectionsPage(names("a", 1), "page-2", "sync-1"),
		},
		failListCall: 2,
	}
	client, done := newTestClient(t, fake)
	defer done()

	var delivered []string
	_, err := client.ListContacts(context.Background(), "", func(p driven.ContactPage) error {
		delivered = append(delivered, p.NextSyncToken)
		return nil
	})
	require.Error(t, err)

	// Page 1 and its sync token made it out before page 2 failed.
	assert.Equal(t, []string{"sync-1"}, delivered)
}

func TestListContacts_BatchGetChunking(t *testing.T) {
	fake := &fakeDirectory{
		pages: []string{connectionsPage(names("x", 450), "", "sync")},
	}
	client, done := newTestClient(t, fake)
	defer done()

	contacts, err := client.ListContacts(context.Background(), "", nil)
	require.NoError(t, err)

	assert.Equal(t, []int{200, 200, 50}, fake.batchSizes)
	assert.Len(t, contacts, 450)

	// Chunks carry contiguous runs of the listing order.
	require.Len(t, fake.batchNames, 3)
	assert.Equal(t, "people/x0", fake.batchNames[0][0])
	assert.Equal(t, "people/x200", fake.batchNames[1][0])
	assert.Equal(t, "people/x400", fake.batchNames[2][0])

	// Batch order is preserved in the hydrated list.
	var first map[string]string
	require.NoError(t, json.Unmarshal(contacts[0], &first))
	assert.Equal(t, "people/x0", first["resourceName"])
	var last map[string]string
	require.NoError(t, json.Unmarshal(contacts[449], &last))
	assert.Equal(t, "people/x449", last["resourceName"])
}

func TestListContacts_SkipsMissingPersonPayloads(t *testing.T) {
	fake := &fakeDirectory{
		pages: []string{connectionsPage([]string{"people/ok1", "people/gone", "people/ok2"}, "", "sync")},
	}
	client, done := newTestClient(t, fake)
	defer done()

	contacts, err := client.ListContacts(context.Background(), "", nil)
	require.NoError(t, err)
	require.Len(t, contacts, 2)

	var c0 map[string]string
	require.NoError(t, json.Unmarshal(contacts[0], &c0))
	assert.Equal(t, "people/ok1", c0["resourceName"])
}

func TestListContacts_ExpiredSyncToken(t *testing.T) {
	fake := &fakeDirectory{expireSyncToken: true, pages: []string{connectionsPage(nil, "", "")}}
	client, done := newTestClient(t, fake)
	defer done()

	_, err := client.ListContacts(context.Background(), "ancient-token", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSyncTokenExpired)
}

func TestListContacts_OnPageErrorAborts(t *testing.T) {
	fake := &fakeDirectory{
		pages: []string{connectionsPage(names("a", 1), "page-2", "sync-1")},
	}
	client, done := newTestClient(t, fake)
	defer done()

	_, err := client.ListContacts(context.Background(), "", func(driven.ContactPage) error {
		return fmt.Errorf("disk full")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, 1, fake.listCalls)
}

func TestListGroups_SingleCall(t *testing.T) {
	fake := &fakeDirectory{
		groupsBody: `{"contactGroups":[{"resourceName":"contactGroups/friends","name":"Friends"}],` +
			`"nextPageToken":"more","nextSyncToken":"gsync"}`,
	}
	client, done := newTestClient(t, fake)
	defer done()

	result, err := client.ListGroups(context.Background(), "old-gsync")
	require.NoError(t, err)

	// One call regardless of the continuation token in the response.
	assert.Equal(t, 1, fake.groupCalls)
	assert.Equal(t, "gsync", result.NextSyncToken)
	require.Len(t, result.Groups, 1)
	assert.Contains(t, string(result.Raw), "contactGroups/friends")

	var group map[string]string
	require.NoError(t, json.Unmarshal(result.Groups[0], &group))
	assert.Equal(t, "Friends", group["name"])
}
