package google

import (
	"context"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/people/v1"
)

// NewPeopleService creates a People API service using the provided
// TokenSource.
func NewPeopleService(ctx context.Context, ts oauth2.TokenSource) (*people.Service, error) {
	return people.NewService(ctx, option.WithTokenSource(ts))
}
