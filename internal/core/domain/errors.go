package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrSetupRequired indicates the settings file did not exist and was
	// just bootstrapped from the template. Not a failure: the operator
	// must fill in client credentials before the next run.
	ErrSetupRequired = errors.New("settings file created, operator action required")

	// ErrConfigMalformed indicates the settings file exists but could
	// not be parsed.
	ErrConfigMalformed = errors.New("settings file malformed")

	// ErrAuthorizationFailed indicates the interactive authorization
	// flow did not produce a refresh token (network error, user denial,
	// malformed response).
	ErrAuthorizationFailed = errors.New("authorization flow failed")

	// ErrCredentialsInvalid indicates a usable access token could not be
	// produced from the stored credentials.
	ErrCredentialsInvalid = errors.New("credentials invalid")

	// ErrSyncTokenExpired indicates the remote API rejected the stored
	// sync token. The caller clears the token and performs a full resync.
	ErrSyncTokenExpired = errors.New("sync token expired, full resync required")
)
