package domain

// AccountNames is the fixed pair of accounts this tool synchronises.
// Each name corresponds to a table in settings.toml.
var AccountNames = []string{"Account1", "Account2"}

// Account holds one account's OAuth app credentials and sync state as
// stored in the configuration file.
//
// ClientID, ClientSecret and RefreshToken are durable credentials: the
// operator supplies the first two, the interactive authorization flow fills
// in the third. The sync tokens are opaque cursors returned by the People
// API; empty means the next fetch is a full sync.
type Account struct {
	// Name is the section name in settings.toml ("Account1" or "Account2").
	Name string `toml:"-"`

	// ClientID is the OAuth client ID from the Google Cloud console.
	ClientID string `toml:"client_id"`
	// ClientSecret is the OAuth client secret from the Google Cloud console.
	ClientSecret string `toml:"client_secret"`
	// RefreshToken is the long-lived credential obtained by the
	// authorization flow. Empty until the account is provisioned.
	RefreshToken string `toml:"refresh_token"`

	// ContactsSyncToken is the cursor returned by the last connections
	// listing. Persisted page by page as the listing progresses.
	ContactsSyncToken string `toml:"contacts_sync_token"`
	// GroupsSyncToken is the cursor returned by the last contact group
	// listing.
	GroupsSyncToken string `toml:"group_sync_token"`
}

// HasRefreshToken reports whether the account has been provisioned.
func (a *Account) HasRefreshToken() bool {
	return a.RefreshToken != ""
}

// HasClientCredentials reports whether the operator has filled in the
// OAuth app credentials for this account.
func (a *Account) HasClientCredentials() bool {
	return a.ClientID != "" && a.ClientSecret != ""
}

// Config is the full in-memory configuration: one Account per fixed name.
type Config struct {
	Accounts map[string]*Account
}

// Account returns the account for name, creating an empty record if the
// section was absent from the file. Lookups never fail; validation of the
// returned record is the caller's job.
func (c *Config) Account(name string) *Account {
	if c.Accounts == nil {
		c.Accounts = make(map[string]*Account)
	}
	acct, ok := c.Accounts[name]
	if !ok {
		acct = &Account{Name: name}
		c.Accounts[name] = acct
	}
	return acct
}
