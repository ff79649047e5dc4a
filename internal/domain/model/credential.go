package model

import "time"

// Credential is a stored secret for one service key (e.g. "username",
// "app_password"). Values are plaintext at the domain boundary; the storage
// adapter handles encryption.
type Credential struct {
	ID        int64
	Service   string
	Value     string
	UpdatedAt time.Time
}

// Credentials is a resolved (username, app password) pair passed opaquely to
// every API call. It is never logged.
type Credentials struct {
	Username    string
	AppPassword string
}
