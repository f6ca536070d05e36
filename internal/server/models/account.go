package models

import "time"

// Account is a registered user of the dashboard. Salt and PasswordHash are
// always replaced together; no reader may ever observe a new salt paired
// with an old hash.
type Account struct {
	ID           string
	Username     string
	Salt         []byte
	PasswordHash []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
