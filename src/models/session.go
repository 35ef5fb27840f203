package models

import "time"

type Session struct {
	ID        string    `db:"id"`
	MemberID  int       `db:"member_id"`
	CSRFToken string    `db:"csrf_token"`
	ExpiresAt time.Time `db:"expires_at"`
}

// A login that has been started but not yet completed via the Discord OAuth
// callback. The id doubles as the OAuth state parameter.
type PendingLogin struct {
	ID             string    `db:"id"`
	ExpiresAt      time.Time `db:"expires_at"`
	DestinationUrl string    `db:"destination_url"`
}
