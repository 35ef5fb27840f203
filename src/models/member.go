package models

import (
	"time"

	"github.com/google/uuid"
)

type MemberStatus string

const (
	MemberStatusActive MemberStatus = "active"
	MemberStatusBanned MemberStatus = "banned"
)

type Member struct {
	ID int `db:"id"`

	// Discord is the only identity provider; every member is bound to
	// exactly one Discord account.
	DiscordID string `db:"discord_id"`

	Username    string `db:"username"`
	DisplayName string `db:"display_name"`

	AvatarAssetID *uuid.UUID `db:"avatar_asset_id"`

	Status  MemberStatus `db:"status"`
	IsStaff bool         `db:"is_staff"`

	JoinedAt  time.Time  `db:"joined_at"`
	LastLogin *time.Time `db:"last_login"`

	// Non-db fields, to be filled in by fetch helpers
	AvatarAsset *Asset
}

func (m *Member) BestName() string {
	if m.DisplayName != "" {
		return m.DisplayName
	}
	return m.Username
}

// A banned member is treated as anonymous for all content gating, even if
// their session cookie is still valid.
func (m *Member) IsActive() bool {
	return m.Status == MemberStatusActive
}
