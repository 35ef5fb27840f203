package radata

import (
	"context"

	"github.com/Prochy20/roguearmy.xyz-sub000/src/auth"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/db"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/discord"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/models"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/oops"
)

func FetchMember(ctx context.Context, dbConn db.ConnOrTx, memberID int) (*models.Member, error) {
	type memberRow struct {
		Member      models.Member `db:"member"`
		AvatarAsset *models.Asset `db:"avatar_asset"`
	}
	row, err := db.QueryOne[memberRow](ctx, dbConn,
		`
		SELECT $columns
		FROM
			member
			LEFT JOIN asset AS avatar_asset ON avatar_asset.id = member.avatar_asset_id
		WHERE member.id = $1
		`,
		memberID,
	)
	if err != nil {
		return nil, err
	}
	member := row.Member
	member.AvatarAsset = row.AvatarAsset
	return &member, nil
}

func FetchMemberByDiscordID(ctx context.Context, dbConn db.ConnOrTx, discordID string) (*models.Member, error) {
	member, err := db.QueryOne[models.Member](ctx, dbConn,
		`SELECT $columns FROM member WHERE discord_id = $1`,
		discordID,
	)
	if err != nil {
		return nil, err
	}
	return member, nil
}

// Creates or refreshes the portal member for a Discord user who just
// completed the OAuth flow. Identity fields track Discord on every login,
// but status is ours: a banned member who logs in again stays banned.
func UpsertMemberFromDiscord(
	ctx context.Context,
	dbConn db.ConnOrTx,
	user *discord.User,
) (*models.Member, error) {
	member, err := db.QueryOne[models.Member](ctx, dbConn,
		`
		INSERT INTO member (discord_id, username, display_name, status, joined_at, last_login)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (discord_id) DO UPDATE SET
			username = EXCLUDED.username,
			display_name = EXCLUDED.display_name,
			last_login = EXCLUDED.last_login
		RETURNING $columns
		`,
		user.ID, user.Username, user.DisplayName(), models.MemberStatusActive,
	)
	if err != nil {
		return nil, oops.New(err, "failed to upsert member from discord login")
	}
	return member, nil
}

// Flips a member to banned and kills their sessions. The Discord gateway bot
// does the same thing for bans issued on the Discord side; this path is for
// the admin tools.
func BanMember(ctx context.Context, dbConn db.ConnOrTx, memberID int) error {
	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return oops.New(err, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE member SET status = $1 WHERE id = $2`,
		models.MemberStatusBanned, memberID,
	)
	if err != nil {
		return oops.New(err, "failed to ban member")
	}
	if tag.RowsAffected() == 0 {
		return db.NotFound
	}

	err = auth.DeleteSessionsForMember(ctx, tx, memberID)
	if err != nil {
		return err
	}

	err = tx.Commit(ctx)
	if err != nil {
		return oops.New(err, "failed to commit transaction")
	}
	return nil
}

func UnbanMember(ctx context.Context, dbConn db.ConnOrTx, memberID int) error {
	tag, err := dbConn.Exec(ctx,
		`UPDATE member SET status = $1 WHERE id = $2`,
		models.MemberStatusActive, memberID,
	)
	if err != nil {
		return oops.New(err, "failed to unban member")
	}
	if tag.RowsAffected() == 0 {
		return db.NotFound
	}
	return nil
}

func CountMembers(ctx context.Context, dbConn db.ConnOrTx) (int, error) {
	count, err := db.QueryOneScalar[int](ctx, dbConn,
		`SELECT COUNT(*) FROM member WHERE status = $1`,
		models.MemberStatusActive,
	)
	if err != nil {
		return 0, oops.New(err, "failed to count members")
	}
	return count, nil
}
