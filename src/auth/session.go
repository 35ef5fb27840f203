package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Prochy20/roguearmy.xyz-sub000/src/config"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/db"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/jobs"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/models"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/oops"
	"github.com/jackc/pgx/v5/pgxpool"
)

const SessionCookieName = "RASession"

const sessionDuration = time.Hour * 24 * 14

var ErrNoSession = errors.New("no session found")

func GetSession(ctx context.Context, conn db.ConnOrTx, id string) (*models.Session, error) {
	sess, err := db.QueryOne[models.Session](ctx, conn,
		`
		---- Get session
		SELECT $columns
		FROM session
		WHERE id = $1 AND expires_at > CURRENT_TIMESTAMP
		`,
		id,
	)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return nil, ErrNoSession
		} else {
			return nil, oops.New(err, "failed to get session")
		}
	}

	return sess, nil
}

func CreateSession(ctx context.Context, conn db.ConnOrTx, memberID int) (*models.Session, error) {
	session := models.Session{
		ID:        MakeToken(),
		MemberID:  memberID,
		CSRFToken: MakeToken(),
		ExpiresAt: time.Now().Add(sessionDuration),
	}

	_, err := conn.Exec(ctx,
		`
		---- Create session
		INSERT INTO session (id, member_id, csrf_token, expires_at)
		VALUES ($1, $2, $3, $4)
		`,
		session.ID, session.MemberID, session.CSRFToken, session.ExpiresAt,
	)
	if err != nil {
		return nil, oops.New(err, "failed to persist session")
	}

	return &session, nil
}

// Deletes a session by id. If no session with that id exists, no
// error is returned.
func DeleteSession(ctx context.Context, conn db.ConnOrTx, id string) error {
	_, err := conn.Exec(ctx, `DELETE FROM session WHERE id = $1`, id)
	if err != nil {
		return oops.New(err, "failed to delete session")
	}

	return nil
}

// Deletes all sessions for a member, logging them out everywhere. Used when
// a member gets banned.
func DeleteSessionsForMember(ctx context.Context, conn db.ConnOrTx, memberID int) error {
	_, err := conn.Exec(ctx, `DELETE FROM session WHERE member_id = $1`, memberID)
	if err != nil {
		return oops.New(err, "failed to delete member sessions")
	}

	return nil
}

func NewSessionCookie(session *models.Session) *http.Cookie {
	return &http.Cookie{
		Name:  SessionCookieName,
		Value: session.ID,

		Domain:  config.Config.Auth.CookieDomain,
		Path:    "/",
		Expires: time.Now().Add(sessionDuration),

		Secure:   config.Config.Auth.CookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

var DeleteSessionCookie = &http.Cookie{
	Name:   SessionCookieName,
	Domain: config.Config.Auth.CookieDomain,
	Path:   "/",
	MaxAge: -1,
}

const pendingLoginDuration = 10 * time.Minute

// Starts a login flow. The resulting id is used as the OAuth state; the
// destination is where the member lands after the callback finishes.
func CreatePendingLogin(ctx context.Context, conn db.ConnOrTx, destinationUrl string) (*models.PendingLogin, error) {
	pending := models.PendingLogin{
		ID:             MakeToken(),
		ExpiresAt:      time.Now().Add(pendingLoginDuration),
		DestinationUrl: destinationUrl,
	}

	_, err := conn.Exec(ctx,
		`
		---- Create pending login
		INSERT INTO pending_login (id, expires_at, destination_url)
		VALUES ($1, $2, $3)
		`,
		pending.ID, pending.ExpiresAt, pending.DestinationUrl,
	)
	if err != nil {
		return nil, oops.New(err, "failed to create pending login")
	}

	return &pending, nil
}

// Consumes a pending login: fetches it if it is still valid and deletes it
// either way, so a state value can never be replayed. Returns ErrNoSession
// for unknown or expired states.
func ConsumePendingLogin(ctx context.Context, conn db.ConnOrTx, id string) (*models.PendingLogin, error) {
	pending, err := db.QueryOne[models.PendingLogin](ctx, conn,
		`
		---- Consume pending login
		DELETE FROM pending_login
		WHERE id = $1 AND expires_at > CURRENT_TIMESTAMP
		RETURNING $columns
		`,
		id,
	)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return nil, ErrNoSession
		}
		return nil, oops.New(err, "failed to consume pending login")
	}
	return pending, nil
}

func DeleteExpiredSessions(ctx context.Context, conn *pgxpool.Pool) (int64, error) {
	tag, err := conn.Exec(ctx,
		`
		DELETE FROM session WHERE expires_at <= CURRENT_TIMESTAMP
		`,
	)
	if err != nil {
		return 0, oops.New(err, "failed to delete expired sessions")
	}
	n := tag.RowsAffected()

	tag, err = conn.Exec(ctx,
		`
		DELETE FROM pending_login WHERE expires_at <= CURRENT_TIMESTAMP
		`,
	)
	if err != nil {
		return 0, oops.New(err, "failed to delete expired pending logins")
	}

	return n + tag.RowsAffected(), nil
}

func PeriodicallyDeleteExpiredStuff(conn *pgxpool.Pool) *jobs.Job {
	job := jobs.New("periodically delete expired sessions")
	go func() {
		defer job.Finish()

		t := time.NewTicker(1 * time.Minute)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				n, err := DeleteExpiredSessions(job.Ctx, conn)
				if err == nil {
					if n > 0 {
						job.Logger.Info().Int64("numDeleted", n).Msg("Deleted expired sessions and pending logins")
					}
				} else {
					job.Logger.Error().Err(err).Msg("Failed to delete expired sessions")
				}
			case <-job.Canceled():
				return
			}
		}
	}()
	return job
}
