package radata

import (
	"context"
	"time"

	"github.com/Prochy20/roguearmy.xyz-sub000/src/db"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/models"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/oops"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/utils"
)

/*
Reading progress is write-heavy and racy: multiple tabs can report for the
same article at once, and clients report whatever scroll position they
happen to see. All the rules live in one atomic upsert so concurrent
reports cannot interleave badly:

  - progress only ever goes up (GREATEST of stored and reported)
  - completed latches when progress crosses the threshold and never unlatches
  - time spent accumulates
  - first visit is set once, last visit always
*/

// Clamps a raw client report to values the upsert will accept. Clients
// report whatever scroll position they see, so percentages outside [0, 100]
// and negative time deltas are normalized, not rejected.
func sanitizeProgressReport(percent float64, timeSpentDelta int) (float64, int) {
	percent = utils.Float64Clamp(0, percent, 100)
	if timeSpentDelta < 0 {
		timeSpentDelta = 0
	}
	return percent, timeSpentDelta
}

// Records one progress report. The percentage is clamped to [0, 100] before
// it touches the stored value. Returns the row as it stands after the
// report, which may be entirely unchanged.
func RecordProgress(
	ctx context.Context,
	dbConn db.ConnOrTx,
	memberID int,
	articleID int,
	percent float64,
	timeSpentDelta int,
) (*models.ReadProgress, error) {
	percent, timeSpentDelta = sanitizeProgressReport(percent, timeSpentDelta)
	now := time.Now()

	progress, err := db.QueryOne[models.ReadProgress](ctx, dbConn,
		`
		INSERT INTO read_progress
			(member_id, article_id, progress, completed, first_visited_at, last_visited_at, time_spent)
		VALUES
			($1, $2, $3, $3 >= $4, $5, $5, $6)
		ON CONFLICT (member_id, article_id) DO UPDATE SET
			progress = GREATEST(read_progress.progress, EXCLUDED.progress),
			completed = read_progress.completed
				OR GREATEST(read_progress.progress, EXCLUDED.progress) >= $4,
			last_visited_at = EXCLUDED.last_visited_at,
			time_spent = read_progress.time_spent + EXCLUDED.time_spent
		RETURNING $columns
		`,
		memberID, articleID, percent, models.CompletionThreshold, now, timeSpentDelta,
	)
	if err != nil {
		return nil, oops.New(err, "failed to record reading progress")
	}
	return progress, nil
}

func FetchProgress(
	ctx context.Context,
	dbConn db.ConnOrTx,
	memberID int,
	articleID int,
) (*models.ReadProgress, error) {
	progress, err := db.QueryOne[models.ReadProgress](ctx, dbConn,
		`SELECT $columns FROM read_progress WHERE member_id = $1 AND article_id = $2`,
		memberID, articleID,
	)
	if err != nil {
		return nil, err
	}
	return progress, nil
}

// Fetches a member's progress for many articles at once, keyed by article.
// Articles the member never opened are simply absent from the map.
func FetchProgressForArticles(
	ctx context.Context,
	dbConn db.ConnOrTx,
	memberID int,
	articleIDs []int,
) (map[int]*models.ReadProgress, error) {
	if len(articleIDs) == 0 {
		return nil, nil
	}

	rows, err := db.Query[models.ReadProgress](ctx, dbConn,
		`SELECT $columns FROM read_progress WHERE member_id = $1 AND article_id = ANY ($2)`,
		memberID, articleIDs,
	)
	if err != nil {
		return nil, oops.New(err, "failed to fetch reading progress")
	}

	res := make(map[int]*models.ReadProgress, len(rows))
	for _, row := range rows {
		res[row.ArticleID] = row
	}
	return res, nil
}

type MemberReadingStats struct {
	ArticlesStarted   int `db:"articles_started"`
	ArticlesCompleted int `db:"articles_completed"`
	TotalTimeSpent    int `db:"total_time_spent"` // seconds
}

func FetchMemberReadingStats(
	ctx context.Context,
	dbConn db.ConnOrTx,
	memberID int,
) (*MemberReadingStats, error) {
	stats, err := db.QueryOne[MemberReadingStats](ctx, dbConn,
		`
		SELECT $columns
		FROM (
			SELECT
				COUNT(*)::int AS articles_started,
				(COUNT(*) FILTER (WHERE completed))::int AS articles_completed,
				COALESCE(SUM(time_spent), 0)::int AS total_time_spent
			FROM read_progress
			WHERE member_id = $1
		) AS stats
		`,
		memberID,
	)
	if err != nil {
		return nil, oops.New(err, "failed to fetch reading stats")
	}
	return stats, nil
}

// Deletes all of a member's progress rows. This is an explicit admin
// operation; progress reports themselves can never lower anything.
func WipeProgressForMember(ctx context.Context, dbConn db.ConnOrTx, memberID int) (int, error) {
	tag, err := dbConn.Exec(ctx,
		`DELETE FROM read_progress WHERE member_id = $1`,
		memberID,
	)
	if err != nil {
		return 0, oops.New(err, "failed to wipe reading progress")
	}
	return int(tag.RowsAffected()), nil
}
