package radata

import (
	"context"
	"os"
	"testing"

	"github.com/Prochy20/roguearmy.xyz-sub000/src/models"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeProgressReport(t *testing.T) {
	percent, delta := sanitizeProgressReport(40, 10)
	assert.Equal(t, 40.0, percent)
	assert.Equal(t, 10, delta)

	percent, _ = sanitizeProgressReport(150, 0)
	assert.Equal(t, 100.0, percent)

	percent, _ = sanitizeProgressReport(-20, 0)
	assert.Equal(t, 0.0, percent)

	_, delta = sanitizeProgressReport(40, -5)
	assert.Equal(t, 0, delta)
}

// Exercises the actual upsert against a real database, since the monotonic
// and latching rules live in the SQL. Set RA_TEST_DATABASE_URL to run it;
// the test only touches a temp table that shadows read_progress for the
// lifetime of its connection.
func TestRecordProgress(t *testing.T) {
	dsn := os.Getenv("RA_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("set RA_TEST_DATABASE_URL to run database tests")
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dsn)
	require.NoError(t, err)
	defer conn.Close(ctx)

	_, err = conn.Exec(ctx, `
		CREATE TEMP TABLE read_progress (
			member_id INT NOT NULL,
			article_id INT NOT NULL,
			progress DOUBLE PRECISION NOT NULL DEFAULT 0,
			completed BOOLEAN NOT NULL DEFAULT FALSE,
			first_visited_at TIMESTAMP WITH TIME ZONE NOT NULL,
			last_visited_at TIMESTAMP WITH TIME ZONE NOT NULL,
			time_spent INT NOT NULL DEFAULT 0,
			PRIMARY KEY (member_id, article_id)
		)
	`)
	require.NoError(t, err)

	t.Run("lower reports never lower progress", func(t *testing.T) {
		p, err := RecordProgress(ctx, conn, 1, 1, 40, 5)
		require.NoError(t, err)
		assert.Equal(t, 40.0, p.Progress)
		assert.False(t, p.Completed)
		assert.Equal(t, 5, p.TimeSpent)

		// A stale tab reporting a lower position still accumulates time.
		p, err = RecordProgress(ctx, conn, 1, 1, 30, 5)
		require.NoError(t, err)
		assert.Equal(t, 40.0, p.Progress)
		assert.Equal(t, 10, p.TimeSpent)
	})

	t.Run("completed latches at the threshold and never unlatches", func(t *testing.T) {
		p, err := RecordProgress(ctx, conn, 1, 2, models.CompletionThreshold, 0)
		require.NoError(t, err)
		assert.True(t, p.Completed)

		p, err = RecordProgress(ctx, conn, 1, 2, 10, 0)
		require.NoError(t, err)
		assert.True(t, p.Completed)
		assert.Equal(t, float64(models.CompletionThreshold), p.Progress)
	})

	t.Run("below the threshold is not completed", func(t *testing.T) {
		p, err := RecordProgress(ctx, conn, 1, 3, models.CompletionThreshold-1, 0)
		require.NoError(t, err)
		assert.False(t, p.Completed)
	})

	t.Run("first visit is set once, last visit always", func(t *testing.T) {
		first, err := RecordProgress(ctx, conn, 1, 4, 10, 0)
		require.NoError(t, err)

		second, err := RecordProgress(ctx, conn, 1, 4, 20, 0)
		require.NoError(t, err)
		assert.Equal(t, first.FirstVisitedAt, second.FirstVisitedAt)
		assert.False(t, second.LastVisitedAt.Before(first.LastVisitedAt))
	})
}
