package models

import "time"

// How far through an article a member has read. Keyed uniquely by
// (member, article).
//
// Progress is monotonic: it only ever increases, no matter what percentage
// the client reports. Completed latches to true the first time progress
// reaches CompletionThreshold and is never reset by progress updates.
type ReadProgress struct {
	MemberID  int `db:"member_id"`
	ArticleID int `db:"article_id"`

	Progress  float64 `db:"progress"` // 0-100
	Completed bool    `db:"completed"`

	FirstVisitedAt time.Time `db:"first_visited_at"`
	LastVisitedAt  time.Time `db:"last_visited_at"`

	TimeSpent int `db:"time_spent"` // seconds, never decreases
}

// An article counts as read once the member has scrolled through this much
// of it.
const CompletionThreshold = 85.0
