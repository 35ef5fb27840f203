package models

import "time"

type Bookmark struct {
	ID        int       `db:"id"`
	MemberID  int       `db:"member_id"`
	ArticleID int       `db:"article_id"`
	CreatedAt time.Time `db:"created_at"`
}
