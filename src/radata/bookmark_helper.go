package radata

import (
	"context"

	"github.com/Prochy20/roguearmy.xyz-sub000/src/db"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/oops"
)

// Bookmarking twice is a no-op, not an error.
func AddBookmark(ctx context.Context, dbConn db.ConnOrTx, memberID int, articleID int) error {
	_, err := dbConn.Exec(ctx,
		`
		INSERT INTO bookmark (member_id, article_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (member_id, article_id) DO NOTHING
		`,
		memberID, articleID,
	)
	if err != nil {
		return oops.New(err, "failed to add bookmark")
	}
	return nil
}

func RemoveBookmark(ctx context.Context, dbConn db.ConnOrTx, memberID int, articleID int) error {
	_, err := dbConn.Exec(ctx,
		`DELETE FROM bookmark WHERE member_id = $1 AND article_id = $2`,
		memberID, articleID,
	)
	if err != nil {
		return oops.New(err, "failed to remove bookmark")
	}
	return nil
}

func IsBookmarked(ctx context.Context, dbConn db.ConnOrTx, memberID int, articleID int) (bool, error) {
	bookmarked, err := db.QueryOneScalar[bool](ctx, dbConn,
		`SELECT COUNT(*) > 0 FROM bookmark WHERE member_id = $1 AND article_id = $2`,
		memberID, articleID,
	)
	if err != nil {
		return false, oops.New(err, "failed to check bookmark")
	}
	return bookmarked, nil
}

// A member's bookmarked articles, newest bookmark first. Articles that lost
// their published version since being bookmarked are filtered out rather
// than shown as dead entries.
func FetchBookmarkedArticles(
	ctx context.Context,
	dbConn db.ConnOrTx,
	memberID int,
) ([]ArticleAndStuff, error) {
	type bookmarkRow struct {
		ArticleID int `db:"article_id"`
	}
	rows, err := db.Query[bookmarkRow](ctx, dbConn,
		`SELECT $columns FROM bookmark WHERE member_id = $1 ORDER BY created_at DESC`,
		memberID,
	)
	if err != nil {
		return nil, oops.New(err, "failed to fetch bookmarks")
	}
	if len(rows) == 0 {
		return nil, nil
	}

	articleIDs := make([]int, len(rows))
	for i, row := range rows {
		articleIDs[i] = row.ArticleID
	}

	articles, err := FetchArticles(ctx, dbConn, ArticlesQuery{
		ArticleIDs: articleIDs,
	})
	if err != nil {
		return nil, err
	}

	// Restore bookmark order; the article fetch has its own ordering.
	byID := make(map[int]ArticleAndStuff, len(articles))
	for _, article := range articles {
		byID[article.Article.ID] = article
	}
	var res []ArticleAndStuff
	for _, id := range articleIDs {
		if article, ok := byID[id]; ok {
			res = append(res, article)
		}
	}
	return res, nil
}
