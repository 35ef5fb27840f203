/*
This package contains lowish-level APIs for making database queries to our
Postgres database. It streamlines the process of mapping query results to Go
types, while allowing you to write arbitrary SQL queries.

The primary functions are Query and QueryIterator.

# Query syntax

This package allows a few small extensions to SQL syntax to streamline the
interaction between Go and Postgres.

Arguments can be provided using placeholders like $1, $2, etc. All arguments
will be safely escaped and mapped from their Go type to the correct Postgres
type. (This is a direct proxy to pgx.)

	articleIDs, err := db.Query[int](ctx, conn,
		`
		SELECT id
		FROM article
		WHERE
			slug = ANY($1)
			AND visibility = $2
		`,
		[]string{"patch-notes-77", "night-city-guide"},
		models.ArticleVisibilityPublic,
	)

(This also demonstrates a useful tip: if you want to use a slice in your
query, use Postgres arrays instead of IN.)

When querying individual fields, you can simply select the field like so:

	ids, err := db.Query[int](ctx, conn, `SELECT id FROM article`)

To query multiple columns at once, you may use a struct type with
`db:"column_name"` tags, and the special $columns placeholder:

	type Article struct {
		ID          int       `db:"id"`
		Slug        string    `db:"slug"`
		PublishedAt time.Time `db:"published_at"`
	}
	articles, err := db.Query[Article](ctx, conn, `SELECT $columns FROM ...`)
	// Resulting query:
	// SELECT id, slug, published_at FROM ...

Sometimes a table name prefix is required on each column to disambiguate
between column names, especially when performing a JOIN. In those situations,
you can include the prefix in the $columns placeholder like $columns{prefix}:

	orphaned, err := db.Query[Article](ctx, conn, `
		SELECT $columns{article}
		FROM
			article
			LEFT JOIN article_series ON article_series.id = article.series_id
		WHERE
			article_series.id IS NULL
	`)
	// Resulting query:
	// SELECT article.id, article.slug, article.published_at FROM ...
*/
package db
