package admintools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	lorem "github.com/HandmadeNetwork/golorem"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/content"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/db"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/models"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/parsing"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/radata"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/website"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/wiki"
	"github.com/spf13/cobra"
)

func init() {
	adminCommand := &cobra.Command{
		Use:   "admin",
		Short: "Miscellaneous admin commands",
	}
	website.WebsiteCommand.AddCommand(adminCommand)

	banCommand := &cobra.Command{
		Use:   "ban [discord id]",
		Short: "Ban a member and kill their sessions",
		Run: func(cmd *cobra.Command, args []string) {
			member := requireMemberArg(cmd, args)

			ctx := context.Background()
			conn := db.NewConn()
			defer conn.Close(ctx)

			err := radata.BanMember(ctx, conn, member.ID)
			if err != nil {
				panic(err)
			}

			fmt.Printf("Banned %s (member %d)\n", member.BestName(), member.ID)
		},
	}
	adminCommand.AddCommand(banCommand)

	unbanCommand := &cobra.Command{
		Use:   "unban [discord id]",
		Short: "Reinstate a banned member",
		Run: func(cmd *cobra.Command, args []string) {
			member := requireMemberArg(cmd, args)

			ctx := context.Background()
			conn := db.NewConn()
			defer conn.Close(ctx)

			err := radata.UnbanMember(ctx, conn, member.ID)
			if err != nil {
				panic(err)
			}

			fmt.Printf("Unbanned %s (member %d)\n", member.BestName(), member.ID)
		},
	}
	adminCommand.AddCommand(unbanCommand)

	setStaffCommand := &cobra.Command{
		Use:   "setstaff [discord id] [true/false]",
		Short: "Toggle a member's staff privileges",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) < 2 {
				fmt.Printf("You must provide a discord id and 'true' or 'false'.\n\n")
				cmd.Usage()
				os.Exit(1)
			}

			member := requireMemberArg(cmd, args)
			makeStaff := args[1] == "true"

			ctx := context.Background()
			conn := db.NewConn()
			defer conn.Close(ctx)

			_, err := conn.Exec(ctx,
				`UPDATE member SET is_staff = $1 WHERE id = $2`,
				makeStaff, member.ID,
			)
			if err != nil {
				panic(err)
			}

			fmt.Printf("Successfully set %s's is_staff to %v\n", member.BestName(), makeStaff)
		},
	}
	adminCommand.AddCommand(setStaffCommand)

	wipeProgressCommand := &cobra.Command{
		Use:   "wipeprogress [discord id]",
		Short: "Delete all reading progress for a member",
		Run: func(cmd *cobra.Command, args []string) {
			member := requireMemberArg(cmd, args)

			ctx := context.Background()
			conn := db.NewConn()
			defer conn.Close(ctx)

			deleted, err := radata.WipeProgressForMember(ctx, conn, member.ID)
			if err != nil {
				panic(err)
			}

			fmt.Printf("Deleted progress on %d articles for %s\n", deleted, member.BestName())
		},
	}
	adminCommand.AddCommand(wipeProgressCommand)

	recalcReadingTimesCommand := &cobra.Command{
		Use:   "recalcreadingtimes",
		Short: "Recompute reading times for all articles from their current content",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			conn := db.NewConn()
			defer conn.Close(ctx)

			wikiClient := wiki.NewClient()

			articles, err := radata.FetchArticles(ctx, conn, radata.ArticlesQuery{
				IncludeUnpublished: true,
			})
			if err != nil {
				panic(err)
			}

			for i := range articles {
				article := &articles[i].Article

				version, err := radata.FetchVersionForArticle(ctx, conn, article, true)
				if err != nil {
					if errors.Is(err, db.NotFound) {
						fmt.Printf("Skipping %s: no content versions\n", article.Slug)
						continue
					}
					panic(err)
				}

				source, err := content.ResolveSource(version)
				if err != nil {
					fmt.Printf("Skipping %s: %v\n", article.Slug, err)
					continue
				}

				var plain string
				switch src := source.(type) {
				case content.CMSSource:
					plain = src.Document.PlainText()
				case content.ExternalSource:
					doc, err := wikiClient.GetDocument(ctx, src.DocumentID)
					if err != nil {
						fmt.Printf("Skipping %s: wiki fetch failed: %v\n", article.Slug, err)
						continue
					}
					plain = parsing.PlainText(doc.Markdown)
				}

				readingTime := parsing.EstimateReadingTime(parsing.WordCount(plain))
				_, err = conn.Exec(ctx,
					`UPDATE article SET reading_time = $1 WHERE id = $2`,
					readingTime, article.ID,
				)
				if err != nil {
					panic(err)
				}

				fmt.Printf("%s: %d min\n", article.Slug, readingTime)
			}
		},
	}
	adminCommand.AddCommand(recalcReadingTimesCommand)

	seedCommand := &cobra.Command{
		Use:   "seed",
		Short: "Fill the database with sample data for local dev",
		Run: func(cmd *cobra.Command, args []string) {
			SampleSeed()
		},
	}
	adminCommand.AddCommand(seedCommand)
}

func requireMemberArg(cmd *cobra.Command, args []string) *models.Member {
	if len(args) < 1 {
		fmt.Printf("You must provide a discord id.\n\n")
		cmd.Usage()
		os.Exit(1)
	}

	ctx := context.Background()
	conn := db.NewConn()
	defer conn.Close(ctx)

	member, err := radata.FetchMemberByDiscordID(ctx, conn, args[0])
	if err != nil {
		if errors.Is(err, db.NotFound) {
			fmt.Printf("No member with discord id '%s'\n", args[0])
			os.Exit(1)
		}
		panic(err)
	}

	return member
}

// Seeds the database with sample members, series, and articles for local
// dev. Safe to run only on an empty database; slugs are not deduplicated.
func SampleSeed() {
	ctx := context.Background()
	conn := db.NewConn()
	defer conn.Close(ctx)

	fmt.Println("Creating sample members...")
	alice := seedMember(ctx, conn, "100000000000000001", "alice")
	bob := seedMember(ctx, conn, "100000000000000002", "bob")
	seedMember(ctx, conn, "100000000000000003", "charlie")

	fmt.Println("Creating sample series...")
	var seriesID int
	err := conn.QueryRow(ctx,
		`
		INSERT INTO article_series (slug, title, description)
		VALUES ('dev-diary', 'Dev Diary', $1)
		RETURNING id
		`,
		lorem.Paragraph(1, 2),
	).Scan(&seriesID)
	if err != nil {
		panic(err)
	}

	fmt.Println("Creating sample articles...")
	var articleIDs []int
	for i := 0; i < 6; i++ {
		slug := fmt.Sprintf("%s-%d", lorem.Word(3, 10), i+1)
		visibility := models.ArticleVisibilityPublic
		if i%2 == 1 {
			visibility = models.ArticleVisibilityMembersOnly
		}

		var articleID int
		err := conn.QueryRow(ctx,
			`
			INSERT INTO article (slug, title, perex, topic, series_id, series_order, visibility)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
			`,
			slug,
			strings.Title(lorem.Sentence(3, 6)),
			lorem.Paragraph(1, 1),
			[]string{"news", "guides", "lore"}[i%3],
			seriesID,
			i+1,
			visibility,
		).Scan(&articleID)
		if err != nil {
			panic(err)
		}

		_, err = conn.Exec(ctx,
			`INSERT INTO article_game (article_id, game) VALUES ($1, $2)`,
			articleID, []string{"Rogue", "NetHack", "DCSS"}[i%3],
		)
		if err != nil {
			panic(err)
		}

		richText := sampleDocument()
		_, err = radata.CreateArticleVersion(ctx, conn, radata.ArticleVersionInput{
			ArticleID: articleID,
			RichText:  &richText,
			Publish:   i < 5, // leave one article as a draft
		})
		if err != nil {
			panic(err)
		}

		articleIDs = append(articleIDs, articleID)
	}

	fmt.Println("Creating sample progress and bookmarks...")
	for i, articleID := range articleIDs {
		if _, err := radata.RecordProgress(ctx, conn, alice.ID, articleID, float64(20*i), 60*i); err != nil {
			panic(err)
		}
	}
	if err := radata.AddBookmark(ctx, conn, alice.ID, articleIDs[0]); err != nil {
		panic(err)
	}
	if err := radata.AddBookmark(ctx, conn, bob.ID, articleIDs[1]); err != nil {
		panic(err)
	}

	fmt.Println("Done!")
}

func seedMember(ctx context.Context, conn db.ConnOrTx, discordID string, username string) *models.Member {
	member, err := db.QueryOne[models.Member](ctx, conn,
		`
		INSERT INTO member (discord_id, username, display_name)
		VALUES ($1, $2, $3)
		RETURNING $columns
		`,
		discordID, username, strings.Title(username),
	)
	if err != nil {
		panic(err)
	}
	return member
}

// A small rich text document in the CMS's node format, with headings so the
// table of contents has something to chew on.
func sampleDocument() string {
	doc := content.DocNode{
		Type: content.NodeTypeDoc,
		Content: []content.DocNode{
			heading(2, strings.Title(lorem.Sentence(2, 4))),
			paragraph(lorem.Paragraph(2, 4)),
			heading(2, strings.Title(lorem.Sentence(2, 4))),
			paragraph(lorem.Paragraph(2, 4)),
			heading(3, strings.Title(lorem.Sentence(2, 3))),
			paragraph(lorem.Paragraph(1, 3)),
		},
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	return string(raw)
}

func heading(level int, text string) content.DocNode {
	return content.DocNode{
		Type:    content.NodeTypeHeading,
		Attrs:   content.DocAttrs{Level: level},
		Content: []content.DocNode{{Type: content.NodeTypeText, Text: text}},
	}
}

func paragraph(text string) content.DocNode {
	return content.DocNode{
		Type:    "paragraph",
		Content: []content.DocNode{{Type: content.NodeTypeText, Text: text}},
	}
}
