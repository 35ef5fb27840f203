package website

import (
	"net/http"
	"regexp"

	"github.com/Prochy20/roguearmy.xyz-sub000/src/raurl"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewWebsiteRoutes(conn *pgxpool.Pool) http.Handler {
	router := &Router{}
	routes := RouteBuilder{
		Router: router,
		Middlewares: []Middleware{
			setDBConn(conn),
			panicCatcherMiddleware,
			logContextErrorsMiddleware,
			loadCommonData,
		},
	}

	routes.GET(raurl.RegexHomepage, Homepage)
	routes.GET(raurl.RegexHealthCheck, HealthCheck)

	routes.GET(raurl.RegexLogin, Login)
	routes.AnyMethod(raurl.RegexLogout, Logout)
	routes.GET(raurl.RegexDiscordOAuthCallback, DiscordOAuthCallback)

	routes.GET(raurl.RegexArticleIndex, ArticleIndex)
	routes.GET(raurl.RegexArticle, Article)
	routes.GET(raurl.RegexSeriesIndex, SeriesIndex)
	routes.GET(raurl.RegexSeries, Series)

	routes.GET(raurl.RegexOverlay, Overlay)
	routes.GET(raurl.RegexAPIOverlayConfig, APIOverlayConfig)

	routes.GET(raurl.RegexAPIArticleTOC, APIArticleTOC)
	routes.GET(raurl.RegexAPISeriesNavigation, APISeriesNavigation)

	memberRoutes := routes.WithMiddleware(apiNeedsAuth)
	memberRoutes.GET(raurl.RegexAPIMe, APIMe)
	memberRoutes.GET(raurl.RegexAPIBookmarks, APIBookmarks)

	mutatingRoutes := memberRoutes.WithMiddleware(csrfMiddleware)
	mutatingRoutes.POST(raurl.RegexAPIArticleProgress, APIArticleProgress)
	mutatingRoutes.POST(raurl.RegexAPIArticleBookmark, APIArticleBookmark)
	mutatingRoutes.DELETE(raurl.RegexAPIArticleBookmark, APIArticleBookmark)

	staffRoutes := mutatingRoutes.WithMiddleware(staffOnly)
	staffRoutes.POST(raurl.RegexAPIArticleVersions, APIArticleVersionCreate)

	routes.AnyMethod(regexp.MustCompile("^"), FourOhFour)

	return router
}

func setDBConn(conn *pgxpool.Pool) Middleware {
	return func(h Handler) Handler {
		return func(c *RequestContext) ResponseData {
			c.Conn = conn
			return h(c)
		}
	}
}
