package raurl

import (
	"regexp"

	"github.com/Prochy20/roguearmy.xyz-sub000/src/config"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/overlay"
)

var RegexHomepage = regexp.MustCompile("^/$")

func BuildHomepage() string {
	return Url("/", nil)
}

var RegexHealthCheck = regexp.MustCompile("^/health$")

func BuildHealthCheck() string {
	return Url("/health", nil)
}

var RegexLogin = regexp.MustCompile("^/login$")

func BuildLogin(redirectTo string) string {
	var query []Q
	if redirectTo != "" {
		query = append(query, Q{Name: "redirect", Value: redirectTo})
	}
	return Url("/login", query)
}

var RegexLogout = regexp.MustCompile("^/logout$")

func BuildLogout() string {
	return Url("/logout", nil)
}

var RegexDiscordOAuthCallback = regexp.MustCompile("^/login/discord/callback$")

func BuildDiscordOAuthCallback() string {
	return Url("/login/discord/callback", nil)
}

var RegexArticleIndex = regexp.MustCompile("^/articles$")

func BuildArticleIndex(topic string) string {
	var query []Q
	if topic != "" {
		query = append(query, Q{Name: "topic", Value: topic})
	}
	return Url("/articles", query)
}

var RegexArticle = regexp.MustCompile(`^/articles/(?P<slug>[^/]+)$`)

func BuildArticle(slug string) string {
	return Url("/articles/"+slug, nil)
}

// Deep link to a heading within an article. The fragment is a heading slug
// as produced by the table of contents.
func BuildArticleHeading(slug string, headingID string) string {
	return BuildArticle(slug) + "#" + headingID
}

var RegexSeriesIndex = regexp.MustCompile("^/series$")

func BuildSeriesIndex() string {
	return Url("/series", nil)
}

var RegexSeries = regexp.MustCompile(`^/series/(?P<slug>[^/]+)$`)

func BuildSeries(slug string) string {
	return Url("/series/"+slug, nil)
}

var RegexOverlay = regexp.MustCompile("^/overlay$")

func BuildOverlay(cfg overlay.Config) string {
	return UrlWithRawQuery("/overlay", cfg.EncodeQuery())
}

var RegexAPIMe = regexp.MustCompile("^/api/me$")

func BuildAPIMe() string {
	return Url("/api/me", nil)
}

var RegexAPIArticleTOC = regexp.MustCompile(`^/api/articles/(?P<slug>[^/]+)/toc$`)

func BuildAPIArticleTOC(slug string) string {
	return Url("/api/articles/"+slug+"/toc", nil)
}

var RegexAPIArticleProgress = regexp.MustCompile(`^/api/articles/(?P<slug>[^/]+)/progress$`)

func BuildAPIArticleProgress(slug string) string {
	return Url("/api/articles/"+slug+"/progress", nil)
}

var RegexAPIArticleBookmark = regexp.MustCompile(`^/api/articles/(?P<slug>[^/]+)/bookmark$`)

func BuildAPIArticleBookmark(slug string) string {
	return Url("/api/articles/"+slug+"/bookmark", nil)
}

var RegexAPIArticleVersions = regexp.MustCompile(`^/api/articles/(?P<slug>[^/]+)/versions$`)

func BuildAPIArticleVersions(slug string) string {
	return Url("/api/articles/"+slug+"/versions", nil)
}

var RegexAPIBookmarks = regexp.MustCompile("^/api/bookmarks$")

func BuildAPIBookmarks() string {
	return Url("/api/bookmarks", nil)
}

var RegexAPISeriesNavigation = regexp.MustCompile(`^/api/articles/(?P<slug>[^/]+)/series$`)

func BuildAPISeriesNavigation(slug string) string {
	return Url("/api/articles/"+slug+"/series", nil)
}

var RegexAPIOverlayConfig = regexp.MustCompile("^/api/overlay$")

func BuildAPIOverlayConfig() string {
	return Url("/api/overlay", nil)
}

func BuildAssetUrl(s3key string) string {
	return config.Config.Spaces.AssetsPublicUrlRoot + s3key
}
