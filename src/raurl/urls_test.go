package raurl

import (
	"net/url"
	"regexp"
	"testing"

	"github.com/Prochy20/roguearmy.xyz-sub000/src/overlay"
	"github.com/stretchr/testify/assert"
)

func TestUrl(t *testing.T) {
	t.Run("no query", func(t *testing.T) {
		result := Url("/test/foo", nil)
		assert.True(t, regexp.MustCompile(`^https?://[^/]+/test/foo$`).MatchString(result), result)
	})
	t.Run("yes query", func(t *testing.T) {
		result := Url("/test/foo", []Q{{"bar", "baz"}, {"zig??", "zig & zag!!"}})
		parsed, err := url.Parse(result)
		assert.Nil(t, err)
		assert.Equal(t, "baz", parsed.Query().Get("bar"))
		assert.Equal(t, "zig & zag!!", parsed.Query().Get("zig??"))
	})
}

func TestHomepage(t *testing.T) {
	AssertRegexMatch(t, BuildHomepage(), RegexHomepage, nil)
	AssertRegexMatch(t, BuildHealthCheck(), RegexHealthCheck, nil)
}

func TestAuthPages(t *testing.T) {
	AssertRegexMatch(t, BuildLogin(""), RegexLogin, nil)
	AssertRegexMatch(t, BuildLogin("/articles/foo"), RegexLogin, nil)
	AssertRegexMatch(t, BuildLogout(), RegexLogout, nil)
	AssertRegexMatch(t, BuildDiscordOAuthCallback(), RegexDiscordOAuthCallback, nil)
}

func TestArticles(t *testing.T) {
	AssertRegexMatch(t, BuildArticleIndex(""), RegexArticleIndex, nil)
	AssertRegexMatch(t, BuildArticleIndex("netrunning"), RegexArticleIndex, nil)
	AssertRegexMatch(t, BuildArticle("neon-dreams"), RegexArticle, map[string]string{"slug": "neon-dreams"})
	AssertRegexMatch(t, BuildArticleHeading("neon-dreams", "getting-started"), RegexArticle, map[string]string{"slug": "neon-dreams"})
}

func TestSeries(t *testing.T) {
	AssertRegexMatch(t, BuildSeriesIndex(), RegexSeriesIndex, nil)
	AssertRegexMatch(t, BuildSeries("netrunning-101"), RegexSeries, map[string]string{"slug": "netrunning-101"})
}

func TestOverlay(t *testing.T) {
	AssertRegexMatch(t, BuildOverlay(overlay.DefaultConfig()), RegexOverlay, nil)

	cfg := overlay.DefaultConfig()
	cfg.Theme = overlay.ThemeTerminal
	cfg.ShowTicker = true
	cfg.TickerText = "raid night"
	withQuery := BuildOverlay(cfg)
	AssertRegexMatch(t, withQuery, RegexOverlay, nil)
	parsed, err := url.Parse(withQuery)
	assert.Nil(t, err)
	assert.Equal(t, cfg, overlay.DecodeQuery(parsed.Query()))
}

func TestAPI(t *testing.T) {
	AssertRegexMatch(t, BuildAPIMe(), RegexAPIMe, nil)
	AssertRegexMatch(t, BuildAPIArticleTOC("neon-dreams"), RegexAPIArticleTOC, map[string]string{"slug": "neon-dreams"})
	AssertRegexMatch(t, BuildAPIArticleProgress("neon-dreams"), RegexAPIArticleProgress, map[string]string{"slug": "neon-dreams"})
	AssertRegexMatch(t, BuildAPIArticleBookmark("neon-dreams"), RegexAPIArticleBookmark, map[string]string{"slug": "neon-dreams"})
	AssertRegexMatch(t, BuildAPIArticleVersions("neon-dreams"), RegexAPIArticleVersions, map[string]string{"slug": "neon-dreams"})
	AssertRegexMatch(t, BuildAPIBookmarks(), RegexAPIBookmarks, nil)
	AssertRegexMatch(t, BuildAPISeriesNavigation("neon-dreams"), RegexAPISeriesNavigation, map[string]string{"slug": "neon-dreams"})
	AssertRegexMatch(t, BuildAPIOverlayConfig(), RegexAPIOverlayConfig, nil)
}

func AssertRegexMatch(t *testing.T, fullUrl string, regex *regexp.Regexp, paramsToVerify map[string]string) {
	t.Helper()

	parsed, err := url.Parse(fullUrl)
	ok := assert.Nilf(t, err, "Full url could not be parsed: %s", fullUrl)
	if !ok {
		return
	}

	requestPath := parsed.Path
	if len(requestPath) == 0 {
		requestPath = "/"
	}
	match := regex.FindStringSubmatch(requestPath)
	assert.NotNilf(t, match, "Url did not match regex: [%s] vs [%s]", requestPath, regex.String())

	if paramsToVerify != nil {
		subexpNames := regex.SubexpNames()
		for i, matchedValue := range match {
			paramName := subexpNames[i]
			expectedValue, ok := paramsToVerify[paramName]
			if ok {
				assert.Equalf(t, expectedValue, matchedValue, "Param mismatch for [%s]", paramName)
				delete(paramsToVerify, paramName)
			}
		}
		if len(paramsToVerify) > 0 {
			unmatchedParams := make([]string, 0, len(paramsToVerify))
			for paramName := range paramsToVerify {
				unmatchedParams = append(unmatchedParams, paramName)
			}
			t.Errorf("Expected match groups not found: %v", unmatchedParams)
		}
	}
}
