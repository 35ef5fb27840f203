package website

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestRouterDispatch(t *testing.T) {
	router := &Router{}
	routes := RouteBuilder{Router: router}

	routes.GET(regexp.MustCompile(`^/articles/(?P<slug>[^/]+)$`), func(c *RequestContext) ResponseData {
		return Json(map[string]string{"slug": c.PathParams["slug"]})
	})
	routes.POST(regexp.MustCompile(`^/articles/(?P<slug>[^/]+)/progress$`), func(c *RequestContext) ResponseData {
		return Json(map[string]bool{"ok": true})
	})
	routes.AnyMethod(regexp.MustCompile("^"), func(c *RequestContext) ResponseData {
		return FourOhFour(c)
	})

	srv := httptest.NewServer(router)
	defer srv.Close()

	t.Run("path params", func(t *testing.T) {
		res, err := http.Get(srv.URL + "/articles/dungeon-basics")
		if assert.Nil(t, err) {
			defer res.Body.Close()
			assert.Equal(t, http.StatusOK, res.StatusCode)

			var body map[string]string
			bodyBytes, _ := io.ReadAll(res.Body)
			assert.Nil(t, json.Unmarshal(bodyBytes, &body))
			assert.Equal(t, "dungeon-basics", body["slug"])
		}
	})

	t.Run("method matters", func(t *testing.T) {
		res, err := http.Post(srv.URL+"/articles/dungeon-basics", "application/json", nil)
		if assert.Nil(t, err) {
			defer res.Body.Close()
			assert.Equal(t, http.StatusNotFound, res.StatusCode)
		}
	})

	t.Run("wildcard four oh four", func(t *testing.T) {
		res, err := http.Get(srv.URL + "/nope")
		if assert.Nil(t, err) {
			defer res.Body.Close()
			assert.Equal(t, http.StatusNotFound, res.StatusCode)
		}
	})
}

func TestLogContextErrors(t *testing.T) {
	err1 := errors.New("test error 1")
	err2 := errors.New("test error 2")

	defer zerolog.SetGlobalLevel(zerolog.GlobalLevel())
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	logger.Print("sanity check")

	assert.Contains(t, buf.String(), "sanity check")

	router := &Router{}
	routes := RouteBuilder{
		Router: router,
		Middlewares: []Middleware{
			func(h Handler) Handler {
				return func(c *RequestContext) ResponseData {
					c.Logger = &logger
					return h(c)
				}
			},
			logContextErrorsMiddleware,
		},
	}

	routes.GET(regexp.MustCompile("^/test$"), func(c *RequestContext) ResponseData {
		return c.ErrorResponse(http.StatusInternalServerError, err1, err2)
	})

	srv := httptest.NewServer(router)
	defer srv.Close()

	res, err := http.Get(srv.URL + "/test")
	if assert.Nil(t, err) {
		defer res.Body.Close()

		t.Logf("Log contents: %s", buf.String())

		assert.Equal(t, http.StatusInternalServerError, res.StatusCode)

		assert.Contains(t, buf.String(), err1.Error())
		assert.Contains(t, buf.String(), err2.Error())
	}
}
