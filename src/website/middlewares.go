package website

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Prochy20/roguearmy.xyz-sub000/src/auth"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/config"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/db"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/models"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/oops"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/radata"
)

func panicCatcherMiddleware(h Handler) Handler {
	return func(c *RequestContext) (res ResponseData) {
		defer func() {
			if recovered := recover(); recovered != nil {
				maybeError, ok := recovered.(*error)
				var err error
				if ok {
					err = *maybeError
				} else {
					err = oops.New(nil, fmt.Sprintf("Recovered from panic with value: %v", recovered))
				}
				res = c.ErrorResponse(http.StatusInternalServerError, err)
			}
		}()

		return h(c)
	}
}

// The name of the header the CMS editor sends to request preview mode.
const previewSecretHeader = "X-Preview-Secret"

// Loads the session, the current member, and the preview flag. Everything
// downstream of the router runs behind this.
func loadCommonData(h Handler) Handler {
	return func(c *RequestContext) ResponseData {
		sessionCookie, err := c.Req.Cookie(auth.SessionCookieName)
		if err == nil {
			member, session, err := getCurrentMemberAndSession(c, sessionCookie.Value)
			if err != nil {
				return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to get current member"))
			}

			c.CurrentMember = member
			c.CurrentSession = session
		}
		// http.ErrNoCookie is the only error Cookie ever returns, so no further handling to do here.

		if secret := c.Req.Header.Get(previewSecretHeader); secret != "" {
			if config.Config.Preview.Secret != "" && secret == config.Config.Preview.Secret {
				c.PreviewMode = true
			} else {
				c.Logger.Warn().Msg("request sent a bad preview secret")
			}
		}

		return h(c)
	}
}

func getCurrentMemberAndSession(c *RequestContext, sessionId string) (member *models.Member, session *models.Session, err error) {
	session, err = auth.GetSession(c, c.Conn, sessionId)
	if err != nil {
		if errors.Is(err, auth.ErrNoSession) {
			return nil, nil, nil
		}
		return nil, nil, oops.New(err, "failed to get current session")
	}

	member, err = radata.FetchMember(c, c.Conn, session.MemberID)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			c.Logger.Warn().Int("memberId", session.MemberID).Msg("session pointed at a nonexistent member")
			return nil, nil, nil
		}
		return nil, nil, oops.New(err, "failed to get current member")
	}

	return member, session, nil
}

// Everything under /api wants a 401, not a redirect to a login page.
func apiNeedsAuth(h Handler) Handler {
	return func(c *RequestContext) ResponseData {
		if c.CurrentMember == nil {
			return ErrorJson(http.StatusUnauthorized, "you must be logged in")
		}

		return h(c)
	}
}

func staffOnly(h Handler) Handler {
	return func(c *RequestContext) ResponseData {
		if c.CurrentMember == nil || !c.CurrentMember.IsStaff {
			return FourOhFour(c)
		}

		return h(c)
	}
}

const csrfHeaderName = "X-CSRF-Token"

func csrfMiddleware(h Handler) Handler {
	// CSRF mitigation actions per the OWASP cheat sheet:
	// https://cheatsheetseries.owasp.org/cheatsheets/Cross-Site_Request_Forgery_Prevention_Cheat_Sheet.html
	return func(c *RequestContext) ResponseData {
		csrfToken := c.Req.Header.Get(csrfHeaderName)
		if csrfToken == "" {
			c.Req.ParseMultipartForm(100 * 1024 * 1024)
			csrfToken = c.Req.Form.Get(auth.CSRFFieldName)
		}
		if c.CurrentSession == nil || csrfToken != c.CurrentSession.CSRFToken {
			c.Logger.Warn().Str("member", c.CurrentMember.Username).Msg("member failed CSRF validation - potential attack?")

			res := c.Redirect("/", http.StatusSeeOther)
			logoutMember(c, &res)

			return res
		}

		return h(c)
	}
}

func logContextErrors(c *RequestContext, errs ...error) {
	for _, err := range errs {
		c.Logger.Error().Timestamp().Stack().Str("Requested", c.FullUrl()).Err(err).Msg("error occurred during request")
	}
}

func logContextErrorsMiddleware(h Handler) Handler {
	return func(c *RequestContext) ResponseData {
		res := h(c)
		logContextErrors(c, res.Errors...)
		return res
	}
}
