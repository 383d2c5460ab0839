package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/karolswdev/promptarchitect/internal/form"
)

// ErrNoSession is returned to API calls that carry no live session cookie.
var ErrNoSession = errors.New("no session; reload the page")

const (
	// SessionCookieName holds the browser's session id.
	SessionCookieName = "parch_session"
	controllerKey     = "controller"
)

// requestLogger logs every request through zerolog.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := log.Debug()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP request")
	}
}

// pageSession attaches the caller's controller, creating a session (and
// cookie) when the cookie is missing or no longer known.
func pageSession(store *SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctrl *form.Controller
		if id, err := c.Cookie(SessionCookieName); err == nil {
			ctrl, _ = store.Get(id)
		}
		if ctrl == nil {
			var id string
			id, ctrl = store.Create()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookieName, id, 0, "/", "", false, true)
		}
		c.Set(controllerKey, ctrl)
		c.Next()
	}
}

// apiSession attaches the caller's controller. Only the page creates
// sessions, so API calls without a known cookie get 401.
func apiSession(store *SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(SessionCookieName)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrNoSession.Error()})
			return
		}
		ctrl, ok := store.Get(id)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrNoSession.Error()})
			return
		}
		c.Set(controllerKey, ctrl)
		c.Next()
	}
}

func controllerFrom(c *gin.Context) *form.Controller {
	return c.MustGet(controllerKey).(*form.Controller)
}
