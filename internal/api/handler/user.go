package handler

import (
	"context"
	"net/http"
	"time"

	"guild-dashboard/internal/api/middleware"
	"guild-dashboard/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type OAuthFlow interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (string, error)
}

type StateKeeper interface {
	Issue() (string, error)
	Consume(state string) bool
}

type SessionIssuer interface {
	Issue(id auth.Identity) (string, error)
	TTL() time.Duration
}

// CookieSettings controls the attributes of the session cookie.
type CookieSettings struct {
	Secure   bool
	SameSite http.SameSite
}

// CookieSettingsFor returns cross-site cookies in production and lax ones
// everywhere else.
func CookieSettingsFor(production bool) CookieSettings {
	if production {
		return CookieSettings{Secure: true, SameSite: http.SameSiteNoneMode}
	}
	return CookieSettings{SameSite: http.SameSiteLaxMode}
}

func (s CookieSettings) set(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(s.SameSite)
	c.SetCookie(auth.CookieName, value, maxAge, "/", "", s.Secure, true)
}

// Auth wires the Discord login flow to the session cookie.
type Auth struct {
	OAuth        OAuthFlow
	States       StateKeeper
	Sessions     SessionIssuer
	Users        UserDirectory
	Cookie       CookieSettings
	DashboardURL string
	Log          logrus.FieldLogger
}

// Login redirects the browser to Discord's consent screen.
func (a *Auth) Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		state, err := a.States.Issue()
		if err != nil {
			internalError(c, a.Log, "Authentication failed", err)
			return
		}
		c.Redirect(http.StatusFound, a.OAuth.AuthCodeURL(state))
	}
}

// Callback completes the code exchange, sets the session cookie and sends
// the browser on to the dashboard.
func (a *Auth) Callback() gin.HandlerFunc {
	return func(c *gin.Context) {
		code := c.Query("code")
		if code == "" {
			fail(c, http.StatusBadRequest, "Missing authorization code")
			return
		}
		if !a.States.Consume(c.Query("state")) {
			fail(c, http.StatusBadRequest, "Invalid or expired state")
			return
		}

		ctx := c.Request.Context()
		accessToken, err := a.OAuth.Exchange(ctx, code)
		if err != nil {
			internalError(c, a.Log, "Authentication failed", err)
			return
		}
		user, err := a.Users.CurrentUser(ctx, accessToken)
		if err != nil {
			internalError(c, a.Log, "Authentication failed", err)
			return
		}

		token, err := a.Sessions.Issue(auth.Identity{ID: user.ID, Username: user.Username, AccessToken: accessToken})
		if err != nil {
			internalError(c, a.Log, "Authentication failed", err)
			return
		}

		a.Cookie.set(c, token, int(a.Sessions.TTL().Seconds()))
		middleware.Logger(c, a.Log).WithField("user_id", user.ID).Info("user logged in")
		c.Redirect(http.StatusFound, a.DashboardURL)
	}
}

func (a *Auth) Status() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, found := middleware.Identity(c)
		if !found {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "isLoggedIn": false, "message": "Not logged in"})
			return
		}
		succeed(c, http.StatusOK, gin.H{
			"isLoggedIn": true,
			"user":       gin.H{"id": id.ID, "username": id.Username},
		})
	}
}

// Logout clears the cookie. Tokens already handed out stay valid until
// they expire.
func (a *Auth) Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		a.Cookie.set(c, "", -1)
		succeed(c, http.StatusOK, gin.H{"message": "Logged out"})
	}
}

func (a *Auth) UserAvatar() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, found := middleware.Identity(c)
		if !found {
			fail(c, http.StatusUnauthorized, "Access token required")
			return
		}

		user, err := a.Users.CurrentUser(c.Request.Context(), id.AccessToken)
		if err != nil {
			internalError(c, a.Log, "Failed to fetch user avatar", err)
			return
		}
		succeed(c, http.StatusOK, gin.H{"avatarUrl": user.AvatarURL("")})
	}
}
