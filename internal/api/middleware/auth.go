package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/homenotes/homenotes/internal/core/domain"
	"github.com/homenotes/homenotes/internal/core/ports"
)

// SessionCookie is the cookie carrying the session token. A bearer
// Authorization header is accepted as an alternative for non-browser clients.
const SessionCookie = "homenotes_session"

// Context keys populated by Auth for downstream handlers.
const (
	CtxUserID      = "user_id"
	CtxUsername    = "username"
	CtxPermissions = "permissions"
	CtxSessionID   = "session_id"
)

var errNoSession = errors.New("no valid session")

// Auth requires a live session: a valid HS256 token whose session id is
// still present in the session store. Unauthenticated requests are
// redirected to the login view with the original destination preserved as
// "next". On success the identity claims are injected into the context.
func Auth(secret string, sessions ports.SessionStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ident, err := authenticate(c, secret, sessions)
			if err != nil {
				if errors.Is(err, errNoSession) {
					return c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(c.Request().URL.Path))
				}
				return err
			}

			c.Set(CtxUserID, ident.userID)
			c.Set(CtxUsername, ident.name)
			c.Set(CtxPermissions, ident.permissions)
			c.Set(CtxSessionID, ident.sessionID)

			return next(c)
		}
	}
}

// AnonymousOnly rejects authenticated callers: login and registration views
// are not reachable with a live session. Redirects them to the home view.
func AnonymousOnly(secret string, sessions ports.SessionStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, err := authenticate(c, secret, sessions); err == nil {
				return c.Redirect(http.StatusFound, "/")
			}
			return next(c)
		}
	}
}

// RequirePermission enforces a permission bit from the authenticated
// identity. Must run after Auth.
func RequirePermission(p domain.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			perms, _ := c.Get(CtxPermissions).(domain.Permission)
			if perms&p != p {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

type identity struct {
	userID      int64
	name        string
	permissions domain.Permission
	sessionID   string
}

// authenticate resolves the caller's identity from the session token, or
// errNoSession when the token is absent, invalid, expired, or revoked.
func authenticate(c echo.Context, secret string, sessions ports.SessionStore) (*identity, error) {
	raw := TokenFromRequest(c)
	if raw == "" {
		return nil, errNoSession
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !tkn.Valid {
		return nil, errNoSession
	}

	sessionID, _ := claims["jti"].(string)
	if sessionID == "" {
		return nil, errNoSession
	}

	// Server-side lookup: a token outliving its Redis entry has been logged
	// out and is no longer valid.
	live, err := sessions.Exists(c.Request().Context(), sessionID)
	if err != nil {
		return nil, err
	}
	if !live {
		return nil, errNoSession
	}

	ident := &identity{sessionID: sessionID}
	if uid, ok := claims["uid"].(float64); ok {
		ident.userID = int64(uid)
	}
	ident.name, _ = claims["name"].(string)
	if perms, ok := claims["perms"].(float64); ok {
		ident.permissions = domain.Permission(perms)
	}
	if ident.userID == 0 {
		return nil, errNoSession
	}

	return ident, nil
}

// TokenFromRequest extracts the raw session token, preferring the session
// cookie and falling back to a bearer Authorization header. Shared with the
// logout handler so both transport forms can be revoked.
func TokenFromRequest(c echo.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := c.Request().Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}
