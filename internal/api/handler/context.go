package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/homenotes/homenotes/internal/api/middleware"
)

// ctxIdentity extracts the identity injected by the Auth middleware and
// fast-fails before any service call: a zero user id means the middleware
// did not run or the claims are malformed.
func ctxIdentity(c echo.Context) (userID int64, username string, err error) {
	userID, _ = c.Get(middleware.CtxUserID).(int64)
	if userID == 0 {
		return 0, "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	username, _ = c.Get(middleware.CtxUsername).(string)
	return userID, username, nil
}
