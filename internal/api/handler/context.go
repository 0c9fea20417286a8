package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskboard/task-manager/internal/api/middleware"
)

// ctxUserID returns the identity claim injected by the Auth middleware. An
// empty value means the route was mounted without Auth; reject with 401
// rather than run an unscoped query.
func ctxUserID(c echo.Context) (string, error) {
	userID, _ := c.Get(middleware.KeyUserID).(string)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, nil
}
