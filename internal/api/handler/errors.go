package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskboard/task-manager/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// mapError converts known domain errors into HTTP errors with a stable
// message. Anything else is returned untouched so the central error handler
// logs it and answers 500.
func mapError(err error) error {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return echo.NewHTTPError(http.StatusBadRequest, ve.Error())
	case errors.Is(err, domain.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, domain.ErrValidation.Error())
	case errors.Is(err, domain.ErrUserExists):
		return echo.NewHTTPError(http.StatusBadRequest, domain.ErrUserExists.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrInvalidCredentials.Error())
	case errors.Is(err, domain.ErrUnauthenticated):
		return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrUnauthenticated.Error())
	case errors.Is(err, domain.ErrTaskNotFound):
		return echo.NewHTTPError(http.StatusNotFound, domain.ErrTaskNotFound.Error())
	}
	return err
}
