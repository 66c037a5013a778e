package http

import (
	"errors"
	"net/http"

	"chronix/internal/scheduler"
	"chronix/internal/task"
	"chronix/pkg/response"
)

var errInvalidQuery = response.NewHTTPError(http.StatusBadRequest, "invalid query parameters")

// mapError translates use-case errors into HTTP errors.
func (h *handler) mapError(err error) error {
	var cfgErr *scheduler.ConfigurationError
	switch {
	case errors.Is(err, task.ErrTaskNotFound):
		return response.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, task.ErrEmptyTaskID), errors.Is(err, task.ErrInvalidDay):
		return response.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, task.ErrNotSynced):
		return response.NewHTTPError(http.StatusConflict, err.Error())
	case errors.As(err, &cfgErr):
		return response.NewHTTPError(http.StatusUnprocessableEntity, cfgErr.Error())
	case errors.Is(err, task.ErrSyncFailed), errors.Is(err, task.ErrNoDocuments):
		return response.NewHTTPError(http.StatusBadGateway, err.Error())
	default:
		return err
	}
}
