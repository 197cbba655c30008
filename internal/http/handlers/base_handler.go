// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fleetcard/internal/modules/action"
	"fleetcard/internal/modules/device"
	"fleetcard/internal/modules/geofence"
	"fleetcard/internal/modules/overlay"
	"fleetcard/internal/modules/session"
	"fleetcard/internal/remote"
)

type errorResponse struct {
	Error      string `json:"error"`
	GeofenceID int64  `json:"geofenceId,omitempty"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeOverlayError(c *gin.Context, err error) {
	var reqErr *remote.RequestError
	var partial *geofence.PartialFailureError
	switch {
	case errors.Is(err, overlay.ErrNotFound), errors.Is(err, session.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, overlay.ErrBadProps), errors.Is(err, action.ErrUnknownAction):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, action.ErrDisabled),
		errors.Is(err, overlay.ErrClosed),
		errors.Is(err, geofence.ErrBusy),
		errors.Is(err, geofence.ErrNoPosition),
		errors.Is(err, device.ErrBusy),
		errors.Is(err, device.ErrNotConfirming):
		writeError(c, http.StatusConflict, err.Error())
	case errors.As(err, &partial):
		writeJSON(c, http.StatusBadGateway, errorResponse{Error: partial.Err.Error(), GeofenceID: int64(partial.GeofenceID)})
	case errors.As(err, &reqErr):
		writeError(c, http.StatusBadGateway, reqErr.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
