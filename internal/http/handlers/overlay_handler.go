// README: Status card overlay handlers: mount, render, props, actions and workflows.
package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"fleetcard/internal/http/middleware"
	"fleetcard/internal/modules/action"
	"fleetcard/internal/modules/overlay"
	"fleetcard/internal/modules/position"
	"fleetcard/internal/types"
)

type OverlayHandler struct {
	overlays *overlay.Registry
}

func NewOverlayHandler(reg *overlay.Registry) *OverlayHandler {
	return &OverlayHandler{overlays: reg}
}

type mountReq struct {
	DeviceID       types.ID           `json:"deviceId"`
	Position       *position.Position `json:"position"`
	DisableActions bool               `json:"disableActions"`
	DesktopPadding overlay.Padding    `json:"desktopPadding"`
}

type removalReq struct {
	Confirmed bool `json:"confirmed"`
}

type overlayResp struct {
	ID       string        `json:"id"`
	Card     *overlay.Card `json:"card"`
	Navigate []string      `json:"navigate,omitempty"`
	Closed   bool          `json:"closed,omitempty"`
}

func (h *OverlayHandler) Mount(c *gin.Context) {
	var req mountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	o, err := h.overlays.Mount(c.Request.Context(), middleware.CallerEmail(c), overlay.Props{
		DeviceID:       req.DeviceID,
		Position:       req.Position,
		DisableActions: req.DisableActions,
		DesktopPadding: req.DesktopPadding,
	})
	if err != nil {
		writeOverlayError(c, err)
		return
	}
	h.respond(c, http.StatusCreated, o)
}

func (h *OverlayHandler) Get(c *gin.Context) {
	o, ok := h.load(c)
	if !ok {
		return
	}
	h.respond(c, http.StatusOK, o)
}

func (h *OverlayHandler) Update(c *gin.Context) {
	o, ok := h.load(c)
	if !ok {
		return
	}
	var req mountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	err := o.Update(overlay.Props{
		DeviceID:       req.DeviceID,
		Position:       req.Position,
		DisableActions: req.DisableActions,
		DesktopPadding: req.DesktopPadding,
	})
	if err != nil {
		writeOverlayError(c, err)
		return
	}
	h.save(c.Request.Context(), o)
	h.respond(c, http.StatusOK, o)
}

func (h *OverlayHandler) Close(c *gin.Context) {
	o, ok := h.load(c)
	if !ok {
		return
	}
	o.Close()
	c.Status(http.StatusNoContent)
}

func (h *OverlayHandler) Invoke(c *gin.Context) {
	o, ok := h.load(c)
	if !ok {
		return
	}
	a, err := action.Parse(c.Param("action"))
	if err != nil {
		writeOverlayError(c, err)
		return
	}
	var anchor action.Anchor
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&anchor); err != nil {
			writeError(c, http.StatusBadRequest, "invalid json")
			return
		}
	}
	if err := o.Invoke(a, anchor); err != nil {
		writeOverlayError(c, err)
		return
	}
	h.save(c.Request.Context(), o)
	h.respond(c, http.StatusOK, o)
}

func (h *OverlayHandler) CloseMenu(c *gin.Context) {
	o, ok := h.load(c)
	if !ok {
		return
	}
	if err := o.CloseMenu(); err != nil {
		writeOverlayError(c, err)
		return
	}
	h.save(c.Request.Context(), o)
	h.respond(c, http.StatusOK, o)
}

// CreateGeofence runs detached from the request so a dropped connection
// does not stop the permission link.
func (h *OverlayHandler) CreateGeofence(c *gin.Context) {
	o, ok := h.load(c)
	if !ok {
		return
	}
	ctx := context.WithoutCancel(c.Request.Context())
	item, err := o.CreateGeofence(ctx)
	h.save(ctx, o)
	if err != nil {
		writeOverlayError(c, err)
		return
	}
	card, _ := o.Render(c.Request.Context())
	writeJSON(c, http.StatusCreated, gin.H{
		"id":       o.ID(),
		"geofence": item,
		"navigate": o.Navigations(),
		"card":     card,
	})
}

func (h *OverlayHandler) ResolveRemoval(c *gin.Context) {
	o, ok := h.load(c)
	if !ok {
		return
	}
	var req removalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	ctx := context.WithoutCancel(c.Request.Context())
	err := o.ConfirmRemoval(ctx, req.Confirmed)
	h.save(ctx, o)
	if err != nil {
		writeOverlayError(c, err)
		return
	}
	h.respond(c, http.StatusOK, o)
}

func (h *OverlayHandler) load(c *gin.Context) (*overlay.Overlay, bool) {
	o, err := h.overlays.Get(c.Request.Context(), middleware.CallerEmail(c), c.Param("id"))
	if err != nil {
		writeOverlayError(c, err)
		return nil, false
	}
	return o, true
}

func (h *OverlayHandler) save(ctx context.Context, o *overlay.Overlay) {
	if err := h.overlays.Save(ctx, o); err != nil {
		log.Printf("overlay %s: save state: %v", o.ID(), err)
	}
}

func (h *OverlayHandler) respond(c *gin.Context, status int, o *overlay.Overlay) {
	resp := overlayResp{ID: o.ID(), Navigate: o.Navigations()}
	if o.Closed() {
		resp.Closed = true
		writeJSON(c, status, resp)
		return
	}
	card, err := o.Render(c.Request.Context())
	if err != nil {
		writeOverlayError(c, err)
		return
	}
	resp.Card = card
	writeJSON(c, status, resp)
}
