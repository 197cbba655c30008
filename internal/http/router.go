// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleetcard/internal/http/handlers"
	"fleetcard/internal/http/middleware"
	"fleetcard/internal/infra"
	"fleetcard/internal/modules/overlay"
)

func NewRouter(verifier infra.TokenVerifier, overlays *overlay.Registry) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(), middleware.Logging())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api", middleware.Auth(verifier))

	overlayHandler := handlers.NewOverlayHandler(overlays)
	api.POST("/overlays", overlayHandler.Mount)
	api.GET("/overlays/:id", overlayHandler.Get)
	api.PUT("/overlays/:id", overlayHandler.Update)
	api.DELETE("/overlays/:id", overlayHandler.Close)
	api.POST("/overlays/:id/actions/:action", overlayHandler.Invoke)
	api.POST("/overlays/:id/menu/close", overlayHandler.CloseMenu)
	api.POST("/overlays/:id/geofence", overlayHandler.CreateGeofence)
	api.POST("/overlays/:id/removal", overlayHandler.ResolveRemoval)

	return r
}
