// README: API gateway; wires the overlay registry and auth into the gin router.
package http

import (
	"net/http"

	"fleetcard/internal/infra"
	"fleetcard/internal/modules/overlay"
)

type ServerDeps struct {
	Verifier infra.TokenVerifier
	Overlays *overlay.Registry
}

type Server struct {
	verifier infra.TokenVerifier
	overlays *overlay.Registry
}

func NewServer(deps ServerDeps) *Server {
	return &Server{
		verifier: deps.Verifier,
		overlays: deps.Overlays,
	}
}

func (s *Server) Routes() http.Handler {
	return NewRouter(s.verifier, s.overlays)
}
