package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	arenaHandler "github.com/tictacgo/backend/internal/handler/arena"
	"github.com/tictacgo/backend/internal/handler/play"
	middlewarePkg "github.com/tictacgo/backend/internal/middleware"
	arenaService "github.com/tictacgo/backend/internal/service/arena"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(arenaSvc *arenaService.Service, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	// Control surface: create, poll, list.
	controlHandler := arenaHandler.New(arenaSvc)
	r.Route("/api", func(api chi.Router) {
		controlHandler.RegisterRoutes(api)
	})

	// Game surface: one websocket per player.
	playHandler := play.New(arenaSvc, log)
	playHandler.RegisterRoutes(r)

	return r
}
