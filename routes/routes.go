package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/nayan91296/TT-scrore-board-sub000/handlers"
	"github.com/nayan91296/TT-scrore-board-sub000/middleware"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	Tournament *handlers.TournamentHandler
	Team       *handlers.TeamHandler
	Match      *handlers.MatchHandler
	WebSocket  *handlers.WebSocketHandler
}

// InitRoutes wires the public read surface and the admin-gated
// mutations.
func InitRoutes(h Handlers, jwtSecret []byte) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	requireAdmin := middleware.RequireAdmin(jwtSecret)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	router.Post("/auth/login", h.Auth.LoginHandler)

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", h.Tournament.ListHandler)
		r.Get("/{tournamentID}", h.Tournament.GetHandler)
		r.Get("/{tournamentID}/standings", h.Tournament.StandingsHandler)
		r.Get("/{tournamentID}/matches", h.Tournament.ListMatchesHandler)
		r.Get("/{tournamentID}/ws", h.WebSocket.SubscribeHandler)

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Post("/", h.Tournament.CreateHandler)
			r.Patch("/{tournamentID}", h.Tournament.UpdateHandler)
			r.Delete("/{tournamentID}", h.Tournament.DeleteHandler)
			r.Post("/{tournamentID}/matches/generate", h.Tournament.GenerateGroupMatchesHandler)
			r.Post("/{tournamentID}/semifinals", h.Tournament.GenerateSemifinalsHandler)
			r.Post("/{tournamentID}/final", h.Tournament.GenerateFinalHandler)
		})
	})

	router.Route("/teams", func(r chi.Router) {
		r.Get("/{teamID}", h.Team.GetHandler)

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Post("/", h.Team.CreateHandler)
			r.Patch("/{teamID}", h.Team.UpdateHandler)
			r.Delete("/{teamID}", h.Team.DeleteHandler)
			r.Post("/{teamID}/logo", h.Team.UploadLogoHandler)
			r.Post("/{teamID}/players", h.Team.CreatePlayerHandler)
		})
	})

	router.Route("/players", func(r chi.Router) {
		r.Use(requireAdmin)
		r.Patch("/{playerID}", h.Team.UpdatePlayerHandler)
		r.Delete("/{playerID}", h.Team.DeletePlayerHandler)
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{matchID}", h.Match.GetHandler)

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Post("/", h.Match.CreateHandler)
			r.Patch("/{matchID}", h.Match.UpdateHandler)
			r.Delete("/{matchID}", h.Match.DeleteHandler)
			r.Post("/{matchID}/sets", h.Match.RecordSetHandler)
		})
	})

	return router
}
