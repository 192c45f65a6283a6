package routes

import (
	"net/http"

	_ "github.com/Dosada05/bracket-system/docs" // swagger spec
	"github.com/Dosada05/bracket-system/handlers"
	"github.com/Dosada05/bracket-system/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	JWTSecret      string
	AllowedOrigins []string
	AuthLimiter    *middleware.IPRateLimiter
}

func SetupRoutes(
	router *chi.Mux,
	opts Options,
	authHandler *handlers.AuthHandler,
	categoryHandler *handlers.CategoryHandler,
	tournamentHandler *handlers.TournamentHandler,
	seriesHandler *handlers.SeriesHandler,
	teamHandler *handlers.TeamHandler,
	matchHandler *handlers.MatchHandler,
	standingHandler *handlers.StandingHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(opts.JWTSecret)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				if opts.AuthLimiter != nil {
					r.Use(opts.AuthLimiter.Middleware)
				}
				r.Post("/register", authHandler.Register)
				r.Post("/login", authHandler.Login)
				r.Post("/logout", authHandler.Logout)
			})
			r.Get("/verify", authHandler.Verify)
			r.With(authenticate).Get("/me", authHandler.Me)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categoryHandler.List)
			r.With(authenticate).Post("/", categoryHandler.Create)
		})

		r.Route("/tournaments", func(r chi.Router) {
			r.Get("/{tournamentID}", tournamentHandler.GetByIDHandler)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Get("/", tournamentHandler.ListHandler)
				r.Post("/", tournamentHandler.CreateHandler)
				r.Put("/{tournamentID}/finalize", tournamentHandler.FinalizeHandler)
				r.Post("/{tournamentID}/advance", tournamentHandler.AdvanceHandler)
			})
		})

		r.Route("/series", func(r chi.Router) {
			r.Get("/", seriesHandler.List)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Post("/", seriesHandler.Create)
				r.Delete("/{seriesID}", seriesHandler.Delete)
				r.Post("/{seriesID}/fixture", seriesHandler.GenerateFixture)
				r.Post("/{seriesID}/standings/rebuild", seriesHandler.RebuildStandings)
			})
		})

		r.Route("/teams", func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/", teamHandler.List)
			r.Get("/{teamID}", teamHandler.GetByID)
			r.Post("/", teamHandler.Create)
			r.Delete("/{teamID}", teamHandler.Delete)
		})

		r.Route("/matches", func(r chi.Router) {
			r.Get("/", matchHandler.List)
			r.Get("/{matchID}", matchHandler.GetByID)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Post("/", matchHandler.Record)
				r.Put("/{matchID}", matchHandler.Correct)
			})
		})

		r.Get("/standings", standingHandler.List)
	})
}
