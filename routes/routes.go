package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/stillerfuchssss/Tennis-Tournament-sub000/handlers"
	"github.com/stillerfuchssss/Tennis-Tournament-sub000/middleware"
	"github.com/stillerfuchssss/Tennis-Tournament-sub000/models"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	Player     *handlers.PlayerHandler
	Tournament *handlers.TournamentHandler
	Schedule   *handlers.ScheduleHandler
	Result     *handlers.ResultHandler
	Ranking    *handlers.RankingHandler
	WebSocket  *handlers.WebSocketHandler
	Health     *handlers.HealthHandler
}

func InitRoutes(h Handlers, auth *middleware.Authenticator) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/health", h.Health.Check)
	router.Get("/ws/tournaments/{tournamentID}", h.WebSocket.ServeWs)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Put("/password", h.Auth.ChangePassword)
		})
	})

	router.Route("/admins", func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Use(middleware.Authorize(models.RoleSuperuser))
		r.Post("/", h.Auth.CreateAdmin)
	})

	router.Route("/players", func(r chi.Router) {
		r.Use(auth.Authenticate)

		r.Get("/", h.Player.ListPlayers)
		r.Post("/", h.Player.CreatePlayer)
		r.Post("/teams", h.Player.CreateTeam)
		r.Get("/{playerID}", h.Player.GetPlayer)
		r.Put("/{playerID}", h.Player.UpdatePlayer)
		r.Delete("/{playerID}", h.Player.DeletePlayer)
		r.Get("/{playerID}/results", h.Result.ListPlayerResults)
	})

	router.Route("/tournaments", func(r chi.Router) {
		// Read-only surfaces stay public so club members can follow along.
		r.Get("/", h.Tournament.ListTournaments)
		r.Get("/{tournamentID}", h.Tournament.GetTournament)
		r.Get("/{tournamentID}/fixtures", h.Schedule.ListFixtures)
		r.Get("/{tournamentID}/results", h.Result.ListTournamentResults)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)

			r.Post("/", h.Tournament.CreateTournament)
			r.Delete("/{tournamentID}", h.Tournament.DeleteTournament)
			r.Post("/{tournamentID}/rounds", h.Tournament.AddRound)

			r.Post("/{tournamentID}/fixtures", h.Schedule.GenerateFixtures)
			r.Patch("/{tournamentID}/fixtures/{fixtureID}", h.Schedule.RescheduleFixture)
			r.Delete("/{tournamentID}/fixtures/{fixtureID}", h.Schedule.WithdrawFixture)

			r.Post("/{tournamentID}/results", h.Result.RecordMatch)
			r.Delete("/{tournamentID}/fixtures/{fixtureID}/result", h.Result.DeleteMatch)
			r.Get("/{tournamentID}/results/{playerID}", h.Result.GetPlayerResult)
		})
	})

	router.Route("/brackets/{ageBracket}/{tier}", func(r chi.Router) {
		r.Get("/", h.Schedule.GetBracket)
		r.Get("/standings", h.Schedule.Standings)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)

			r.Post("/knockout", h.Schedule.BuildKnockout)
			r.Post("/knockout/advance", h.Schedule.AdvanceKnockout)
			r.Post("/groups", h.Schedule.GenerateGroups)
			r.Put("/groups/{groupIndex}/matches/{matchIndex}", h.Schedule.UpdateGroupMatch)
			r.Post("/promote", h.Schedule.PromoteGroups)
		})
	})

	router.Route("/rankings", func(r chi.Router) {
		r.Get("/", h.Ranking.GetRanking)
		r.Get("/players/{playerID}", h.Ranking.GetPlayerPoints)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.Authorize(models.RoleSuperuser))

			r.Get("/weights", h.Ranking.ListWeightOverrides)
			r.Put("/weights/{ageBracket}/{tier}", h.Ranking.SetWeightOverride)
			r.Delete("/weights/{ageBracket}/{tier}", h.Ranking.ClearWeightOverride)
		})
	})

	return router
}
