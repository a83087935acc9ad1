package main

import (
	"net/http"

	"github.com/AdamBeresnev/dam-aji/internal/admin"
	"github.com/AdamBeresnev/dam-aji/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func (app *application) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestLogger(app.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(app.sessionManager.LoadAndSave)
	r.Use(middleware.LoadAdmin(app.sessionManager, app.admins))

	r.Get("/healthz", app.healthz)

	// Public display endpoints
	r.Get("/api/state", app.getState)
	r.Get("/api/players", app.getPlayers)
	r.Get("/api/matches", app.getMatches)
	r.Get("/api/leaderboard", app.getLeaderboard)
	r.Get("/api/statistics", app.getStatistics)

	r.Post("/login", app.login)
	r.Post("/logout", app.logout)
	r.Get("/auth/{provider}", app.beginAuth)
	r.Get("/auth/{provider}/callback", app.completeAuth)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/api/me", app.me)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequirePermission(admin.CanManagePlayers))
		r.Post("/api/players", app.addPlayer)
		r.Put("/api/players/{id}", app.updatePlayer)
		r.Delete("/api/players/{id}", app.removePlayer)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequirePermission(admin.CanManageMatches))
		r.Post("/api/start", app.startTournament)
		r.Post("/api/rounds", app.generateRound)
		r.Post("/api/matches/{id}/winner", app.setWinner)
		r.Post("/api/matches/{id}/draw", app.setDraw)
		r.Put("/api/status", app.setStatus)
		r.Put("/api/format", app.setFormat)
		r.Put("/api/mode", app.setMode)

		r.Route("/api/pairings", func(r chi.Router) {
			r.Get("/", app.getPairings)
			r.Post("/", app.addPairing)
			r.Put("/{id}", app.updatePairing)
			r.Delete("/{id}", app.removePairing)
			r.Post("/lock", app.lockPairings)
			r.Post("/unlock", app.unlockPairings)
			r.Post("/confirm", app.confirmPairings)
			r.Post("/import", app.importPairings)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequirePermission(admin.CanModifySettings))
		r.Put("/api/display", app.updateDisplay)
		r.Put("/api/display/youtube", app.setYoutubeVideo)
	})

	r.With(middleware.RequirePermission(admin.CanLockSystem, admin.CanUnlockSystem)).Post("/api/lock", app.toggleLock)
	r.With(middleware.RequirePermission(admin.CanResetTournament)).Post("/api/reset", app.reset)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequirePermission(admin.CanExportData))
		r.Get("/api/export", app.export)
		r.Post("/api/import", app.importData)
	})

	r.With(middleware.RequirePermission(admin.CanViewReports)).Get("/report", app.report)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(admin.RoleMainAdmin))
		r.Get("/api/audit", app.auditLog)
		r.Get("/api/admins", app.listAdmins)
	})

	return r
}
