package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/AdamBeresnev/dam-aji/internal/admin"
	"github.com/AdamBeresnev/dam-aji/internal/bracket"
	"github.com/AdamBeresnev/dam-aji/internal/config"
	"github.com/AdamBeresnev/dam-aji/internal/engine"
	"github.com/AdamBeresnev/dam-aji/internal/httputil"
	"github.com/AdamBeresnev/dam-aji/internal/middleware"
	"github.com/AdamBeresnev/dam-aji/internal/service"
	"github.com/AdamBeresnev/dam-aji/views"
	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/markbates/goth/gothic"
	"github.com/rs/zerolog"
)

type application struct {
	cfg            *config.Config
	logger         zerolog.Logger
	tournaments    *service.TournamentService
	admins         *service.AdminService
	sessionManager *scs.SessionManager
	ping           func(context.Context) error
}

func (app *application) healthz(w http.ResponseWriter, r *http.Request) {
	if err := app.ping(r.Context()); err != nil {
		httputil.InternalServerError(w, r, "database unreachable", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (app *application) getState(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, views.NewDisplayState(app.tournaments.State()))
}

func (app *application) getPlayers(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, app.tournaments.State().Players)
}

func (app *application) getMatches(w http.ResponseWriter, r *http.Request) {
	round := 0
	if raw := r.URL.Query().Get("round"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			httputil.BadRequest(w, r, "Pusingan tidak sah", err)
			return
		}
		round = n
	}
	matches := app.tournaments.Matches(round)
	if matches == nil {
		matches = []bracket.Match{}
	}
	httputil.WriteJSON(w, http.StatusOK, matches)
}

func (app *application) getLeaderboard(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, app.tournaments.Leaderboard())
}

func (app *application) getStatistics(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, app.tournaments.Statistics())
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (app *application) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.BadRequest(w, r, "Data log masuk tidak sah", err)
		return
	}

	a, err := app.admins.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	if !app.signIn(w, r, a) {
		return
	}
	httputil.WriteResult(w, r, a, nil)
}

func (app *application) signIn(w http.ResponseWriter, r *http.Request, a *admin.Admin) bool {
	if err := app.sessionManager.RenewToken(r.Context()); err != nil {
		httputil.InternalServerError(w, r, "failed to renew session token", err)
		return false
	}
	app.sessionManager.Put(r.Context(), middleware.SessionAdminKey, a.ID.String())
	zerolog.Ctx(r.Context()).Info().Str("admin", a.Username).Str("role", string(a.Role)).Msg("admin signed in")
	return true
}

func (app *application) logout(w http.ResponseWriter, r *http.Request) {
	if err := app.sessionManager.Destroy(r.Context()); err != nil {
		httputil.InternalServerError(w, r, "failed to destroy session", err)
		return
	}
	httputil.WriteResult(w, r, nil, nil)
}

// withProvider exposes the chi path parameter where gothic looks for it.
func withProvider(r *http.Request) *http.Request {
	q := r.URL.Query()
	q.Set("provider", chi.URLParam(r, "provider"))
	r.URL.RawQuery = q.Encode()
	return r
}

func (app *application) beginAuth(w http.ResponseWriter, r *http.Request) {
	gothic.BeginAuthHandler(w, withProvider(r))
}

func (app *application) completeAuth(w http.ResponseWriter, r *http.Request) {
	gothUser, err := gothic.CompleteUserAuth(w, withProvider(r))
	if err != nil {
		httputil.BadRequest(w, r, "Pengesahan gagal", err)
		return
	}

	a, err := app.admins.FindOrCreateAdminByProvider(r.Context(), gothUser)
	if err != nil {
		httputil.InternalServerError(w, r, "failed to find or create admin", err)
		return
	}
	if !app.signIn(w, r, a) {
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

type meResponse struct {
	*admin.Admin
	RoleLabel   string             `json:"roleLabel"`
	Permissions []admin.Permission `json:"permissions"`
}

func (app *application) me(w http.ResponseWriter, r *http.Request) {
	a := views.GetAdmin(r.Context())
	httputil.WriteJSON(w, http.StatusOK, meResponse{Admin: a, RoleLabel: a.Role.Label(), Permissions: a.Role.Permissions()})
}

func (app *application) addPlayer(w http.ResponseWriter, r *http.Request) {
	var in engine.PlayerInput
	if err := httputil.DecodeJSON(w, r, &in); err != nil {
		httputil.BadRequest(w, r, "Data pemain tidak sah", err)
		return
	}
	player, err := app.tournaments.AddPlayer(r.Context(), in)
	httputil.WriteResult(w, r, player, err)
}

func (app *application) updatePlayer(w http.ResponseWriter, r *http.Request) {
	var in engine.PlayerInput
	if err := httputil.DecodeJSON(w, r, &in); err != nil {
		httputil.BadRequest(w, r, "Data pemain tidak sah", err)
		return
	}
	player, err := app.tournaments.UpdatePlayer(r.Context(), chi.URLParam(r, "id"), in)
	httputil.WriteResult(w, r, player, err)
}

func (app *application) removePlayer(w http.ResponseWriter, r *http.Request) {
	err := app.tournaments.RemovePlayer(r.Context(), chi.URLParam(r, "id"))
	httputil.WriteResult(w, r, nil, err)
}

func (app *application) startTournament(w http.ResponseWriter, r *http.Request) {
	outcome, err := app.tournaments.StartTournament(r.Context())
	httputil.WriteResult(w, r, outcome, err)
}

func (app *application) generateRound(w http.ResponseWriter, r *http.Request) {
	outcome, err := app.tournaments.GenerateNextRound(r.Context())
	httputil.WriteResult(w, r, outcome, err)
}

func (app *application) setWinner(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WinnerID string `json:"winnerId"`
	}
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.BadRequest(w, r, "Data keputusan tidak sah", err)
		return
	}
	match, err := app.tournaments.SetMatchWinner(r.Context(), chi.URLParam(r, "id"), req.WinnerID)
	httputil.WriteResult(w, r, match, err)
}

func (app *application) setDraw(w http.ResponseWriter, r *http.Request) {
	match, err := app.tournaments.SetMatchDraw(r.Context(), chi.URLParam(r, "id"))
	httputil.WriteResult(w, r, match, err)
}

func (app *application) setStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status bracket.TournamentStatus `json:"status"`
	}
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.BadRequest(w, r, "Status tidak sah", err)
		return
	}
	httputil.WriteResult(w, r, nil, app.tournaments.SetStatus(r.Context(), req.Status))
}

func (app *application) setFormat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Format bracket.TournamentFormat `json:"format"`
	}
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.BadRequest(w, r, "Format tidak sah", err)
		return
	}
	httputil.WriteResult(w, r, nil, app.tournaments.SetFormat(r.Context(), req.Format))
}

func (app *application) setMode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode bracket.TournamentMode `json:"mode"`
	}
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.BadRequest(w, r, "Mod tidak sah", err)
		return
	}
	httputil.WriteResult(w, r, nil, app.tournaments.SetMode(r.Context(), req.Mode))
}

func (app *application) getPairings(w http.ResponseWriter, r *http.Request) {
	pairings, status := app.tournaments.ManualPairings()
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"pairings": pairings, "status": status})
}

type pairingRequest struct {
	Round     int    `json:"round"`
	Table     int    `json:"table"`
	PlayerAID string `json:"playerAId"`
	PlayerBID string `json:"playerBId"`
}

func (app *application) addPairing(w http.ResponseWriter, r *http.Request) {
	var req pairingRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.BadRequest(w, r, "Data pasangan tidak sah", err)
		return
	}
	pairing, err := app.tournaments.AddManualPairing(r.Context(), req.Round, req.Table, req.PlayerAID, req.PlayerBID)
	httputil.WriteResult(w, r, pairing, err)
}

func (app *application) updatePairing(w http.ResponseWriter, r *http.Request) {
	var req pairingRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.BadRequest(w, r, "Data pasangan tidak sah", err)
		return
	}
	pairing, err := app.tournaments.UpdateManualPairing(r.Context(), chi.URLParam(r, "id"), req.PlayerAID, req.PlayerBID)
	httputil.WriteResult(w, r, pairing, err)
}

func (app *application) removePairing(w http.ResponseWriter, r *http.Request) {
	httputil.WriteResult(w, r, nil, app.tournaments.RemoveManualPairing(r.Context(), chi.URLParam(r, "id")))
}

func (app *application) lockPairings(w http.ResponseWriter, r *http.Request) {
	httputil.WriteResult(w, r, nil, app.tournaments.LockPairings(r.Context()))
}

func (app *application) unlockPairings(w http.ResponseWriter, r *http.Request) {
	httputil.WriteResult(w, r, nil, app.tournaments.UnlockPairings(r.Context()))
}

func (app *application) confirmPairings(w http.ResponseWriter, r *http.Request) {
	httputil.WriteResult(w, r, nil, app.tournaments.ConfirmPairings(r.Context()))
}

// importPairings takes either a CSV body or {"pairings": [...]}.
func (app *application) importPairings(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "text/csv") {
		body := http.MaxBytesReader(w, r.Body, 1<<20)
		httputil.WriteResult(w, r, nil, app.tournaments.ImportPairingsCSV(r.Context(), body))
		return
	}

	var req struct {
		Pairings []bracket.PairingInput `json:"pairings"`
	}
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.BadRequest(w, r, "Data pasangan tidak sah", err)
		return
	}
	httputil.WriteResult(w, r, nil, app.tournaments.ImportPairings(r.Context(), req.Pairings))
}

func (app *application) updateDisplay(w http.ResponseWriter, r *http.Request) {
	settings := app.tournaments.State().Display
	if err := httputil.DecodeJSON(w, r, &settings); err != nil {
		httputil.BadRequest(w, r, "Tetapan paparan tidak sah", err)
		return
	}
	httputil.WriteResult(w, r, settings, app.tournaments.UpdateDisplay(r.Context(), settings))
}

func (app *application) setYoutubeVideo(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Link string `json:"link"`
	}
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.BadRequest(w, r, "Pautan video tidak sah", err)
		return
	}
	id, err := app.tournaments.SetYoutubeVideo(r.Context(), req.Link)
	httputil.WriteResult(w, r, map[string]string{"youtubeVideoId": id}, err)
}

func (app *application) toggleLock(w http.ResponseWriter, r *http.Request) {
	needed := admin.CanLockSystem
	if app.tournaments.State().IsSystemLocked {
		needed = admin.CanUnlockSystem
	}
	if !views.GetAdmin(r.Context()).Can(needed) {
		httputil.Forbidden(w, r, "Anda tidak mempunyai kebenaran untuk tindakan ini")
		return
	}

	locked, err := app.tournaments.ToggleSystemLock(r.Context())
	httputil.WriteResult(w, r, map[string]bool{"isSystemLocked": locked}, err)
}

func (app *application) reset(w http.ResponseWriter, r *http.Request) {
	httputil.WriteResult(w, r, nil, app.tournaments.ResetTournament(r.Context()))
}

func (app *application) export(w http.ResponseWriter, r *http.Request) {
	doc := app.tournaments.Export()
	filename := fmt.Sprintf("dam-aji-export-%s.json", doc.ExportDate.Format("2006-01-02"))
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	httputil.WriteJSON(w, http.StatusOK, doc)
}

func (app *application) importData(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 10<<20))
	if err != nil {
		httputil.BadRequest(w, r, "Fail import terlalu besar atau tidak boleh dibaca", err)
		return
	}
	httputil.WriteResult(w, r, nil, app.tournaments.Import(r.Context(), data))
}

func (app *application) report(w http.ResponseWriter, r *http.Request) {
	data := views.ReportData{
		State:       app.tournaments.State(),
		Leaderboard: app.tournaments.Leaderboard(),
		Statistics:  app.tournaments.Statistics(),
		GeneratedAt: time.Now(),
	}
	if err := views.Render(w, r, views.Report(data)); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to render report")
	}
}

func (app *application) auditLog(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := app.tournaments.AuditLog(r.Context(), limit)
	if err != nil {
		httputil.InternalServerError(w, r, "failed to list audit log", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entries)
}

func (app *application) listAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := app.admins.ListAdmins(r.Context())
	if err != nil {
		httputil.InternalServerError(w, r, "failed to list admins", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, admins)
}
