package httputil

import (
	"errors"
	"net/http"

	"github.com/AdamBeresnev/dam-aji/internal/engine"
	"github.com/AdamBeresnev/dam-aji/internal/service"
	"github.com/rs/zerolog"
)

// StatusFor maps an error to the HTTP status shown to clients.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrValidation),
		errors.Is(err, engine.ErrPrecondition),
		errors.Is(err, engine.ErrIntegrity):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, engine.ErrSystemLocked):
		return http.StatusLocked
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// WriteError renders {"success": false, "error": ...}. Domain errors keep
// their message; anything else is logged and hidden behind a generic one.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	log := zerolog.Ctx(r.Context())

	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		msg = "Ralat dalaman pelayan"
	} else {
		log.Warn().Err(err).Int("status", status).Str("path", r.URL.Path).Msg("request rejected")
	}
	WriteJSON(w, status, Result{Success: false, Error: msg})
}

func InternalServerError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	zerolog.Ctx(r.Context()).Error().Err(err).Msg(msg)
	WriteJSON(w, http.StatusInternalServerError, Result{Error: "Ralat dalaman pelayan"})
}

func BadRequest(w http.ResponseWriter, r *http.Request, msg string, err error) {
	event := zerolog.Ctx(r.Context()).Warn().Str("message", msg)
	if err != nil {
		event = event.Err(err)
	}
	event.Msg("bad request")
	WriteJSON(w, http.StatusBadRequest, Result{Error: msg})
}

func NotFound(w http.ResponseWriter, r *http.Request, msg string) {
	zerolog.Ctx(r.Context()).Warn().Str("message", msg).Msg("not found")
	WriteJSON(w, http.StatusNotFound, Result{Error: msg})
}

func Unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	zerolog.Ctx(r.Context()).Warn().Str("message", msg).Msg("unauthorized")
	WriteJSON(w, http.StatusUnauthorized, Result{Error: msg})
}

func Forbidden(w http.ResponseWriter, r *http.Request, msg string) {
	zerolog.Ctx(r.Context()).Warn().Str("message", msg).Msg("forbidden")
	WriteJSON(w, http.StatusForbidden, Result{Error: msg})
}
