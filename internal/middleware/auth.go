package middleware

import (
	"context"
	"net/http"

	"github.com/AdamBeresnev/dam-aji/internal/admin"
	"github.com/AdamBeresnev/dam-aji/internal/config"
	"github.com/AdamBeresnev/dam-aji/internal/httputil"
	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
	"github.com/markbates/goth"
	"github.com/markbates/goth/providers/discord"
	"github.com/markbates/goth/providers/google"
	"github.com/rs/zerolog"
)

// SessionAdminKey is where the signed-in admin id lives in the scs session.
const SessionAdminKey = "adminID"

// InitAuth registers the OAuth providers that have credentials configured and
// returns their names.
func InitAuth(cfg *config.Config) []string {
	var providers []goth.Provider
	if cfg.Discord.Enabled() {
		providers = append(providers, discord.New(cfg.Discord.Key, cfg.Discord.Secret, cfg.Discord.CallbackURL, discord.ScopeIdentify, discord.ScopeEmail))
	}
	if cfg.Google.Enabled() {
		providers = append(providers, google.New(cfg.Google.Key, cfg.Google.Secret, cfg.Google.CallbackURL, "email", "profile"))
	}
	goth.UseProviders(providers...)

	names := make([]string, 0, len(providers))
	for _, p := range providers {
		names = append(names, p.Name())
	}
	return names
}

type AdminGetter interface {
	GetAdmin(ctx context.Context, id uuid.UUID) (*admin.Admin, error)
}

// LoadAdmin puts the signed-in admin, if any, into the request context. A
// stale or malformed id is dropped from the session.
func LoadAdmin(sessionManager *scs.SessionManager, admins AdminGetter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			idStr := sessionManager.GetString(r.Context(), SessionAdminKey)
			if idStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			id, err := uuid.Parse(idStr)
			if err != nil {
				sessionManager.Remove(r.Context(), SessionAdminKey)
				next.ServeHTTP(w, r)
				return
			}

			a, err := admins.GetAdmin(r.Context(), id)
			if err != nil {
				zerolog.Ctx(r.Context()).Warn().Err(err).Str("admin_id", idStr).Msg("dropping unknown admin session")
				sessionManager.Remove(r.Context(), SessionAdminKey)
				next.ServeHTTP(w, r)
				return
			}

			ctx := admin.WithContext(r.Context(), a)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if admin.FromContext(r.Context()) == nil {
			httputil.Unauthorized(w, r, "Sila log masuk terlebih dahulu")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePermission allows the request through when any of perms is granted.
func RequirePermission(perms ...admin.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a := admin.FromContext(r.Context())
			for _, p := range perms {
				if a.Can(p) {
					next.ServeHTTP(w, r)
					return
				}
			}
			httputil.Forbidden(w, r, "Anda tidak mempunyai kebenaran untuk tindakan ini")
		}))
	}
}

func RequireRole(role admin.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if admin.FromContext(r.Context()).Role != role {
				httputil.Forbidden(w, r, "Hanya "+role.Label()+" dibenarkan")
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}
