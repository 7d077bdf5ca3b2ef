package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"roombooking/internal/apperr"
	"roombooking/internal/user"
	"roombooking/pkg/authtoken"
	"roombooking/pkg/config"
)

// ProfileLookup resolves the application role for an authenticated user.
type ProfileLookup interface {
	GetByID(ctx context.Context, id string) (*user.Profile, error)
}

// SessionAuth verifies the bearer access token and attaches a *user.Actor to
// the request context. The role comes from the users table; a user without a
// profile is still authenticated (role "user") so they can create one.
//
// Outside prod, a missing Authorization header falls back to X-User-ID to keep
// local testing simple.
func SessionAuth(cfg config.Config, profiles ProfileLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := &user.Actor{Role: user.RoleUser}

			if token := authtoken.FromHeader(r.Header.Get("Authorization")); token != "" {
				id, err := authtoken.Verify(token, cfg.Auth.JWTSecret, cfg.Auth.JWTAudience, time.Now())
				if err != nil {
					logrus.WithError(err).Debug("session token rejected")
					WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid session token")
					return
				}
				actor.UserID = id.UserID
				actor.Email = id.Email
			} else if devID := strings.TrimSpace(r.Header.Get("X-User-ID")); devID != "" && !cfg.IsProd() {
				actor.UserID = devID
			} else {
				WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing session token")
				return
			}

			p, err := profiles.GetByID(r.Context(), actor.UserID)
			switch {
			case err == nil:
				actor.Role = p.Role
				if actor.Email == "" {
					actor.Email = p.Email
				}
			case errors.Is(err, apperr.ErrNotFound):
			default:
				WriteAppError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

// RequireStaff rejects actors that are neither staff nor admin.
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a := ActorFromContext(r.Context())
		if a == nil {
			WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing session")
			return
		}
		if !a.IsStaff() {
			WriteError(w, http.StatusForbidden, "FORBIDDEN", "staff only")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequestLogger logs one line per request after it completes.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		entry := logrus.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(start),
			"request_id": middleware.GetReqID(r.Context()),
		})
		if ww.Status() >= 500 {
			entry.Error("request failed")
		} else {
			entry.Info("request processed")
		}
	})
}
