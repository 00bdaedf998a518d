package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/petclinic/petclinic/internal/auth"
	"github.com/petclinic/petclinic/internal/cache"
	"github.com/petclinic/petclinic/internal/clinic"
	"github.com/petclinic/petclinic/internal/metrics"
	"github.com/petclinic/petclinic/internal/model"
)

const (
	// minAuthDuration is the minimum time to spend on auth to prevent timing attacks.
	minAuthDuration = 200 * time.Millisecond
)

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger *slog.Logger
	Clinic clinic.Service
	// Cache is optional. When nil every request verifies credentials
	// against the stored hash.
	Cache *cache.Cache
	// Metrics is optional.
	Metrics metrics.Recorder
}

// Auth returns a middleware that authenticates API requests with HTTP Basic
// credentials. It verifies the password against the stored Argon2id hash,
// injects the auth context into the request, and caches successful results
// so repeated requests skip the hash verification.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			startTime := time.Now()

			// Ensure consistent timing regardless of outcome
			defer func() {
				elapsed := time.Since(startTime)
				if elapsed < minAuthDuration {
					time.Sleep(minAuthDuration - elapsed)
				}
			}()

			username, password, ok := r.BasicAuth()
			if !ok || username == "" {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "missing_credentials"),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			// Check cache first
			cacheKey := auth.QuickHash(username + ":" + password)
			if cfg.Cache != nil {
				authCtx, _ := cfg.Cache.GetAuthContext(r.Context(), cacheKey)
				if authCtx != nil {
					if cfg.Metrics != nil {
						cfg.Metrics.IncAuthCacheHit()
					}
					cfg.Logger.Info("authentication successful",
						slog.String("username", authCtx.Username),
						slog.String("ip", r.RemoteAddr),
						slog.String("endpoint", r.Method+" "+r.URL.Path),
						slog.Bool("cache_hit", true),
						slog.String("request_id", GetRequestID(r.Context())),
					)

					ctx := auth.ContextWithAuth(r.Context(), authCtx)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			// Cache miss - load the account and verify the password
			if cfg.Metrics != nil {
				cfg.Metrics.IncAuthCacheMiss()
			}
			user, err := cfg.Clinic.FindUserByUsername(r.Context(), username)
			if err != nil {
				if errors.Is(err, clinic.ErrNotFound) {
					cfg.Logger.Warn("authentication failed",
						slog.String("reason", "unknown_user"),
						slog.String("ip", r.RemoteAddr),
						slog.String("endpoint", r.Method+" "+r.URL.Path),
						slog.String("request_id", GetRequestID(r.Context())),
					)
				} else {
					cfg.Logger.Error("storage error during auth",
						slog.String("error", err.Error()),
						slog.String("request_id", GetRequestID(r.Context())),
					)
				}
				writeAuthError(w)
				return
			}

			if !user.Enabled {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "account_disabled"),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			match, err := auth.VerifyPassword(password, user.PasswordHash)
			if err != nil || !match {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "invalid_password"),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			authCtx := &model.AuthContext{
				Username: user.Username,
				Roles:    user.Roles,
			}

			if cfg.Cache != nil {
				_ = cfg.Cache.SetAuthContext(r.Context(), cacheKey, authCtx)
			}

			cfg.Logger.Info("authentication successful",
				slog.String("username", authCtx.Username),
				slog.String("ip", r.RemoteAddr),
				slog.String("endpoint", r.Method+" "+r.URL.Path),
				slog.Bool("cache_hit", false),
				slog.String("request_id", GetRequestID(r.Context())),
			)

			ctx := auth.ContextWithAuth(r.Context(), authCtx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// writeAuthError writes a 401 Unauthorized response.
// Uses the same message for all auth failures to prevent enumeration.
func writeAuthError(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="petclinic"`)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":{"code":"UNAUTHORIZED","message":"Invalid or missing credentials"}}`))
}
