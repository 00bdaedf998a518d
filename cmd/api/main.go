// Package main is the entrypoint for the PetClinic API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/petclinic/petclinic/internal/appointments"
	"github.com/petclinic/petclinic/internal/cache"
	"github.com/petclinic/petclinic/internal/clinic"
	"github.com/petclinic/petclinic/internal/config"
	"github.com/petclinic/petclinic/internal/handler"
	"github.com/petclinic/petclinic/internal/metrics"
	"github.com/petclinic/petclinic/internal/middleware"
	"github.com/petclinic/petclinic/internal/model"
	"github.com/petclinic/petclinic/internal/repository"
	"github.com/petclinic/petclinic/internal/server"
)

func main() {
	// Initialize context
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize the clinic facade: Postgres when configured, otherwise a
	// seeded in-memory store for development.
	var (
		svc clinic.Service
		db  handler.HealthChecker
	)
	if cfg.DatabaseURL != "" {
		repo, err := repository.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error(
				"failed to connect to database",
				slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
				slog.String("database_url", redactURL(cfg.DatabaseURL)),
			)
			os.Exit(1)
		}
		defer repo.Close()
		logger.Info("connected to database")
		svc = repo
		db = repo
	} else {
		store := clinic.NewMemoryStore()
		if err := store.Seed(ctx); err != nil {
			logger.Error("failed to seed in-memory store", "error", err)
			os.Exit(1)
		}
		logger.Warn("DATABASE_URL not set, serving from in-memory store (development only)")
		svc = store
	}

	// Initialize cache (optional)
	var cacheClient *cache.Cache
	if cfg.RedisURL != "" {
		cacheClient, err = cache.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			os.Exit(1)
		}
		defer cacheClient.Close()
		logger.Info("connected to Redis")
	} else {
		logger.Warn("REDIS_URL not set, auth-context cache disabled")
	}

	// Initialize core components
	metricsRecorder := metrics.NewInMemory()
	finder := appointments.NewFinder(svc)

	// Initialize handlers
	h := handler.New()
	var cacheChecker handler.HealthChecker
	if cacheClient != nil {
		cacheChecker = cacheClient
	}
	healthHandler := handler.NewHealthHandler(db, cacheChecker)
	ownerHandler := handler.NewOwnerHandler(svc, finder, metricsRecorder, logger)
	petHandler := handler.NewPetHandler(svc, logger)
	visitHandler := handler.NewVisitHandler(svc, metricsRecorder, logger)
	petTypeHandler := handler.NewPetTypeHandler(svc, logger)
	vetHandler := handler.NewVetHandler(svc, logger)
	userHandler := handler.NewUserHandler(svc, logger)
	metricsHandler := handler.NewMetricsHandler(metricsRecorder)

	// Setup router
	r := setupRouter(routerDeps{
		base:     h,
		health:   healthHandler,
		owners:   ownerHandler,
		pets:     petHandler,
		visits:   visitHandler,
		petTypes: petTypeHandler,
		vets:     vetHandler,
		users:    userHandler,
		metrics:  metricsHandler,
		svc:      svc,
		cache:    cacheClient,
		recorder: metricsRecorder,
		cfg:      cfg,
		logger:   logger,
	})

	// Create and run server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// routerDeps bundles everything setupRouter needs.
type routerDeps struct {
	base     *handler.Handler
	health   *handler.HealthHandler
	owners   *handler.OwnerHandler
	pets     *handler.PetHandler
	visits   *handler.VisitHandler
	petTypes *handler.PetTypeHandler
	vets     *handler.VetHandler
	users    *handler.UserHandler
	metrics  *handler.MetricsHandler
	svc      clinic.Service
	cache    *cache.Cache
	recorder metrics.Recorder
	cfg      *config.Config
	logger   *slog.Logger
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(deps routerDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.logger))
	r.Use(middleware.Recoverer(deps.logger))
	r.Use(middleware.Security(middleware.DefaultSecurityConfig()))
	r.Use(middleware.MaxBodySize(deps.cfg.MaxRequestBodySize))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = deps.cfg.GetCORSAllowedOrigins()
	r.Use(middleware.CORS(corsCfg))

	// Health endpoints (no auth required)
	r.Get("/healthz", deps.health.Healthz)
	r.Get("/readyz", deps.health.Readyz)

	// Auth middleware configuration
	authCfg := middleware.AuthConfig{
		Logger:  deps.logger,
		Clinic:  deps.svc,
		Cache:   deps.cache,
		Metrics: deps.recorder,
	}

	// API routes (require authentication)
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(authCfg))

		r.Route("/owners", func(r chi.Router) {
			r.With(middleware.RequireVetAdmin()).Get("/appointments/{date}", deps.owners.AllAppointments)
			r.With(middleware.RequireOwnerAdmin()).Get("/appointments/{ownerID}/{date}", deps.owners.Appointments)

			r.With(middleware.RequireOwnerAdmin()).Get("/", deps.owners.List)
			r.With(middleware.RequireOwnerAdmin()).Get("/{ownerID}", deps.owners.Get)
			r.With(middleware.RequireOwnerAdmin()).Get("/{ownerID}/lastname/{lastName}", deps.owners.GetByLastName)
			r.With(middleware.RequireOwnerAdmin()).Post("/", deps.owners.Create)
			r.With(middleware.RequireOwnerAdmin()).Put("/{ownerID}", deps.owners.Update)
			r.With(middleware.RequireOwnerAdmin()).Delete("/{ownerID}", deps.owners.Delete)
		})

		r.Route("/pets", func(r chi.Router) {
			r.With(middleware.RequireOwnerAdmin()).Get("/", deps.pets.List)
			r.With(middleware.RequireOwnerAdmin()).Get("/{petID}", deps.pets.Get)
			r.With(middleware.RequireOwnerAdmin()).Get("/{petID}/visits", deps.visits.ListByPet)
			r.With(middleware.RequireOwnerAdmin()).Post("/", deps.pets.Create)
			r.With(middleware.RequireOwnerAdmin()).Put("/{petID}", deps.pets.Update)
			r.With(middleware.RequireOwnerAdmin()).Delete("/{petID}", deps.pets.Delete)
		})

		r.Route("/visits", func(r chi.Router) {
			r.With(middleware.RequireOwnerAdmin()).Get("/", deps.visits.List)
			r.With(middleware.RequireOwnerAdmin()).Get("/{visitID}", deps.visits.Get)
			r.With(middleware.RequireOwnerAdmin()).Post("/", deps.visits.Create)
			r.With(middleware.RequireOwnerAdmin()).Put("/{visitID}", deps.visits.Update)
			r.With(middleware.RequireOwnerAdmin()).Delete("/{visitID}", deps.visits.Delete)
		})

		r.Route("/pettypes", func(r chi.Router) {
			r.With(middleware.RequireRole(model.RoleOwnerAdmin, model.RoleVetAdmin)).Get("/", deps.petTypes.List)
			r.With(middleware.RequireRole(model.RoleOwnerAdmin, model.RoleVetAdmin)).Get("/{petTypeID}", deps.petTypes.Get)
			r.With(middleware.RequireVetAdmin()).Post("/", deps.petTypes.Create)
			r.With(middleware.RequireVetAdmin()).Put("/{petTypeID}", deps.petTypes.Update)
			r.With(middleware.RequireVetAdmin()).Delete("/{petTypeID}", deps.petTypes.Delete)
		})

		r.Route("/vets", func(r chi.Router) {
			r.With(middleware.RequireVetAdmin()).Get("/", deps.vets.List)
			r.With(middleware.RequireVetAdmin()).Get("/{vetID}", deps.vets.Get)
			r.With(middleware.RequireVetAdmin()).Post("/", deps.vets.Create)
			r.With(middleware.RequireVetAdmin()).Put("/{vetID}", deps.vets.Update)
			r.With(middleware.RequireVetAdmin()).Delete("/{vetID}", deps.vets.Delete)
		})

		r.With(middleware.RequireAdmin()).Post("/users", deps.users.Create)
		r.With(middleware.RequireAdmin()).Get("/metrics", deps.metrics.Metrics)
	})

	// 404 and 405 handlers
	r.NotFound(deps.base.NotFound)
	r.MethodNotAllowed(deps.base.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
