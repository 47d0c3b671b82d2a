// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	authhandler "vaxadmin/internal/auth/handler"
	authmetrics "vaxadmin/internal/auth/metrics"
	authservice "vaxadmin/internal/auth/service"
	facilityhandler "vaxadmin/internal/facility/handler"
	facilityservice "vaxadmin/internal/facility/service"
	facilitystore "vaxadmin/internal/facility/store"
	httpapi "vaxadmin/internal/http"
	identitymodels "vaxadmin/internal/identity/models"
	identitystore "vaxadmin/internal/identity/store"
	jwttoken "vaxadmin/internal/jwt_token"
	"vaxadmin/internal/platform/config"
	"vaxadmin/internal/platform/httpserver"
	"vaxadmin/internal/platform/logger"
	"vaxadmin/internal/platform/postgres"
	platformredis "vaxadmin/internal/platform/redis"
	"vaxadmin/internal/registry"
	vaccinehandler "vaxadmin/internal/vaccine/handler"
	vaccineservice "vaxadmin/internal/vaccine/service"
	vaccinestore "vaxadmin/internal/vaccine/store"
	id "vaxadmin/pkg/domain"
	"vaxadmin/pkg/platform/sentinel"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	var (
		adminStore        identitystore.AdminStore
		userStore         identitystore.UserStore
		vaccineStore      vaccinestore.VaccineStore
		facilityStore     facilitystore.FacilityStore
		distributionStore facilitystore.DistributionStore
	)

	healthChecks := map[string]httpapi.HealthCheck{}

	if cfg.DatabaseURL != "" {
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			return err
		}
		adminStore = identitystore.NewPostgresAdminStore(pool)
		userStore = identitystore.NewPostgresUserStore(pool)
		vaccineStore = vaccinestore.NewPostgresVaccineStore(pool)
		facilityStore = facilitystore.NewPostgresFacilityStore(pool)
		distributionStore = facilitystore.NewPostgresDistributionStore(pool)
		healthChecks["postgres"] = pool.Ping
		log.Info("using postgres storage")
	} else {
		adminStore = identitystore.NewInMemoryAdminStore()
		userStore = identitystore.NewInMemoryUserStore()
		vaccineStore = vaccinestore.NewInMemoryVaccineStore()
		facilityStore = facilitystore.NewInMemoryFacilityStore()
		distributionStore = facilitystore.NewInMemoryDistributionStore()
		log.Warn("DATABASE_URL not set, using in-memory storage")
	}

	var attemptStore authservice.AttemptStore = authservice.NewInMemoryAttemptStore()
	redisClient, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		attemptStore = authservice.NewRedisAttemptStore(redisClient.Client)
		healthChecks["redis"] = redisClient.Health
		log.Info("using redis login attempt store")
	}
	lockout := authservice.NewLockout(attemptStore, cfg.Lockout.MaxAttempts, cfg.Lockout.Window)

	var citizens registry.CitizenClient
	if cfg.Registry.URL != "" {
		citizens = registry.NewHTTPClient(cfg.Registry.URL, cfg.Registry.Timeout)
	} else {
		citizens = registry.NewStaticClient(devCitizens()...)
		log.Warn("CITIZEN_REGISTRY_URL not set, using built-in citizen records")
	}

	tokens := jwttoken.NewJWTService(cfg.JWT.SigningKey, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.TTL)

	authSvc := authservice.NewService(adminStore, userStore, citizens, tokens, log,
		authservice.WithMetrics(authmetrics.New()),
		authservice.WithLockout(lockout),
	)
	vaccineSvc := vaccineservice.NewService(vaccineStore, authSvc, log)
	facilitySvc := facilityservice.NewService(facilityStore, distributionStore, authSvc, adminStore, vaccineSvc, log)

	if err := seedAdmin(ctx, cfg.Seed, adminStore, log); err != nil {
		return err
	}

	router := httpapi.NewRouter(httpapi.RouterDeps{
		Auth:         authhandler.New(authSvc, log),
		Vaccines:     vaccinehandler.New(vaccineSvc, log),
		Facilities:   facilityhandler.New(facilitySvc, log),
		Validator:    tokens,
		Resolver:     authSvc,
		Logger:       log,
		HealthChecks: healthChecks,
	})

	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// seedAdmin bootstraps the first super-admin so a fresh deployment can log in
// and create the rest. Skipped when no password is configured or the username
// is already taken.
func seedAdmin(ctx context.Context, seed config.SeedAdmin, admins identitystore.AdminStore, log *slog.Logger) error {
	if seed.Password == "" {
		return nil
	}
	if _, err := admins.FindByUsername(ctx, seed.Username); err == nil {
		return nil
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := &identitymodels.Admin{
		ID:           id.AdminID(uuid.New()),
		Username:     seed.Username,
		PasswordHash: string(hash),
		SuperAdmin:   true,
		CreatedAt:    time.Now(),
	}
	if err := admins.Create(ctx, admin); err != nil && !errors.Is(err, sentinel.ErrConflict) {
		return err
	}
	log.Info("seeded super-admin", "username", seed.Username)
	return nil
}

// devCitizens backs the built-in registry used when no external registry is
// configured, so local registration flows work out of the box.
func devCitizens() []registry.CitizenRecord {
	return []registry.CitizenRecord{
		{NIK: "3174012345670001", Name: "Adi Nugroho", Gender: "male", DateOfBirth: "1990-01-15"},
		{NIK: "3174012345670002", Name: "Siti Rahma", Gender: "female", DateOfBirth: "1988-06-02"},
		{NIK: "3174012345670003", Name: "Budi Santoso", Gender: "male", DateOfBirth: "1975-11-23"},
	}
}
