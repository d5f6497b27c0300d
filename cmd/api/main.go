package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/aarogyacheck/clearance-api/internal/config"
	"github.com/aarogyacheck/clearance-api/internal/document"
	"github.com/aarogyacheck/clearance-api/internal/email"
	"github.com/aarogyacheck/clearance-api/internal/handler"
	authorityHandler "github.com/aarogyacheck/clearance-api/internal/handler/authority"
	doctorHandler "github.com/aarogyacheck/clearance-api/internal/handler/doctor"
	healthadminHandler "github.com/aarogyacheck/clearance-api/internal/handler/healthadmin"
	migrantHandler "github.com/aarogyacheck/clearance-api/internal/handler/migrant"
	officialHandler "github.com/aarogyacheck/clearance-api/internal/handler/official"
	"github.com/aarogyacheck/clearance-api/internal/middleware"
	"github.com/aarogyacheck/clearance-api/internal/model"
	"github.com/aarogyacheck/clearance-api/internal/repository/postgres"
	"github.com/aarogyacheck/clearance-api/internal/router"
	accountService "github.com/aarogyacheck/clearance-api/internal/service/account"
	applicationService "github.com/aarogyacheck/clearance-api/internal/service/application"
	scanService "github.com/aarogyacheck/clearance-api/internal/service/scan"
	warningService "github.com/aarogyacheck/clearance-api/internal/service/warning"
	"github.com/aarogyacheck/clearance-api/internal/storage"
	"github.com/aarogyacheck/clearance-api/pkg/auth"
	"github.com/aarogyacheck/clearance-api/pkg/logger"
	"github.com/aarogyacheck/clearance-api/pkg/metrics"
	"github.com/aarogyacheck/clearance-api/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	if err := model.RegisterValidations(); err != nil {
		log.Fatal().Err(err).Msg("failed to register request validators")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	files, err := storage.NewFileStore(cfg.Uploads.Root, cfg.Uploads.AllowedExtensions)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize file storage")
	}

	// Repositories
	appRepo := postgres.NewApplicationRepository(db)
	travelerRepo := postgres.NewTravelerRepository(db)
	approvedRepo := postgres.NewApprovedMigrantRepository(db)
	penaltyRepo := postgres.NewPenaltyRepository(db)
	doctorRepo := postgres.NewDoctorAccountRepository(db)

	// Shared infrastructure
	mailer := email.NewGomailService(cfg.SMTP, appLogger)
	docs := document.NewGenerator()
	m := metrics.NewMetrics("clearance_api")
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	revoker := newRevoker(cfg.Redis.URL)

	// Services
	accountSvc := accountService.NewService(
		doctorRepo,
		security.NewBcryptHasher(0),
		auth.NewStaticVerifier(cfg.Accounts.Doctors),
		auth.NewStaticVerifier(cfg.Accounts.Officials),
		auth.NewStaticVerifier(cfg.Accounts.HealthAdmin),
		auth.NewStaticVerifier(cfg.Accounts.Authority),
		files,
		appLogger,
	)
	appSvc := applicationService.NewService(appRepo, approvedRepo, files, mailer, docs, appLogger, m)
	warningSvc := warningService.NewService(travelerRepo, mailer, docs, appLogger, m)
	scanSvc := scanService.NewService(appRepo, travelerRepo, penaltyRepo, cfg.Penalty.DedupWindow, appLogger, m)

	// Provision the static doctor table into the DB-backed store so
	// credentials survive config edits.
	seedCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := accountSvc.SeedDoctors(seedCtx, cfg.Accounts.Doctors); err != nil {
		log.Warn().Err(err).Msg("failed to seed doctor accounts")
	}
	cancel()

	// Middleware and handlers
	authMW := middleware.NewAuthMiddleware(jwtSvc, revoker)
	h := handler.NewHandler(db)

	rateRPS := cfg.RateLimit.RPS
	if !cfg.RateLimit.Enabled {
		rateRPS = 0
	}

	r := router.NewRouter(h, m, router.Config{
		RateLimitRPS:   rateRPS,
		RateLimitBurst: cfg.RateLimit.Burst,
	},
		migrantHandler.NewHandler(appSvc, warningSvc, jwtSvc, authMW),
		doctorHandler.NewHandler(appSvc, accountSvc, jwtSvc, authMW),
		officialHandler.NewHandler(appSvc, accountSvc, jwtSvc, authMW),
		healthadminHandler.NewHandler(warningSvc, accountSvc, jwtSvc, authMW),
		authorityHandler.NewHandler(scanSvc, accountSvc, jwtSvc, authMW),
	)
	r.Setup()

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        r.Engine(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server stopped")
}

// newRevoker prefers the shared redis denylist and falls back to the
// in-process store when redis is not configured or unreachable.
func newRevoker(redisURL string) auth.TokenRevoker {
	if redisURL == "" {
		return auth.NewMemoryRevoker()
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Warn().Err(err).Msg("invalid redis url, using in-memory session revocation")
		return auth.NewMemoryRevoker()
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis unreachable, using in-memory session revocation")
		return auth.NewMemoryRevoker()
	}
	return auth.NewRedisRevoker(client)
}
