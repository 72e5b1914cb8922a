package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/pawprint-care/platform/pkg/auth"
	"github.com/pawprint-care/platform/pkg/common/config"
	"github.com/pawprint-care/platform/pkg/common/database"
	"github.com/pawprint-care/platform/pkg/common/kafka"
	"github.com/pawprint-care/platform/pkg/common/logger"
	"github.com/pawprint-care/platform/pkg/identity"
	"github.com/pawprint-care/platform/pkg/middleware"
	"github.com/pawprint-care/platform/pkg/observability/metrics"
	"github.com/pawprint-care/platform/pkg/pets"
	"github.com/pawprint-care/platform/pkg/sharing"
)

func main() {
	logger.Init()
	cfg := config.Load()

	db, err := database.GetPostgres()
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to connect to postgres")
	}

	userRepo := identity.NewRepository(db)
	if err := userRepo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("failed to migrate user tables")
	}
	petRepo := pets.NewRepository(db)
	if err := petRepo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("failed to migrate pet tables")
	}
	shareRepo := sharing.NewRepository(db)
	if err := shareRepo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("failed to migrate share token tables")
	}

	sessions, err := auth.NewSessionManager(cfg.SessionSecret, cfg.SessionIssuer, "pawprint-app", cfg.SessionTTL)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to configure sessions")
	}
	notifier := auth.NewExpiryNotifier()
	notifier.OnSessionExpired(func(reason auth.Kind) {
		logger.Log.WithField("kind", reason).Debug("session expired")
	})

	var oidc *auth.OIDCAuthenticator
	if cfg.OIDCIssuer != "" && cfg.OIDCClientID != "" {
		oidc, err = auth.NewOIDCAuthenticator(cfg.OIDCIssuer, cfg.OIDCClientID, cfg.OIDCClientSecret, cfg.OIDCRedirectURL)
		if err != nil {
			logger.Log.WithError(err).Fatal("failed to configure OIDC")
		}
		logger.Log.WithField("issuer", cfg.OIDCIssuer).Info("OIDC SSO enabled")
	}

	userService := identity.NewService(userRepo)
	petService := pets.NewService(petRepo)
	shareService := sharing.NewService(shareRepo, petRepo, cfg.ShareBaseDomain, cfg.ShareTokenWindow)

	producer := kafka.NewProducer("pawprint.shares")
	defer producer.Close()
	shareService.SetEventPublisher(producer)

	identityHandler := identity.NewHandler(userService, sessions, oidc)
	petHandler := pets.NewHandler(petService)
	shareHandler := sharing.NewHandler(shareService)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go sharing.NewSweeper(shareService, cfg.ShareSweepEvery).Run(sweepCtx)

	router := mux.NewRouter()
	router.Use(middleware.Recovery, middleware.Logging)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)
	router.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	}).Methods(http.MethodGet)
	router.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w)
	}).Methods(http.MethodGet)

	authRouter := router.PathPrefix("/api/v1/auth").Subrouter()
	identityHandler.Register(authRouter)

	// Share links resolve anonymously; the throttle guards against token
	// guessing.
	public := router.NewRoute().Subrouter()
	public.Use(middleware.Throttle(database.GetRedis(), "share-verify", cfg.VerifyThrottleLimit, cfg.VerifyThrottleWindow))
	shareHandler.RegisterPublic(public)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Authenticate(sessions, notifier))
	petHandler.Register(api)
	shareHandler.Register(api)

	address := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ShareSvcPort)
	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Log.WithField("addr", address).Info("Share service listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("failed to start share service")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down share service...")
	stopSweep()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Error("Share service forced to shutdown")
	}
	logger.Log.Info("Share service stopped")
}
