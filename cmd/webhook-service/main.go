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
	"github.com/pawprint-care/platform/pkg/common/config"
	"github.com/pawprint-care/platform/pkg/common/database"
	"github.com/pawprint-care/platform/pkg/common/kafka"
	"github.com/pawprint-care/platform/pkg/common/logger"
	"github.com/pawprint-care/platform/pkg/common/models"
	"github.com/pawprint-care/platform/pkg/middleware"
	"github.com/pawprint-care/platform/pkg/observability/metrics"
	"github.com/pawprint-care/platform/pkg/webhooks"
)

func main() {
	logger.Init()
	cfg := config.Load()

	if cfg.WebhookInboundSecret == "" {
		logger.Log.Fatal("WEBHOOK_INBOUND_SECRET is required")
	}

	db, err := database.GetPostgres()
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to connect to postgres")
	}

	deliveryRepo := webhooks.NewRepository(db)
	if err := deliveryRepo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("failed to migrate webhook tables")
	}

	subscribers, err := webhooks.LoadSubscribers(cfg.WebhookSubscribersPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to load webhook subscribers")
	}
	dispatcher := webhooks.NewDispatcher(subscribers, deliveryRepo, cfg.WebhookDispatchTimeout)

	producer := kafka.NewProducer("pawprint.webhooks")
	defer producer.Close()

	receiver := webhooks.NewReceiver(cfg.WebhookInboundSecret, cfg.MaxRequestBody, func(ctx context.Context, payload models.WebhookPayload) error {
		logger.Log.WithFields(map[string]interface{}{
			"event":       payload.Event,
			"resource_id": payload.ResourceID,
		}).Info("Inbound webhook accepted")
		return nil
	})
	receiver.SetEventPublisher(producer)

	// Post-ack processing: consume acknowledged inbound events and relay
	// them to the configured partner endpoints.
	consumer := kafka.NewConsumer("pawprint.webhooks", cfg.KafkaGroupID)
	defer consumer.Close()

	consumeCtx, stopConsume := context.WithCancel(context.Background())
	defer stopConsume()
	go func() {
		err := consumer.Consume(consumeCtx, func(ctx context.Context, event models.Event) error {
			innerEvent, _ := event.Data["event"].(string)
			resourceID, _ := event.Data["resource_id"].(string)
			innerData, _ := event.Data["data"].(map[string]interface{})
			if innerEvent == "" {
				return nil
			}
			dispatcher.Dispatch(ctx, innerEvent, resourceID, innerData)
			return nil
		})
		if err != nil && err != context.Canceled {
			logger.Log.WithError(err).Error("webhook consumer stopped")
		}
	}()

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

	api := router.PathPrefix("/api/v1").Subrouter()
	receiver.Register(api)
	webhooks.NewAuditHandler(deliveryRepo).Register(api)

	address := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.WebhookSvcPort)
	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Log.WithField("addr", address).Info("Webhook service listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("failed to start webhook service")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down webhook service...")
	stopConsume()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Error("Webhook service forced to shutdown")
	}
	logger.Log.Info("Webhook service stopped")
}
