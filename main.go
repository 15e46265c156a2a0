package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dinehall-order-service/internal/catalog"
	"dinehall-order-service/internal/config"
	"dinehall-order-service/internal/db"
	"dinehall-order-service/internal/engine"
	httpapi "dinehall-order-service/internal/http"
	"dinehall-order-service/internal/logger"
	"dinehall-order-service/internal/postgres"
	"dinehall-order-service/internal/queue"
	"dinehall-order-service/internal/ws"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx := context.Background()

	// Without DATABASE_URL the engine runs memory-only, which is fine for
	// development; production should always have the write-through store.
	var store engine.Store = engine.NopStore{}
	var cat catalog.Catalog = catalog.NewStatic()
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal("database connection failed", zap.Error(err))
		}
		defer pool.Close()

		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal("migrations failed", zap.Error(err))
		}
		store = postgres.NewStore(pool)
		cat = postgres.NewCatalog(pool)
		log.Info("write-through store enabled")
	} else {
		log.Warn("DATABASE_URL is empty; running memory-only")
	}

	eng := engine.New(store, log, engine.Options{CurrencyExponent: cfg.CurrencyExponent})

	var queueClient *queue.Client
	if cfg.RabbitMQURL != "" {
		qc, err := queue.New(cfg.RabbitMQURL)
		if err != nil {
			if cfg.Env == "production" {
				log.Fatal("rabbitmq connection failed", zap.Error(err))
			}
			log.Warn("rabbitmq connection failed; continuing without broker", zap.Error(err))
			qc = nil
		}
		if qc != nil {
			if err := queue.EnsureEventTopology(qc); err != nil {
				if cfg.Env == "production" {
					log.Fatal("rabbitmq topology failed", zap.Error(err))
				}
				log.Warn("rabbitmq topology failed; continuing without broker", zap.Error(err))
				_ = qc.Close()
				qc = nil
			}
		}

		queueClient = qc
		if qc != nil {
			defer qc.Close()
			eng.AddNotifier(queue.NewPublisher(qc, log))
			log.Info("event publisher enabled", zap.String("exchange", queue.EventsExchange))

			if cfg.RabbitMQWorkerMode == "daemon" {
				log.Info("kitchen ticket worker enabled", zap.String("mode", "daemon"))
				go func() {
					if err := queue.ConsumeKitchenTickets(queueClient, log, nil); err != nil {
						log.Error("consumer stopped", zap.Error(err))
					}
				}()
			} else {
				log.Info("kitchen ticket worker disabled", zap.String("mode", cfg.RabbitMQWorkerMode))
			}
		}
	} else {
		log.Info("event publisher disabled (RABBITMQ_URL is empty)")
	}

	wsServer := ws.New(eng, log, cfg)
	eng.AddNotifier(wsServer)

	apiServer := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(eng, cat, log, cfg, wsServer),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("order api ready", zap.String("base", "/api"))
		log.Info("order ws ready", zap.String("base", "/ws"))
		log.Info("order service listening", zap.String("addr", cfg.HTTPAddr))
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctxShutdown); err != nil {
		log.Error("http server shutdown failed", zap.Error(err))
	}
}
