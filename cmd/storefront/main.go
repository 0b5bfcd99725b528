package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ivancliff029/engaato-online/internal/catalog"
	"github.com/ivancliff029/engaato-online/internal/checkout"
	"github.com/ivancliff029/engaato-online/internal/config"
	"github.com/ivancliff029/engaato-online/internal/dashboard"
	h "github.com/ivancliff029/engaato-online/internal/http"
	"github.com/ivancliff029/engaato-online/internal/identity"
	"github.com/ivancliff029/engaato-online/internal/payment"
	"github.com/ivancliff029/engaato-online/internal/persistence"
	"github.com/ivancliff029/engaato-online/internal/publisher"
	"github.com/ivancliff029/engaato-online/internal/repository"
	"github.com/ivancliff029/engaato-online/internal/session"
	"github.com/ivancliff029/engaato-online/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	ctx := context.Background()

	docs, err := openDocumentStore(ctx, cfg)
	if err != nil {
		log.Fatal("failed to open document store", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	defer docs.Close(context.Background())

	var storage persistence.Provider = persistence.NewMemoryProvider()
	var productCache catalog.ProductCache = catalog.NoCache{}
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal("failed to connect to redis", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		storage = persistence.RedisProvider(redisClient)
		productCache = catalog.NewRedisCache(redisClient)
	} else {
		log.Warn("REDIS_ADDR not set, carts are kept in process memory")
	}

	var pub publisher.Publisher = publisher.Noop{}
	if len(cfg.KafkaBrokers) > 0 {
		pub = publisher.NewKafkaPublisher(cfg.KafkaTopic, cfg.KafkaBrokers...)
	}
	defer pub.Close()

	flutterwave := payment.NewFlutterwave(cfg.Payment, log)
	if err := flutterwave.Ready(); err != nil {
		// checkout reports this per attempt; browsing still works
		log.Warn("payment provider not configured", zap.Error(err))
	}
	widget := payment.NewHosted(flutterwave, log)

	sessions := session.NewManager(session.Options{
		Storage:     storage,
		Widget:      widget,
		Recorder:    checkout.NewRecorder(docs, pub, log),
		ResetDelay:  cfg.CheckoutResetDelay,
		IdleTimeout: cfg.SessionIdleTimeout,
	}, log)
	defer sessions.Close()

	products := catalog.NewService(docs, productCache, log)
	router := h.NewRouter(h.Deps{
		Sessions:           sessions,
		Catalog:            products,
		Directory:          identity.NewDirectory(docs, cfg.Guest, log),
		Payments:           widget,
		Webhooks:           flutterwave,
		Dashboard:          dashboard.NewService(docs, products, cfg.StoreLocation),
		Auth:               identity.NewAuthenticator(cfg.JWTSecret, log).Middleware,
		Log:                log,
		RequestTimeout:     cfg.RequestTimeout,
		MaxRequestBodySize: cfg.MaxRequestBodySize,
		SecureCookies:      cfg.Env == "production",
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("storefront starting", zap.String("port", cfg.HTTPPort), zap.String("db", cfg.DBDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}

func openDocumentStore(ctx context.Context, cfg *config.Config) (repository.DocumentStore, error) {
	switch cfg.DBDriver {
	case "postgres":
		cred := &repository.Credentials{
			Host:              cfg.Postgres.Host,
			Port:              cfg.Postgres.Port,
			User:              cfg.Postgres.User,
			Password:          cfg.Postgres.Password,
			DBName:            cfg.Postgres.DBName,
			MigrationsDirPath: cfg.Postgres.MigrationsPath,
		}
		store, err := repository.NewPostgresStore(cred)
		if err != nil {
			return nil, err
		}
		if err := store.RunMigrations(cred); err != nil {
			return nil, err
		}
		return store, nil
	default:
		connectCtx, cancel := context.WithTimeout(ctx, cfg.Mongo.ConnectTimeout+cfg.Mongo.ServerSelectionTimeout)
		defer cancel()

		return repository.OpenMongoStore(connectCtx, repository.MongoOptions{
			URI:                    cfg.Mongo.URI,
			Database:               cfg.Mongo.Database,
			MaxPoolSize:            cfg.Mongo.MaxPoolSize,
			MinPoolSize:            cfg.Mongo.MinPoolSize,
			ConnectTimeout:         cfg.Mongo.ConnectTimeout,
			ServerSelectionTimeout: cfg.Mongo.ServerSelectionTimeout,
		})
	}
}
