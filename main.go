package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"ms-storefront/internal/catalog"
	"ms-storefront/internal/clock"
	"ms-storefront/internal/config"
	"ms-storefront/internal/kafka"
	"ms-storefront/internal/logger"
	"ms-storefront/internal/monitoring"
	"ms-storefront/internal/purchase"
	"ms-storefront/internal/purchase/purchase_api"
	"ms-storefront/internal/sse"
	"ms-storefront/internal/store"
	"ms-storefront/internal/tickets/ledger"
	qr_genrator "ms-storefront/internal/tickets/qr_genrator"
	tickets "ms-storefront/internal/tickets/service"
	"ms-storefront/internal/tickets/ticket_api"
	"ms-storefront/internal/utils"
	"ms-storefront/internal/wallet"
	"ms-storefront/internal/wallet/wallet_api"
)

func connectRedis(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	var err error
	maxRetries := 5
	for i := 0; i < maxRetries; i++ {
		log.Info("REDIS", fmt.Sprintf("Attempting to connect to Redis at %s (attempt %d/%d)", cfg.Addr, i+1, maxRetries))
		if err = client.Ping(ctx).Err(); err == nil {
			break
		}
		log.Error("REDIS", fmt.Sprintf("Redis connection error: %v", err))
		if i < maxRetries-1 {
			time.Sleep(2 * time.Second)
		}
	}
	if err != nil {
		log.Fatal("REDIS", fmt.Sprintf("Failed to connect to Redis after %d attempts: %v", maxRetries, err))
	}

	log.Info("REDIS", fmt.Sprintf("Redis connection successful to %s (DB: %d)", cfg.Addr, cfg.DB))
	return client
}

// openStore returns the configured profile store and a function that releases it.
func openStore(ctx context.Context, cfg config.StoreConfig, redisClient *redis.Client, log *logger.Logger) (store.Store, func()) {
	switch cfg.Driver {
	case "memory":
		log.Warn("STORE", "Using in-memory profile store; tickets are lost on restart")
		return store.NewMemoryStore(), func() {}

	case "redis":
		if redisClient == nil {
			log.Fatal("CONFIG", "STORE_DRIVER=redis requires REDIS_ADDR")
		}
		log.Info("STORE", fmt.Sprintf("Using Redis profile store (namespace %q)", cfg.RedisNamespace))
		return store.NewRedisStore(redisClient, cfg.RedisNamespace), func() {}

	case "sqlite", "postgres":
		db, err := store.OpenSQL(cfg.Driver, cfg.DSN)
		if err != nil {
			log.Fatal("STORE", fmt.Sprintf("Failed to open %s profile store: %v", cfg.Driver, err))
		}
		if err := db.PingContext(ctx); err != nil {
			log.Fatal("STORE", fmt.Sprintf("Failed to connect to %s profile store: %v", cfg.Driver, err))
		}
		sqlStore := store.NewSQLStore(db)
		if err := sqlStore.CreateSchema(ctx); err != nil {
			log.Fatal("STORE", err.Error())
		}
		log.Info("STORE", fmt.Sprintf("Using %s profile store", cfg.Driver))
		return sqlStore, func() { db.Close() }

	default:
		log.Fatal("CONFIG", fmt.Sprintf("Unknown STORE_DRIVER %q", cfg.Driver))
		return nil, nil
	}
}

// requestLogger logs every request through the category logger.
func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.LogAPI(r.Method, r.URL.Path, fmt.Sprintf("%d", ww.Status()), time.Since(start).String())
		})
	}
}

func main() {
	envErr := godotenv.Load()
	cfg := config.Load()

	log := logger.NewLogger(cfg.Log.Dir, cfg.Log.Level)
	defer log.Close()

	log.Info("APP", "Starting Storefront Service initialization")
	if envErr != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		log.Info("CONFIG", "Loaded environment variables from .env file")
	}

	ctx := context.Background()

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = connectRedis(ctx, cfg.Redis, log)
		defer redisClient.Close()
	}

	profileStore, closeStore := openStore(ctx, cfg.Store, redisClient, log)
	defer closeStore()

	ticketLedger := ledger.NewLedger(profileStore, log)

	emitter := sse.NewSessionEventEmitter()
	emitter.OnSubscriberCount(monitoring.SetSessionSubscribers)
	session := wallet.NewSession(ticketLedger, emitter, clock.NewSystem())

	// --- Wallet backends ---
	var ethereum wallet.EthereumProvider
	if cfg.Wallet.ExtensionRPCURL != "" {
		ethereum = wallet.NewRPCClient(cfg.Wallet.ExtensionRPCURL, cfg.Wallet.RPCTimeout)
		log.Info("WALLET", fmt.Sprintf("Extension wallet provider at %s", cfg.Wallet.ExtensionRPCURL))
	} else {
		log.Warn("WALLET", "WALLET_EXTENSION_RPC_URL not set; extension wallet will report provider not found")
	}

	var altChainProvider wallet.AltChainProvider
	var nonces wallet_api.NonceSource
	if cfg.Wallet.AltChainRPCURL != "" {
		altRPC := wallet.NewRPCClient(cfg.Wallet.AltChainRPCURL, cfg.Wallet.RPCTimeout)
		altChainProvider = altRPC
		nonces = altRPC
		log.Info("WALLET", fmt.Sprintf("Alt-chain wallet provider at %s", cfg.Wallet.AltChainRPCURL))
	}

	var relayTransport wallet.RelayTransport
	if cfg.Wallet.RelayEnabled && redisClient != nil {
		relayTransport = wallet.NewRedisRelay(redisClient)
		log.Info("WALLET", "Relay sessions use Redis pub/sub")
	} else {
		log.Warn("WALLET", "Relay transport unavailable; relay-protocol connections will fail")
	}

	altChain := wallet.NewAltChainWallet(altChainProvider)
	connector := wallet.NewConnector(
		wallet.NewExtensionWallet(ethereum),
		wallet.NewRelaySession(relayTransport, cfg.Wallet.RelayRPCEndpoint, cfg.Wallet.RelayApprovalTimeout),
		altChain,
	)
	walletService := wallet.NewService(connector, session, log)

	// --- Purchase flow ---
	var guard purchase.Guard = purchase.NewLocalGuard()
	if cfg.Purchase.GuardBackend == "redis" {
		if redisClient == nil {
			log.Fatal("CONFIG", "PURCHASE_GUARD=redis requires REDIS_ADDR")
		}
		guard = purchase.NewRedisGuard(redisClient, cfg.Purchase.GuardTTL)
	}

	var publisher purchase.Publisher = kafka.NoopPublisher{}
	if cfg.Kafka.Enabled {
		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, []string{cfg.Kafka.Topic}, log); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		}
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		defer producer.Close()
		publisher = producer
		log.Info("KAFKA", "Kafka producer initialized successfully")
	}

	eventCatalog := catalog.Default()
	purchaseService := purchase.NewService(eventCatalog, ticketLedger, guard, publisher, log)
	purchaseService.Delay = cfg.Purchase.ProcessingDelay
	purchaseService.WalletOptions = wallet.Options(connector.Kinds())

	if cfg.QRSecret == "" {
		log.Warn("CONFIG", "QR_SECRET_KEY not set; receipt QR codes use an empty secret")
	}
	ticketService := tickets.NewTicketService(ticketLedger, qr_genrator.NewQRGenerator(cfg.QRSecret), log)

	// --- HTTP ---
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("ok", nil))
	})
	r.Handle("/metrics", monitoring.Handler())

	r.Route("/api", func(r chi.Router) {
		purchase_api.NewHandler(eventCatalog, purchaseService, log).RegisterRoutes(r)
		log.Info("ROUTER", "Event routes registered under /api/events")

		ticket_api.NewHandler(ticketService, log).RegisterRoutes(r)
		log.Info("ROUTER", "Ticket routes registered under /api/tickets")

		wallet_api.NewHandler(walletService, altChain, nonces, log).RegisterRoutes(r)
		log.Info("ROUTER", "Wallet routes registered under /api/wallet")
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("Storefront Service running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	log.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		log.Info("HTTP", "Storefront Service shutdown complete")
	}
}
