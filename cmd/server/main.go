package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"synapse/internal/config"
	"synapse/internal/database"
	"synapse/internal/handlers"
	"synapse/internal/jobs"
	"synapse/internal/knowledge"
	"synapse/internal/logging"
	"synapse/internal/lookup"
	"synapse/internal/pipeline"
	"synapse/internal/queue"
	"synapse/internal/services"
	"synapse/internal/storage"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Structured logging (JSON in production, text in dev)
	logging.Init()

	log.Println("🚀 Starting Synapse Server...")

	// Load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  No .env file found or error loading it: %v", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	cfg := config.Load()
	log.Printf("📋 Configuration loaded (Port: %s, DB: %s)", cfg.Port, cfg.DatabaseURL)

	// Open the database. A failure here is not fatal: the pipeline keeps
	// working against in-memory storage, it just forgets on restart.
	var db *database.DB
	var store *knowledge.Store

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		log.Printf("⚠️  Failed to connect to database: %v (running with in-memory storage)", err)
		db = nil
		store = knowledge.NewStore(storage.NewMemoryStorage())
	} else {
		if err := db.Initialize(); err != nil {
			log.Fatalf("❌ Failed to initialize database: %v", err)
		}
		store = knowledge.NewStore(storage.NewSQLStorage(db))
	}

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	if err := store.LoadAll(startupCtx); err != nil {
		log.Printf("⚠️  Failed to load knowledge store: %v", err)
	}

	// Seed knowledge: files win only over seed-sourced entries, never over
	// learned or manual ones.
	if _, err := store.LoadSeeds(startupCtx, cfg.SeedsDir); err != nil {
		log.Printf("⚠️  Failed to load seeds from %s: %v", cfg.SeedsDir, err)
	}
	cancelStartup()

	// Hot-reload seed files on change.
	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()

	seedWatcher, err := knowledge.NewSeedWatcher(store, cfg.SeedsDir)
	if err != nil {
		log.Printf("⚠️  Seed watcher disabled: %v", err)
	} else {
		seedWatcher.Start(appCtx)
	}

	// Redis is optional: shared lookup cache plus learned-knowledge events.
	var redisService *services.RedisService
	if cfg.RedisURL != "" {
		redisService, err = services.NewRedisService(cfg.RedisURL, cfg.LookupCacheTTL)
		if err != nil {
			log.Printf("⚠️  Redis unavailable: %v (continuing without shared cache)", err)
			redisService = nil
		} else {
			store.SetEventPublisher(redisService)
		}
	}

	var secondary lookup.SecondaryCache
	if redisService != nil {
		secondary = redisService
	}
	lookupClient := lookup.NewClient(lookup.Options{
		GlobalRate:  cfg.LookupGlobalRate,
		PerHostRate: cfg.LookupPerHostRate,
		CacheTTL:    cfg.LookupCacheTTL,
		Secondary:   secondary,
	})

	learningQueue := queue.New(cfg.QueueMaxSize)

	// The six pathway processors, in synthesis tie-break order.
	processors := []pipeline.Processor{
		pipeline.NewArithmeticProcessor(store),
		pipeline.NewVocabularyProcessor(store, lookupClient, learningQueue, cfg.LookupTimeout),
		pipeline.NewPersonalProcessor(store),
		pipeline.NewFactualProcessor(store, lookupClient, learningQueue, cfg.LookupTimeout, cfg.RelevanceCutoff),
		pipeline.NewTemporalProcessor(pipeline.SystemClock{}),
		pipeline.NewConversationalProcessor(store),
	}

	metrics := services.InitMetrics(store, learningQueue)

	pipe := pipeline.New(pipeline.Options{
		Store:           store,
		Processors:      processors,
		ConversationCap: cfg.ConversationCap,
		MinActivation:   cfg.MinActivation,
		Metrics:         metrics,
	})

	// Background jobs: queue drain and retention.
	jobScheduler := jobs.NewScheduler()
	jobScheduler.Register("learning-drain", jobs.NewLearningDrainJob(learningQueue, store, lookupClient, cfg.DrainInterval, cfg.LookupTimeout))
	jobScheduler.Register("retention", jobs.NewRetentionJob(pipe.Conversation(), learningQueue, cfg.QueueMaxAge, cfg.RetentionInterval))
	jobScheduler.Start()

	// Nightly knowledge snapshot.
	snapshotService, err := services.NewSnapshotService(store, cfg.SnapshotCron)
	if err != nil {
		log.Fatalf("❌ Invalid snapshot configuration: %v", err)
	}
	if err := snapshotService.Start(); err != nil {
		log.Fatalf("❌ Failed to start snapshot service: %v", err)
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Synapse v1.0",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  90 * time.Second,
		BodyLimit:    1 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(logger.New())

	// Prometheus metrics middleware
	prometheus := fiberprometheus.New("synapse")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)
	log.Println("📊 Prometheus metrics endpoint enabled at /metrics")

	// CORS configuration with environment-based origins
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:5173,http://localhost:3000"
		log.Println("⚠️  ALLOWED_ORIGINS not set, using development defaults")
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: allowedOrigins != "*",
	}))

	// Global API rate limiter
	app.Use("/api", limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))

	// Initialize handlers
	chatHandler := handlers.NewChatHandler(pipe, cfg.MessageMaxLength)
	chatSocketHandler := handlers.NewChatSocketHandler(pipe, cfg.MessageMaxLength)
	knowledgeHandler := handlers.NewKnowledgeHandler(store)
	queueHandler := handlers.NewQueueHandler(learningQueue)
	healthHandler := handlers.NewHealthHandler(db, redisService, store, learningQueue)

	// Routes
	app.Get("/health", healthHandler.Health)

	api := app.Group("/api")
	api.Post("/chat", chatHandler.HandleMessage)
	api.Get("/conversation", chatHandler.GetConversation)
	api.Get("/queue", queueHandler.GetQueue)

	api.Get("/knowledge", knowledgeHandler.Stats)
	api.Delete("/knowledge", knowledgeHandler.ClearAll)
	api.Get("/knowledge/:kind/search", knowledgeHandler.Search)
	api.Get("/knowledge/:kind", knowledgeHandler.ListEntries)
	api.Post("/knowledge/:kind", knowledgeHandler.UpsertEntry)
	api.Get("/knowledge/:kind/:key", knowledgeHandler.GetEntry)
	api.Delete("/knowledge/:kind/:key", knowledgeHandler.DeleteEntry)

	// WebSocket route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	wsConfig := websocket.Config{
		Origins: strings.Split(allowedOrigins, ","),
	}
	app.Get("/ws/chat", websocket.New(chatSocketHandler.Handle, wsConfig))

	log.Printf("💬 Chat endpoint: http://localhost:%s/api/chat", cfg.Port)
	log.Printf("🔌 WebSocket endpoint: ws://localhost:%s/ws/chat", cfg.Port)
	log.Printf("📡 Health check: http://localhost:%s/health", cfg.Port)

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("\n🛑 Shutting down server...")

		if seedWatcher != nil {
			seedWatcher.Stop()
		}
		cancelApp()

		jobScheduler.Stop()
		snapshotService.Stop()

		// Persist everything learned before the process exits.
		persistCtx, cancelPersist := context.WithTimeout(context.Background(), 15*time.Second)
		store.PersistAll(persistCtx)
		cancelPersist()

		if redisService != nil {
			if err := redisService.Close(); err != nil {
				log.Printf("⚠️ Error closing Redis: %v", err)
			}
		}
		if db != nil {
			if err := db.Close(); err != nil {
				log.Printf("⚠️ Error closing database: %v", err)
			}
		}

		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️ Error shutting down server: %v", err)
		}
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
