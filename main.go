package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/bidaya-api/auth"
	"github.com/junaidrashid-git/bidaya-api/config"
	"github.com/junaidrashid-git/bidaya-api/metrics"
	"github.com/junaidrashid-git/bidaya-api/models"
	"github.com/junaidrashid-git/bidaya-api/notify"
	"github.com/junaidrashid-git/bidaya-api/orders"
	"github.com/junaidrashid-git/bidaya-api/reports"
	"github.com/junaidrashid-git/bidaya-api/routes"
	"github.com/junaidrashid-git/bidaya-api/uploads"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	log.Println("✅ Starting application...")

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Init DB
	db := initDatabase(cfg)
	if err := models.Migrate(db); err != nil {
		log.Fatalf("❌ AutoMigrate failed: %v", err)
	}

	// Events
	hub := notify.NewHub()
	events, closeEvents := initPublishers(cfg, hub)
	defer closeEvents()

	// Metrics
	registry := prometheus.NewRegistry()
	serverMetrics := metrics.NewServerMetrics(registry, "api")

	reporter, err := reports.New(db)
	if err != nil {
		log.Fatalf("❌ Reports init failed: %v", err)
	}

	// Gin setup
	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), serverMetrics.Middleware())

	// Allow large file uploads (1 GB)
	r.MaxMultipartMemory = 1 << 30

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: !containsWildcard(cfg.CORSOrigins),
		MaxAge:           12 * time.Hour,
	}))

	// Serve uploaded images
	store := uploads.NewStore(cfg.UploadsDir)
	r.Static(store.URLPrefix, store.Dir)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(metrics.Handler(registry)))

	// Setup routes
	routes.SetupRoutes(r, routes.Deps{
		DB:      db,
		Auth:    auth.NewService(db, cfg.JWTSecret, cfg.SessionTTL),
		Orders:  orders.NewStore(db, events, serverMetrics),
		Reports: reporter,
		Hub:     hub,
		Uploads: store,
		APIKey:  cfg.CostAPIKey,
	})

	// Daily image backup
	go uploads.Backup{
		Src:       cfg.UploadsDir,
		Dest:      cfg.BackupDir,
		Retention: cfg.BackupRetention,
		Hour:      cfg.BackupHour,
	}.Run(ctx)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("❌ Shutdown failed: %v", err)
		}
	}()

	log.Printf("🚀 Server running on port %s...", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
	log.Println("👋 Server stopped")
}

// initDatabase sets up the GORM DB connection
func initDatabase(cfg *config.Config) *gorm.DB {
	gormCfg := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: cfg.DBDriver == "sqlite",
		NowFunc:                                  func() time.Time { return time.Now().UTC() },
	}

	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DatabaseURL)
	default:
		dialector = postgres.Open(cfg.DatabaseURL)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		log.Fatalf("❌ DB connection failed: %v", err)
	}
	log.Printf("✅ Connected to %s database", cfg.DBDriver)
	return db
}

// initPublishers fans order events out to the websocket hub and, when
// configured, Kafka and RabbitMQ. The returned func closes the brokers.
func initPublishers(cfg *config.Config, hub *notify.Hub) (notify.Publisher, func()) {
	publishers := notify.Multi{hub}
	var closers []func()

	if cfg.KafkaBrokers != "" {
		kafka := notify.NewKafkaPublisher(strings.Split(cfg.KafkaBrokers, ","), cfg.KafkaOrdersTopic)
		publishers = append(publishers, kafka)
		closers = append(closers, func() {
			if err := kafka.Close(); err != nil {
				log.Printf("❌ Kafka writer close failed: %v", err)
			}
		})
		log.Printf("✅ Publishing order events to Kafka topic %s", cfg.KafkaOrdersTopic)
	}

	if cfg.RabbitMQURL != "" {
		pool, err := notify.NewChannelPool(cfg.RabbitMQURL, cfg.RabbitMQQueue, cfg.ChannelPoolSize)
		if err != nil {
			log.Printf("❌ RabbitMQ unavailable, continuing without it: %v", err)
		} else {
			publishers = append(publishers, notify.NewRabbitPublisher(pool, cfg.RabbitMQQueue))
			closers = append(closers, pool.Close)
			log.Printf("✅ Publishing order events to RabbitMQ queue %s", cfg.RabbitMQQueue)
		}
	}

	return publishers, func() {
		for _, c := range closers {
			c()
		}
	}
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
