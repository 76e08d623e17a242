package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/enginewatch/snmp-engine-monitor/internal/api"
	"github.com/enginewatch/snmp-engine-monitor/internal/config"
	"github.com/enginewatch/snmp-engine-monitor/internal/models"
	"github.com/enginewatch/snmp-engine-monitor/internal/services"
	"github.com/enginewatch/snmp-engine-monitor/internal/snmp"
	"github.com/enginewatch/snmp-engine-monitor/internal/websocket"
)

// initDB opens the engine registry and runs migrations
func initDB(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&models.Engine{}); err != nil {
		return nil, err
	}

	log.Printf("[Server] Engine registry at %s", path)
	return db, nil
}

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := initDB(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database connection: %v", err)
	}
	defer sqlDB.Close()

	// A fleet declared in the config file replaces the built-in seed
	if len(cfg.Fleet) > 0 {
		if err := services.SeedFleet(db, cfg.FleetSeed()); err != nil {
			log.Fatalf("Failed to seed configured fleet: %v", err)
		}
	}

	fleet, err := services.LoadFleet(db)
	if err != nil {
		log.Fatalf("Failed to load fleet: %v", err)
	}
	log.Printf("[Server] Simulating %d engines", fleet.Len())

	querier := snmp.NewClient(cfg.SNMPTimeout())
	poller := services.NewPollerService(fleet, querier, &services.PollerConfig{
		Interval: cfg.PollInterval(),
		Backoff:  cfg.PollBackoff(),
	})

	wsHub := websocket.NewHub()
	go wsHub.Run()
	poller.SetBroadcastFunc(wsHub.Broadcast)

	app := fiber.New(fiber.Config{
		AppName: "SNMP Engine Monitor",
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	apiGroup := app.Group("/api/v1")

	apiGroup.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "snmp-engine-monitor",
			"version": "0.1.0",
		})
	})

	engineHandler := api.NewEngineHandler(poller, fleet)
	engineHandler.RegisterRoutes(apiGroup)

	pollingHandler := api.NewPollingHandler(poller)
	pollingHandler.RegisterRoutes(apiGroup)

	wsHandler := api.NewWebSocketHandler(wsHub)
	wsHandler.RegisterRoutes(app)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	if err := poller.Start(); err != nil {
		log.Fatalf("Failed to start poller: %v", err)
	}

	// Shut down cleanly on SIGINT/SIGTERM
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Printf("[Server] Shutting down")
		if err := poller.Stop(); err != nil {
			log.Printf("[Server] Poller stop: %v", err)
		}
		wsHub.Shutdown()
		if err := app.Shutdown(); err != nil {
			log.Printf("[Server] HTTP shutdown: %v", err)
		}
	}()

	log.Printf("[Server] Listening on %s", cfg.Listen)
	if err := app.Listen(cfg.Listen); err != nil {
		log.Fatal(err)
	}
}
