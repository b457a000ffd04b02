package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/YelzhanWeb/pos/internal/adapter/apiclient"
	"github.com/YelzhanWeb/pos/internal/adapter/kafka"
	"github.com/YelzhanWeb/pos/internal/adapter/logger"
	"github.com/YelzhanWeb/pos/internal/adapter/metrics"
	"github.com/YelzhanWeb/pos/internal/adapter/pebble"
	"github.com/YelzhanWeb/pos/internal/adapter/postgres"
	"github.com/YelzhanWeb/pos/internal/adapter/rabbitmq"
	"github.com/YelzhanWeb/pos/internal/adapter/redis"
	"github.com/YelzhanWeb/pos/internal/app/cart"
	"github.com/YelzhanWeb/pos/internal/app/catalog"
	"github.com/YelzhanWeb/pos/internal/app/inventory"
	"github.com/YelzhanWeb/pos/internal/app/order"
	"github.com/YelzhanWeb/pos/internal/app/report"
	"github.com/YelzhanWeb/pos/internal/config"

	amqpAdapter "github.com/YelzhanWeb/pos/internal/adapter/amqp"
	httpAdapter "github.com/YelzhanWeb/pos/internal/adapter/http"
)

func main() {
	// Parse command-line flags
	mode := flag.String("mode", "", "Service mode: api, kiosk, notification-subscriber")
	configPath := flag.String("config", "config.yaml", "Path to the YAML config file")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	flag.Parse()

	if *mode == "" {
		log.Fatal("--mode flag is required")
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lgr := logger.New(*mode)

	switch *mode {
	case "api":
		if *port != 0 {
			cfg.API.Port = *port
		}
		err = runAPI(ctx, cfg, lgr)

	case "kiosk":
		if *port != 0 {
			cfg.Kiosk.Port = *port
		}
		err = runKiosk(ctx, cfg, lgr)

	case "notification-subscriber":
		err = runNotificationSubscriber(ctx, cfg, lgr)

	default:
		log.Fatalf("Invalid mode: %s", *mode)
	}

	if err != nil {
		lgr.Error("service_failed", "Service stopped with error", "shutdown", nil, err)
		os.Exit(1)
	}
	lgr.Info("shutdown_complete", "Service stopped", "shutdown", nil)
}

func runAPI(ctx context.Context, cfg *config.Config, lgr logger.Logger) error {
	// Connect to PostgreSQL
	db, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}

	lgr.Info("db_connected", "Connected to PostgreSQL database", "startup", map[string]interface{}{
		"host": cfg.Database.Host,
		"db":   cfg.Database.Database,
	})

	// Connect to RabbitMQ
	mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	defer mqConn.Close()

	lgr.Info("rabbitmq_connected", "Connected to RabbitMQ", "startup", map[string]interface{}{
		"host":     cfg.RabbitMQ.Host,
		"exchange": cfg.RabbitMQ.Exchange,
	})

	cache := redis.NewNoopCache()
	if cfg.Redis.Enabled {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		defer client.Close()
		cache = redis.NewCache(client)

		lgr.Info("redis_connected", "Catalog cache enabled", "startup", map[string]interface{}{
			"addr": cfg.Redis.Addr,
			"ttl":  cfg.Redis.TTL.String(),
		})
	}

	journal := kafka.NewNoopJournal()
	if cfg.Kafka.Enabled {
		j := kafka.NewJournal(cfg.Kafka)
		defer j.Close()
		journal = j

		lgr.Info("kafka_enabled", "Inventory movement journal enabled", "startup", map[string]interface{}{
			"brokers": cfg.Kafka.Brokers,
			"topic":   cfg.Kafka.Topic,
		})
	}

	m := metrics.NewRegistry()
	publisher := rabbitmq.NewPublisher(mqConn, cfg.RabbitMQ.Exchange)

	// Initialize services
	orderService := order.NewService(postgres.NewOrderRepository(db), publisher, lgr, m)
	catalogService := catalog.NewService(
		postgres.NewFoodItemRepository(db),
		postgres.NewMenuItemRepository(db),
		cache,
		cfg.Redis.TTL,
		publisher,
		lgr,
		m,
	)
	inventoryService := inventory.NewService(postgres.NewInventoryRepository(db), journal, lgr, m)
	reportService := report.NewService(postgres.NewReportRepository(db), lgr)

	handler := httpAdapter.NewRouter(lgr, m,
		httpAdapter.NewOrderHandler(orderService, lgr),
		httpAdapter.NewCatalogHandler(catalogService, lgr),
		httpAdapter.NewInventoryHandler(inventoryService, lgr),
		httpAdapter.NewReportHandler(reportService, lgr),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.API.Port),
		Handler:      handler,
		ReadTimeout:  cfg.API.ReadTimeout,
		WriteTimeout: cfg.API.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	lgr.Info("service_started", fmt.Sprintf("POS API started on port %d", cfg.API.Port), "startup", map[string]interface{}{
		"port": cfg.API.Port,
	})

	return serve(ctx, server, cfg.API.ShutdownTimeout, lgr)
}

func runKiosk(ctx context.Context, cfg *config.Config, lgr logger.Logger) error {
	terminalID := uuid.NewString()

	taxRate, err := cfg.TaxRate()
	if err != nil {
		return err
	}
	surcharges, err := cfg.SurchargeTable()
	if err != nil {
		return err
	}

	store, err := pebble.Open(cfg.Kiosk.DataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	m := metrics.NewRegistry()
	client := apiclient.New(cfg.Kiosk.APIURL, terminalID, cfg.Kiosk.RequestTimeout)

	c := cart.New(store, surcharges, taxRate, lgr)
	if err := c.Restore(); err != nil {
		lgr.Error("cart_restore_failed", "Failed to restore cart, starting empty", "startup", nil, err)
		if err := c.Empty(); err != nil {
			return fmt.Errorf("failed to reset cart: %w", err)
		}
	}

	resolver := cart.NewResolver(client, cfg.Checkout.StrictBOM, lgr)
	stocker := cart.NewStocker(resolver, client, client, lgr)
	finalizer := cart.NewFinalizer(c, client, stocker, cart.FinalizerOptions{
		Policy:     cart.Policy(cfg.Checkout.Policy),
		Compensate: cfg.Checkout.Compensate,
		EmployeeID: cfg.Kiosk.EmployeeID,
	}, lgr, m)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Kiosk.Port),
		Handler:      httpAdapter.NewRouter(lgr, m, httpAdapter.NewKioskHandler(c, finalizer, client, lgr)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * cfg.Kiosk.RequestTimeout,
		IdleTimeout:  60 * time.Second,
	}

	lgr.Info("service_started", fmt.Sprintf("Kiosk started on port %d", cfg.Kiosk.Port), "startup", map[string]interface{}{
		"terminal_id": terminalID,
		"api_url":     cfg.Kiosk.APIURL,
		"cart_items":  c.Len(),
		"policy":      cfg.Checkout.Policy,
	})

	return serve(ctx, server, 10*time.Second, lgr)
}

func runNotificationSubscriber(ctx context.Context, cfg *config.Config, lgr logger.Logger) error {
	mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	defer mqConn.Close()

	consumer := rabbitmq.NewConsumer(mqConn, cfg.RabbitMQ.Exchange, lgr)
	notificationHandler := amqpAdapter.NewNotificationHandler(lgr)

	lgr.Info("service_started", "Notification Subscriber started", "startup", map[string]interface{}{
		"exchange": cfg.RabbitMQ.Exchange,
	})

	err = consumer.ConsumeNotifications(ctx, notificationHandler.HandleNotification)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// serve runs the server until ctx is cancelled, then drains it within timeout.
func serve(ctx context.Context, server *http.Server, timeout time.Duration, lgr logger.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		lgr.Info("shutdown_initiated", "Shutting down HTTP server", "shutdown", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
