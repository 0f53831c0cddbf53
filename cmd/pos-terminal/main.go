package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/fjod/repair_pos/internal/catalog"
	"github.com/fjod/repair_pos/internal/events"
	"github.com/fjod/repair_pos/internal/fiscal"
	h "github.com/fjod/repair_pos/internal/http"
	"github.com/fjod/repair_pos/internal/ledger"
	"github.com/fjod/repair_pos/internal/orders"
	"github.com/fjod/repair_pos/internal/register"
	"github.com/fjod/repair_pos/internal/store"
)

type Config struct {
	HTTPPort        string
	InventoryAPIURL string
	FiscalAPIURL    string
	RedisAddr       string
	RedisPassword   string
	KafkaBrokers    string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		InventoryAPIURL: getEnv("INVENTORY_API_URL", "http://localhost:8000"),
		FiscalAPIURL:    getEnv("FISCAL_API_URL", "http://localhost:8000"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		KafkaBrokers:    getEnv("KAFKA_BROKERS", ""),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()
	ctx := context.Background()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}
	log.Printf("Connected to redis at %s", cfg.RedisAddr)

	docs := store.NewRedisStore(redisClient)
	salesLedger := ledger.New(ctx, docs)
	orderBook := orders.New(ctx, docs)

	catalogClient := catalog.NewClient(cfg.InventoryAPIURL, cfg.RequestTimeout)
	reader := catalog.NewReader(catalogClient)
	if err := reader.Refresh(ctx); err != nil {
		log.Printf("initial catalog refresh failed: %v", err)
	}

	fiscalClient := fiscal.NewClient(cfg.FiscalAPIURL, cfg.RequestTimeout)

	var publisher register.SalePublisher
	if cfg.KafkaBrokers != "" {
		kafkaPublisher := events.NewPublisher(strings.Split(cfg.KafkaBrokers, ","))
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Printf("Publishing completed sales to kafka at %s", cfg.KafkaBrokers)
	}

	till := register.New()
	checkout := register.NewCheckout(till, catalogClient, salesLedger, reader, publisher)

	registerHandler := h.NewRegisterHandler(till, checkout, reader, cfg.RequestTimeout)
	productsHandler := h.NewProductsHandler(reader, catalogClient, cfg.RequestTimeout)
	salesHandler := h.NewSalesHandler(salesLedger, fiscalClient, cfg.RequestTimeout)
	invoicesHandler := h.NewInvoicesHandler(fiscalClient, cfg.RequestTimeout)
	ordersHandler := h.NewOrdersHandler(orderBook)
	settingsHandler := h.NewSettingsHandler(catalogClient, cfg.RequestTimeout)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(h.RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", productsHandler.Get)
			r.Post("/", productsHandler.Create)
			r.Post("/refresh", productsHandler.Refresh)
		})
		r.Route("/register", func(r chi.Router) {
			r.Get("/", registerHandler.Status)
			r.Post("/open", registerHandler.Open)
			r.Post("/close", registerHandler.Close)
		})
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", registerHandler.GetCart)
			r.Delete("/", registerHandler.ClearCart)
			r.Post("/items", registerHandler.AddItem)
			r.Put("/items/{product_id}", registerHandler.UpdateQuantity)
			r.Delete("/items/{product_id}", registerHandler.RemoveItem)
		})
		r.Post("/checkout", registerHandler.Checkout)
		r.Route("/sales", func(r chi.Router) {
			r.Get("/", salesHandler.List)
			r.Post("/{sale_id}/fiscal", salesHandler.EmitFiscal)
		})
		r.Route("/invoices", func(r chi.Router) {
			r.Get("/", invoicesHandler.List)
			r.Post("/manual", salesHandler.ManualInvoice)
			r.Delete("/{ref}", invoicesHandler.Cancel)
		})
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ordersHandler.List)
			r.Post("/", ordersHandler.Create)
			r.Put("/{order_id}/status", ordersHandler.UpdateStatus)
		})
		r.Route("/settings", func(r chi.Router) {
			r.Get("/company", settingsHandler.Get)
			r.Post("/company", settingsHandler.Save)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("POS terminal starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
