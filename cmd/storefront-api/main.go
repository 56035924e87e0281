package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/littlefern/storefront-api/internal/api/handlers"
	"github.com/littlefern/storefront-api/internal/api/middleware"
	"github.com/littlefern/storefront-api/internal/cache"
	"github.com/littlefern/storefront-api/internal/config"
	"github.com/littlefern/storefront-api/internal/health"
	"github.com/littlefern/storefront-api/internal/metrics"
	repository "github.com/littlefern/storefront-api/internal/repositories"
	redisrepo "github.com/littlefern/storefront-api/internal/repositories/redis"
	service "github.com/littlefern/storefront-api/internal/services"
	"github.com/littlefern/storefront-api/pkg/sendgrid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	// Database setup
	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", "error", err.Error())
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	// Redis setup
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()

	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		slog.Error("❌ Error accessing the redis instance", "error", err.Error())
		os.Exit(1)
	}

	productCache := cache.NewRedisCache(redisClient, &cfg.Cache)
	rateLimiter := redisrepo.NewRateLimiter(redisClient, &cfg.RateConfig)
	emailService := sendgrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)

	jwtKey := []byte(cfg.Security.JWTKey)
	authMiddleware := middleware.NewAuthMiddleware(jwtKey)

	productService := service.NewProductService(repos.Product, productCache, &cfg.Cache)
	productHandler := handlers.NewProductHandler(productService)
	cartService := service.NewCartService(repos.Cart, repos.Product, &cfg.Shipping)
	cartHandler := handlers.NewCartHandler(cartService)
	couponService := service.NewCouponService(repos.Coupon)
	couponHandler := handlers.NewCouponHandler(couponService, rateLimiter)
	orderService := service.NewOrderService(repos.Order, repos.Cart, couponService, productCache, emailService, &cfg.Shipping)
	orderHandler := handlers.NewOrderHandler(orderService)
	reviewService := service.NewReviewService(repos.Review, repos.Product, productCache)
	reviewHandler := handlers.NewReviewHandler(reviewService)

	healthHandler, err := health.NewHealthHandler(cfg, &health.Endpoints{DB: repos.DB, RedisClient: redisClient})
	if err != nil {
		slog.Error("❌ Error creating health handler", "error", err.Error())
		os.Exit(1)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	// Setup router
	routerMux := http.NewServeMux()

	// Catalog is public.
	routerMux.HandleFunc("GET /api/v1/products", productHandler.ListProducts())
	routerMux.HandleFunc("GET /api/v1/products/{id}", productHandler.GetProduct())
	routerMux.HandleFunc("GET /api/v1/products/slug/{slug}", productHandler.GetProductBySlug())
	routerMux.HandleFunc("GET /api/v1/products/{productId}/reviews", reviewHandler.ListReviews())

	// Cart accepts authenticated users and anonymous sessions alike.
	routerMux.HandleFunc("GET /api/v1/cart", authMiddleware.Identify(http.HandlerFunc(cartHandler.GetCart())))
	routerMux.HandleFunc("DELETE /api/v1/cart", authMiddleware.Identify(http.HandlerFunc(cartHandler.ClearCart())))
	routerMux.HandleFunc("POST /api/v1/cart/items", authMiddleware.Identify(http.HandlerFunc(cartHandler.AddItem())))
	routerMux.HandleFunc("PUT /api/v1/cart/items/{id}", authMiddleware.Identify(http.HandlerFunc(cartHandler.UpdateQuantity())))
	routerMux.HandleFunc("DELETE /api/v1/cart/items/{id}", authMiddleware.Identify(http.HandlerFunc(cartHandler.RemoveItem())))
	routerMux.HandleFunc("POST /api/v1/coupons/validate", authMiddleware.Identify(http.HandlerFunc(couponHandler.Validate())))

	// Orders and reviews require an account.
	routerMux.HandleFunc("POST /api/v1/orders", authMiddleware.Authenticate(http.HandlerFunc(orderHandler.CreateOrder())))
	routerMux.HandleFunc("GET /api/v1/orders", authMiddleware.Authenticate(http.HandlerFunc(orderHandler.ListOrders())))
	routerMux.HandleFunc("GET /api/v1/orders/{id}", authMiddleware.Authenticate(http.HandlerFunc(orderHandler.GetOrder())))
	routerMux.HandleFunc("POST /api/v1/products/{productId}/reviews", authMiddleware.Authenticate(http.HandlerFunc(reviewHandler.SubmitReview())))

	// Admin surface.
	routerMux.HandleFunc("PUT /api/v1/admin/orders/{id}/status", authMiddleware.RequireAdmin(http.HandlerFunc(orderHandler.UpdateOrderStatus())))

	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /health", healthHandler.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)
	handler = otelhttp.NewHandler(handler, "storefront-api")

	// Setup http server
	server := http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.Any("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	if err := redisClient.Close(); err != nil {
		slog.Error("⚠️ Error closing redis connection", slog.String("error", err.Error()))
	}
}
