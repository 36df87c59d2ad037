package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/redis/go-redis/v9"
	"github.com/streadway/amqp"

	"bazaar/internal/apperr"
	"bazaar/internal/cache"
	"bazaar/internal/config"
	"bazaar/internal/handlers"
	"bazaar/internal/middleware"
	"bazaar/internal/models"
	"bazaar/internal/repositories"
	"bazaar/internal/services"
	"bazaar/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	// --- MongoDB ---
	// The document store is the only hard dependency: without it nothing works.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := repositories.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDB)
	cancel()
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	// --- Repositories ---
	userRepo := repositories.NewMongoUserRepository(db)
	productRepo := repositories.NewMongoProductRepository(db)
	cartRepo := repositories.NewMongoCartRepository(db)
	orderRepo := repositories.NewMongoOrderRepository(db)
	categoryRepo := repositories.NewMongoCategoryRepository(db)

	ensureIndexes(userRepo, cartRepo, categoryRepo)

	// --- Redis (optional) ---
	// The review cache degrades to store reads when Redis is unreachable.
	var reviewCache cache.Cache
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Printf("Redis unavailable, review caching disabled: %v", err)
	} else {
		reviewCache = cache.NewRedisCache(rdb)
	}
	pingCancel()

	// --- RabbitMQ (optional) ---
	// Order events are best-effort: a missing broker must not block checkout.
	mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
	if err != nil {
		log.Printf("RabbitMQ unavailable, order events disabled: %v", err)
		mqClient = nil
	} else {
		defer mqClient.Close()
	}

	// --- Services ---
	authService := services.NewAuthService(userRepo, cfg.JWTSecret)
	productService := services.NewProductService(productRepo, categoryRepo)
	categoryService := services.NewCategoryService(categoryRepo)
	cartService := services.NewCartService(cartRepo, productRepo)
	orderService := services.NewOrderService(orderRepo, cartRepo, productRepo, mqClient)
	paymentService := services.NewPaymentService(orderRepo)
	reviewService := services.NewReviewService(productRepo, userRepo, reviewCache)
	adminService := services.NewAdminService(userRepo, productRepo)

	seedAdminAccount(authService, cfg.AdminEmail, cfg.AdminPassword)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	adminHandler := handlers.NewAdminHandler(adminService, authService, productService)

	// --- Fiber App ---
	app := fiber.New()
	app.Use(logger.New())

	api := app.Group("/api")

	// Public routes: browse catalog and categories, register, login.
	authHandler.RegisterPublicRoutes(api)
	products := api.Group("/products")
	productHandler.RegisterPublicRoutes(products)
	reviewHandler.RegisterRoutes(products, middleware.AuthRequired(authService, models.RoleCustomer))
	categories := api.Group("/categories")
	categoryHandler.RegisterPublicRoutes(categories)

	// Role-scoped groups.
	customer := api.Group("/customer", middleware.AuthRequired(authService, models.RoleCustomer))
	seller := api.Group("/seller", middleware.AuthRequired(authService, models.RoleSeller))
	admin := api.Group("/admin", middleware.AuthRequired(authService, models.RoleAdmin))

	authHandler.RegisterProfileRoutes(customer)
	authHandler.RegisterProfileRoutes(seller)
	cartHandler.RegisterRoutes(customer)
	orderHandler.RegisterCustomerRoutes(customer)
	paymentHandler.RegisterRoutes(customer)
	productHandler.RegisterSellerRoutes(seller)
	orderHandler.RegisterSellerRoutes(seller)
	categoryHandler.RegisterAdminRoutes(admin)
	adminHandler.RegisterRoutes(admin)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Order event consumer ---
	if mqClient != nil {
		go func() {
			log.Println("Starting order event consumer...")
			handler := func(msg amqp.Delivery) error {
				log.Printf("Order event %s: %s", msg.RoutingKey, string(msg.Body))
				return nil
			}
			if err := mqClient.ConsumeOrderEvents(handler); err != nil {
				log.Printf("Failed to start order event consumer: %v", err)
			}
		}()
	}

	// --- HTTP server with graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on %s", cfg.AppPort)
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}

// seedAdminAccount provisions the initial admin if it does not exist yet.
// Admin registration is not exposed over HTTP; this is the only way in.
func seedAdminAccount(authService *services.AuthService, email, password string) {
	if password == "" {
		log.Println("ADMIN_PASSWORD not set, skipping admin account seeding")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := authService.Register(ctx, services.RegisterInput{
		Name:     "Super Admin",
		Email:    email,
		Password: password,
	}, models.RoleAdmin)
	switch {
	case err == nil:
		log.Printf("Admin account created: %s", email)
	case apperr.IsKind(err, apperr.Conflict):
		log.Printf("Admin account already exists: %s", email)
	default:
		log.Printf("Failed to seed admin account: %v", err)
	}
}

type indexCreator interface {
	CreateIndexes(ctx context.Context) error
}

// ensureIndexes builds the unique indexes the repositories rely on. Failures
// are logged rather than fatal so the app still serves with a degraded store.
func ensureIndexes(creators ...indexCreator) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	for _, c := range creators {
		if err := c.CreateIndexes(ctx); err != nil {
			log.Printf("Failed to create indexes: %v", err)
		}
	}
}
