package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-erp-sales/internal/config"
	"go-erp-sales/internal/handler"
	"go-erp-sales/internal/repository"
	"go-erp-sales/internal/service"
	"go-erp-sales/internal/ws"
	"go-erp-sales/pkg/database"
	"go-erp-sales/pkg/jwt"
	"go-erp-sales/pkg/lock"
	applog "go-erp-sales/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func main() {
	// 1. Load config
	cfg := config.Load()

	zl, err := applog.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zl.Sync()

	// 2. Setup Database
	db, err := database.ConnectDB(cfg.DSN(), cfg.LogLevel == "debug")
	if err != nil {
		zl.Fatal("database", zap.Error(err))
	}
	if err := repository.AutoMigrate(context.Background(), db); err != nil {
		zl.Fatal("migrate", zap.Error(err))
	}

	// 3. Finalize lock (Redis when configured)
	var locker lock.Locker = lock.NoopLocker{}
	if cfg.RedisAddr != "" {
		redisLocker := lock.NewRedisLocker(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := redisLocker.Ping(ctx)
		cancel()
		if err != nil {
			zl.Warn("redis unavailable, finalize relies on row locks only", zap.String("addr", cfg.RedisAddr), zap.Error(err))
			_ = redisLocker.Close()
		} else {
			locker = redisLocker
			defer redisLocker.Close()
		}
	}

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub(zl)
	go wsHub.Run()

	tokens, err := jwt.NewManager(cfg.JWTSecret, 24*time.Hour)
	if err != nil {
		zl.Fatal("jwt", zap.Error(err))
	}

	// 5. Dependency Injection (Wiring Layers)
	store := repository.NewStore(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)

	poster := service.NewSalePoster(store, locker, wsHub, zl, service.PosterConfig{
		InvoiceDueDays: cfg.InvoiceDueDays,
		LockTTL:        cfg.FinalizeLockTTL,
	})
	draftService := service.NewDraftService(store, poster, wsHub, zl)
	salesService := service.NewSalesService(store)
	customerService := service.NewCustomerService(store, zl)
	invService := service.NewInventoryService(store, wsHub, zl)
	authService := service.NewAuthService(userRepo, tokens)

	router := &handler.Router{
		Auth:      handler.NewAuthHandler(authService, zl),
		Drafts:    handler.NewDraftHandler(draftService, zl),
		Sales:     handler.NewSalesHandler(salesService, zl),
		Customers: handler.NewCustomerHandler(customerService, zl),
		Inventory: handler.NewInventoryHandler(invService, zl),
		Roles:     handler.NewRoleHandler(roleRepo, privilegeRepo, zl),
		Users:     userRepo,
		Tokens:    tokens,
	}

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "ERP Sales v1.0",
	})

	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.AllowedOrigins}))

	// 7. Routes
	router.Register(app)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(wsHub.Serve))

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(cfg.Address()); err != nil {
			zl.Panic("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zl.Error("Server forced to shutdown", zap.Error(err))
	}

	zl.Info("Server exited")
}
