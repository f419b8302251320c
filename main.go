package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"

	"ibuc_backend/internals/configs"
	database "ibuc_backend/internals/databases"
	"ibuc_backend/internals/features/finance/billings/scheduler"
	billingService "ibuc_backend/internals/features/finance/billings/service"
	helper "ibuc_backend/internals/helpers"
	middlewares "ibuc_backend/internals/middlewares"
	routes "ibuc_backend/internals/route"
)

func main() {
	configs.LoadEnv()
	cfg := configs.Load()
	log := configs.NewLogger(cfg.LogLevel)

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	app := fiber.New(fiber.Config{
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		ErrorHandler:            helper.ErrorHandler,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})

	middlewares.SetupMiddlewares(app, cfg, log)

	// 🔌 DB connect + pool + migrate + warm-up
	if err := database.ConnectDB(cfg, log); err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	database.TunePool(log)
	if err := database.AutoMigrate(database.DB); err != nil {
		log.WithError(err).Fatal("migration failed")
	}
	database.WarmUpQueries(log)

	gen := billingService.NewGenerator(
		database.DB,
		billingService.NewGormCohortLookup(database.DB),
		billingService.NewLogNotifier(log),
		log,
	)
	gen.NotifyTimeout = cfg.NotifyTimeout

	// ⏱ scheduler setelah DB siap
	var stopCron func() context.Context
	if cfg.OverdueReminderOn {
		c, err := scheduler.StartOverdueReminderCron(gen, cfg.OverdueReminderCron, log)
		if err != nil {
			log.WithError(err).Fatal("overdue reminder scheduler failed")
		}
		stopCron = c.Stop
	}

	routes.SetupRoutes(app, routes.Deps{
		DB:        database.DB,
		Log:       log,
		Config:    cfg,
		Generator: gen,
	})

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	go func() {
		log.WithField("port", cfg.Port).Info("listening")
		if err := app.Listen("0.0.0.0:" + cfg.Port); err != nil {
			log.WithError(err).Fatal("server error")
		}
	}()

	// graceful shutdown: http → cron → notifikasi in-flight → pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if stopCron != nil {
		<-stopCron().Done()
	}
	gen.Wait()
	database.Close()
}
