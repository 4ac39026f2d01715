package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skilldesk/marketplace/configs"
	"github.com/skilldesk/marketplace/internal/handlers"
	"github.com/skilldesk/marketplace/internal/logger"
	"github.com/skilldesk/marketplace/internal/reporting"
	"github.com/skilldesk/marketplace/internal/routes"
	"github.com/skilldesk/marketplace/internal/seed"
	"github.com/skilldesk/marketplace/internal/settlement"
	"github.com/skilldesk/marketplace/internal/store"
	"go.uber.org/zap"
)

func main() {
	logger.Init()
	defer logger.Log.Sync()

	configs.LoadConfig()

	db, err := store.Open(configs.AppConfig.DB.DSN)
	if err != nil {
		logger.Log.Fatal("failed to connect to database", zap.Error(err))
	}
	logger.Log.Info("connected to the database")

	if err := store.Migrate(db); err != nil {
		logger.Log.Fatal("migrations failed", zap.Error(err))
	}
	logger.Log.Info("migrations loaded")

	seed.Run(db)

	st := store.New(db)
	engine := settlement.New(db, configs.AppConfig.Deposit.MaxRatio)
	reports := reporting.New(db)
	h := handlers.New(st, engine, reports)

	router := routes.NewRoutes(h)

	srv := &http.Server{
		Addr:         ":8080",
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("server error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	logger.Log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("graceful shutdown failed", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Log.Error("db close skipped, reason:", zap.Error(err))
	} else {
		sqlDB.Close()
		logger.Log.Info("db closed")
	}

	logger.Log.Info("server stopped")
}
