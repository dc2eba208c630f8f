package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"MusicStore/config"
	"MusicStore/jwt"
	"MusicStore/logger"
	"MusicStore/routers"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the yaml config")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("load config", "path", *configPath, "error", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Service:   "musicstore",
		Env:       cfg.Env,
		Level:     cfg.Log.Level,
		AddSource: cfg.Log.AddSource,
	})

	db, err := config.SetupMySQLConnection(cfg)
	if err != nil {
		log.Error("connect mysql", "error", err)
		os.Exit(1)
	}
	dbInstance, err := db.DB()
	if err != nil {
		log.Error("mysql handle", "error", err)
		os.Exit(1)
	}
	defer dbInstance.Close()

	rdb, err := config.SetupRedisConnection(cfg)
	if err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}
	defer rdb.Close()

	signer, err := jwt.NewSigner(cfg.JWT.PrivateKeyPath, cfg.JWT.PublicKeyPath)
	if err != nil {
		log.Error("load jwt keys", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           routers.SetupRouters(cfg, db, rdb, signer, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown", "error", err)
	}
}
