package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"whiteboard-backend/internal/board"
	"whiteboard-backend/internal/cache"
	"whiteboard-backend/internal/config"
	"whiteboard-backend/internal/database"
	"whiteboard-backend/internal/server"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg := config.Load()

	var db *gorm.DB
	if database.Configured() {
		var err error
		db, err = database.ConnectDB()
		if err != nil {
			log.Fatal().Err(err).Msg("database connection failed")
		}
		defer database.Close()
		if err := database.Ping(); err != nil {
			log.Fatal().Err(err).Msg("database ping failed")
		}
		log.Info().Msg("database connected")
	} else {
		log.Warn().Msg("DB_HOST not set, running without persistence")
	}

	var cacheClient *cache.Client
	if cfg.Redis.Addr != "" {
		var err error
		cacheClient, err = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Board.SnapshotTTL, log)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, running without snapshot cache")
			cacheClient = nil
		} else {
			defer cacheClient.Close()
		}
	}

	manager := board.NewManager(board.ManagerConfig{
		Board: board.Config{
			MaxHistorySize:   cfg.History.MaxSize,
			MergeWindow:      cfg.History.MergeWindow,
			OverlapThreshold: cfg.Containment.OverlapThreshold,
		},
		IdleTimeout: cfg.Board.IdleTimeout,
	}, db, cacheClient, log)

	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	go manager.RunJanitor(janitorCtx, cfg.Board.JanitorInterval)

	srv := server.New(cfg, db, manager, log)
	srv.SetupMiddleware()
	srv.SetupRoutes()

	if err := srv.Start(); err != nil {
		log.Fatal().Err(err).Msg("server failed to start")
	}
}
