package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/politicard/politicard/internal/catalog"
	"github.com/politicard/politicard/internal/game"
	"github.com/politicard/politicard/internal/store"
	"github.com/politicard/politicard/internal/web"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := web.LoadConfig(*configPath)
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	cat, err := catalog.Load(cfg.DataDir, log)
	if err != nil {
		log.WithError(err).Fatal("load catalog")
	}

	var st game.GameStore
	if cfg.Redis.Addr != "" {
		rs, err := store.NewRedisStore(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL)
		if err != nil {
			log.WithError(err).Fatal("connect redis")
		}
		defer rs.Close()
		st = rs
		log.WithField("addr", cfg.Redis.Addr).Info("using redis store")
	} else {
		st = store.NewMemoryStore()
		log.Info("using in-memory store")
	}

	orch := game.NewOrchestrator(game.NewEngine(cat), st, log)
	srv := web.NewServer(orch, log)
	if err := srv.ListenAndServe(cfg.Addr); err != nil {
		log.WithError(err).Error("server stopped")
		os.Exit(1)
	}
}
