package main

import (
	"context"
	"flag"
	"time"

	"github.com/xlab/closer"
	"go.uber.org/zap"

	"blockworld/internal/config"
	"blockworld/internal/netgame"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to YAML config")
		seed       = flag.Int64("seed", 0, "world seed (overrides config when non-zero)")
	)
	flag.Parse()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("loading config", zap.Error(err))
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	srv := netgame.NewServer(cfg.Network.Addr(), cfg.Seed, log)

	closer.Bind(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Warn("shutdown", zap.Error(err))
		}
	})

	go func() {
		if err := srv.Start(); err != nil {
			log.Error("server stopped", zap.Error(err))
			closer.Close()
		}
	}()

	log.Info("world server up", zap.Int64("seed", cfg.Seed), zap.String("addr", cfg.Network.Addr()))
	closer.Hold()
}
