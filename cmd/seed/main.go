package main

import (
	"context"
	"flag"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/juhakip/nettileffa/internal/config"
	"github.com/juhakip/nettileffa/internal/logging"
	"github.com/juhakip/nettileffa/internal/repository"
	"github.com/juhakip/nettileffa/internal/seed"
	"github.com/juhakip/nettileffa/internal/store"
)

func main() {
	file := flag.String("file", "movies-compact.json", "path to the JSON seed file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		logrus.WithError(err).Debug("no .env file loaded")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("config error")
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	storeOpts := store.Options{
		MaxConns:               int32(cfg.DBMaxConns),
		MinConns:               int32(cfg.DBMinConns),
		MaxConnIdleTime:        time.Duration(cfg.DBMaxIdleSecs) * time.Second,
		MaxConnLifetime:        time.Duration(cfg.DBMaxLifeSecs) * time.Second,
		ConnTimeout:            time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
		StatementCacheCapacity: cfg.DBStatementCache,
		Logger:                 logger,
	}

	st, err := store.New(ctx, cfg.DBURL, storeOpts)
	if err != nil {
		logger.WithError(err).Fatal("connect database")
	}
	defer st.Close()

	if err := st.MigrateDir(ctx, cfg.MigrationsDir); err != nil {
		logger.WithError(err).Fatal("apply migrations")
	}

	loader := seed.NewLoader(repository.New(st), logger)
	loaded, err := loader.LoadFile(ctx, *file)
	if err != nil {
		logger.WithError(err).WithField("loaded", loaded).Fatal("seed import failed")
	}
}
