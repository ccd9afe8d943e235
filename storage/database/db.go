// Package database picks the campus store backend from the configuration.
package database

import (
	"context"
	"fmt"

	"github.com/KAILASATEJANI/nam/core"
	"github.com/KAILASATEJANI/nam/core/campus"
	"github.com/KAILASATEJANI/nam/storage/database/inmem"
	"github.com/KAILASATEJANI/nam/storage/database/mongodb"
	"github.com/KAILASATEJANI/nam/storage/database/postgres"
)

// Open returns the first available store out of MongoDB (MONGO_URL), PostgreSQL (DATABASE_URL)
// and memory. A configured backend that cannot be reached is logged and skipped.
func Open(ctx context.Context, conf *core.Config, logger core.Logger) campus.Store {
	if conf.Mongo.URL != "" {
		db, err := mongodb.Open(ctx, conf)
		if err == nil {
			logger.Info(fmt.Sprintf("store: mongo (database %q)", conf.Mongo.Database))
			return db
		}
		logger.Warn(fmt.Sprintf("mongo unavailable, falling back: %v", err), err)
	}

	if conf.Postgres.URL != "" {
		db, err := pgdb.Open(ctx, conf)
		if err == nil {
			logger.Info("store: postgres")
			return db
		}
		logger.Warn(fmt.Sprintf("postgres unavailable, falling back: %v", err), err)
	}

	logger.Info("store: memory (data is lost on restart)")
	return inmemdb.Open()
}
