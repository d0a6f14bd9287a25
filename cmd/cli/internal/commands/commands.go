package commands

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/wadjakorntonsri/go-site-directory/pkg/adapters/repository/sqlstore"
	"github.com/wadjakorntonsri/go-site-directory/pkg/config"
	"github.com/wadjakorntonsri/go-site-directory/pkg/logger"
)

type Globals struct {
	Debug   bool
	Version string
}

func (g *Globals) logger() zerolog.Logger {
	return logger.Setup(g.Debug)
}

// openStore connects to DATABASE_URL from the environment or .env
func openStore(ctx context.Context) (*sqlstore.Store, error) {
	cfg := config.Load()
	return sqlstore.New(ctx, cfg.DatabaseURL)
}
