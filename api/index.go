package handler

import (
	"context"
	"net/http"

	"github.com/wadjakorntonsri/go-site-directory/pkg/app"
	"github.com/wadjakorntonsri/go-site-directory/pkg/config"
	"github.com/wadjakorntonsri/go-site-directory/pkg/logger"
)

var mux http.Handler

func init() {
	cfg := config.Load()
	log := logger.Setup(false)

	// On Vercel a local SQLite file is ephemeral; use a libsql:// or postgres:// DATABASE_URL
	application, err := app.New(context.Background(), cfg, log)
	if err != nil {
		panic(err)
	}
	mux = application.Handler
}

// Handler is the entrypoint for Vercel
func Handler(w http.ResponseWriter, r *http.Request) {
	mux.ServeHTTP(w, r)
}
