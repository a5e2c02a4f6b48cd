package main

import (
	"context"
	"log"

	"medidoc-backend/internal/bootstrap"
	"medidoc-backend/internal/shared/config"
	"medidoc-backend/internal/shared/server"
)

func main() {
	cfg := config.Load()

	app, err := bootstrap.Build(context.Background(), cfg)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}
	defer app.Close()

	addr := server.Addr(cfg.Port)
	log.Printf("listening on %s", addr)
	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
