package main

import (
	"context"
	"log"

	"usermanager/internal/bootstrap"
	"usermanager/internal/shared/config"
	"usermanager/internal/shared/server"
)

func main() {
	cfg := config.Load()
	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	app.Start(context.Background())

	addr := server.Addr(cfg.Port)
	log.Printf("Starting user manager on %s (directory %s)", addr, app.Directory.BaseURL())

	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
