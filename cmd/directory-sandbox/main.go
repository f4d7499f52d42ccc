package main

// Run an offline Remote Directory:
//   SANDBOX_STORE=sqlite go run ./cmd/directory-sandbox

import (
	"context"
	"log"

	"usermanager/internal/bootstrap"
	"usermanager/internal/shared/config"
	"usermanager/internal/shared/server"
)

func main() {
	cfg := config.Load()
	sb, err := bootstrap.BuildSandbox(context.Background(), cfg)
	if err != nil {
		log.Fatalf("sandbox error: %v", err)
	}
	defer sb.Close()

	addr := server.Addr(cfg.SandboxPort)
	log.Printf("Starting directory sandbox on %s (store %s)", addr, cfg.SandboxStore)

	if err := sb.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
