package main

import (
	"context"
	"log"

	"baknusai-be/internal/bootstrap"
	"baknusai-be/internal/config"
	"baknusai-be/internal/server"
	"baknusai-be/internal/tracer"
	"baknusai-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Databases
	appDB, err := database.NewAppDB(cfg.Database.AppDSN)
	if err != nil {
		log.Panicf("Unable to connect to app DB: %v", err)
	}
	pklDB, err := database.NewPKLDB(cfg.Database.PKLDSN)
	if err != nil {
		log.Panicf("Unable to connect to PKL DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(appDB, pklDB, cfg)

	// 4. Initialize Server
	srv := server.New(cfg, container)

	// 5. Run Server
	log.Fatal(srv.Run())
}
