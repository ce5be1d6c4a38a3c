package main

import (
	"context"
	"log"

	"ai-imagegen-be/internal/bootstrap"
	"ai-imagegen-be/internal/config"
	"ai-imagegen-be/internal/server"
	"ai-imagegen-be/internal/tracer"
	"ai-imagegen-be/pkg/database"
)

func main() {
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)

	srv := server.New(cfg, container)

	log.Fatal(srv.Run())
}
