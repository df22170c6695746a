// @title KidLearn Backend API
// @version 1.0
// @description Backend for the KidLearn children's learning platform.

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"log"

	"kidlearn_backend/internal/app"
	"kidlearn_backend/internal/config"
	"kidlearn_backend/pkg/configwatcher"
	"kidlearn_backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	// Validation thresholds are policy, tuned without redeploys.
	go configwatcher.WatchConfig("configs/config.yaml", application.ReloadConfig)

	application.Run()
}
