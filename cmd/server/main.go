package main

import (
	"log"

	"github.com/joho/godotenv"

	"thermalcam/internal/app"
)

func main() {
	// Optional .env next to the binary; real deployments set the
	// environment directly.
	godotenv.Load()

	application, err := app.NewApp()
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer application.Shutdown()

	if err := application.Run(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
