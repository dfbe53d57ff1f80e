package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"wms-backend/internal/config"
	"wms-backend/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	app, err := web.New(cfg)
	if err != nil {
		log.Fatalf("Failed to build web front end: %v", err)
	}

	go func() {
		log.Printf("Front end talking to %s", cfg.APIBaseURL)
		if err := app.Listen(":" + cfg.WebPort); err != nil {
			log.Fatalf("Web server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down web server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
