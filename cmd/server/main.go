package main

import (
	"cozytown_backend/internal/app"
	"flag"
	"log"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to map tuning config")
	flag.Parse()

	a := app.NewApp(*configPath)
	if err := a.Run(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
