package main

import (
	"log"

	corecmd "goalbot/core/cmd"
	"goalbot/internal/app"
)

func main() {
	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig:        app.LoadConfig,
		Bootstrap:         app.Bootstrap,
	})
	if err != nil {
		log.Fatalf("goalbot: %v", err)
	}
}
