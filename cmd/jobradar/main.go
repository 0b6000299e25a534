package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Optional .env for webhook URLs and other secrets referenced from
	// config.yaml via ${VAR} expansion.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
