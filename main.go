package main

import (
	"flag"
	"log"

	"lmshub/internal/config"
	"lmshub/internal/provider"
	"lmshub/internal/router"
	"lmshub/internal/server"

	"github.com/joho/godotenv"
)

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	configs, err := config.LoadProviders()
	if err != nil {
		log.Fatalf("❌ %v\n", err)
	}

	lms, err := provider.NewLMS(configs)
	if err != nil {
		log.Fatalf("❌ Error building LMS providers: %v\n", err)
	}
	log.Printf("✅ Configured LMS providers: %v\n", lms.GetProviderNames())

	router.LMS = lms
	server.Start()
}
