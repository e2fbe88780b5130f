package main

import (
	"log"
	"os"

	"vestingledger/internal/handlers"
	"vestingledger/internal/routes"
	"vestingledger/pkg/config"
	"vestingledger/pkg/solana"
)

func main() {
	// Initialize database
	config.InitDB()

	// Apply SQL migrations when requested (AutoMigrate covers dev setups)
	if os.Getenv("RUN_MIGRATIONS") == "true" {
		config.ExecuteMigrations()
	}

	// Initialize RabbitMQ (optional, will log warning if not configured)
	if os.Getenv("RABBITMQ_HOST") != "" {
		config.InitRabbitMQ()
		defer func() {
			if config.RabbitMQ != nil {
				config.RabbitMQ.Close()
			}
		}()

		publisher, err := config.NewPublisher()
		if err != nil {
			log.Fatal("Create publisher failed:", err)
		}
		defer publisher.Close()
		handlers.SetPublisher(publisher)
		log.Println("RabbitMQ initialized successfully")
	} else {
		log.Println("RabbitMQ not configured, resolution events will only be logged")
	}

	// Wire the treasury transfer client. Without it the ledger is readable
	// and configurable but claims and withdrawals are refused.
	transferor, err := solana.NewTreasuryClientFromEnv()
	if err != nil {
		log.Println("Treasury client not available, transfers disabled:", err)
	} else {
		handlers.SetTransferor(transferor)
		log.Println("Treasury client initialized:", transferor.TreasuryAddress().String())
	}

	// Set up router
	r := routes.SetupRouter()

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
