package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/appetiteclub/apt"

	"github.com/smileworld/ktvpos/cmd/posadmin/internal/commands"
)

const (
	appName    = "posadmin"
	appVersion = "0.1.0"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	config, err := apt.LoadConfig("POSADMIN", os.Args[2:])
	if err != nil {
		log.Fatalf("Cannot load config: %v", err)
	}

	logLevel, _ := config.GetString("log.level")
	if logLevel == "" {
		logLevel = "info"
	}
	logger := apt.NewLogger(logLevel)

	ctx := context.Background()
	command := os.Args[1]

	switch command {
	case "seed-demo":
		if err := commands.SeedDemo(ctx, config, logger); err != nil {
			log.Fatalf("Demo seeding failed: %v", err)
		}
		logger.Info("Demo seeding completed")

	case "clear-demo":
		if err := commands.ClearDemo(ctx, config, logger); err != nil {
			log.Fatalf("Clear demo data failed: %v", err)
		}
		logger.Info("Demo data cleared")

	case "restock":
		if err := commands.Restock(ctx, config, logger, os.Args[2:]); err != nil {
			log.Fatalf("Restock failed: %v", err)
		}

	case "version":
		fmt.Printf("%s version %s\n", appName, appVersion)

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`%s - KTV POS maintenance commands

Usage:
  %s <command> [options]

Commands:
  seed-demo    Apply demo seeding (sample categories, menu items and rooms)
  clear-demo   Remove all catalog and room data (local environments only)
  restock      Record a purchase: restock <item-id> <quantity> [note]
  version      Print version information
  help         Show this help message

Environment Variables:
  POSADMIN_DB_MONGO_URL    MongoDB connection URL (default: mongodb://localhost:27017)
  POSADMIN_DB_MONGO_NAME   Database name (default: ktvpos)
  POSADMIN_LOG_LEVEL       Log level: debug, info, warn, error (default: info)

Examples:
  %s seed-demo
  %s restock 4 24 "weekly delivery"
`, appName, appName, appName, appName)
}
