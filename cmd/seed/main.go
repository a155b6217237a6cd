package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/harentsoaR/care-tracker-api/internal/config"
	"github.com/harentsoaR/care-tracker-api/internal/logger"
	"github.com/harentsoaR/care-tracker-api/internal/seed"
	"github.com/harentsoaR/care-tracker-api/internal/store"
)

func main() {
	var (
		file     string
		logLevel string
	)
	flag.StringVar(&file, "file", "", "JSON seed file (import: source, default embedded data; export: destination, default stdout)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{Level: logLevel, Format: "console", Output: "stderr"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration", zap.Error(err))
	}
	if cfg.Seed.MongoURI == "" {
		log.Fatal("MONGO_URI is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	client, err := seed.Connect(ctx, cfg.Seed.MongoURI)
	if err != nil {
		log.Fatal("Failed to connect", zap.Error(err))
	}
	defer client.Disconnect(context.Background())
	db := client.Database(cfg.Seed.MongoDatabase)

	switch args[0] {
	case "import":
		s, err := readSeed(file)
		if err != nil {
			log.Fatal("Failed to read seed", zap.Error(err))
		}
		// Reject inconsistent data before it reaches the database.
		if _, err := store.New(s); err != nil {
			log.Fatal("Seed is inconsistent", zap.Error(err))
		}
		if err := seed.SaveMongo(ctx, db, s); err != nil {
			log.Fatal("Import failed", zap.Error(err))
		}
		log.Info("Seed imported", zap.String("database", cfg.Seed.MongoDatabase), zap.Int("users", len(s.Users)))
	case "export":
		s, err := seed.LoadMongo(ctx, db)
		if err != nil {
			log.Fatal("Export failed", zap.Error(err))
		}
		if err := writeSeed(file, s); err != nil {
			log.Fatal("Failed to write seed", zap.Error(err))
		}
		log.Info("Seed exported", zap.String("database", cfg.Seed.MongoDatabase))
	default:
		printUsage()
		os.Exit(1)
	}
}

func readSeed(path string) (store.Seed, error) {
	if path == "" {
		return seed.Default()
	}
	return seed.LoadFile(path)
}

func writeSeed(path string, s store.Seed) error {
	if path == "" {
		return seed.Encode(os.Stdout, s)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := seed.Encode(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: seed [flags] <command>

Commands:
  import   Replace the MongoDB collections with a JSON seed
  export   Write the MongoDB collections as a JSON seed

Flags:`)
	flag.PrintDefaults()
}
