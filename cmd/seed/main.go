// Command seed migrates the database and loads the achievement catalog.
// The catalog is read-only configuration for the progression engine and is
// seeded out-of-band, so re-running against an up-to-date database is a
// no-op.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/questdeck/backend/internal/config"
	"github.com/questdeck/backend/internal/logger"
	"github.com/questdeck/backend/internal/store"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to config file")
	catalogPath := flag.String("catalog", "seed/achievements.yaml", "Path to achievement catalog")
	flag.Parse()

	// .env is optional; missing files are not an error.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if os.IsNotExist(err) {
		cfg = config.Default()
	} else if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logg, err := logger.New(cfg.Log.Mode)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logg.Sync()

	db, err := store.Open(cfg.Database)
	if err != nil {
		logg.Fatal("failed to open database", "driver", cfg.Database.Driver, "err", err)
	}
	if err := store.Migrate(db); err != nil {
		logg.Fatal("failed to migrate schema", "err", err)
	}

	catalog, err := store.LoadCatalog(*catalogPath)
	if err != nil {
		logg.Fatal("failed to load catalog", "path", *catalogPath, "err", err)
	}

	st := store.New(db, logg)
	if err := st.SeedCatalog(context.Background(), catalog); err != nil {
		logg.Fatal("failed to seed catalog", "err", err)
	}

	logg.Info("seed complete", "achievements", len(catalog.Achievements))
}
