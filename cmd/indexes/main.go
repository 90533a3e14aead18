// Command indexes creates any missing collection indexes and lists what each
// collection ends up with. Run it after restoring a backup into a fresh database.
package main

import (
	"context"
	"log"
	"strings"

	"survivor-league/config"
	"survivor-league/database"
	"survivor-league/logging"
)

type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

func main() {
	log.Println("=== Ensure MongoDB Indexes ===")

	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logging.Configure(cfg.ToLoggingConfig())

	db, err := database.NewMongoConnection(ctx, cfg.ToDatabaseConfig())
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.Close(ctx)

	sequences := database.NewSequences(db)
	repos := map[string]indexer{
		"contestants":   database.NewMongoContestantRepository(db),
		"players":       database.NewMongoPlayerRepository(db, sequences),
		"player_tribes": database.NewMongoTribeRepository(db),
		"pick_ems":      database.NewMongoPickEmRepository(db, sequences),
		"picks":         database.NewMongoPickRepository(db),
	}

	for collection, repo := range repos {
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Fatalf("Failed to ensure indexes on %s: %v", collection, err)
		}

		names, err := db.IndexNames(ctx, collection)
		if err != nil {
			log.Fatalf("%v", err)
		}
		log.Printf("  %-14s %s", collection, strings.Join(names, ", "))
	}

	log.Println("Index check complete!")
}
