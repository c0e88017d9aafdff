package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"travel-nav-service/internal/adapters/store"
	"travel-nav-service/internal/config"
	"travel-nav-service/internal/domain"
	"travel-nav-service/internal/platform/db"
)

// dbtool initializes the saved_destinations schema and optionally seeds a
// demo destination so a fresh install has something to navigate to.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.Open(ctx, cfg.Postgres.DSN(), cfg.Postgres.MaxConns)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	log.Println("Initializing database schema...")
	if err := store.InitSchema(ctx, pool); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	s := store.NewPostgresDestinationStore(pool)
	if _, ok, err := s.LoadLast(ctx, "default"); err != nil {
		log.Fatalf("check existing destination: %v", err)
	} else if !ok {
		log.Println("Seeding demo destination...")
		demo := domain.Location{
			Coordinate: domain.Coordinate{Lat: 48.8566, Lng: 2.3522},
			Label:      "Paris",
			Timestamp:  time.Now(),
			Source:     domain.SourcePatternMatch,
		}
		if err := s.SaveLast(ctx, "default", demo); err != nil {
			log.Fatalf("seeding failed: %v", err)
		}
		log.Println("Seeding complete.")
	}
}
