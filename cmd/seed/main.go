package main

import (
	"context"
	"flag"
	"log"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/seed"
	"github.com/pageza/foodgram/backend/internal/service"
)

func main() {
	path := flag.String("fixtures", "fixtures/reference.toml", "TOML file with tags, ingredients and users")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	fx, err := seed.LoadFixtures(*path)
	if err != nil {
		log.Fatalf("Failed to load fixtures: %v", err)
	}

	seeder := seed.NewSeeder(db, service.NewCatalogService(db), service.NewAuthService(db, cfg.JWTSecret))
	if _, err := seeder.Apply(context.Background(), fx); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Println("Seeding complete")
}
