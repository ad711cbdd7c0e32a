package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/yungbote/recipebook-backend/internal/app"
	"github.com/yungbote/recipebook-backend/internal/seed"
)

func main() {
	file := flag.String("file", "", "YAML fixture to load (defaults to the bundled sample catalog)")
	purge := flag.Bool("purge", false, "remove every existing record before seeding")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall seeding timeout")
	flag.Parse()

	a, err := app.New()
	if err != nil {
		fmt.Printf("Failed to init app: %v\n", err)
		os.Exit(1)
	}
	if err := run(a, *file, *purge, *timeout); err != nil {
		a.Log.Error("Seeding failed", "error", err)
		a.Close()
		os.Exit(1)
	}
	a.Close()
}

func run(a *app.App, file string, purge bool, timeout time.Duration) error {
	if a.Cfg.StorageDriver == app.StorageMemory {
		a.Log.Warn("STORAGE_DRIVER is memory, seeded records are discarded on exit")
	}

	fixture, err := loadFixture(file)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s := seed.NewSeeder(a.Log, seed.Services{
		Recipes:     a.Services.Recipes,
		Ingredients: a.Services.Ingredients,
		Nutritions:  a.Services.Nutritions,
	})
	_, err = s.Apply(ctx, fixture, purge)
	return err
}

func loadFixture(file string) (seed.Fixture, error) {
	if file == "" {
		return seed.Default()
	}
	f, err := os.Open(file)
	if err != nil {
		return seed.Fixture{}, fmt.Errorf("open fixture: %w", err)
	}
	defer f.Close()
	return seed.Decode(f)
}
