package main

import (
	"context"
	"log"
	"os"

	"servicofacil/internal/config"
	"servicofacil/internal/seed"
	"servicofacil/internal/store"
)

func main() {
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	cfg, err := config.Load("")
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	st, err := store.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("open store: %v", err)
	}
	defer st.Close()

	if err := st.Migrate(ctx); err != nil {
		logger.Fatalf("apply migrations: %v", err)
	}

	n, err := seed.Apply(ctx, st.Clients, st.Items)
	if err != nil {
		logger.Fatalf("seed apply: %v", err)
	}

	logger.Printf("seed applied, %d records inserted", n)
}
