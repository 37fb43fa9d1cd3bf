package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/garnizeh/jobhunt/internal/config"
	"github.com/garnizeh/jobhunt/internal/store"
)

func main() {
	configPath := flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	st, err := store.Open(ctx, cfg.Store, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Store open error: %v\n", err)
		os.Exit(1)
	}
	defer st.Close(ctx)

	// sqlite: migrations, mongo: unique indexes
	if err := st.Init(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Init error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Store (%s) initialized successfully.\n", st.Driver())
}
