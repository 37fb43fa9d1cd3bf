package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/garnizeh/jobhunt/internal/cache"
	"github.com/garnizeh/jobhunt/internal/config"
	"github.com/garnizeh/jobhunt/internal/ingest"
	"github.com/garnizeh/jobhunt/internal/normalize"
	"github.com/garnizeh/jobhunt/internal/store"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "Path to config YAML file")
	file := flag.String("file", "", "Spreadsheet to import (.xlsx, .csv or .json); defaults to ingest.source")
	verbose := flag.Bool("v", false, "Log every rejected row")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	path := *file
	if path == "" {
		path = cfg.Ingest.Source
	}
	if path == "" {
		fmt.Fprintln(os.Stderr, "No input: pass -file or set ingest.source")
		os.Exit(2)
	}

	logger := zap.NewNop()
	if *verbose {
		logger, _ = zap.NewDevelopment()
	}

	st, err := store.Open(ctx, cfg.Store, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Store open error: %v\n", err)
		os.Exit(1)
	}
	defer st.Close(ctx)
	if err := st.Init(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Init error: %v\n", err)
		os.Exit(1)
	}

	var rdb redis.UniversalClient
	if cfg.Cache.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.Cache.RedisURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cached stats not invalidated: %v\n", err)
		} else {
			rdb = client
			defer client.Close()
		}
	}

	norm, err := normalize.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Normalizer error: %v\n", err)
		os.Exit(1)
	}
	importer := ingest.NewImporter(norm, st.Jobs, cache.NewStatsCache(st.Stats, rdb, cfg.Cache.TTL, logger), logger)

	res, err := importer.Run(ctx, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Import error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Imported %d of %d rows from %s in %s (%d rejected).\n",
		res.Imported, res.Rows, path, res.Took, len(res.Rejected))
}
