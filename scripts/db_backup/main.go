package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/garnizeh/jobhunt/internal/apperr"
	"github.com/garnizeh/jobhunt/internal/config"
	"github.com/garnizeh/jobhunt/internal/query"
	"github.com/garnizeh/jobhunt/internal/store"
	"github.com/garnizeh/jobhunt/pkg/models"
)

const batchSize = 500

// Dumps every job as a JSON array. The file can be loaded back with
// scripts/import_jobs, which works for both store drivers.
func main() {
	configPath := flag.String("config", "", "Path to config YAML file")
	out := flag.String("out", "jobs-backup.json", "Output file")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	st, err := store.Open(ctx, cfg.Store, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Backup error: %v\n", err)
		os.Exit(1)
	}
	defer st.Close(ctx)

	jobs := []models.Job{}
	for p := (query.Page{Limit: batchSize}); ; p.Offset += batchSize {
		batch, err := st.Jobs.ListJobs(ctx, query.Filter{}, p)
		if errors.Is(err, apperr.ErrNotFound) {
			break
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Backup error: %v\n", err)
			os.Exit(1)
		}
		jobs = append(jobs, batch...)
		if len(batch) < batchSize {
			break
		}
	}

	dstFile, err := os.Create(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Backup error: %v\n", err)
		os.Exit(1)
	}
	defer dstFile.Close()

	enc := json.NewEncoder(dstFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jobs); err != nil {
		fmt.Fprintf(os.Stderr, "Backup error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Backed up %d jobs from the %s store to %s.\n", len(jobs), st.Driver(), *out)
}
