// Command ollama-client checks a local Ollama against the eligibility prompt
// without starting the server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/garnizeh/jobhunt/internal/config"
	"github.com/garnizeh/jobhunt/internal/eligibility"
	"github.com/garnizeh/jobhunt/pkg/ollama"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "Path to config YAML file")
	model := flag.String("model", "", "Model name; defaults to eligibility.model")
	title := flag.String("title", "Data Scientist", "Job title")
	level := flag.String("level", "Entry level", "Experience level")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *model == "" {
		*model = cfg.Eligibility.Model
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync() //nolint:errcheck
	ollama.SetLogger(logger)

	client, err := ollama.NewDefaultClient(cfg.Ollama)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	models, err := client.ListModels(ctx)
	if err != nil {
		log.Fatal(err)
	}
	for _, m := range models {
		fmt.Printf("%-30s %d\n", m.Name, m.Size)
	}

	// no fallback: a broken model must show up as an error here
	a := eligibility.NewOllamaAssessor(client, *model, nil, logger)
	d, err := a.Assess(ctx, eligibility.Request{JobTitle: *title, ExperienceLevel: *level, ResumeName: "resume.pdf"})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s / %s: %+v\n", *title, *level, d)
}
