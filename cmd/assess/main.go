// assess runs a single IoT device risk assessment against the configured
// agent graph and prints the synthesized outcome.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/iotrisk/orchestrator"
	"github.com/iotrisk/orchestrator/internal/config"
)

const defaultInput = `Smart thermostat device, Wi-Fi connected, deployed in residential ` +
	`settings. Firmware has not been updated since initial release. Device exposes a ` +
	`local HTTP management interface with a default, unchangeable administrator password.`

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func main() {
	configPath := flag.String("config", getEnv("CONFIG_PATH", "./config.yaml"), "Path to configuration YAML file")
	input := flag.String("input", defaultInput, "IoT device risk scenario to assess")
	envPath := flag.String("env-file", getEnv("ENV_FILE", ".env"), "Path to .env file")
	flag.Parse()

	if err := godotenv.Load(*envPath); err != nil {
		log.Printf("warning: could not load %s: %v", *envPath, err)
		log.Printf("continuing with existing environment variables")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("warning: could not load %s, using defaults: %v", *configPath, err)
		cfg = config.Default()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	slog.Info("Starting IoT risk assessment", "max_revisions", cfg.MaxRevisions)

	outcome, err := iotrisk.RunAssessment(ctx, cfg, *input, iotrisk.Options{SaveArtifact: true})
	if err != nil {
		log.Fatalf("assessment failed: %v", err)
	}

	slog.Info("Assessment complete",
		"status", outcome.State.Status,
		"revision_count", outcome.State.RevisionCount,
		"diversity_score", outcome.Heterogeneity.DiversityScore,
		"artifact", outcome.RunResultPath,
	)

	data, err := json.MarshalIndent(outcome.State.SynthesizedDraft, "", "  ")
	if err != nil {
		log.Fatalf("marshal synthesized draft: %v", err)
	}
	fmt.Println(string(data))
}
