package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/jwebster45206/tilequest/pkg/world"
)

type ClientConfig struct {
	APIBaseURL string
	AccessKey  string
	WorldFile  string
	Timeout    time.Duration
}

func main() {
	_ = godotenv.Load() // .env is optional

	cfg := &ClientConfig{
		APIBaseURL: getEnv("API_BASE_URL", "http://localhost:8080"),
		AccessKey:  os.Getenv("ACCESS_KEY"),
		WorldFile:  getEnv("WORLD_FILE", "data/world.yaml"),
		Timeout:    35 * time.Second,
	}

	if cfg.AccessKey == "" {
		fmt.Fprintf(os.Stderr, "ACCESS_KEY is required\n")
		os.Exit(1)
	}

	w, err := world.Load(cfg.WorldFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load world: %v\n", err)
		os.Exit(1)
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
	}

	if !testConnection(client, cfg.APIBaseURL) {
		fmt.Fprintf(os.Stderr, "Could not connect to API at %s. Please ensure the API is running.\nTry: docker-compose up -d\n", cfg.APIBaseURL)
		os.Exit(1)
	}

	p := tea.NewProgram(NewGameUI(cfg, client, w), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
