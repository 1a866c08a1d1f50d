package judge

import (
	"context"
	"fmt"
)

// Config selects and configures a judge provider.
type Config struct {
	Provider string `yaml:"provider"` // heuristic (default) or gemini
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
}

// New builds the configured judge. An empty provider means heuristic.
func New(ctx context.Context, cfg Config) (Judge, error) {
	switch cfg.Provider {
	case "", "heuristic":
		return NewHeuristic(), nil
	case "gemini":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("gemini judge requires an api key")
		}
		return NewGemini(ctx, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown judge provider %q", cfg.Provider)
	}
}
