package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "ontoqa.yaml"

type Config struct {
	Data struct {
		Sources  []string `yaml:"sources"`  // paths or doublestar globs
		Database string   `yaml:"database"` // SQLite snapshot written by `ontoqa import`
	} `yaml:"data"`
	Inference struct {
		Mode      string `yaml:"mode"` // single_pass | fixed_point
		MaxRounds int    `yaml:"max_rounds"`
	} `yaml:"inference"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // text | json
	} `yaml:"log"`
}

func DefaultConfig() *Config {
	var cfg Config
	cfg.Data.Sources = []string{"data/ontology.csv"}
	cfg.Inference.Mode = "single_pass"
	cfg.Log.Level = "warn"
	cfg.Log.Format = "text"
	return &cfg
}

func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := DefaultConfig()

	// 2. Load YAML config over the defaults
	file, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, err
		}
	}

	// 3. Override with Environment Variables if present
	if sources := os.Getenv("ONTOQA_SOURCES"); sources != "" {
		cfg.Data.Sources = splitList(sources)
	}
	if db := os.Getenv("ONTOQA_DB"); db != "" {
		cfg.Data.Database = db
	}
	if mode := os.Getenv("ONTOQA_INFERENCE_MODE"); mode != "" {
		cfg.Inference.Mode = mode
	}
	if level := os.Getenv("ONTOQA_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if format := os.Getenv("ONTOQA_LOG_FORMAT"); format != "" {
		cfg.Log.Format = format
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
