package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port           string   `yaml:"port"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`
	Notion struct {
		APIKey  string `yaml:"api_key"`
		BaseURL string `yaml:"base_url"`
		// Databases lists the quiz catalog as ID1:NAME1,ID2:NAME2,...
		Databases string `yaml:"databases"`
	} `yaml:"notion"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		TTL string `yaml:"ttl"`
	} `yaml:"quiz"`
	Session struct {
		TTL string `yaml:"ttl"`
	} `yaml:"session"`
}

// Load reads YAML config from path. The Notion credential and catalog
// may also come from NOTION_API_KEY and NOTION_DATABASES, which take
// precedence so the secret can stay out of the file.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if key := os.Getenv("NOTION_API_KEY"); key != "" {
		cfg.Notion.APIKey = key
	}
	if dbs := os.Getenv("NOTION_DATABASES"); dbs != "" {
		cfg.Notion.Databases = dbs
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if
// empty or invalid.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
