package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/calarcon/aulabot/internal/pkg/logutil"
)

type Config struct {
	Port            int                `json:"port"`
	DBPath          string             `json:"db_path"`
	MigrationsDir   string             `json:"migrations_dir"`
	AdminAPIKey     string             `json:"admin_api_key"`
	DefaultLanguage string             `json:"default_language"`
	ChatWindowSecs  int                `json:"chat_window_secs"`
	CORSAllowlist   []string           `json:"cors_allowlist"`
	LogConfig       logutil.LogConfig  `json:"log_config"`
	FileStore       FileStoreConfig    `json:"file_store"`
	AI              AIConfig           `json:"ai"`
}

type FileStoreConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type AIConfig struct {
	Provider      string      `json:"provider"`
	Model         string      `json:"model"`
	EmbedModel    string      `json:"embed_model"`
	Timeout       int         `json:"timeout"`
	MaxInputChars int         `json:"max_input_chars"`
	Data          interface{} `json:"data"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("db_path is required")
	}
	if cfg.MigrationsDir == "" {
		cfg.MigrationsDir = "migrations"
	}
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = "es"
	}
	if cfg.ChatWindowSecs < 0 {
		cfg.ChatWindowSecs = 0
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.FileStore.Type == "" {
		return nil, fmt.Errorf("file_store.type is required")
	}
	if cfg.AI.Provider == "" {
		return nil, fmt.Errorf("ai.provider is required")
	}
	if cfg.AI.Model == "" {
		return nil, fmt.Errorf("ai.model is required")
	}
	if cfg.AI.EmbedModel == "" {
		return nil, fmt.Errorf("ai.embed_model is required")
	}
	if cfg.AI.Timeout == 0 {
		cfg.AI.Timeout = 60
	}
	return &cfg, nil
}
