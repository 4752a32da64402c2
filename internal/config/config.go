package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ExternalModel describes one externally trained model whose forecast is
// delivered as a CSV artifact.
type ExternalModel struct {
	Name       string `yaml:"name"`
	Path       string `yaml:"path"`
	WindowSize int    `yaml:"window_size"`
}

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Symbol      string `yaml:"symbol"`
		HistoryDays int    `yaml:"history_days"`
		PriceCSV    string `yaml:"price_csv"` // offline mode: read prices from this file instead of Yahoo
	} `yaml:"data_source"`
	Benchmark struct {
		TrainFraction  float64       `yaml:"train_fraction"`
		ArtifactDir    string        `yaml:"artifact_dir"`
		AdapterTimeout time.Duration `yaml:"adapter_timeout"` // 0 means no timeout
	} `yaml:"benchmark"`
	Models struct {
		ARIMAX  bool `yaml:"arimax"`
		Prophet bool `yaml:"prophet"`
		VAR     bool `yaml:"var"`
		GARCH   bool `yaml:"garch"`
		XGBoost struct {
			Enabled   bool `yaml:"enabled"`
			LogVolume bool `yaml:"log_volume"`
		} `yaml:"xgboost"`
		External []ExternalModel `yaml:"external"`
	} `yaml:"models"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.Models.ARIMAX = true
	cfg.Models.Prophet = true
	cfg.Models.VAR = true
	cfg.Models.GARCH = true
	cfg.Models.XGBoost.Enabled = true

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("BENCH_SYMBOL"); v != "" {
		cfg.DataSource.Symbol = v
	}
	if v := os.Getenv("BENCH_ARTIFACT_DIR"); v != "" {
		cfg.Benchmark.ArtifactDir = v
	}
	if v := os.Getenv("BENCH_TRAIN_FRACTION"); v != "" {
		var frac float64
		if _, err := fmt.Sscanf(v, "%f", &frac); err == nil {
			cfg.Benchmark.TrainFraction = frac
		}
	}
	if v := os.Getenv("BENCH_CRON"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.DataSource.Symbol == "" {
		cfg.DataSource.Symbol = "BTC-USD"
	}
	if cfg.DataSource.HistoryDays == 0 {
		cfg.DataSource.HistoryDays = 1460
	}
	if cfg.Benchmark.TrainFraction == 0 {
		cfg.Benchmark.TrainFraction = 0.8
	}
	if cfg.Benchmark.ArtifactDir == "" {
		cfg.Benchmark.ArtifactDir = "data"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/forecast_bench.db"
	}
	if len(cfg.Models.External) == 0 {
		cfg.Models.External = []ExternalModel{
			{Name: "lstm", Path: cfg.Benchmark.ArtifactDir + "/forecasts/lstm.csv"},
			{Name: "hybrid", Path: cfg.Benchmark.ArtifactDir + "/forecasts/hybrid.csv"},
		}
	}

	return cfg, nil
}

// Validate checks that all required fields are consistent.
func (c *Config) Validate() error {
	if c.DataSource.Symbol == "" {
		return fmt.Errorf("data_source.symbol is required")
	}
	if c.Benchmark.TrainFraction <= 0 || c.Benchmark.TrainFraction >= 1 {
		return fmt.Errorf("benchmark.train_fraction must be in (0, 1), got %v", c.Benchmark.TrainFraction)
	}
	if c.Models.XGBoost.Enabled && !c.Models.GARCH {
		return fmt.Errorf("models.xgboost requires models.garch (volatility feature input)")
	}
	for i, ext := range c.Models.External {
		if ext.Name == "" || ext.Path == "" {
			return fmt.Errorf("models.external[%d]: name and path are required", i)
		}
		if ext.WindowSize < 0 {
			return fmt.Errorf("models.external[%d]: window_size must be >= 0", i)
		}
	}
	return nil
}
