// Package config loads application configuration from an optional
// config.yaml and TANSHIN_-prefixed environment variables, and owns the
// global logger setup.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kessan-lab/tanshin-cli/internal/store"
)

// Config holds the full application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	TDnet    TDnetConfig    `yaml:"tdnet" mapstructure:"tdnet"`
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
	Export   ExportConfig   `yaml:"export" mapstructure:"export"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string           `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string           `yaml:"database_url" mapstructure:"database_url"`
	Pool        store.PoolConfig `yaml:"pool" mapstructure:"pool"`
}

// TDnetConfig configures the disclosure list scraper and downloader.
type TDnetConfig struct {
	BaseURL    string  `yaml:"base_url" mapstructure:"base_url"`
	UserAgent  string  `yaml:"user_agent" mapstructure:"user_agent"`
	DataDir    string  `yaml:"data_dir" mapstructure:"data_dir"`
	MaxPages   int     `yaml:"max_pages" mapstructure:"max_pages"`
	RatePerSec float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// AnalysisConfig configures the comparison engine.
type AnalysisConfig struct {
	Threshold    float64 `yaml:"threshold" mapstructure:"threshold"`
	TaxonomyPath string  `yaml:"taxonomy_path" mapstructure:"taxonomy_path"`
	Workers      int     `yaml:"workers" mapstructure:"workers"`
}

// ExportConfig configures report output.
type ExportConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("TANSHIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "tanshin.db")
	v.SetDefault("tdnet.base_url", "https://www.release.tdnet.info")
	v.SetDefault("tdnet.user_agent", "Mozilla/5.0 (tanshin-cli)")
	v.SetDefault("tdnet.data_dir", "data/tdnet")
	v.SetDefault("tdnet.max_pages", 20)
	v.SetDefault("tdnet.rate_per_sec", 2.0)
	v.SetDefault("analysis.threshold", 0.2)
	v.SetDefault("analysis.taxonomy_path", "")
	v.SetDefault("analysis.workers", 4)
	v.SetDefault("export.dir", "data/export")
	v.SetDefault("server.port", 8085)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the configuration for the given command mode. Shared
// bounds apply to every mode, with mode-specific requirements on top.
func (c *Config) Validate(mode string) error {
	var problems []string

	if c.Analysis.Threshold < 0 {
		problems = append(problems, "analysis.threshold must be >= 0")
	}
	if c.Analysis.Workers < 1 || c.Analysis.Workers > 64 {
		problems = append(problems, "analysis.workers must be between 1 and 64")
	}
	if c.Store.Driver != "" && c.Store.Driver != "sqlite" && c.Store.Driver != "postgres" {
		problems = append(problems, "store.driver must be sqlite or postgres")
	}

	switch mode {
	case "fetch":
		if c.TDnet.BaseURL == "" {
			problems = append(problems, "tdnet.base_url is required")
		}
		if c.TDnet.DataDir == "" {
			problems = append(problems, "tdnet.data_dir is required")
		}
	case "serve":
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
	case "analyze", "batch", "export", "migrate":
		// Shared checks only.
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
