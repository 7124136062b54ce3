package config

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"lifestory/internal/bootstrap/logging"
	"lifestory/internal/errs"
)

type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Server        ServerConfig        `mapstructure:"server"`
	LLM           LLMConfig           `mapstructure:"llm"`
	Transcription TranscriptionConfig `mapstructure:"transcription"`
	PDF           PDFConfig           `mapstructure:"pdf"`
	Catalog       CatalogConfig       `mapstructure:"catalog"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// LLMConfig configures the text-generation service used for chapter
// writing and risk checks.
type LLMConfig struct {
	APIKey             string        `mapstructure:"api_key"`
	BaseURL            string        `mapstructure:"base_url"`
	Model              string        `mapstructure:"model"`
	WritingMaxTokens   int64         `mapstructure:"writing_max_tokens"`
	RiskCheckMaxTokens int64         `mapstructure:"risk_check_max_tokens"`
	RiskCheckCacheTTL  time.Duration `mapstructure:"risk_check_cache_ttl"`
	Timeout            time.Duration `mapstructure:"timeout"`
}

type TranscriptionConfig struct {
	APIKey   string        `mapstructure:"api_key"`
	BaseURL  string        `mapstructure:"base_url"`
	Model    string        `mapstructure:"model"`
	Language string        `mapstructure:"language"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// PDFConfig controls rendering. FontPath must point at a TrueType font with
// Japanese glyphs for readable output; without it a core font is used.
// OutputDir, when set, keeps a copy of every delivered PDF.
type PDFConfig struct {
	FontPath  string `mapstructure:"font_path"`
	OutputDir string `mapstructure:"output_dir"`
}

// CatalogConfig points at an optional YAML file replacing the embedded
// session and chapter catalog.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

func Load(ctx context.Context, configFile string) (Config, error) {
	if ctx == nil {
		return Config{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Config{}, errs.Wrap(err, "check context")
	}

	logCtx := logging.WithComponent(ctx, "bootstrap.config")

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("LS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := configFile != ""
	if explicit {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !explicit && errors.As(err, &notFound) {
			// Keep default and env-backed config when no file is provided.
			logging.Warn(logCtx, "config file not found, fallback to defaults and env")
		} else {
			return Config{}, errs.Wrap(err, "read config")
		}
	} else {
		logging.Info(logCtx, "using config file", slog.String("path", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errs.Wrap(err, "unmarshal config")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	logging.Info(
		logCtx,
		"config loaded",
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
		slog.String("database_driver", cfg.Database.Driver),
		slog.String("llm_model", cfg.LLM.Model),
		slog.Bool("llm_configured", cfg.LLM.APIKey != ""),
	)

	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.DSN) == "" {
		return errors.New("database.dsn is required")
	}
	if c.LLM.Timeout < 0 || c.Transcription.Timeout < 0 || c.LLM.RiskCheckCacheTTL < 0 {
		return errors.New("timeouts must not be negative")
	}
	if c.LLM.WritingMaxTokens <= 0 || c.LLM.RiskCheckMaxTokens <= 0 {
		return errors.New("llm max tokens must be positive")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "lifestory")
	v.SetDefault("app.env", "local")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "data/lifestory.sqlite")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "5m")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.model", "claude-sonnet-4-20250514")
	v.SetDefault("llm.writing_max_tokens", 4096)
	v.SetDefault("llm.risk_check_max_tokens", 8192)
	v.SetDefault("llm.risk_check_cache_ttl", "168h")
	v.SetDefault("llm.timeout", "3m")
	v.SetDefault("transcription.api_key", "")
	v.SetDefault("transcription.base_url", "")
	v.SetDefault("transcription.model", "whisper-1")
	v.SetDefault("transcription.language", "ja")
	v.SetDefault("transcription.timeout", "5m")
	v.SetDefault("pdf.font_path", "")
	v.SetDefault("pdf.output_dir", "")
	v.SetDefault("catalog.path", "")
}
