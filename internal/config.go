package internal

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/tuannm99/stbdb/internal/storage"
	"github.com/tuannm99/stbdb/pkg/logger"
)

const envPrefix = "STBDB"

type StbDBConfig struct {
	AppName string `mapstructure:"app_name"`

	Storage struct {
		PageSize int `mapstructure:"page_size"`
		MaxPages int `mapstructure:"max_pages"`
	} `mapstructure:"storage"`

	Log logger.Config `mapstructure:"log"`

	REPL struct {
		Prompt  string `mapstructure:"prompt"`
		History string `mapstructure:"history"`
	} `mapstructure:"repl"`

	Metrics struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"metrics"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "stbdb")
	v.SetDefault("storage.page_size", storage.PageSize)
	v.SetDefault("storage.max_pages", storage.MaxPages)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stderr")
	v.SetDefault("repl.prompt", "db > ")
	v.SetDefault("repl.history", "")
	v.SetDefault("metrics.addr", "")
}

// LoadConfig reads defaults, then the YAML file at path (skipped when path is
// empty), then STBDB_* environment variables (STBDB_STORAGE_PAGE_SIZE, ...).
func LoadConfig(path string) (*StbDBConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg StbDBConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Storage.PageSize <= 0 || cfg.Storage.MaxPages <= 0 {
		return nil, fmt.Errorf("%w: page_size=%d max_pages=%d",
			storage.ErrInvalidPageSize, cfg.Storage.PageSize, cfg.Storage.MaxPages)
	}

	return &cfg, nil
}
