// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config loads bibrun settings from a YAML file, BIBRUN_ environment
// variables, and built-in defaults, and configures the global logger.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/bibrun/internal/altmetric"
	"github.com/pdiddy/bibrun/internal/icite"
	"github.com/pdiddy/bibrun/internal/pubmed"
	"github.com/pdiddy/bibrun/pkg/types"
)

// EnvPrefix is prepended to every environment override, e.g.
// BIBRUN_ALTMETRIC_API_KEY.
const EnvPrefix = "BIBRUN"

// DefaultUserAgent identifies bibrun to the APIs.
const DefaultUserAgent = "bibrun/0.1"

// New returns a viper instance with defaults, environment binding, and the
// config search path. cfgFile, when set, replaces the search path.
func New(cfgFile string) *viper.Viper {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("bibrun")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "bibrun"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	// A zero timeout waits for the response or a transport failure.
	for _, section := range []string{"pubmed", "icite", "altmetric"} {
		v.SetDefault(section+".timeout", "0s")
		v.SetDefault(section+".user_agent", DefaultUserAgent)
	}
	v.SetDefault("pubmed.base_url", pubmed.DefaultBaseURL)
	v.SetDefault("pubmed.retmax", 1000)
	v.SetDefault("pubmed.api_key", "")
	v.SetDefault("pubmed.email", "")
	v.SetDefault("icite.base_url", icite.DefaultBaseURL)
	v.SetDefault("icite.batch_size", icite.MaxBatchSize)
	v.SetDefault("altmetric.base_url", altmetric.DefaultBaseURL)
	v.SetDefault("altmetric.api_key", "")
	v.SetDefault("altmetric.requests_per_second", 1.0)
	v.SetDefault("journals.table", "JournalHomeGrid.csv")
	v.SetDefault("journals.aliases_file", "")
	v.SetDefault("output.path", "NCAN Bibliometric Data.xlsx")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("interactive", true)
}

// Load reads the config file if one is found and decodes the merged
// settings. A missing file is not an error.
func Load(v *viper.Viper) (*types.Config, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	} else {
		zap.L().Debug("using config file", zap.String("path", v.ConfigFileUsed()))
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	return &cfg, nil
}

// InitLogger installs the global zap logger. Format "json" selects the
// production encoder; anything else logs for a terminal.
func InitLogger(cfg types.LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.DisableStacktrace = true
	}

	level := cfg.Level
	if level == "" {
		level = "info"
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(lvl)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)
	return nil
}
