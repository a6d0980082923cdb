package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Tier     TierConfig     `yaml:"tier" mapstructure:"tier"`
	Resolver ResolverConfig `yaml:"resolver" mapstructure:"resolver"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// TierConfig configures escalation tier classification.
type TierConfig struct {
	Scheme          string `yaml:"scheme" mapstructure:"scheme"`
	OCMDeadlineDays int    `yaml:"ocm_deadline_days" mapstructure:"ocm_deadline_days"`
}

// ResolverConfig configures contact resolution and CC policy.
type ResolverConfig struct {
	FuzzyThreshold float64           `yaml:"fuzzy_threshold" mapstructure:"fuzzy_threshold"`
	Parallelism    int               `yaml:"parallelism" mapstructure:"parallelism"`
	BaseCC         []string          `yaml:"base_cc" mapstructure:"base_cc"`
	RepEmails      map[string]string `yaml:"rep_emails" mapstructure:"rep_emails"`
	SourceTrust    map[string]string `yaml:"source_trust" mapstructure:"source_trust"`
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
	v.SetEnvPrefix("COLLECTIONS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("tier.scheme", "three_tier")
	v.SetDefault("tier.ocm_deadline_days", 52)
	v.SetDefault("resolver.fuzzy_threshold", 0.70)
	v.SetDefault("resolver.parallelism", 1)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

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
