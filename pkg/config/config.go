// Package config assembles the run configuration from compiled-in
// defaults, an optional yaml file, environment variables and command-line
// flags, in that order of precedence.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/MVCVLLVN/reconciler/pkg/models"
)

const envPrefix = "RECONCILER"

// ClientConfig is the static per-client reconciliation policy.
type ClientConfig struct {
	ID               int64  `yaml:"id"`
	WindowColumn     string `yaml:"window_column"`
	ClockOffsetHours int    `yaml:"clock_offset_hours"`
}

// Config is everything a run needs besides the wall clock.
type Config struct {
	DatabaseURL  string            `yaml:"database_url"`
	OutputDir    string            `yaml:"output_dir"`
	Clients      []ClientConfig    `yaml:"clients"`
	FilePrefixes map[string]string `yaml:"file_prefixes"`
}

// Default returns the built-in configuration: the monitored client table
// and the prefix mapping for the epoch/CSV client group.
func Default() *Config {
	return &Config{
		OutputDir: "save",
		Clients: []ClientConfig{
			{ID: 1282, WindowColumn: models.ColumnAcceptedAt, ClockOffsetHours: 0},
			{ID: 1130, WindowColumn: models.ColumnAcceptedAt, ClockOffsetHours: 0},
			{ID: 606, WindowColumn: models.ColumnAcceptedAt, ClockOffsetHours: 0},
			{ID: 1359, WindowColumn: models.ColumnAcceptedAt, ClockOffsetHours: 0},
			{ID: 741, WindowColumn: models.ColumnAcceptedAt, ClockOffsetHours: 0},
			{ID: 1160, WindowColumn: models.ColumnAcceptedAt, ClockOffsetHours: 0},
			{ID: 1235, WindowColumn: models.ColumnAcceptedAt, ClockOffsetHours: 3},
			{ID: 1352, WindowColumn: models.ColumnAcceptedAt, ClockOffsetHours: 3},
		},
		FilePrefixes: map[string]string{
			"P2PW": "Report_Transactions",
			"WW":   "Report_Transactions_UZS",
			"LR":   "Report_Transactions_LR",
			"P2P":  "Report_Transactions_NEW",
		},
	}
}

// Load builds the effective configuration. path may be empty; flags may be
// nil. Flags win over environment, environment over file, file over
// defaults.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	if dsn := v.GetString("database_url"); dsn != "" {
		cfg.DatabaseURL = dsn
	}
	if dir := v.GetString("output_dir"); dir != "" {
		cfg.OutputDir = dir
	}

	if flags != nil {
		if f := flags.Lookup("dsn"); f != nil && f.Changed {
			cfg.DatabaseURL = f.Value.String()
		}
		if f := flags.Lookup("output"); f != nil && f.Changed {
			cfg.OutputDir = f.Value.String()
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if len(c.Clients) == 0 {
		return fmt.Errorf("no clients configured")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory is empty")
	}
	for _, cl := range c.Clients {
		if cl.ID <= 0 {
			return fmt.Errorf("invalid client id %d", cl.ID)
		}
		if cl.WindowColumn != models.ColumnCreatedAt && cl.WindowColumn != models.ColumnAcceptedAt {
			return fmt.Errorf("client %d: unknown window column %q", cl.ID, cl.WindowColumn)
		}
		if cl.ClockOffsetHours < 0 || cl.ClockOffsetHours > 23 {
			return fmt.Errorf("client %d: clock offset %d out of range", cl.ID, cl.ClockOffsetHours)
		}
	}
	return nil
}
