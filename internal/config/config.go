// Package config handles loading and validating the application
// configuration from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	domain "github.com/donaldgifford/meli-pricer/pkg/types"
)

// Config is the top-level application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Pricing  PricingConfig  `yaml:"pricing"`
	Jobs     JobsConfig     `yaml:"jobs"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	// RunsPerMinute throttles full pricing-run triggers; runs walk the
	// whole catalog and are not free.
	RunsPerMinute float64 `yaml:"runs_per_minute"`
	RunsBurst     int     `yaml:"runs_burst"`
}

// DatabaseConfig defines PostgreSQL connection settings for the job-run
// audit store. Leaving Host empty selects the in-memory noop store; the
// pricing pipeline itself never touches the database.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	PoolSize int    `yaml:"pool_size"`
}

// Enabled reports whether a database was configured.
func (d *DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

// DSN returns a PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode,
	)
}

// PricingConfig defines run-option defaults and the shipping eligibility
// labels. Request options override the defaults per run; the label set is
// immutable for the process lifetime.
type PricingConfig struct {
	FinancingBase        string  `yaml:"financing_base"` // tarifa, tarifa_mas_ml
	IncludeTaxesInTariff bool    `yaml:"include_taxes_in_tariff"`
	WithholdingPct       float64 `yaml:"withholding_pct"` // decimal fraction
	// StockPercentage is a pointer so an explicit 0, a valid in-range
	// value, is distinguishable from an absent key.
	StockPercentage  *float64 `yaml:"stock_percentage"` // 0-100, nil defaults to 100
	SurchargeMode    string   `yaml:"surcharge_mode"`   // none, fixed, percentage
	SurchargeValue   float64  `yaml:"surcharge_value"`
	EligibleShipping []string `yaml:"eligible_shipping_labels"`
}

// Options resolves the configured defaults into run options.
func (p *PricingConfig) Options() domain.RunOptions {
	return domain.RunOptions{
		FinancingBase:        domain.FinancingBase(p.FinancingBase),
		IncludeTaxesInTariff: p.IncludeTaxesInTariff,
		SurchargeMode:        domain.SurchargeMode(p.SurchargeMode),
		SurchargeValue:       p.SurchargeValue,
		StockPercentage:      p.StockPercentage,
		WithholdingPct:       p.WithholdingPct,
	}
}

// JobsConfig defines the job-run audit retention schedule.
type JobsConfig struct {
	PruneInterval time.Duration `yaml:"prune_interval"`
	Retention     time.Duration `yaml:"retention"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment
// variable substitution and validation. An empty path yields the
// defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		// Expand environment variables in the YAML content.
		expanded := os.ExpandEnv(string(data))

		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parsing config YAML: %w", err)
		}
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyDatabaseDefaults(&cfg.Database)
	applyPricingDefaults(&cfg.Pricing)
	applyJobsDefaults(&cfg.Jobs)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 60 * time.Second
	}
	if s.RunsPerMinute == 0 {
		s.RunsPerMinute = 6
	}
	if s.RunsBurst == 0 {
		s.RunsBurst = 2
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.PoolSize == 0 {
		d.PoolSize = 10
	}
}

func applyPricingDefaults(p *PricingConfig) {
	if p.FinancingBase == "" {
		p.FinancingBase = string(domain.FinancingBaseTariff)
	}
	if p.StockPercentage == nil {
		p.StockPercentage = domain.Float(100)
	}
	if p.SurchargeMode == "" {
		p.SurchargeMode = string(domain.SurchargeNone)
	}
}

func applyJobsDefaults(j *JobsConfig) {
	if j.PruneInterval == 0 {
		j.PruneInterval = 24 * time.Hour
	}
	if j.Retention == 0 {
		j.Retention = 30 * 24 * time.Hour
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Database.Enabled() {
		if cfg.Database.Name == "" {
			errs = append(errs, fmt.Errorf("database.name is required when database.host is set"))
		}
		if cfg.Database.User == "" {
			errs = append(errs, fmt.Errorf("database.user is required when database.host is set"))
		}
	}

	switch domain.FinancingBase(cfg.Pricing.FinancingBase) {
	case domain.FinancingBaseTariff, domain.FinancingBaseTariffPlusML:
	default:
		errs = append(errs, fmt.Errorf(
			"pricing.financing_base must be one of: tarifa, tarifa_mas_ml (got %q)",
			cfg.Pricing.FinancingBase,
		))
	}

	switch domain.SurchargeMode(cfg.Pricing.SurchargeMode) {
	case domain.SurchargeNone, domain.SurchargeFixed, domain.SurchargePercentage:
	default:
		errs = append(errs, fmt.Errorf(
			"pricing.surcharge_mode must be one of: none, fixed, percentage (got %q)",
			cfg.Pricing.SurchargeMode,
		))
	}

	if pct := *cfg.Pricing.StockPercentage; pct < 0 || pct > 100 {
		errs = append(errs, fmt.Errorf(
			"pricing.stock_percentage must be 0-100 (got %v)", pct,
		))
	}

	if cfg.Pricing.WithholdingPct < 0 || cfg.Pricing.WithholdingPct >= 1 {
		errs = append(errs, fmt.Errorf(
			"pricing.withholding_pct must be a decimal fraction in [0, 1) (got %v)",
			cfg.Pricing.WithholdingPct,
		))
	}

	return errors.Join(errs...)
}
