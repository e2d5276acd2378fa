package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/donaldgifford/meli-pricer/pkg/types"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		envVars   map[string]string
		wantErr   string
		checkFunc func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid minimal config",
			yaml: `
database:
  host: localhost
  name: pricer
  user: pricer
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "localhost", cfg.Database.Host)
				assert.Equal(t, "pricer", cfg.Database.Name)
				assert.True(t, cfg.Database.Enabled())
			},
		},
		{
			name: "defaults applied for optional fields",
			yaml: `
logging:
  level: debug
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 60*time.Second, cfg.Server.WriteTimeout)
				assert.InDelta(t, 6.0, cfg.Server.RunsPerMinute, 1e-9)
				assert.Equal(t, 2, cfg.Server.RunsBurst)
				assert.Equal(t, 5432, cfg.Database.Port)
				assert.False(t, cfg.Database.Enabled())
				assert.Equal(t, "tarifa", cfg.Pricing.FinancingBase)
				assert.Equal(t, "none", cfg.Pricing.SurchargeMode)
				require.NotNil(t, cfg.Pricing.StockPercentage)
				assert.InDelta(t, 100.0, *cfg.Pricing.StockPercentage, 1e-9)
				assert.Equal(t, 24*time.Hour, cfg.Jobs.PruneInterval)
				assert.Equal(t, 30*24*time.Hour, cfg.Jobs.Retention)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "text", cfg.Logging.Format)
			},
		},
		{
			name: "env var substitution",
			yaml: `
database:
  host: localhost
  name: pricer
  user: pricer
  password: ${TEST_DB_PASSWORD}
`,
			envVars: map[string]string{"TEST_DB_PASSWORD": "secreto"},
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "secreto", cfg.Database.Password)
			},
		},
		{
			name: "explicit zero stock percentage kept",
			yaml: `
pricing:
  stock_percentage: 0
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				require.NotNil(t, cfg.Pricing.StockPercentage)
				assert.InDelta(t, 0.0, *cfg.Pricing.StockPercentage, 1e-9)
			},
		},
		{
			name: "database host without name",
			yaml: `
database:
  host: localhost
`,
			wantErr: "database.name is required",
		},
		{
			name: "invalid financing base",
			yaml: `
pricing:
  financing_base: tarifa_doble
`,
			wantErr: "pricing.financing_base",
		},
		{
			name: "invalid surcharge mode",
			yaml: `
pricing:
  surcharge_mode: variable
`,
			wantErr: "pricing.surcharge_mode",
		},
		{
			name: "stock percentage out of range",
			yaml: `
pricing:
  stock_percentage: 150
`,
			wantErr: "pricing.stock_percentage",
		},
		{
			name: "withholding must be a fraction",
			yaml: `
pricing:
  withholding_pct: 3
`,
			wantErr: "pricing.withholding_pct",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o600))

			cfg, err := Load(path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			tt.checkFunc(t, cfg)
		})
	}
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.False(t, cfg.Database.Enabled())
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestPricingConfig_Options(t *testing.T) {
	t.Parallel()

	p := PricingConfig{
		FinancingBase:        "tarifa_mas_ml",
		IncludeTaxesInTariff: true,
		WithholdingPct:       0.01,
		StockPercentage:      domain.Float(80),
		SurchargeMode:        "fixed",
		SurchargeValue:       150,
	}

	opts := p.Options()
	assert.Equal(t, domain.FinancingBaseTariffPlusML, opts.FinancingBase)
	assert.True(t, opts.IncludeTaxesInTariff)
	assert.Equal(t, domain.SurchargeFixed, opts.SurchargeMode)
	assert.InDelta(t, 150.0, opts.SurchargeValue, 1e-9)
	require.NotNil(t, opts.StockPercentage)
	assert.InDelta(t, 80.0, *opts.StockPercentage, 1e-9)
	assert.InDelta(t, 0.01, opts.WithholdingPct, 1e-9)
}
