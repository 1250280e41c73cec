package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, Duration(24*time.Hour), cfg.Cache.TTL)
	assert.Equal(t, 120, cfg.Analysis.LookbackDays)
	assert.Equal(t, []int{5, 10, 20, 60}, cfg.Indicators.MAPeriods)
	assert.Equal(t, 12, cfg.Indicators.MACDFast)
	assert.Equal(t, 26, cfg.Indicators.MACDSlow)
	assert.Equal(t, 14, cfg.Indicators.RSIPeriod)
	assert.Equal(t, 20, cfg.Turtle.System1Entry)
	assert.Equal(t, 55, cfg.Turtle.System2Entry)
	assert.Equal(t, "longer", cfg.Turtle.Precedence)
	assert.Equal(t, 0.02, cfg.Turtle.RiskPerTrade)
	assert.Equal(t, 20, cfg.Turtle.TrendFastMA)
	assert.Equal(t, 60, cfg.Turtle.TrendSlowMA)

	require.NoError(t, cfg.Validate())
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
log_level: debug
cache:
  ttl: 6h
providers:
  - name: tushare
    enabled: true
    priority: 1
  - name: eastmoney
    enabled: true
    priority: 2
turtle:
  precedence: shorter
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	t.Setenv("TUSHARE_TOKEN", "secret-token")
	t.Setenv("LOOKBACK_DAYS", "250")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, Duration(6*time.Hour), cfg.Cache.TTL)
	assert.Equal(t, 250, cfg.Analysis.LookbackDays)
	assert.Equal(t, "shorter", cfg.Turtle.Precedence)

	enabled := cfg.EnabledProviders()
	require.Len(t, enabled, 2)
	assert.Equal(t, "tushare", enabled[0].Name)
	assert.Equal(t, "secret-token", enabled[0].Token)
	assert.Equal(t, "eastmoney", enabled[1].Name)

	require.NoError(t, cfg.Validate())
}

func TestEnabledProvidersSortedByPriority(t *testing.T) {
	cfg := &Config{Providers: []ProviderConfig{
		{Name: "qqstock", Enabled: true, Priority: 3},
		{Name: "eastmoney", Enabled: true, Priority: 1},
		{Name: "tushare", Enabled: false, Priority: 2},
	}}
	enabled := cfg.EnabledProviders()
	require.Len(t, enabled, 2)
	assert.Equal(t, "eastmoney", enabled[0].Name)
	assert.Equal(t, "qqstock", enabled[1].Name)
}

func TestValidateFailures(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		cfg.applyDefaults()
		return cfg
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no providers enabled", func(c *Config) {
			for i := range c.Providers {
				c.Providers[i].Enabled = false
			}
		}},
		{"unknown provider", func(c *Config) {
			c.Providers = append(c.Providers, ProviderConfig{Name: "sina", Enabled: true})
		}},
		{"tushare without token", func(c *Config) {
			c.Providers = []ProviderConfig{{Name: "tushare", Enabled: true, Priority: 1}}
		}},
		{"macd windows inverted", func(c *Config) { c.Indicators.MACDFast = 30 }},
		{"signal ma inverted", func(c *Config) { c.Signals.FastMA = 20; c.Signals.SlowMA = 5 }},
		{"risk thresholds inverted", func(c *Config) { c.Risk.MediumScore = 80 }},
		{"risk per trade too large", func(c *Config) { c.Turtle.RiskPerTrade = 0.5 }},
		{"max position out of range", func(c *Config) { c.Turtle.MaxPosition = 1.5 }},
		{"bad precedence", func(c *Config) { c.Turtle.Precedence = "both" }},
		{"trend ma inverted", func(c *Config) { c.Turtle.TrendFastMA = 60; c.Turtle.TrendSlowMA = 20 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDurationYAML(t *testing.T) {
	var out struct {
		TTL Duration `yaml:"ttl"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("ttl: 90m"), &out))
	assert.Equal(t, 90*time.Minute, out.TTL.Std())

	var bad struct {
		TTL Duration `yaml:"ttl"`
	}
	assert.Error(t, yaml.Unmarshal([]byte("ttl: soon"), &bad))
}
