package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ProviderConfig describes one upstream data source.
type ProviderConfig struct {
	Name     string `yaml:"name"`
	Enabled  bool   `yaml:"enabled"`
	Priority int    `yaml:"priority"` // lower tries first
	BaseURL  string `yaml:"base_url"`
	Token    string `yaml:"token"` // tushare only
}

// ExchangeRule maps leading digits of a canonical symbol to an exchange code.
type ExchangeRule struct {
	Exchange string   `yaml:"exchange"` // "SH" or "SZ"
	Prefixes []string `yaml:"prefixes"`
}

// IndicatorConfig holds every look-back window of the indicator engine.
type IndicatorConfig struct {
	MAPeriods     []int   `yaml:"ma_periods"`
	VolMAPeriods  []int   `yaml:"vol_ma_periods"`
	MACDFast      int     `yaml:"macd_fast"`
	MACDSlow      int     `yaml:"macd_slow"`
	MACDSignal    int     `yaml:"macd_signal"`
	RSIPeriod     int     `yaml:"rsi_period"`
	KDJPeriod     int     `yaml:"kdj_period"`
	KDJSmooth     int     `yaml:"kdj_smooth"`
	BollPeriod    int     `yaml:"boll_period"`
	BollStdFactor float64 `yaml:"boll_std_factor"`
}

// SignalConfig holds the cross/threshold parameters of the signal detector.
type SignalConfig struct {
	FastMA        int     `yaml:"fast_ma"`
	SlowMA        int     `yaml:"slow_ma"`
	RSIOverbought float64 `yaml:"rsi_overbought"`
	RSIOversold   float64 `yaml:"rsi_oversold"`
}

// RiskConfig holds the risk assessor thresholds and weights.
type RiskConfig struct {
	VolatilityWindow    int     `yaml:"volatility_window"`
	VolatilityReference float64 `yaml:"volatility_reference"` // annualized vol that maps to score 100
	VolumeSpikeRatio    float64 `yaml:"volume_spike_ratio"`
	PriceMoveThreshold  float64 `yaml:"price_move_threshold"`
	VolatilityWeight    float64 `yaml:"volatility_weight"`
	VolumeWeight        float64 `yaml:"volume_weight"`
	PriceWeight         float64 `yaml:"price_weight"`
	MediumScore         float64 `yaml:"medium_score"`
	HighScore           float64 `yaml:"high_score"`
}

// TurtleConfig holds the dual-system breakout parameters.
type TurtleConfig struct {
	System1Entry    int     `yaml:"system1_entry"`
	System1Exit     int     `yaml:"system1_exit"`
	System2Entry    int     `yaml:"system2_entry"`
	System2Exit     int     `yaml:"system2_exit"`
	ATRPeriod       int     `yaml:"atr_period"`
	StopATRMultiple float64 `yaml:"stop_atr_multiple"`
	RiskPerTrade    float64 `yaml:"risk_per_trade"`
	MaxPosition     float64 `yaml:"max_position"`
	Precedence      string  `yaml:"precedence"` // "longer" or "shorter"
	TrendFastMA     int     `yaml:"trend_fast_ma"`
	TrendSlowMA     int     `yaml:"trend_slow_ma"`
}

// Config holds all application configuration.
type Config struct {
	LogLevel string `yaml:"log_level"`
	Proxy    string `yaml:"proxy"`

	Providers []ProviderConfig `yaml:"providers"`
	Exchanges []ExchangeRule   `yaml:"exchanges"`

	Cache struct {
		SQLitePath string   `yaml:"sqlite_path"`
		TTL        Duration `yaml:"ttl"`
	} `yaml:"cache"`

	Analysis struct {
		LookbackDays int      `yaml:"lookback_days"`
		FetchTimeout Duration `yaml:"fetch_timeout"`
	} `yaml:"analysis"`

	Indicators IndicatorConfig `yaml:"indicators"`
	Signals    SignalConfig    `yaml:"signals"`
	Risk       RiskConfig      `yaml:"risk"`
	Turtle     TurtleConfig    `yaml:"turtle"`

	Watch struct {
		Symbols []string `yaml:"symbols"`
		Cron    string   `yaml:"cron"`
	} `yaml:"watch"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}

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
	if v := os.Getenv("TUSHARE_TOKEN"); v != "" {
		cfg.setTushareToken(v)
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Cache.SQLitePath = v
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Cache.TTL = Duration(d)
		}
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("LOOKBACK_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Analysis.LookbackDays = n
		}
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) setTushareToken(token string) {
	for i := range c.Providers {
		if c.Providers[i].Name == "tushare" {
			c.Providers[i].Token = token
			return
		}
	}
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if len(c.Providers) == 0 {
		c.Providers = []ProviderConfig{
			{Name: "eastmoney", Enabled: true, Priority: 1},
			{Name: "qqstock", Enabled: true, Priority: 2},
			{Name: "tushare", Enabled: false, Priority: 3},
		}
	}
	if len(c.Exchanges) == 0 {
		c.Exchanges = []ExchangeRule{
			{Exchange: "SH", Prefixes: []string{"6", "9"}},
			{Exchange: "SZ", Prefixes: []string{"0", "2", "3"}},
		}
	}
	if c.Cache.SQLitePath == "" {
		c.Cache.SQLitePath = "data/stockradar.db"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = Duration(24 * time.Hour)
	}
	if c.Analysis.LookbackDays == 0 {
		c.Analysis.LookbackDays = 120
	}
	if c.Analysis.FetchTimeout == 0 {
		c.Analysis.FetchTimeout = Duration(30 * time.Second)
	}

	ind := &c.Indicators
	if len(ind.MAPeriods) == 0 {
		ind.MAPeriods = []int{5, 10, 20, 60}
	}
	if len(ind.VolMAPeriods) == 0 {
		ind.VolMAPeriods = []int{5, 10, 20}
	}
	if ind.MACDFast == 0 {
		ind.MACDFast = 12
	}
	if ind.MACDSlow == 0 {
		ind.MACDSlow = 26
	}
	if ind.MACDSignal == 0 {
		ind.MACDSignal = 9
	}
	if ind.RSIPeriod == 0 {
		ind.RSIPeriod = 14
	}
	if ind.KDJPeriod == 0 {
		ind.KDJPeriod = 9
	}
	if ind.KDJSmooth == 0 {
		ind.KDJSmooth = 3
	}
	if ind.BollPeriod == 0 {
		ind.BollPeriod = 20
	}
	if ind.BollStdFactor == 0 {
		ind.BollStdFactor = 2
	}

	sig := &c.Signals
	if sig.FastMA == 0 {
		sig.FastMA = 5
	}
	if sig.SlowMA == 0 {
		sig.SlowMA = 20
	}
	if sig.RSIOverbought == 0 {
		sig.RSIOverbought = 70
	}
	if sig.RSIOversold == 0 {
		sig.RSIOversold = 30
	}

	rk := &c.Risk
	if rk.VolatilityWindow == 0 {
		rk.VolatilityWindow = 20
	}
	if rk.VolatilityReference == 0 {
		rk.VolatilityReference = 0.8
	}
	if rk.VolumeSpikeRatio == 0 {
		rk.VolumeSpikeRatio = 2.0
	}
	if rk.PriceMoveThreshold == 0 {
		rk.PriceMoveThreshold = 0.07
	}
	if rk.VolatilityWeight == 0 && rk.VolumeWeight == 0 && rk.PriceWeight == 0 {
		rk.VolatilityWeight = 0.5
		rk.VolumeWeight = 0.25
		rk.PriceWeight = 0.25
	}
	if rk.MediumScore == 0 {
		rk.MediumScore = 33
	}
	if rk.HighScore == 0 {
		rk.HighScore = 67
	}

	tt := &c.Turtle
	if tt.System1Entry == 0 {
		tt.System1Entry = 20
	}
	if tt.System1Exit == 0 {
		tt.System1Exit = 10
	}
	if tt.System2Entry == 0 {
		tt.System2Entry = 55
	}
	if tt.System2Exit == 0 {
		tt.System2Exit = 20
	}
	if tt.ATRPeriod == 0 {
		tt.ATRPeriod = 20
	}
	if tt.StopATRMultiple == 0 {
		tt.StopATRMultiple = 2.0
	}
	if tt.RiskPerTrade == 0 {
		tt.RiskPerTrade = 0.02
	}
	if tt.MaxPosition == 0 {
		tt.MaxPosition = 1.0
	}
	if tt.Precedence == "" {
		tt.Precedence = "longer"
	}
	if tt.TrendFastMA == 0 {
		tt.TrendFastMA = 20
	}
	if tt.TrendSlowMA == 0 {
		tt.TrendSlowMA = 60
	}

	if c.Watch.Cron == "" {
		c.Watch.Cron = "0 30 15 * * 1-5"
	}
}

// EnabledProviders returns the enabled provider configs in priority order.
func (c *Config) EnabledProviders() []ProviderConfig {
	out := make([]ProviderConfig, 0, len(c.Providers))
	for _, p := range c.Providers {
		if p.Enabled {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if len(c.EnabledProviders()) == 0 {
		return fmt.Errorf("at least one provider must be enabled")
	}
	for _, p := range c.Providers {
		switch p.Name {
		case "eastmoney", "qqstock", "tushare", "mock":
		default:
			return fmt.Errorf("unknown provider %q", p.Name)
		}
		if p.Name == "tushare" && p.Enabled && p.Token == "" {
			return fmt.Errorf("tushare provider requires a token")
		}
	}
	if len(c.Exchanges) == 0 {
		return fmt.Errorf("exchanges table must not be empty")
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative")
	}
	if c.Indicators.MACDFast >= c.Indicators.MACDSlow {
		return fmt.Errorf("macd_fast must be smaller than macd_slow")
	}
	if c.Signals.FastMA >= c.Signals.SlowMA {
		return fmt.Errorf("signals.fast_ma must be smaller than signals.slow_ma")
	}
	if c.Risk.MediumScore >= c.Risk.HighScore {
		return fmt.Errorf("risk.medium_score must be below risk.high_score")
	}
	if c.Turtle.RiskPerTrade <= 0 || c.Turtle.RiskPerTrade > 0.1 {
		return fmt.Errorf("turtle.risk_per_trade must be in (0, 0.1]")
	}
	if c.Turtle.MaxPosition <= 0 || c.Turtle.MaxPosition > 1 {
		return fmt.Errorf("turtle.max_position must be in (0, 1]")
	}
	if c.Turtle.Precedence != "longer" && c.Turtle.Precedence != "shorter" {
		return fmt.Errorf("turtle.precedence must be \"longer\" or \"shorter\"")
	}
	if c.Turtle.TrendFastMA >= c.Turtle.TrendSlowMA {
		return fmt.Errorf("turtle.trend_fast_ma must be smaller than turtle.trend_slow_ma")
	}
	return nil
}
