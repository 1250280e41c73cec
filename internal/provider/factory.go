package provider

import (
	"fmt"
	"time"

	"StockRadar/internal/config"
	"StockRadar/internal/symbol"
)

// Build constructs the enabled providers in priority order. The registry is
// closed: new upstreams are added here as variants, never discovered at
// runtime.
func Build(cfg *config.Config, norm *symbol.Normalizer) ([]Provider, error) {
	timeout := cfg.Analysis.FetchTimeout.Std()
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	var providers []Provider
	for _, pc := range cfg.EnabledProviders() {
		switch pc.Name {
		case "eastmoney":
			providers = append(providers, NewEastMoney(pc.BaseURL, timeout, cfg.Proxy, norm))
		case "qqstock":
			providers = append(providers, NewQQStock(pc.BaseURL, timeout, cfg.Proxy, norm))
		case "tushare":
			providers = append(providers, NewTushare(pc.BaseURL, pc.Token, timeout, cfg.Proxy, norm))
		case "mock":
			providers = append(providers, &Mock{BasePrice: 10})
		default:
			return nil, fmt.Errorf("unknown provider %q", pc.Name)
		}
	}
	if len(providers) == 0 {
		return nil, fmt.Errorf("no providers enabled")
	}
	return providers, nil
}
