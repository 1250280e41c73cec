package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"StockRadar/internal/model"
	"StockRadar/internal/symbol"
)

const eastmoneyBaseURL = "http://push2his.eastmoney.com"

// EastMoney fetches daily klines from the eastmoney push2his API.
// It is the default primary source: free, no token, generous limits.
type EastMoney struct {
	BaseURL string
	Client  *http.Client
	Norm    *symbol.Normalizer
}

// NewEastMoney creates an eastmoney adapter with optional proxy support.
func NewEastMoney(baseURL string, timeout time.Duration, proxyURL string, norm *symbol.Normalizer) *EastMoney {
	if baseURL == "" {
		baseURL = eastmoneyBaseURL
	}
	return &EastMoney{
		BaseURL: baseURL,
		Client:  newHTTPClient(timeout, proxyURL),
		Norm:    norm,
	}
}

func (f *EastMoney) Name() string { return "eastmoney" }

// emKlineResponse is the push2his kline envelope. Each kline row is a
// comma-joined string: date,open,close,high,low,volume,amount,...
type emKlineResponse struct {
	RC   int    `json:"rc"`
	Msg  string `json:"msg"`
	Data *struct {
		Code   string   `json:"code"`
		Klines []string `json:"klines"`
	} `json:"data"`
}

func (f *EastMoney) FetchHistory(ctx context.Context, sym string, start, end time.Time) ([]model.PriceBar, error) {
	secid, err := f.Norm.Normalize(sym, symbol.FormatSecID)
	if err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/api/qt/stock/kline/get?secid=%s&klt=101&fqt=1&beg=%s&end=%s"+
		"&fields1=f1,f2,f3,f4,f5,f6&fields2=f51,f52,f53,f54,f55,f56,f57",
		f.BaseURL, secid, start.Format("20060102"), end.Format("20060102"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &UnavailableError{Provider: f.Name(), Err: err}
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, &UnavailableError{Provider: f.Name(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UnavailableError{Provider: f.Name(), Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &UnavailableError{Provider: f.Name(), Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	var kr emKlineResponse
	if err := json.Unmarshal(body, &kr); err != nil {
		return nil, &UnavailableError{Provider: f.Name(), Err: fmt.Errorf("decode: %w", err)}
	}
	if kr.RC != 0 || kr.Data == nil || len(kr.Data.Klines) == 0 {
		return nil, &EmptyResultError{Provider: f.Name(), Symbol: sym}
	}

	bars := make([]model.PriceBar, 0, len(kr.Data.Klines))
	for _, line := range kr.Data.Klines {
		b, ok := parseEMKline(line)
		if !ok {
			continue
		}
		bars = append(bars, b)
	}

	bars = cleanBars(bars)
	if len(bars) == 0 {
		return nil, &EmptyResultError{Provider: f.Name(), Symbol: sym}
	}
	return bars, nil
}

// parseEMKline decodes one "date,open,close,high,low,volume,..." row.
func parseEMKline(line string) (model.PriceBar, bool) {
	parts := strings.Split(line, ",")
	if len(parts) < 6 {
		return model.PriceBar{}, false
	}
	date, err := time.Parse("2006-01-02", parts[0])
	if err != nil {
		return model.PriceBar{}, false
	}
	vals := make([]float64, 5)
	for i := 0; i < 5; i++ {
		v, err := strconv.ParseFloat(parts[i+1], 64)
		if err != nil {
			return model.PriceBar{}, false
		}
		vals[i] = v
	}
	return model.PriceBar{
		Date:   date,
		Open:   vals[0],
		Close:  vals[1],
		High:   vals[2],
		Low:    vals[3],
		Volume: vals[4],
	}, true
}

func (f *EastMoney) IsAvailable(ctx context.Context) bool {
	u := f.BaseURL + "/api/qt/stock/kline/get?secid=1.000001&klt=101&fqt=1&lmt=1" +
		"&fields1=f1&fields2=f51,f52,f53,f54,f55,f56,f57"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
