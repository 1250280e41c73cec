package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"StockRadar/internal/model"
	"StockRadar/internal/symbol"
)

const tushareBaseURL = "http://api.tushare.pro"

// Tushare fetches daily bars from the tushare pro JSON API. Requires a token
// and is rate-limited on free tiers, so it defaults to the lowest priority.
type Tushare struct {
	BaseURL string
	Token   string
	Client  *http.Client
	Norm    *symbol.Normalizer
}

// NewTushare creates a tushare adapter. The token comes from config or .env.
func NewTushare(baseURL, token string, timeout time.Duration, proxyURL string, norm *symbol.Normalizer) *Tushare {
	if baseURL == "" {
		baseURL = tushareBaseURL
	}
	return &Tushare{
		BaseURL: baseURL,
		Token:   token,
		Client:  newHTTPClient(timeout, proxyURL),
		Norm:    norm,
	}
}

func (f *Tushare) Name() string { return "tushare" }

type tushareRequest struct {
	APIName string            `json:"api_name"`
	Token   string            `json:"token"`
	Params  map[string]string `json:"params"`
	Fields  string            `json:"fields"`
}

type tushareResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data *struct {
		Fields []string          `json:"fields"`
		Raw    []json.RawMessage `json:"items"`
	} `json:"data"`
}

func (f *Tushare) FetchHistory(ctx context.Context, sym string, start, end time.Time) ([]model.PriceBar, error) {
	tsCode, err := f.Norm.Normalize(sym, symbol.FormatSuffixed)
	if err != nil {
		return nil, err
	}

	reqBody := tushareRequest{
		APIName: "daily",
		Token:   f.Token,
		Params: map[string]string{
			"ts_code":    tsCode,
			"start_date": start.Format("20060102"),
			"end_date":   end.Format("20060102"),
		},
		Fields: "trade_date,open,high,low,close,vol",
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &UnavailableError{Provider: f.Name(), Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, &UnavailableError{Provider: f.Name(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

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

	var tr tushareResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, &UnavailableError{Provider: f.Name(), Err: fmt.Errorf("decode: %w", err)}
	}
	// Non-zero codes cover auth and quota problems; both mean "try elsewhere".
	if tr.Code != 0 {
		return nil, &UnavailableError{Provider: f.Name(), Err: fmt.Errorf("api code %d: %s", tr.Code, tr.Msg)}
	}
	if tr.Data == nil || len(tr.Data.Raw) == 0 {
		return nil, &EmptyResultError{Provider: f.Name(), Symbol: sym}
	}

	idx := fieldIndex(tr.Data.Fields)
	bars := make([]model.PriceBar, 0, len(tr.Data.Raw))
	for _, raw := range tr.Data.Raw {
		var row []json.RawMessage
		if err := json.Unmarshal(raw, &row); err != nil {
			continue
		}
		b, ok := parseTushareRow(row, idx)
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

// fieldIndex maps the response's field names to column positions; tushare
// echoes the requested field order but trusting it blindly is unnecessary.
func fieldIndex(fields []string) map[string]int {
	idx := make(map[string]int, len(fields))
	for i, name := range fields {
		idx[name] = i
	}
	return idx
}

func parseTushareRow(row []json.RawMessage, idx map[string]int) (model.PriceBar, bool) {
	get := func(name string) (json.RawMessage, bool) {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return nil, false
		}
		return row[i], true
	}

	rawDate, ok := get("trade_date")
	if !ok {
		return model.PriceBar{}, false
	}
	var dateStr string
	if err := json.Unmarshal(rawDate, &dateStr); err != nil {
		return model.PriceBar{}, false
	}
	date, err := time.Parse("20060102", dateStr)
	if err != nil {
		return model.PriceBar{}, false
	}

	var bar model.PriceBar
	bar.Date = date
	for name, dst := range map[string]*float64{
		"open": &bar.Open, "high": &bar.High, "low": &bar.Low,
		"close": &bar.Close, "vol": &bar.Volume,
	} {
		raw, ok := get(name)
		if !ok {
			return model.PriceBar{}, false
		}
		v, ok := rawToFloat(raw)
		if !ok {
			return model.PriceBar{}, false
		}
		*dst = v
	}
	return bar, true
}

func (f *Tushare) IsAvailable(ctx context.Context) bool {
	if f.Token == "" {
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL, nil)
	if err != nil {
		return false
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return true
}
