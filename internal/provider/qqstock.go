package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"StockRadar/internal/model"
	"StockRadar/internal/symbol"
)

const qqstockBaseURL = "https://web.ifzq.gtimg.cn"

// QQStock fetches daily klines from the Tencent ifzq API. Serves as the
// second line of defense when eastmoney is down or rate-limited.
type QQStock struct {
	BaseURL string
	Client  *http.Client
	Norm    *symbol.Normalizer
}

// NewQQStock creates a qqstock adapter with optional proxy support.
func NewQQStock(baseURL string, timeout time.Duration, proxyURL string, norm *symbol.Normalizer) *QQStock {
	if baseURL == "" {
		baseURL = qqstockBaseURL
	}
	return &QQStock{
		BaseURL: baseURL,
		Client:  newHTTPClient(timeout, proxyURL),
		Norm:    norm,
	}
}

func (f *QQStock) Name() string { return "qqstock" }

// qqKlineResponse: data.<sym> holds "qfqday" (adjusted) or "day" rows of
// [date, open, close, high, low, volume, ...] mixed-type arrays.
type qqKlineResponse struct {
	Code int                        `json:"code"`
	Msg  string                     `json:"msg"`
	Data map[string]json.RawMessage `json:"data"`
}

type qqSymbolData struct {
	QfqDay [][]json.RawMessage `json:"qfqday"`
	Day    [][]json.RawMessage `json:"day"`
}

func (f *QQStock) FetchHistory(ctx context.Context, sym string, start, end time.Time) ([]model.PriceBar, error) {
	qqSym, err := f.Norm.Normalize(sym, symbol.FormatPrefixed)
	if err != nil {
		return nil, err
	}

	count := int(end.Sub(start).Hours()/24) + 1
	u := fmt.Sprintf("%s/appstock/app/fqkline/get?param=%s,day,%s,%s,%d,qfq",
		f.BaseURL, qqSym, start.Format("2006-01-02"), end.Format("2006-01-02"), count)

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

	var kr qqKlineResponse
	if err := json.Unmarshal(body, &kr); err != nil {
		return nil, &UnavailableError{Provider: f.Name(), Err: fmt.Errorf("decode: %w", err)}
	}
	if kr.Code != 0 {
		return nil, &EmptyResultError{Provider: f.Name(), Symbol: sym}
	}

	raw, ok := kr.Data[qqSym]
	if !ok {
		return nil, &EmptyResultError{Provider: f.Name(), Symbol: sym}
	}
	var sd qqSymbolData
	if err := json.Unmarshal(raw, &sd); err != nil {
		return nil, &UnavailableError{Provider: f.Name(), Err: fmt.Errorf("decode symbol data: %w", err)}
	}
	rows := sd.QfqDay
	if len(rows) == 0 {
		rows = sd.Day
	}
	if len(rows) == 0 {
		return nil, &EmptyResultError{Provider: f.Name(), Symbol: sym}
	}

	bars := make([]model.PriceBar, 0, len(rows))
	for _, row := range rows {
		b, ok := parseQQRow(row)
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

// parseQQRow decodes one [date, open, close, high, low, volume] row.
// Numeric cells arrive either as JSON strings or numbers.
func parseQQRow(row []json.RawMessage) (model.PriceBar, bool) {
	if len(row) < 6 {
		return model.PriceBar{}, false
	}
	var dateStr string
	if err := json.Unmarshal(row[0], &dateStr); err != nil {
		return model.PriceBar{}, false
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return model.PriceBar{}, false
	}
	vals := make([]float64, 5)
	for i := 0; i < 5; i++ {
		v, ok := rawToFloat(row[i+1])
		if !ok {
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

func rawToFloat(raw json.RawMessage) (float64, bool) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	if _, err := fmt.Sscanf(s, "%f", &f); err != nil {
		return 0, false
	}
	return f, true
}

func (f *QQStock) IsAvailable(ctx context.Context) bool {
	u := f.BaseURL + "/appstock/app/fqkline/get?param=sh000001,day,,,1,qfq"
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
