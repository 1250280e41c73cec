// Package analyzer is the top-level pipeline: fetch a series, compute
// indicators, then run the signal, risk and turtle consumers over them.
package analyzer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"StockRadar/internal/config"
	"StockRadar/internal/datasource"
	"StockRadar/internal/indicator"
	"StockRadar/internal/model"
	"StockRadar/internal/risk"
	"StockRadar/internal/signal"
	"StockRadar/internal/turtle"
)

// Result bundles everything one analysis call produces for a symbol.
type Result struct {
	Symbol     string
	Series     *model.PriceSeries
	Indicators *indicator.Set
	Latest     map[string]indicator.Value
	Signals    signal.Set
	Risk       *risk.Assessment
	Turtle     *turtle.Result
	Summary    string
	Stale      bool
	FetchedAt  time.Time
}

// Analyzer wires the data layer to the computation stages. Stages are pure,
// so concurrent Analyze calls for different symbols are safe.
type Analyzer struct {
	data     *datasource.Manager
	detector *signal.Detector
	assessor *risk.Assessor
	engine   *turtle.Engine
	cfg      *config.Config
	log      *logrus.Entry
}

func New(data *datasource.Manager, cfg *config.Config, log *logrus.Logger) *Analyzer {
	return &Analyzer{
		data:     data,
		detector: signal.NewDetector(cfg.Signals),
		assessor: risk.NewAssessor(cfg.Risk),
		engine:   turtle.NewEngine(cfg.Turtle),
		cfg:      cfg,
		log:      log.WithField("component", "analyzer"),
	}
}

// Analyze runs the full pipeline for one symbol. lookbackDays <= 0 uses the
// configured default. Idempotent for identical cache state.
func (a *Analyzer) Analyze(ctx context.Context, sym string, lookbackDays int, forceRefresh bool) (*Result, error) {
	if lookbackDays <= 0 {
		lookbackDays = a.cfg.Analysis.LookbackDays
	}

	series, err := a.data.GetSeries(ctx, sym, lookbackDays, forceRefresh)
	if err != nil {
		return nil, err
	}
	if series.Stale {
		a.log.WithField("symbol", sym).Warn("分析使用过期缓存数据")
	}

	set := indicator.Compute(series, a.cfg.Indicators)
	closes := series.Closes()

	res := &Result{
		Symbol:     sym,
		Series:     series,
		Indicators: set,
		Latest:     set.Latest(),
		Signals:    a.detector.Detect(set, closes),
		Risk:       a.assessor.Assess(series),
		Turtle:     a.engine.Evaluate(series),
		Stale:      series.Stale,
		FetchedAt:  series.FetchedAt,
	}
	res.Summary = a.summarize(res)

	a.log.WithFields(logrus.Fields{
		"symbol": sym,
		"bars":   series.Len(),
		"risk":   res.Risk.Level,
		"turtle": res.Turtle.Combined,
	}).Info("分析完成")
	return res, nil
}

// GetTurtle evaluates only the breakout strategy, using the default lookback.
func (a *Analyzer) GetTurtle(ctx context.Context, sym string) (*turtle.Result, error) {
	series, err := a.data.GetSeries(ctx, sym, a.cfg.Analysis.LookbackDays, false)
	if err != nil {
		return nil, err
	}
	return a.engine.Evaluate(series), nil
}

// AnalyzeBatch analyzes the symbols sequentially, skipping the ones that
// fail. The error map holds per-symbol failures.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, symbols []string, lookbackDays int, forceRefresh bool) ([]*Result, map[string]error) {
	results := make([]*Result, 0, len(symbols))
	failures := make(map[string]error)
	for _, sym := range symbols {
		res, err := a.Analyze(ctx, sym, lookbackDays, forceRefresh)
		if err != nil {
			a.log.WithField("symbol", sym).WithError(err).Warn("批量分析失败")
			failures[sym] = err
			continue
		}
		results = append(results, res)
	}
	return results, failures
}

func (a *Analyzer) summarize(res *Result) string {
	var b strings.Builder
	last, _ := res.Series.Last()

	fmt.Fprintf(&b, "%s: 收盘 %.2f", res.Symbol, last.Close)
	if n := res.Series.Len(); n >= 2 {
		prev := res.Series.Bars[n-2].Close
		if prev > 0 {
			chg := last.Close - prev
			fmt.Fprintf(&b, " (%+.2f, %+.2f%%)", chg, chg/prev*100)
		}
	}
	fmt.Fprintf(&b, "，成交量 %.0f", last.Volume)

	b.WriteString("，" + a.posture(res))
	fmt.Fprintf(&b, "，风险等级 %s (%.0f)", res.Risk.Level, res.Risk.Score)
	fmt.Fprintf(&b, "，策略信号 %s", res.Turtle.Combined)
	if fired := firedNames(res.Signals); len(fired) > 0 {
		fmt.Fprintf(&b, "，触发信号: %s", strings.Join(fired, ", "))
	}
	b.WriteString("。" + recommendation(res.Signals))
	if res.Stale {
		b.WriteString("（数据非最新）")
	}
	return b.String()
}

// posture summarizes trend, RSI state and MACD stance from the latest row.
func (a *Analyzer) posture(res *Result) string {
	parts := make([]string, 0, 3)
	switch res.Turtle.Risk.Trend {
	case "up":
		parts = append(parts, "趋势向上")
	case "down":
		parts = append(parts, "趋势向下")
	default:
		parts = append(parts, "趋势盘整")
	}
	if rsi, ok := res.Latest["rsi"].Float(); ok {
		switch {
		case rsi > a.cfg.Signals.RSIOverbought:
			parts = append(parts, "RSI超买")
		case rsi < a.cfg.Signals.RSIOversold:
			parts = append(parts, "RSI超卖")
		default:
			parts = append(parts, "RSI正常")
		}
	}
	macd, okM := res.Latest["macd"].Float()
	sig, okS := res.Latest["macd_signal"].Float()
	if okM && okS {
		if macd >= sig {
			parts = append(parts, "MACD多头")
		} else {
			parts = append(parts, "MACD空头")
		}
	}
	return strings.Join(parts, "，")
}

// recommendation weighs bullish against bearish fired signals.
func recommendation(set signal.Set) string {
	bullish := 0
	bearish := 0
	for _, name := range []string{"golden_cross", "macd_golden_cross", "kdj_golden_cross", "rsi_oversold"} {
		if set.Fired(name) {
			bullish++
		}
	}
	for _, name := range []string{"death_cross", "macd_death_cross", "kdj_death_cross", "rsi_overbought"} {
		if set.Fired(name) {
			bearish++
		}
	}
	switch {
	case bullish > bearish:
		return "技术面偏多，可关注买入机会"
	case bearish > bullish:
		return "技术面偏空，注意控制风险"
	default:
		return "信号中性，建议观望"
	}
}

// firedNames returns the fired signals in a fixed presentation order so the
// summary is reproducible.
func firedNames(set signal.Set) []string {
	order := []string{
		"golden_cross", "death_cross",
		"macd_golden_cross", "macd_death_cross",
		"kdj_golden_cross", "kdj_death_cross",
		"rsi_overbought", "rsi_oversold",
		"boll_break_upper", "boll_break_lower",
	}
	var fired []string
	for _, name := range order {
		if set.Fired(name) {
			fired = append(fired, name)
		}
	}
	return fired
}
