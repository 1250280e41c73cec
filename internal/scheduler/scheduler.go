// Package scheduler periodically refreshes and analyzes the watch list.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"StockRadar/internal/analyzer"
	"StockRadar/internal/report"
)

// Scheduler runs the watch-list analysis on a cron spec.
type Scheduler struct {
	cron     *cron.Cron
	analyzer *analyzer.Analyzer
	symbols  []string
	lookback int
	ctx      context.Context
	log      *logrus.Entry
}

func New(ctx context.Context, a *analyzer.Analyzer, symbols []string, lookback int, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		analyzer: a,
		symbols:  symbols,
		lookback: lookback,
		ctx:      ctx,
		log:      log.WithField("component", "scheduler"),
	}
}

// Register installs the watch task on the given cron spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.watchTask); err != nil {
		return fmt.Errorf("register watch task: %w", err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.WithField("symbols", len(s.symbols)).Info("定时任务已启动")
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Info("定时任务已停止")
}

// RunNow executes the watch task immediately, used for manual triggers.
func (s *Scheduler) RunNow() {
	s.watchTask()
}

// watchTask force-refreshes every watched symbol and logs its report.
func (s *Scheduler) watchTask() {
	if len(s.symbols) == 0 {
		s.log.Warn("监控列表为空，跳过本轮任务")
		return
	}
	s.log.WithField("symbols", s.symbols).Info("开始监控列表分析")

	results, failures := s.analyzer.AnalyzeBatch(s.ctx, s.symbols, s.lookback, true)
	for _, res := range results {
		fmt.Println(report.Format(res))
	}
	for sym, err := range failures {
		s.log.WithField("symbol", sym).WithError(err).Error("监控分析失败")
	}
}
