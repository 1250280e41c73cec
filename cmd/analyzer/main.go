package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"StockRadar/internal/analyzer"
	"StockRadar/internal/config"
	"StockRadar/internal/datasource"
	"StockRadar/internal/provider"
	"StockRadar/internal/report"
	"StockRadar/internal/scheduler"
	"StockRadar/internal/store"
	"StockRadar/internal/symbol"
)

func main() {
	var (
		cfgPath = flag.String("config", "configs/config.yaml", "配置文件路径")
		sym     = flag.String("symbol", "", "股票代码（6位）")
		days    = flag.Int("days", 0, "回看交易日数，0 使用配置默认值")
		refresh = flag.Bool("refresh", false, "强制刷新缓存")
		watch   = flag.Bool("watch", false, "监控模式：按 cron 定时分析监控列表")
	)
	flag.Parse()

	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.WithError(err).Fatal("加载配置失败")
	}
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("配置校验失败")
	}
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}

	norm := symbol.NewNormalizer(cfg.Exchanges)
	providers, err := provider.Build(cfg, norm)
	if err != nil {
		log.WithError(err).Fatal("初始化数据源失败")
	}
	for _, p := range providers {
		log.WithField("provider", p.Name()).Info("数据源已启用")
	}

	var st store.Store
	if cfg.Cache.SQLitePath != "" {
		st, err = store.NewSQLiteStore(cfg.Cache.SQLitePath, log)
		if err != nil {
			log.WithError(err).Warn("打开 SQLite 缓存失败，改用内存缓存")
			st = store.NewMemoryStore()
		}
	} else {
		st = store.NewMemoryStore()
	}

	manager := datasource.NewManager(providers, st, norm, cfg.Cache.TTL.Std(), log)
	defer manager.Close()

	a := analyzer.New(manager, cfg, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *watch {
		runWatch(ctx, a, cfg, log)
		return
	}

	if *sym == "" {
		fmt.Fprintln(os.Stderr, "用法: analyzer -symbol 600000 [-days 120] [-refresh]")
		os.Exit(2)
	}
	runOnce(ctx, a, *sym, *days, *refresh, log)
}

func runOnce(ctx context.Context, a *analyzer.Analyzer, sym string, days int, refresh bool, log *logrus.Logger) {
	res, err := a.Analyze(ctx, sym, days, refresh)
	if err != nil {
		log.WithField("symbol", sym).WithError(err).Fatal("分析失败")
	}
	fmt.Println(report.Format(res))
}

func runWatch(ctx context.Context, a *analyzer.Analyzer, cfg *config.Config, log *logrus.Logger) {
	sched := scheduler.New(ctx, a, cfg.Watch.Symbols, cfg.Analysis.LookbackDays, log)
	if err := sched.Register(cfg.Watch.Cron); err != nil {
		log.WithError(err).Fatal("注册定时任务失败")
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		go sched.RunNow()
	}

	log.Info("监控模式运行中，Ctrl+C 退出")
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Info("收到退出信号，正在停止")
}
