package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"github.com/shopspring/decimal"

	"github.com/umputun/sportswatch/pkg/audit"
	"github.com/umputun/sportswatch/pkg/config"
	"github.com/umputun/sportswatch/pkg/content"
	"github.com/umputun/sportswatch/pkg/domain"
	"github.com/umputun/sportswatch/pkg/feed"
	"github.com/umputun/sportswatch/pkg/llm"
	"github.com/umputun/sportswatch/pkg/metrics"
	"github.com/umputun/sportswatch/pkg/notify"
	"github.com/umputun/sportswatch/pkg/overlay"
	"github.com/umputun/sportswatch/pkg/publisher"
	"github.com/umputun/sportswatch/pkg/scheduler"
	"github.com/umputun/sportswatch/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" description:"path to configuration file, environment only if not set"`
	Listen string `short:"l" long:"listen" env:"LISTEN" description:"listen address, overrides config"`

	Server   bool   `long:"server" env:"SERVER" description:"run http server"`
	Schedule string `long:"schedule" env:"SCHEDULE" description:"cron schedule with seconds for publishing runs, overrides config"`

	Signal     string   `long:"signal" description:"broadcast trading signal, like 'BUY 25 TSLA', and exit"`
	StopLoss   string   `long:"stop-loss" description:"stop loss for the signal"`
	TakeProfit string   `long:"take-profit" description:"take profit for the signal"`
	Channels   []string `long:"channel" choice:"telegram" choice:"discord" choice:"whatsapp" description:"signal channels, all if not set"`

	// common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	if opts.NoColor {
		color.NoColor = true
	}
	setupLog(opts.Debug)
	lgr.Printf("[INFO] starting sportswatch version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		lgr.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()
	if err != nil {
		lgr.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
	lgr.Print("[INFO] completed")
}

// run executes the mode selected by options: signal broadcast, one-shot publishing,
// scheduled publishing and/or http server
func run(ctx context.Context, opts Opts) error {
	if opts.Signal != "" {
		return runSignal(ctx, opts)
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	setupLog(opts.Debug, cfg.Secrets()...)
	if opts.Listen != "" {
		cfg.Server.Listen = opts.Listen
	}
	schedule := cfg.Schedule.Cron
	if opts.Schedule != "" {
		schedule = opts.Schedule
	}

	auditLog, err := audit.New(ctx, cfg.Audit.Type, cfg.Audit.Path)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer func() {
		if err := auditLog.Close(); err != nil {
			lgr.Printf("[WARN] can't close audit log: %v", err)
		}
	}()

	mtr := metrics.New()
	sched, err := scheduler.New(makePublisher(cfg, auditLog, mtr), schedule)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	if !opts.Server && schedule == "" {
		rep, err := sched.RunNow(ctx)
		if err != nil {
			return fmt.Errorf("publishing failed: %w", err)
		}
		lgr.Printf("[INFO] processed %d posts, %d failed, %d monetized", rep.Total, rep.Failed, rep.Monetized)
		return nil
	}

	sched.Start(ctx)
	defer sched.Stop()

	if !opts.Server {
		<-ctx.Done()
		return nil
	}

	params := server.Params{
		Config:      cfg,
		Broadcaster: notify.NewBroadcaster(notify.New(cfg.Notify)...).WithObserver(mtr.Delivery),
		Audit:       auditLog,
		Runner:      sched,
		Schedule:    sched,
		Metrics:     mtr.Handler(),
		Version:     revision,
		Debug:       opts.Debug,
	}
	if err := server.New(params).Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// runSignal parses and broadcasts the signal from options, fails if no channel delivered it
func runSignal(ctx context.Context, opts Opts) error {
	cfg, err := config.Read(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	setupLog(opts.Debug, cfg.Secrets()...)

	stopLoss, err := parseDecimal(opts.StopLoss)
	if err != nil {
		return fmt.Errorf("invalid stop loss: %w", err)
	}
	takeProfit, err := parseDecimal(opts.TakeProfit)
	if err != nil {
		return fmt.Errorf("invalid take profit: %w", err)
	}

	auditLog, err := audit.New(ctx, cfg.Audit.Type, cfg.Audit.Path)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer func() {
		if err := auditLog.Close(); err != nil {
			lgr.Printf("[WARN] can't close audit log: %v", err)
		}
	}()

	bc := notify.NewBroadcaster(notify.New(cfg.Notify)...)
	results, err := bc.BroadcastSignal(ctx, opts.Signal, stopLoss, takeProfit, opts.Channels...)
	if err != nil {
		return fmt.Errorf("failed to broadcast signal: %w", err)
	}

	names := make([]string, 0, len(results))
	delivered := false
	for name, ok := range results {
		names = append(names, name)
		delivered = delivered || ok
	}
	sort.Strings(names)
	for _, name := range names {
		lgr.Printf("[INFO] %s: delivered=%v", name, results[name])
	}

	entry := audit.NewEntry(audit.ActionBroadcast, domain.ContentItem{}, delivered,
		map[string]any{"signal": opts.Signal, "results": results}, time.Now())
	if err := auditLog.Append(ctx, entry); err != nil {
		lgr.Printf("[ERROR] can't write audit entry: %v", err)
	}

	if !delivered {
		return errors.New("signal not delivered to any channel")
	}
	return nil
}

// makePublisher wires feed, providers, overlay writer and audit log into the publishing pipeline
func makePublisher(cfg *config.Config, auditLog audit.Log, mtr *metrics.Metrics) *publisher.Publisher {
	gemini := llm.NewGemini(cfg.Generation.Gemini)
	openai := llm.NewOpenAI(cfg.Generation.OpenAI)

	params := publisher.Params{
		FeedURL:    cfg.Feed.URL,
		Feed:       feed.NewParser(cfg.Feed.Timeout, cfg.Feed.UserAgent, cfg.Feed.MaxItems),
		Summarizer: llm.NewSummarizer(cfg.Generation.MinSummaryLength, gemini, openai),
		Overlays:   overlay.NewWriter(cfg.Overlay.Dir),
		Audit:      auditLog,
		Recorder:   mtr,
	}
	if cfg.Extraction.Enabled {
		params.Enricher = content.NewExtractor(cfg.Extraction.Timeout, cfg.Extraction.UserAgent, cfg.Extraction.MinTextLength)
	}
	if cfg.Generation.Thumbnails && gemini.Enabled() {
		params.Thumbnailer = gemini
	}
	return publisher.New(params)
}

func parseDecimal(s string) (*decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil //nolint:nilnil // absent value
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func setupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
