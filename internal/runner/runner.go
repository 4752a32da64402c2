package runner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"ForecastBench/internal/artifact"
	"ForecastBench/internal/collector"
	"ForecastBench/internal/config"
	"ForecastBench/internal/evaluate"
	"ForecastBench/internal/forecast"
	"ForecastBench/internal/indicator"
	"ForecastBench/internal/model"
	"ForecastBench/internal/notifier"
	"ForecastBench/internal/recorder"
	"ForecastBench/internal/report"
	"ForecastBench/internal/split"

	"github.com/robfig/cron/v3"
)

// Runner executes the benchmark pipeline: acquire, engineer, split, forecast,
// align, evaluate, persist. One-shot by default; a cron schedule can re-run
// it periodically in daemon mode.
type Runner struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Config    *config.Config
	Recorder  recorder.Recorder
	Notifier  notifier.Notifier
	Ctx       context.Context
}

// New creates a Runner.
func New(ctx context.Context, col *collector.Collector, cfg *config.Config, rec recorder.Recorder, not notifier.Notifier) *Runner {
	return &Runner{
		Cron:      cron.New(),
		Collector: col,
		Config:    cfg,
		Recorder:  rec,
		Notifier:  not,
		Ctx:       ctx,
	}
}

// RegisterSchedule registers the periodic benchmark run for daemon mode.
func (r *Runner) RegisterSchedule(spec string) error {
	if _, err := r.Cron.AddFunc(spec, func() {
		if err := r.RunOnce(); err != nil {
			log.Printf("[ERROR] scheduled run: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("register schedule: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (r *Runner) Start() {
	r.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (r *Runner) Stop() {
	r.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunOnce executes one full benchmark run.
func (r *Runner) RunOnce() error {
	cfg := r.Config
	dir := cfg.Benchmark.ArtifactDir

	// Stage 1: data acquisition.
	prices, err := r.Collector.Collect()
	if err != nil {
		return fmt.Errorf("collect: %w", err)
	}
	if err := artifact.WritePrices(filepath.Join(dir, "prices.csv"), prices); err != nil {
		return err
	}
	log.Printf("[INFO] collected %d bars for %s via %s", len(prices.Bars), prices.Symbol, r.Collector.Fetcher.Name())

	// Stage 2: feature engineering.
	features, err := indicator.Build(prices)
	if err != nil {
		return fmt.Errorf("features: %w", err)
	}
	if err := artifact.WriteFeatures(filepath.Join(dir, "features.csv"), features); err != nil {
		return err
	}
	log.Printf("[INFO] feature table: %d rows (%d warm-up bars dropped)", features.Len(), len(prices.Bars)-features.Len())

	// Stage 3: chronological split.
	train, test, err := split.Split(features, cfg.Benchmark.TrainFraction)
	if err != nil {
		return err
	}
	horizon := test.Len()
	log.Printf("[INFO] split: %d train rows, horizon %d", train.Len(), horizon)

	// Stage 4: model adapters.
	forecasts := make(map[string]model.ForecastSeries)
	expected := r.expectedByTarget()

	// GARCH runs first: the boosted-tree adapter consumes its fitted and
	// forecasted volatility.
	var garchInSample, garchForecast []float64
	if cfg.Models.GARCH {
		g := forecast.NewGARCH()
		garchInSample, garchForecast, err = g.Volatility(train, horizon)
		if err != nil {
			log.Printf("[WARN] model garch failed: %v", err)
		} else {
			forecasts[g.Name()] = model.ForecastSeries{Model: g.Name(), Target: model.TargetVolatility, Values: garchForecast}
		}
	}

	adapters := r.buildAdapters(garchInSample, garchForecast)
	r.runAdapters(adapters, train, test, forecasts)

	// Externally trained artifacts.
	for _, ext := range cfg.Models.External {
		adapter := forecast.NewExternal(ext.Name, ext.Path, ext.WindowSize)
		series, err := adapter.FitAndForecast(r.Ctx, train, test)
		if err != nil {
			if errors.Is(err, forecast.ErrArtifactMissing) {
				log.Printf("[WARN] external model %s: artifact not present, skipping", ext.Name)
			} else {
				log.Printf("[WARN] external model %s failed: %v", ext.Name, err)
			}
			continue
		}
		forecasts[ext.Name] = series
	}

	// Stage 5: persist forecasts, export inputs for the external environment.
	testDates := test.Dates()
	for name, series := range forecasts {
		dates := testDates[horizon-len(series.Values):]
		if err := artifact.WriteForecast(artifact.ForecastPath(dir, name), series, dates); err != nil {
			log.Printf("[ERROR] write forecast %s: %v", name, err)
		}
	}
	if garchForecast != nil {
		if err := artifact.ExportExternalInputs(filepath.Join(dir, "export"), test, garchForecast); err != nil {
			log.Printf("[ERROR] export external inputs: %v", err)
		}
	}

	// Stage 6: evaluation per target, merged into one table.
	res, err := r.evaluateAll(test, forecasts, expected)
	if err != nil {
		return err
	}
	if err := artifact.WriteMetrics(filepath.Join(dir, "metrics.csv"), &res.Table); err != nil {
		return err
	}

	snap := &recorder.RunSnapshot{
		Symbol:    cfg.DataSource.Symbol,
		Rows:      features.Len(),
		TrainRows: train.Len(),
		Horizon:   horizon,
		Metrics:   &res.Table,
		Aligned:   res.Aligned,
		Dates:     testDates,
	}
	if err := r.Recorder.RecordRun(snap); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}

	text := report.FormatRun(cfg.DataSource.Symbol, horizon, res)
	log.Printf("[INFO] run complete\n%s", text)
	if err := r.Notifier.Send(r.Ctx, text); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
	return nil
}

// buildAdapters assembles the enabled in-process adapters that can run
// concurrently (GARCH has already completed by the time these start).
func (r *Runner) buildAdapters(garchInSample, garchForecast []float64) []forecast.Forecaster {
	cfg := r.Config
	var adapters []forecast.Forecaster
	if cfg.Models.ARIMAX {
		adapters = append(adapters, forecast.NewARIMAX())
	}
	if cfg.Models.Prophet {
		adapters = append(adapters, forecast.NewProphet())
	}
	if cfg.Models.VAR {
		adapters = append(adapters, forecast.NewVAR())
	}
	if cfg.Models.XGBoost.Enabled {
		if garchInSample == nil {
			log.Printf("[WARN] model xgboost skipped: garch volatility unavailable")
		} else {
			adapters = append(adapters, forecast.NewBoostedTrees(garchInSample, garchForecast, cfg.Models.XGBoost.LogVolume))
		}
	}
	return adapters
}

// runAdapters fits the independent adapters concurrently, each on its own
// read-only view of the split and an optional per-adapter timeout. A failed
// adapter is logged and left out of the forecast map; it must never abort
// the run.
func (r *Runner) runAdapters(adapters []forecast.Forecaster, train, test *model.FeatureTable, forecasts map[string]model.ForecastSeries) {
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, adapter := range adapters {
		wg.Add(1)
		go func(f forecast.Forecaster) {
			defer wg.Done()
			ctx := r.Ctx
			if r.Config.Benchmark.AdapterTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, r.Config.Benchmark.AdapterTimeout)
				defer cancel()
			}
			start := time.Now()
			series, err := f.FitAndForecast(ctx, train, test)
			if err != nil {
				log.Printf("[WARN] model %s failed: %v", f.Name(), err)
				return
			}
			log.Printf("[INFO] model %s fitted in %v", f.Name(), time.Since(start).Round(time.Millisecond))
			mu.Lock()
			forecasts[f.Name()] = series
			mu.Unlock()
		}(adapter)
	}
	wg.Wait()
}

// expectedByTarget lists the model names each target's evaluation should see,
// from configuration. A model that failed to produce a forecast shows up as
// missing rather than silently disappearing.
func (r *Runner) expectedByTarget() map[model.Target][]string {
	cfg := r.Config
	expected := make(map[model.Target][]string)
	if cfg.Models.ARIMAX {
		expected[model.TargetPrice] = append(expected[model.TargetPrice], "arimax")
	}
	if cfg.Models.Prophet {
		expected[model.TargetPrice] = append(expected[model.TargetPrice], "prophet")
	}
	if cfg.Models.XGBoost.Enabled {
		expected[model.TargetPrice] = append(expected[model.TargetPrice], "xgboost")
	}
	for _, ext := range cfg.Models.External {
		expected[model.TargetPrice] = append(expected[model.TargetPrice], ext.Name)
	}
	if cfg.Models.VAR {
		expected[model.TargetReturn] = append(expected[model.TargetReturn], "var")
	}
	if cfg.Models.GARCH {
		expected[model.TargetVolatility] = append(expected[model.TargetVolatility], "garch")
	}
	return expected
}

// evaluateAll scores each target group against its own actual series: close
// prices for price models, log returns for VAR, realized absolute returns
// for GARCH volatility.
func (r *Runner) evaluateAll(test *model.FeatureTable, forecasts map[string]model.ForecastSeries, expected map[model.Target][]string) (*evaluate.Result, error) {
	actualsFor := func(target model.Target) []float64 {
		switch target {
		case model.TargetReturn:
			return test.LogReturns()
		case model.TargetVolatility:
			rets := test.LogReturns()
			abs := make([]float64, len(rets))
			for i, v := range rets {
				if v < 0 {
					v = -v
				}
				abs[i] = v
			}
			return abs
		default:
			return test.Closes()
		}
	}

	var results []*evaluate.Result
	for _, target := range []model.Target{model.TargetPrice, model.TargetReturn, model.TargetVolatility} {
		group := make(map[string]model.ForecastSeries)
		for name, series := range forecasts {
			if series.Target == target {
				group[name] = series
			}
		}
		if len(group) == 0 && len(expected[target]) == 0 {
			continue
		}
		res, err := evaluate.Evaluate(actualsFor(target), group, expected[target])
		if err != nil {
			return nil, fmt.Errorf("evaluate %s models: %w", target, err)
		}
		results = append(results, res)
	}
	return evaluate.Merge(results...), nil
}
