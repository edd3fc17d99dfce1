// Package monitor runs the background threshold check. Each cycle reloads the
// positions, prices them through the shared aggregator and raises an alert for
// every position whose change percent is at or below its threshold.
package monitor

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/ndewijer/portfolio-monitor/internal/metrics"
	"github.com/ndewijer/portfolio-monitor/internal/model"
	"github.com/ndewijer/portfolio-monitor/internal/service"
	"github.com/ndewijer/portfolio-monitor/internal/yahoo"
)

// DefaultInterval is the pause between cycles when none is configured.
const DefaultInterval = time.Hour

// PositionLoader supplies the current position list at the start of a cycle.
type PositionLoader interface {
	Load(ctx context.Context) ([]model.Position, error)
}

// AlertRecorder stores raised alerts with their delivery outcome.
type AlertRecorder interface {
	InsertAlert(ctx context.Context, alert model.Alert, delivered bool) error
}

// Config holds the monitor settings.
type Config struct {
	Interval time.Duration
	// SuppressRepeats alerts once per breach instead of every cycle. The flag
	// for a position is cleared when it recovers above its threshold.
	SuppressRepeats bool
}

// CycleResult describes one completed cycle.
type CycleResult struct {
	Positions      int
	Fallbacks      int
	Alerts         []model.Alert
	Suppressed     int
	NotifyFailures int
}

// Monitor periodically evaluates position thresholds.
type Monitor struct {
	positions  PositionLoader
	aggregator *service.Aggregator
	notifier   Notifier
	recorder   AlertRecorder
	cfg        Config
	log        zerolog.Logger
	now        func() time.Time

	mu       sync.Mutex
	breached map[string]bool
}

// New creates a Monitor. recorder may be nil, in which case alerts are only
// delivered and not logged to the alert table.
//
// Parameters:
//   - positions: Source of the position list, reloaded every cycle
//   - aggregator: Shared quote aggregator
//   - notifier: Alert delivery
//   - recorder: Optional alert log
//   - cfg: Interval and suppression settings
//   - log: Parent logger
func New(
	positions PositionLoader,
	aggregator *service.Aggregator,
	notifier Notifier,
	recorder AlertRecorder,
	cfg Config,
	log zerolog.Logger,
) *Monitor {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	return &Monitor{
		positions:  positions,
		aggregator: aggregator,
		notifier:   notifier,
		recorder:   recorder,
		cfg:        cfg,
		log:        log.With().Str("component", "monitor").Logger(),
		now:        time.Now,
		breached:   make(map[string]bool),
	}
}

// Run executes one cycle immediately and then one per interval until ctx is
// canceled. Cycles never overlap: a tick that arrives while a cycle is still
// running is skipped. Run returns ctx.Err() after the running cycle finished.
func (m *Monitor) Run(ctx context.Context) error {
	m.log.Info().Dur("interval", m.cfg.Interval).Msg("Monitor started")

	m.runLogged(ctx)

	logger := cronLogger{log: m.log}
	c := cron.New(cron.WithChain(
		cron.Recover(logger),
		cron.SkipIfStillRunning(logger),
	))
	c.Schedule(cron.Every(m.cfg.Interval), cron.FuncJob(func() {
		m.runLogged(ctx)
	}))
	c.Start()

	<-ctx.Done()

	<-c.Stop().Done()
	m.log.Info().Msg("Monitor stopped")
	return ctx.Err()
}

func (m *Monitor) runLogged(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	// Errors are logged inside RunCycle; the next tick retries.
	_, _ = m.RunCycle(ctx)
}

// RunCycle performs a single load, fetch, evaluate and alert pass.
//
// A store failure aborts the cycle and is returned. Quote failures only
// degrade the affected positions, which then cannot alert. Delivery failures
// are logged and counted in the result.
func (m *Monitor) RunCycle(ctx context.Context) (CycleResult, error) {
	start := m.now()

	positions, err := m.positions.Load(ctx)
	if err != nil {
		metrics.MonitorCycles.WithLabelValues("error").Inc()
		m.log.Error().Err(err).Msg("Failed to load positions")
		return CycleResult{}, fmt.Errorf("monitor cycle: %w", err)
	}

	snapshots := m.aggregator.FetchAll(ctx, positions)

	result := CycleResult{Positions: len(snapshots)}
	for _, s := range snapshots {
		if !s.QuoteAvailable {
			result.Fallbacks++
		}
	}

	alerts := Evaluate(snapshots, start)
	if m.cfg.SuppressRepeats {
		var suppressed int
		alerts, suppressed = m.filterRepeats(snapshots, alerts)
		result.Suppressed = suppressed
	}

	for _, alert := range alerts {
		delivered := m.deliver(ctx, alert)
		if !delivered {
			result.NotifyFailures++
		}
		m.record(ctx, alert, delivered)
	}
	result.Alerts = alerts

	metrics.MonitorCycles.WithLabelValues("ok").Inc()
	m.log.Info().
		Int("positions", result.Positions).
		Int("fallbacks", result.Fallbacks).
		Int("alerts", len(result.Alerts)).
		Int("suppressed", result.Suppressed).
		Dur("duration", m.now().Sub(start)).
		Msg("Monitor cycle completed")

	return result, nil
}

// Evaluate returns one alert per snapshot whose change percent is at or below
// its threshold. Snapshots priced with the fallback never alert.
func Evaluate(snapshots []model.PositionSnapshot, raisedAt time.Time) []model.Alert {
	var alerts []model.Alert
	for _, s := range snapshots {
		if !Breached(s) {
			continue
		}
		alerts = append(alerts, model.Alert{
			ID:               uuid.New().String(),
			PositionID:       s.PositionID,
			Symbol:           s.Symbol,
			CurrentPrice:     s.CurrentPrice,
			ChangePercent:    s.ChangePercent,
			ThresholdPercent: s.ThresholdPercent,
			RaisedAt:         raisedAt,
			Subject:          AlertSubject(s.Symbol),
			Body:             AlertBody(s.Symbol, s.CurrentPrice, s.ThresholdPercent),
		})
	}
	return alerts
}

// Breached reports whether a snapshot is at or below its threshold.
func Breached(s model.PositionSnapshot) bool {
	return s.QuoteAvailable && s.ChangePercent <= s.ThresholdPercent
}

// AlertSubject formats the alert subject line.
func AlertSubject(symbol string) string {
	return fmt.Sprintf("Stock Alert: %s has dropped below your threshold", symbol)
}

// AlertBody formats the alert message.
func AlertBody(symbol string, price, threshold float64) string {
	return fmt.Sprintf(
		"The stock %s has dropped to %s, which is below your threshold of %s%%. Please review your portfolio.",
		symbol, formatNumber(price), formatNumber(threshold),
	)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// breachKey identifies a position across cycles. Ids are renumbered on
// delete, so the key is built from what decides a breach instead.
func (m *Monitor) breachKey(s model.PositionSnapshot) string {
	return fmt.Sprintf("%s|%s|%s",
		yahoo.NormalizeSymbol(s.Symbol, m.aggregator.MarketSuffix()),
		formatNumber(s.PurchasePrice),
		formatNumber(s.ThresholdPercent),
	)
}

// filterRepeats drops alerts for positions that already alerted during the
// current breach and clears the flag for positions that recovered.
// Positions with a fallback price keep their flag.
func (m *Monitor) filterRepeats(snapshots []model.PositionSnapshot, alerts []model.Alert) ([]model.Alert, int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make(map[int]string, len(snapshots))
	stillBreached := make(map[string]bool)
	recovered := make(map[string]bool)
	for _, s := range snapshots {
		key := m.breachKey(s)
		keys[s.PositionID] = key
		switch {
		case Breached(s):
			stillBreached[key] = true
		case s.QuoteAvailable:
			recovered[key] = true
		}
	}
	for key := range recovered {
		if !stillBreached[key] {
			delete(m.breached, key)
		}
	}

	kept := alerts[:0]
	suppressed := 0
	for _, a := range alerts {
		key := keys[a.PositionID]
		if m.breached[key] {
			suppressed++
			continue
		}
		m.breached[key] = true
		kept = append(kept, a)
	}
	return kept, suppressed
}

func (m *Monitor) deliver(ctx context.Context, alert model.Alert) bool {
	metrics.AlertsRaised.Inc()

	if err := m.notifier.Notify(ctx, alert.Subject, alert.Body); err != nil {
		metrics.NotifyFailures.Inc()
		m.log.Error().
			Err(err).
			Str("alert_id", alert.ID).
			Str("symbol", alert.Symbol).
			Msg("Failed to deliver alert")
		return false
	}
	return true
}

func (m *Monitor) record(ctx context.Context, alert model.Alert, delivered bool) {
	if m.recorder == nil {
		return
	}
	if err := m.recorder.InsertAlert(ctx, alert, delivered); err != nil {
		m.log.Error().
			Err(err).
			Str("alert_id", alert.ID).
			Msg("Failed to record alert")
	}
}

// cronLogger adapts zerolog to the cron.Logger interface.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
