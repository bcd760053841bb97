package judge

import (
	"fmt"
	"log/slog"
	"time"

	"git.lost.host/meutraa/eotw/internal/clock"
	"git.lost.host/meutraa/eotw/internal/config"
	"git.lost.host/meutraa/eotw/internal/game"
)

// Loader produces a fresh chart for a session. Notes are never reused
// across sessions, so every reset calls it again.
type Loader func() (*game.Chart, error)

type EngineConfig struct {
	Clock    clock.Clock
	Load     Loader
	Windows  config.Windows
	Listener Listener

	// Proxies is optional; notes are tracked without a proxy when nil.
	Proxies ProxyFactory
	Logger  *slog.Logger
}

// Engine runs one session: it spawns notes from the chart as they come
// into range, resolves presses and sweeps misses, once per Update.
type Engine struct {
	cfg     EngineConfig
	log     *slog.Logger
	chart   *game.Chart
	tracker *Tracker
	judge   *Judge
	now     time.Duration
	swept   int
}

func NewEngine(cfg EngineConfig) (*Engine, error) {
	if nil == cfg.Clock || nil == cfg.Load || nil == cfg.Listener {
		return nil, fmt.Errorf("engine needs a clock, a loader and a listener")
	}
	if err := cfg.Windows.Validate(); nil != err {
		return nil, err
	}
	if nil == cfg.Logger {
		cfg.Logger = slog.Default()
	}
	e := &Engine{cfg: cfg, log: cfg.Logger}
	if err := e.Reset(); nil != err {
		return nil, err
	}
	return e, nil
}

// Reset discards all session state and reloads the chart.
func (e *Engine) Reset() error {
	chart, err := e.cfg.Load()
	if nil != err {
		return fmt.Errorf("unable to load chart: %w", err)
	}
	if nil == chart {
		chart = game.NewChart("", 0, nil)
	}
	if len(chart.Notes) == 0 {
		e.log.Warn("event stream is empty, session has no notes", "difficulty", chart.Difficulty)
	}
	e.chart = chart
	e.tracker = NewTracker(e.cfg.Listener, e.log)
	e.judge = New(e.tracker, e.cfg.Windows, e.log)
	e.now = 0
	e.swept = 0
	return nil
}

// Update runs one tick. The clock is read exactly once and that sample
// drives spawning, press resolution and the sweep, in that order.
func (e *Engine) Update(presses []int) []Outcome {
	now := e.cfg.Clock.Position()
	e.now = now

	for _, note := range e.chart.Spawn(now, e.cfg.Windows.Lookahead) {
		var proxy Proxy
		if nil != e.cfg.Proxies {
			proxy = e.cfg.Proxies.Spawn(note)
		}
		e.tracker.Register(note, proxy)
	}

	outcomes := e.judge.Resolve(now, presses)
	e.swept = e.judge.Sweep(now)
	e.chart.Advance()
	return outcomes
}

// Unregister forwards a proxy disposal from the rendering layer.
func (e *Engine) Unregister(proxy Proxy) bool {
	return e.tracker.Unregister(proxy)
}

// Finished reports whether every note of the chart reached a terminal
// state.
func (e *Engine) Finished() bool {
	return e.chart.Exhausted() && e.tracker.Len() == 0
}

// Swept is the number of notes the last Update evicted.
func (e *Engine) Swept() int { return e.swept }

func (e *Engine) Now() time.Duration { return e.now }
func (e *Engine) Chart() *game.Chart { return e.chart }
func (e *Engine) Tracker() *Tracker  { return e.tracker }
func (e *Engine) Judge() *Judge      { return e.judge }
