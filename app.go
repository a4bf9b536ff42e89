package main

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/olivier-w/glowgrid/internal/analyser"
	"github.com/olivier-w/glowgrid/internal/config"
	"github.com/olivier-w/glowgrid/internal/grid"
	"github.com/olivier-w/glowgrid/internal/loop"
	"github.com/olivier-w/glowgrid/internal/media"
	"github.com/olivier-w/glowgrid/internal/monitor"
	"github.com/olivier-w/glowgrid/internal/source"
	"github.com/olivier-w/glowgrid/internal/ui"
)

// app owns the pipeline pieces shared by the TUI and headless modes:
// source -> tee(analyser, monitor) and the grid layout the loop runs with.
type app struct {
	cfg    *config.Config
	layout grid.Config
	log    *slog.Logger

	src   source.Source
	tap   *analyser.Analyser
	out   *monitor.Output
	label string

	mu  sync.Mutex
	sig source.Signal
	lp  *loop.Loop
}

func newApp(cfg *config.Config, log *slog.Logger) (*app, error) {
	layout, err := cfg.Grid()
	if err != nil {
		return nil, err
	}
	tap, err := analyser.New(analyser.Options{
		WindowSize: layout.WindowSize(),
		Smoothing:  cfg.Smoothing,
	})
	if err != nil {
		return nil, err
	}
	sopts, err := cfg.SourceOptions(log)
	if err != nil {
		return nil, err
	}
	src, err := source.New(sopts)
	if err != nil {
		return nil, fmt.Errorf("create source: %w", err)
	}

	a := &app{
		cfg:    cfg,
		layout: layout,
		log:    log,
		src:    src,
		tap:    tap,
		label:  sourceLabel(cfg),
	}
	if cfg.Monitor.Enabled {
		out, err := monitor.New(cfg.Source.SampleRate, cfg.Monitor.Volume)
		if err != nil {
			// Monitoring is optional; the grid still runs without it.
			log.Warn("monitor unavailable", "err", err)
		} else {
			a.out = out
		}
	}
	return a, nil
}

func sourceLabel(cfg *config.Config) string {
	kind, err := source.ParseKind(cfg.Source.Kind)
	if err != nil {
		return cfg.Source.Kind
	}
	switch kind {
	case source.KindTone:
		return fmt.Sprintf("tone %g Hz", cfg.Source.ToneHz)
	case source.KindFile:
		return media.ReadMetadata(cfg.Source.File).Display()
	}
	return kind.String()
}

// acquire starts acquisition and returns a channel that receives the single
// result.
func (a *app) acquire() <-chan acquiredMsg {
	results := make(chan acquiredMsg, 1)
	a.src.Acquire(func(sig source.Signal, err error) {
		results <- acquiredMsg{sig: sig, err: err}
	})
	return results
}

// attach wires an acquired signal into the analyser and, when enabled, the
// monitor.
func (a *app) attach(sig source.Signal) error {
	writers := source.Tee{a.tap}
	if a.out != nil {
		writers = append(writers, a.out)
	}
	if err := sig.Connect(writers); err != nil {
		sig.Close()
		return fmt.Errorf("connect signal: %w", err)
	}

	a.mu.Lock()
	a.sig = sig
	a.mu.Unlock()
	a.log.Info("source acquired", "kind", a.src.Kind(), "rate", sig.SampleRate())
	return nil
}

func (a *app) reportAcquireError(err error) {
	var ae *source.AcquireError
	name := source.NameAbort
	if errors.As(err, &ae) {
		name = ae.Name
	}
	a.log.Error("acquire source", "kind", a.src.Kind(), "name", name, "err", err)
}

func (a *app) newLoop(sched loop.Scheduler) *loop.Loop {
	lp := loop.New(grid.NewSynthesizer(a.layout), a.tap, sched, loop.WithLogger(a.log))
	a.mu.Lock()
	a.lp = lp
	a.mu.Unlock()
	return lp
}

// gridModel builds the TUI model painting the loop's grids.
func (a *app) gridModel() ui.Model {
	sched := ui.NewFrameScheduler(a.cfg.FPS)
	lp := a.newLoop(sched)
	var mon ui.Monitor
	if a.out != nil {
		mon = a.out
	}
	return ui.New(lp, sched, a.layout.PointCount(), a.label, mon)
}

func (a *app) close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.lp != nil {
		a.lp.Stop()
	}
	var errs []error
	if a.sig != nil {
		errs = append(errs, a.sig.Close())
	}
	if a.out != nil {
		errs = append(errs, a.out.Close())
	}
	return errors.Join(errs...)
}
