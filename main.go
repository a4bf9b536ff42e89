package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/glowgrid/internal/config"
	"github.com/olivier-w/glowgrid/internal/media"
	"github.com/olivier-w/glowgrid/internal/source"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	cfg      *config.Config
	headless bool
	frames   int
}

// parseArgs loads the config file and applies flags on top of it. A single
// positional argument selects a file source.
func parseArgs(args []string) (options, error) {
	fs := flag.NewFlagSet("glowgrid", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a YAML config file")
	kind := fs.String("source", "", "sound source: tone, microphone or file")
	file := fs.String("file", "", "audio file for the file source")
	window := fs.Int("window", 0, "samples per analysis window")
	spp := fs.Int("spp", 0, "samples averaged into each grid column")
	fps := fs.Int("fps", 0, "frames per second")
	monitorOn := fs.Bool("monitor", false, "play the source through the speakers")
	headless := fs.Bool("headless", false, "log frame summaries instead of drawing")
	frames := fs.Int("frames", 0, "stop after this many frames (headless, 0 runs until interrupted)")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return options{}, err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "source":
			cfg.Source.Kind = *kind
		case "file":
			cfg.Source.File = *file
			cfg.Source.Kind = source.KindFile.String()
		case "window":
			cfg.WindowSize = *window
		case "spp":
			cfg.SamplesPerPoint = *spp
		case "fps":
			cfg.FPS = *fps
		case "monitor":
			cfg.Monitor.Enabled = *monitorOn
		}
	})
	switch fs.NArg() {
	case 0:
	case 1:
		cfg.Source.File = fs.Arg(0)
		cfg.Source.Kind = source.KindFile.String()
	default:
		return options{}, fmt.Errorf("expected at most one file argument, got %d", fs.NArg())
	}
	if *frames < 0 {
		return options{}, fmt.Errorf("frames must not be negative, got %d", *frames)
	}

	if err := cfg.Validate(); err != nil {
		return options{}, fmt.Errorf("config: %w", err)
	}
	if cfg.Source.Kind == source.KindFile.String() {
		if err := checkAudioFile(cfg.Source.File); err != nil {
			return options{}, err
		}
	}
	return options{cfg: cfg, headless: *headless, frames: *frames}, nil
}

func checkAudioFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	ext := filepath.Ext(path)
	if !media.IsSupportedExt(ext) {
		return fmt.Errorf("unsupported format %s (supported: %s)", ext, media.SupportedExtsList())
	}
	return nil
}

// newLogger builds the process logger. The terminal belongs to bubbletea in
// TUI mode, so logs are dropped there unless a file is configured.
func newLogger(cfg *config.Config, headless bool) (*slog.Logger, func() error, error) {
	lvl, err := cfg.Level()
	if err != nil {
		return nil, nil, err
	}

	var w io.Writer = io.Discard
	closeFn := func() error { return nil }
	if headless {
		w = os.Stderr
	}
	if cfg.Logging.File != "" {
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeFn = f.Close
	}

	hopts := &slog.HandlerOptions{Level: lvl}
	var h slog.Handler = slog.NewTextHandler(w, hopts)
	if cfg.Logging.JSON {
		h = slog.NewJSONHandler(w, hopts)
	}
	return slog.New(h), closeFn, nil
}

func run(args []string) error {
	opts, err := parseArgs(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	log, closeLog, err := newLogger(opts.cfg, opts.headless)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(log)

	a, err := newApp(opts.cfg, log)
	if err != nil {
		return err
	}
	defer a.close()

	if opts.headless {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runHeadless(ctx, a, opts.frames)
	}

	p := tea.NewProgram(newAcquireModel(a), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
