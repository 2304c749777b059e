package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"Mistborn/internal/config"
	"Mistborn/internal/engine"
	"Mistborn/internal/input"
	"Mistborn/internal/input/glfwinput"
	"Mistborn/internal/logger"
	"Mistborn/internal/scene"
	"Mistborn/levels"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	// Registers triggerable scripts via init()
	_ "Mistborn/scripts"
)

func main() {
	levelPath := flag.String("level", "courtyard.yaml", "level file, read from disk or the built in levels")
	tuningPath := flag.String("tuning", "", "tuning file; the built in tuning.yaml when empty")
	ticks := flag.Int("ticks", 500, "fixed ticks to run headless")
	window := flag.Bool("window", false, "open a window and play with keyboard and mouse")
	watch := flag.Bool("watch", false, "reload the tuning file when it changes")
	every := flag.Int("log-every", 50, "log a snapshot every n ticks, 0 disables")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	logger.Init()
	if *debug {
		if err := logger.SetLevel(zapcore.DebugLevel); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
	defer logger.Sync()

	if err := run(*levelPath, *tuningPath, *ticks, *window, *watch, *every); err != nil && !errors.Is(err, context.Canceled) {
		logger.Log.Error("Mistborn exited", zap.Error(err))
		os.Exit(1)
	}
}

func run(levelPath, tuningPath string, ticks int, windowed, watch bool, every int) error {
	tuning, err := loadTuning(tuningPath)
	if err != nil {
		return err
	}
	data, err := readSource(levelPath)
	if err != nil {
		return err
	}
	spec, err := scene.ParseLevel(data)
	if err != nil {
		return err
	}

	actions := input.NewActionMap()
	level, err := scene.NewLevel(spec, tuning, actions)
	if err != nil {
		return err
	}

	var reloader *config.Reloader
	if watch {
		if tuningPath == "" {
			return errors.New("-watch needs -tuning")
		}
		reloader, err = config.NewReloader(tuningPath, level.SetTuning)
		if err != nil {
			return err
		}
		defer reloader.Close()
	}

	eng := engine.NewEngine(level, tuning.Physics)
	eng.OnFrame = func(n int) {
		if reloader != nil {
			reloader.Poll()
		}
		if n > 0 && every > 0 && level.Ticks()%every == 0 {
			logger.Log.Info("Snapshot", zap.Stringer("state", level.Snapshot()))
		}
	}

	if !windowed {
		eng.RunTicks(ticks)
		logger.Log.Info("Finished", zap.Stringer("state", level.Snapshot()), zap.Int("restarts", level.Restarts()))
		return nil
	}

	win, err := glfwinput.OpenWindow(1280, 720, "Mistborn - "+spec.Name)
	if err != nil {
		return err
	}
	defer win.Close()
	src := glfwinput.NewSource(actions, glfwinput.DefaultBindings())
	src.Attach(win.Window)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	return eng.Run(ctx, glfw.GetTime, func() bool {
		open := win.Poll()
		src.Flush()
		if !open {
			logger.Log.Info("Window closed", zap.Duration("played", time.Since(start)))
		}
		return open
	})
}

func loadTuning(path string) (config.Tuning, error) {
	if path != "" {
		return config.Load(path)
	}
	data, err := levels.Load("tuning.yaml")
	if err != nil {
		return config.Default(), nil
	}
	return config.Parse(data)
}

// readSource prefers a file on disk and falls back to the built in levels.
func readSource(path string) ([]byte, error) {
	if data, err := os.ReadFile(path); err == nil {
		return data, nil
	}
	data, err := levels.Load(path)
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", path, err)
	}
	return data, nil
}
