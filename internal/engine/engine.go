// Package engine drives a level at a fixed simulation rate.
package engine

import (
	"context"
	"time"

	"Mistborn/internal/config"
	"Mistborn/internal/logger"

	"go.uber.org/zap"
)

// DefaultFrameInterval caps the outer loop at 144 frames per second.
const DefaultFrameInterval = time.Second / 144

// Stepper advances the simulation by one fixed tick.
type Stepper interface {
	Step(dt float32)
}

// Engine accumulates variable frame time and spends it in fixed ticks.
type Engine struct {
	FixedDelta float32
	// MaxSteps bounds the ticks run in one frame. Time beyond that is dropped.
	MaxSteps int
	// FrameInterval throttles Run. Zero runs frames back to back.
	FrameInterval time.Duration
	// OnFrame, if set, runs after every frame with the ticks it ran.
	OnFrame func(ticks int)

	stepper     Stepper
	accumulator float32
	ticks       int
	dropped     int
}

func NewEngine(stepper Stepper, t config.PhysicsTuning) *Engine {
	return &Engine{
		FixedDelta:    t.FixedDelta,
		MaxSteps:      t.MaxSteps,
		FrameInterval: DefaultFrameInterval,
		stepper:       stepper,
	}
}

// Ticks is the total number of fixed ticks run.
func (e *Engine) Ticks() int {
	return e.ticks
}

// Dropped counts frames that hit MaxSteps and discarded time.
func (e *Engine) Dropped() int {
	return e.dropped
}

// Advance adds frameDelta seconds and runs as many fixed ticks as fit.
func (e *Engine) Advance(frameDelta float32) int {
	if frameDelta < 0 {
		frameDelta = 0
	}
	e.accumulator += frameDelta

	n := 0
	for e.accumulator >= e.FixedDelta && n < e.MaxSteps {
		e.stepper.Step(e.FixedDelta)
		e.accumulator -= e.FixedDelta
		e.ticks++
		n++
	}
	if e.accumulator >= e.FixedDelta {
		e.dropped++
		logger.Log.Debug("Frame over budget, dropping time",
			zap.Float32("dropped", e.accumulator),
			zap.Int("ticks", n))
		e.accumulator = 0
	}
	return n
}

// RunTicks runs exactly n fixed ticks without a clock.
func (e *Engine) RunTicks(n int) {
	for i := 0; i < n; i++ {
		e.stepper.Step(e.FixedDelta)
		e.ticks++
		if e.OnFrame != nil {
			e.OnFrame(1)
		}
	}
}

// Run loops until ctx is done or poll returns false. clock returns the
// current time in seconds; poll runs once per frame before ticking.
func (e *Engine) Run(ctx context.Context, clock func() float64, poll func() bool) error {
	var throttle <-chan time.Time
	if e.FrameInterval > 0 {
		ticker := time.NewTicker(e.FrameInterval)
		defer ticker.Stop()
		throttle = ticker.C
	}

	logger.Log.Info("Engine running",
		zap.Float32("fixedDelta", e.FixedDelta),
		zap.Int("maxSteps", e.MaxSteps))

	last := clock()
	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("Engine stopped", zap.Int("ticks", e.ticks))
			return ctx.Err()
		default:
		}
		if poll != nil && !poll() {
			logger.Log.Info("Engine stopped", zap.Int("ticks", e.ticks))
			return nil
		}

		now := clock()
		n := e.Advance(float32(now - last))
		last = now
		if e.OnFrame != nil {
			e.OnFrame(n)
		}

		if throttle != nil {
			select {
			case <-ctx.Done():
			case <-throttle:
			}
		}
	}
}
