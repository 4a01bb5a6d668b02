// Package render owns the animation loop: it turns the station registry into
// LED frames at a fixed cadence and drives the optional secondary display.
package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/metar-map/internal/domain"
	"github.com/couchcryptid/metar-map/internal/observability"
)

// PixelSink is an addressable strip: buffered pixel writes plus an atomic
// flush. A frame is never observable half-written because writes only take
// effect at Show.
type PixelSink interface {
	SetPixel(index int, c domain.Color)
	Show() error
}

// Display renders one station's detail screen. A nil condition means the
// station has no data this run.
type Display interface {
	Render(stationID string, cond *domain.StationCondition) error
}

// Options are the scheduler's fixed-per-run settings.
type Options struct {
	Params          domain.AnimationParams
	Palette         domain.Palette
	LegendEnabled   bool
	LegendOffset    int
	DisplayEnabled  bool
	BlinkSpeed      time.Duration
	TotalBlinkTime  time.Duration
	DisplayRotation time.Duration
}

// Scheduler runs the tick loop. It owns the frame buffer and the display
// rotation state exclusively; everything here happens on one goroutine.
type Scheduler struct {
	registry *domain.Registry
	sink     PixelSink
	display  Display
	opts     Options
	clock    clockwork.Clock
	logger   *slog.Logger
	metrics  *observability.Metrics
	ready    atomic.Bool

	// windCycle starts true and is toggled before each frame, so the first
	// rendered frame sees false: lightning flashes on tick 1 and wind
	// effects start on tick 2. The alternation keeps the two effects on
	// opposite phases for the whole run.
	windCycle      bool
	displayElapsed time.Duration
	displayIndex   int
}

// New creates a Scheduler. display may be nil when the secondary display is
// disabled.
func New(reg *domain.Registry, sink PixelSink, display Display, opts Options, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Scheduler {
	return &Scheduler{
		registry:  reg,
		sink:      sink,
		display:   display,
		opts:      opts,
		clock:     clock,
		logger:    logger.With("component", "render"),
		metrics:   metrics,
		windCycle: true,
	}
}

// CheckReadiness returns nil once the first frame has been flushed.
func (s *Scheduler) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("no frame rendered yet")
	}
	return nil
}

// TickBudget is the number of frames this run will render: the blink total
// divided by the tick length when anything animates, otherwise a single
// static frame.
func (s *Scheduler) TickBudget() int {
	animated := s.opts.Params.WindAnimation || s.opts.Params.LightningAnimation || s.opts.DisplayEnabled
	if !animated {
		return 1
	}
	ticks := int(math.Ceil(s.opts.TotalBlinkTime.Seconds() / s.opts.BlinkSpeed.Seconds()))
	if ticks < 1 {
		return 1
	}
	return ticks
}

// Run renders the full tick budget and returns. Cancelling the context stops
// the loop at the next tick boundary; a frame is always computed and flushed
// whole or not at all.
func (s *Scheduler) Run(ctx context.Context) error {
	ticks := s.TickBudget()
	s.logger.Info("render loop started",
		"ticks", ticks,
		"slots", len(s.registry.Slots()),
		"blink_speed", s.opts.BlinkSpeed,
	)
	s.metrics.RenderRunning.Set(1)
	defer s.metrics.RenderRunning.Set(0)

	for remaining := ticks; remaining > 0; remaining-- {
		if ctx.Err() != nil {
			s.logger.Info("render loop stopping", "reason", ctx.Err())
			return nil
		}

		s.windCycle = !s.windCycle

		start := s.clock.Now()
		s.renderFrame()
		if err := s.sink.Show(); err != nil {
			return fmt.Errorf("flush frame: %w", err)
		}
		s.metrics.TicksTotal.Inc()
		s.metrics.FrameDuration.Observe(s.clock.Since(start).Seconds())
		s.ready.Store(true)

		s.rotateDisplay()

		if !s.sleep(ctx) {
			s.logger.Info("render loop stopping", "reason", ctx.Err())
			return nil
		}
	}

	s.logger.Info("render loop done", "ticks", ticks)
	return nil
}

// renderFrame computes every slot's color for the current phase and buffers
// the writes. Nothing reaches the strip until Show.
func (s *Scheduler) renderFrame() {
	for _, slot := range s.registry.Slots() {
		cond, _ := s.registry.Condition(slot.StationID)
		color, flags := domain.Decide(cond, s.windCycle, s.opts.Params, s.opts.Palette)
		s.logger.Debug("pixel",
			"led", slot.Index,
			"station", slot.StationID,
			"category", cond.FlightCategory.String(),
			"windy", flags.Windy,
			"high_winds", flags.HighWinds,
			"lightning", flags.Lightning,
		)
		s.sink.SetPixel(slot.Index, color)
	}

	if s.opts.LegendEnabled {
		s.renderLegend(len(s.registry.Slots()) + s.opts.LegendOffset)
	}
}

// renderLegend writes the fixed swatches after the last station LED. The
// animated swatches follow the same phase as the stations so the legend
// demonstrates what a blinking station looks like.
func (s *Scheduler) renderLegend(start int) {
	pal := s.opts.Palette
	s.sink.SetPixel(start, pal.VFR)
	s.sink.SetPixel(start+1, pal.MVFR)
	s.sink.SetPixel(start+2, pal.IFR)
	s.sink.SetPixel(start+3, pal.LIFR)

	if s.opts.Params.LightningAnimation {
		c := pal.VFR
		if s.windCycle {
			c = pal.Lightning
		}
		s.sink.SetPixel(start+4, c)
	}
	if s.opts.Params.WindAnimation {
		c := pal.VFR
		if s.windCycle {
			c = pal.Clear
			if s.opts.Params.FadeInsteadOfBlink {
				c = pal.VFRFade
			}
		}
		s.sink.SetPixel(start+5, c)

		if s.opts.Params.HighWindsThreshold != domain.HighWindsDisabled {
			c := pal.VFR
			if s.windCycle {
				c = pal.HighWinds
			}
			s.sink.SetPixel(start+6, c)
		}
	}
}

// rotateDisplay re-renders the current station until its dwell time is
// spent, then advances to the next eligible station, wrapping at the end.
// The rotation clock is independent of the wind cycle.
func (s *Scheduler) rotateDisplay() {
	if s.display == nil || !s.opts.DisplayEnabled {
		return
	}
	stations := s.registry.DisplayStations()
	if len(stations) == 0 {
		return
	}

	if s.displayElapsed <= s.opts.DisplayRotation {
		id := stations[s.displayIndex]
		var cond *domain.StationCondition
		if c, ok := s.registry.Condition(id); ok {
			cond = &c
		}
		if err := s.display.Render(id, cond); err != nil {
			s.logger.Warn("display render failed", "station", id, "error", err)
		}
		s.displayElapsed += s.opts.BlinkSpeed
		return
	}

	s.displayElapsed = 0
	s.displayIndex++
	if s.displayIndex >= len(stations) {
		s.displayIndex = 0
	}
	s.logger.Debug("rotating display", "station", stations[s.displayIndex])
}

func (s *Scheduler) sleep(ctx context.Context) bool {
	timer := s.clock.NewTimer(s.opts.BlinkSpeed)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}
