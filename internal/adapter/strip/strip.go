// Package strip provides pixel-sink implementations for the LED strip.
//
// Colors arrive in true RGB; the physical channel order (GRB on the usual
// WS2812 strips) is mapped to the driver's stripe type here, so the rest of
// the program never deals in reordered channels. Out-of-range pixel writes
// are dropped: a legend configured past the end of the strip degrades to a
// shorter legend instead of crashing mid-run.
package strip

import (
	"fmt"
	"log/slog"

	"github.com/couchcryptid/metar-map/internal/config"
	"github.com/couchcryptid/metar-map/internal/domain"
)

// New builds the configured sink. brightness is the startup brightness after
// the dimming decision, 0.0 to 1.0.
func New(cfg config.LEDConfig, brightness float64, logger *slog.Logger) (Sink, error) {
	switch cfg.Driver {
	case "ws281x":
		return newWS281x(cfg, brightness)
	case "console":
		return NewConsole(cfg.Count, logger), nil
	default:
		return nil, fmt.Errorf("unknown strip driver %q", cfg.Driver)
	}
}

// Sink is an addressable strip: buffered pixel writes plus an atomic flush.
type Sink interface {
	SetPixel(index int, c domain.Color)
	Show() error
	Close() error
}

// Console logs each flushed frame instead of driving hardware. It is the
// development driver and the shape the scheduler tests fake.
type Console struct {
	pixels []domain.Color
	logger *slog.Logger
}

// NewConsole creates a console sink with the given pixel count.
func NewConsole(count int, logger *slog.Logger) *Console {
	return &Console{
		pixels: make([]domain.Color, count),
		logger: logger.With("component", "strip"),
	}
}

// SetPixel buffers one pixel write. Writes outside the strip are dropped.
func (c *Console) SetPixel(index int, col domain.Color) {
	if index < 0 || index >= len(c.pixels) {
		return
	}
	c.pixels[index] = col
}

// Show logs the buffered frame.
func (c *Console) Show() error {
	frame := make([]string, len(c.pixels))
	for i, p := range c.pixels {
		frame[i] = fmt.Sprintf("#%02X%02X%02X", p.R, p.G, p.B)
	}
	c.logger.Debug("frame", "pixels", frame)
	return nil
}

// Close clears the buffer.
func (c *Console) Close() error {
	for i := range c.pixels {
		c.pixels[i] = domain.Color{}
	}
	return nil
}
