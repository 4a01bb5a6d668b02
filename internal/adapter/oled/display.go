// Package oled renders per-station METAR detail on an SSD1306 over I2C.
package oled

import (
	"fmt"
	"image"
	"log/slog"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/couchcryptid/metar-map/internal/domain"
)

const lineHeight = 13 // basicfont.Face7x13

// Display drives a 128x64 SSD1306 panel.
type Display struct {
	dev    *ssd1306.Dev
	bus    i2c.BusCloser
	logger *slog.Logger
}

// New initializes the host, opens the I2C bus (empty name selects the first
// one), and probes the panel.
func New(busName string, logger *slog.Logger) (*Display, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", busName, err)
	}
	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("probe ssd1306: %w", err)
	}
	return &Display{dev: dev, bus: bus, logger: logger.With("component", "oled")}, nil
}

// Render draws the station's detail screen. A nil condition renders the
// no-data screen.
func (d *Display) Render(stationID string, cond *domain.StationCondition) error {
	img := image1bit.NewVerticalLSB(d.dev.Bounds())
	drawer := font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}
	for i, line := range FormatCondition(stationID, cond) {
		drawer.Dot = fixed.P(0, (i+1)*lineHeight-3)
		drawer.DrawString(line)
	}
	if err := d.dev.Draw(d.dev.Bounds(), img, image.Point{}); err != nil {
		return fmt.Errorf("draw station %s: %w", stationID, err)
	}
	return nil
}

// Clear blanks the panel.
func (d *Display) Clear() error {
	return d.dev.Draw(d.dev.Bounds(), image1bit.NewVerticalLSB(d.dev.Bounds()), image.Point{})
}

// Close blanks the panel and releases the bus.
func (d *Display) Close() error {
	if err := d.Clear(); err != nil {
		d.logger.Warn("clear display on close", "error", err)
	}
	return d.bus.Close()
}

// FormatCondition condenses a station record into display lines, at most
// five of which fit the 64-pixel panel.
func FormatCondition(stationID string, cond *domain.StationCondition) []string {
	if cond == nil || cond.FlightCategory == domain.CategoryNone {
		return []string{stationID, "NO DATA"}
	}

	header := fmt.Sprintf("%s %s", stationID, cond.FlightCategory)
	if cond.Lightning {
		header += " LTG"
	}

	lines := []string{
		header,
		formatWind(cond),
		formatVisibility(cond),
		fmt.Sprintf("%d/%dC A%.2f", cond.TemperatureC, cond.DewpointC, cond.AltimeterInHg),
	}
	if sky := formatSky(cond.SkyConditions); sky != "" {
		lines = append(lines, sky)
	}
	return lines
}

func formatWind(cond *domain.StationCondition) string {
	if cond.WindSpeedKt == 0 && cond.WindGustKt == 0 {
		return "CALM"
	}
	dir := cond.WindDirection
	if dir == "" {
		dir = "VRB"
	}
	wind := fmt.Sprintf("%s@%dKT", dir, cond.WindSpeedKt)
	if cond.WindGustKt > 0 {
		wind = fmt.Sprintf("%s@%dG%dKT", dir, cond.WindSpeedKt, cond.WindGustKt)
	}
	return wind
}

func formatVisibility(cond *domain.StationCondition) string {
	vis := fmt.Sprintf("%dSM", cond.VisibilityMiles)
	if cond.WeatherString != "" {
		vis += " " + cond.WeatherString
	}
	return vis
}

// formatSky abbreviates cloud layers the METAR way: cover plus base in
// hundreds of feet, e.g. BKN025. Only the first two layers fit.
func formatSky(layers []domain.SkyCondition) string {
	if len(layers) > 2 {
		layers = layers[:2]
	}
	parts := make([]string, 0, len(layers))
	for _, l := range layers {
		if l.Cover == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s%03d", l.Cover, l.CloudBaseFt/100))
	}
	return strings.Join(parts, " ")
}
