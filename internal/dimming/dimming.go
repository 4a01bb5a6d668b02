// Package dimming picks the strip brightness for a run. The decision is made
// once at startup, matching the run-per-timer process model: the next run
// re-evaluates it.
package dimming

import (
	"time"

	"github.com/nathan-osman/go-sunrise"

	"github.com/couchcryptid/metar-map/internal/config"
)

// Brightness returns the brightness for a run starting at now. With dimming
// disabled it is always the full configured brightness; otherwise the dim
// level applies outside the bright window, which is either the configured
// wall-clock window or the day's sunrise-to-sunset span at the configured
// coordinates.
func Brightness(cfg *config.Config, now time.Time) (float64, error) {
	if !cfg.Dimming.Enabled {
		return cfg.LEDs.Brightness, nil
	}

	var brightStart, dimStart time.Time
	if cfg.Dimming.UseSunriseSunset {
		rise, set := sunrise.SunriseSunset(
			cfg.Dimming.Latitude, cfg.Dimming.Longitude,
			now.Year(), now.Month(), now.Day(),
		)
		brightStart = rise.In(now.Location())
		dimStart = set.In(now.Location())
	} else {
		bright, err := config.ParseTimeOfDay(cfg.Dimming.BrightTimeStart)
		if err != nil {
			return 0, err
		}
		dim, err := config.ParseTimeOfDay(cfg.Dimming.DimTimeStart)
		if err != nil {
			return 0, err
		}
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		brightStart = midnight.Add(bright)
		dimStart = midnight.Add(dim)
	}

	if now.After(brightStart) && now.Before(dimStart) {
		return cfg.LEDs.Brightness, nil
	}
	return cfg.Dimming.DimBrightness, nil
}
