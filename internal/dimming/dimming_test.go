package dimming

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/metar-map/internal/config"
)

func dimmingConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Dimming.Enabled = true
	cfg.Dimming.UseSunriseSunset = false
	cfg.Dimming.BrightTimeStart = "07:00"
	cfg.Dimming.DimTimeStart = "19:00"
	return cfg
}

func TestBrightness_FixedWindow(t *testing.T) {
	cfg := dimmingConfig()

	tests := []struct {
		name string
		hour int
		want float64
	}{
		{"midday is bright", 12, 0.5},
		{"early morning is dim", 5, 0.1},
		{"late evening is dim", 22, 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := time.Date(2026, 6, 15, tt.hour, 0, 0, 0, time.UTC)
			b, err := Brightness(cfg, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, b)
		})
	}
}

func TestBrightness_Disabled(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Dimming.Enabled = false

	b, err := Brightness(cfg, time.Date(2026, 6, 15, 3, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, cfg.LEDs.Brightness, b, "dimming off means full brightness at any hour")
}

func TestBrightness_SunriseSunset(t *testing.T) {
	cfg := dimmingConfig()
	cfg.Dimming.UseSunriseSunset = true
	cfg.Dimming.Latitude = 47.6
	cfg.Dimming.Longitude = -122.33

	// Seattle midsummer: noon UTC-7 is daylight, midnight is not.
	loc := time.FixedZone("PDT", -7*3600)

	b, err := Brightness(cfg, time.Date(2026, 6, 15, 12, 0, 0, 0, loc))
	require.NoError(t, err)
	assert.Equal(t, cfg.LEDs.Brightness, b)

	b, err = Brightness(cfg, time.Date(2026, 6, 15, 0, 30, 0, 0, loc))
	require.NoError(t, err)
	assert.Equal(t, cfg.Dimming.DimBrightness, b)
}
