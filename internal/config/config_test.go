package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/metar-map/internal/domain"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "metarmap.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const minimalConfig = `
[airports]
stations = ["KSEA", "NULL", "KBFI"]
`

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.LEDs.Count)
	assert.Equal(t, "ws281x", cfg.LEDs.Driver)
	assert.Equal(t, 18, cfg.LEDs.GPIOPin)
	assert.Equal(t, 0.5, cfg.LEDs.Brightness)
	assert.Equal(t, "grb", cfg.LEDs.ChannelOrder)
	assert.Equal(t, []string{"KSEA", "NULL", "KBFI"}, cfg.Airports.Stations)
	assert.Empty(t, cfg.Airports.Display)
	assert.True(t, cfg.Animation.WindEnabled)
	assert.True(t, cfg.Animation.LightningEnabled)
	assert.True(t, cfg.Animation.FadeInsteadOfBlink)
	assert.False(t, cfg.Animation.AlwaysBlinkForGusts)
	assert.Equal(t, 15, cfg.Animation.WindBlinkThreshold)
	assert.Equal(t, 25, cfg.Animation.HighWindsThreshold)
	assert.Equal(t, time.Second, cfg.BlinkSpeed())
	assert.Equal(t, 5*time.Minute, cfg.TotalBlinkTime())
	assert.False(t, cfg.Dimming.Enabled)
	assert.False(t, cfg.Display.Enabled)
	assert.Equal(t, 5*time.Second, cfg.DisplayRotation())
	assert.True(t, cfg.Legend.Enabled)
	assert.Zero(t, cfg.Legend.Offset)
	assert.Equal(t, "https://aviationweather.gov/api/data", cfg.Weather.BaseURL)
	assert.Equal(t, 5, cfg.Weather.HoursBeforeNow)
	assert.False(t, cfg.MQTT.Enabled)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoad_DefaultPaletteMatchesDomain(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	pal, err := cfg.Palette()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPalette(), pal)
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
[leds]
count = 50
driver = "console"
brightness = 0.8
channel_order = "rgb"

[airports]
stations = ["KSEA", "KBFI", "KPAE"]
display = ["KSEA"]

[animation]
wind_enabled = false
high_winds_threshold = -1
blink_speed_seconds = 0.5
total_blink_seconds = 120

[colors]
vfr = "#11AA22"

[legend]
enabled = false
offset = 2

[mqtt]
enabled = true
broker_url = "tcp://broker.local:1883"
`))
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.LEDs.Count)
	assert.Equal(t, "console", cfg.LEDs.Driver)
	assert.Equal(t, "rgb", cfg.LEDs.ChannelOrder)
	assert.Equal(t, []string{"KSEA"}, cfg.Airports.Display)
	assert.False(t, cfg.Animation.WindEnabled)
	assert.Equal(t, domain.HighWindsDisabled, cfg.Animation.HighWindsThreshold)
	assert.Equal(t, 500*time.Millisecond, cfg.BlinkSpeed())
	assert.Equal(t, 2*time.Minute, cfg.TotalBlinkTime())
	assert.False(t, cfg.Legend.Enabled)
	assert.Equal(t, 2, cfg.Legend.Offset)

	pal, err := cfg.Palette()
	require.NoError(t, err)
	assert.Equal(t, domain.Color{R: 0x11, G: 0xAA, B: 0x22}, pal.VFR)
	assert.Equal(t, domain.DefaultPalette().MVFR, pal.MVFR, "unset colors keep defaults")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("METARMAP_LOG_LEVEL", "debug")
	t.Setenv("METARMAP_HTTP_ADDR", ":9090")
	t.Setenv("METARMAP_MQTT_PASSWORD", "hunter2")

	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, "hunter2", cfg.MQTT.Password)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no airports", `[leds]
count = 30`},
		{"zero led count", minimalConfig + `
[leds]
count = 0`},
		{"bad driver", minimalConfig + `
[leds]
driver = "apa102"`},
		{"bad channel order", minimalConfig + `
[leds]
channel_order = "gbrw"`},
		{"bad color", minimalConfig + `
[colors]
ifr = "red"`},
		{"zero high winds threshold", minimalConfig + `
[animation]
high_winds_threshold = 0`},
		{"negative blink speed", minimalConfig + `
[animation]
blink_speed_seconds = -1.0`},
		{"bad log level", minimalConfig + `
[logging]
level = "verbose"`},
		{"mqtt without broker", minimalConfig + `
[mqtt]
enabled = true`},
		{"bad dim window", minimalConfig + `
[dimming]
enabled = true
use_sunrise_sunset = false
bright_time_start = "7am"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/does/not/exist.toml")
	assert.Error(t, err)
}

func TestParseTimeOfDay(t *testing.T) {
	d, err := ParseTimeOfDay("07:30")
	require.NoError(t, err)
	assert.Equal(t, 7*time.Hour+30*time.Minute, d)

	_, err = ParseTimeOfDay("25:00")
	assert.Error(t, err)
}
