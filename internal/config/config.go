// Package config loads and validates the map's TOML configuration.
//
// All settings are read once at startup and the resulting Config is treated
// as immutable for the run. Scalar sanity checks use validator struct tags;
// checks that need cross-field reasoning (palette parsing, dimming window)
// are hand-rolled in Validate. The airports-versus-LED-count capacity rule
// is deliberately left to registry construction, which owns slot semantics
// and reports it as a named configuration error.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/couchcryptid/metar-map/internal/domain"
)

// Config is the top-level configuration, one struct per TOML section.
type Config struct {
	LEDs      LEDConfig       `toml:"leds"`
	Airports  AirportsConfig  `toml:"airports"`
	Colors    ColorsConfig    `toml:"colors"`
	Animation AnimationConfig `toml:"animation"`
	Dimming   DimmingConfig   `toml:"dimming"`
	Display   DisplayConfig   `toml:"display"`
	Legend    LegendConfig    `toml:"legend"`
	Weather   WeatherConfig   `toml:"wx"`
	MQTT      MQTTConfig      `toml:"mqtt"`
	HTTP      HTTPConfig      `toml:"http"`
	Logging   LoggingConfig   `toml:"logging"`
}

// LEDConfig describes the physical strip.
type LEDConfig struct {
	Count        int     `toml:"count" validate:"gt=0"`                                  // number of pixels on the strip
	Driver       string  `toml:"driver" validate:"oneof=ws281x console"`                 // "ws281x" for hardware, "console" for development
	GPIOPin      int     `toml:"gpio_pin" validate:"gte=0"`                              // data pin (18 is PCM on the Pi)
	Brightness   float64 `toml:"brightness" validate:"gte=0,lte=1"`                      // full brightness, 0.0-1.0
	ChannelOrder string  `toml:"channel_order" validate:"oneof=rgb rbg grb gbr brg bgr"` // strip wire order; colors in this file are always RGB
}

// AirportsConfig is the ordered station list, one entry per LED slot.
// The reserved entry "NULL" leaves a gap in the strip.
type AirportsConfig struct {
	Stations []string `toml:"stations" validate:"min=1"` // airport identifiers in strip order
	Display  []string `toml:"display"`                   // optional subset eligible for the secondary display
}

// ColorsConfig is the palette as "#RRGGBB" hex strings.
type ColorsConfig struct {
	VFR       string `toml:"vfr"`
	VFRFade   string `toml:"vfr_fade"`
	MVFR      string `toml:"mvfr"`
	MVFRFade  string `toml:"mvfr_fade"`
	IFR       string `toml:"ifr"`
	IFRFade   string `toml:"ifr_fade"`
	LIFR      string `toml:"lifr"`
	LIFRFade  string `toml:"lifr_fade"`
	Lightning string `toml:"lightning"`
	HighWinds string `toml:"high_winds"`
	None      string `toml:"none"`
	Clear     string `toml:"clear"`
}

// AnimationConfig holds the blink/fade thresholds and timing.
type AnimationConfig struct {
	WindEnabled         bool    `toml:"wind_enabled"`                         // blink/fade stations over the wind threshold
	LightningEnabled    bool    `toml:"lightning_enabled"`                    // flash stations reporting lightning
	FadeInsteadOfBlink  bool    `toml:"fade_instead_of_blink"`                // dimmed same-hue color instead of a hard off
	WindBlinkThreshold  int     `toml:"wind_blink_threshold" validate:"gt=0"` // knots
	HighWindsThreshold  int     `toml:"high_winds_threshold"`                 // knots, -1 disables the high-wind color
	AlwaysBlinkForGusts bool    `toml:"always_blink_for_gusts"`               // treat any gust as blink-worthy
	BlinkSpeedSeconds   float64 `toml:"blink_speed_seconds" validate:"gt=0"`  // seconds per animation tick
	TotalBlinkSeconds   float64 `toml:"total_blink_seconds" validate:"gt=0"`  // total run time when animating
}

// DimmingConfig controls startup brightness selection.
type DimmingConfig struct {
	Enabled          bool    `toml:"enabled"`
	BrightTimeStart  string  `toml:"bright_time_start"` // "07:00", ignored when sunrise/sunset is used
	DimTimeStart     string  `toml:"dim_time_start"`    // "19:00"
	DimBrightness    float64 `toml:"dim_brightness" validate:"gte=0,lte=1"`
	UseSunriseSunset bool    `toml:"use_sunrise_sunset"`
	Latitude         float64 `toml:"latitude" validate:"gte=-90,lte=90"`
	Longitude        float64 `toml:"longitude" validate:"gte=-180,lte=180"`
}

// DisplayConfig controls the optional secondary OLED display.
type DisplayConfig struct {
	Enabled         bool    `toml:"enabled"`
	RotationSeconds float64 `toml:"rotation_seconds" validate:"gt=0"` // dwell time per station
	I2CBus          string  `toml:"i2c_bus"`                          // empty selects the first bus
}

// LegendConfig controls the fixed legend swatches after the last station LED.
type LegendConfig struct {
	Enabled bool `toml:"enabled"`
	Offset  int  `toml:"offset" validate:"gte=0"` // extra LEDs to skip before the first swatch
}

// WeatherConfig points at the aviationweather.gov data API.
type WeatherConfig struct {
	BaseURL        string `toml:"base_url" validate:"url"`
	HoursBeforeNow int    `toml:"hours_before_now" validate:"gt=0"`
	TimeoutSeconds int    `toml:"timeout_seconds" validate:"gt=0"`
	MaxRetries     int    `toml:"max_retries" validate:"gte=0"`
}

// MQTTConfig controls the optional per-station condition publisher.
type MQTTConfig struct {
	Enabled     bool   `toml:"enabled"`
	BrokerURL   string `toml:"broker_url"` // e.g. tcp://homeassistant.local:1883
	ClientID    string `toml:"client_id"`
	TopicPrefix string `toml:"topic_prefix"`
	Username    string `toml:"username"`
	Password    string `toml:"password"` // overridable via METARMAP_MQTT_PASSWORD
}

// HTTPConfig controls the ops endpoints (/healthz, /readyz, /metrics).
type HTTPConfig struct {
	Enabled bool   `toml:"enabled"`
	Addr    string `toml:"addr"`
}

// LoggingConfig selects level and output format.
type LoggingConfig struct {
	Level  string `toml:"level" validate:"oneof=debug info warn error"`
	Format string `toml:"format" validate:"oneof=console json"`
}

// DefaultConfig returns the configuration matching a stock 30-LED map.
func DefaultConfig() *Config {
	return &Config{
		LEDs: LEDConfig{
			Count:        30,
			Driver:       "ws281x",
			GPIOPin:      18,
			Brightness:   0.5,
			ChannelOrder: "grb",
		},
		Colors: ColorsConfig{
			VFR:       "#00FF00",
			VFRFade:   "#007D00",
			MVFR:      "#0000FF",
			MVFRFade:  "#00007D",
			IFR:       "#FF0000",
			IFRFade:   "#7D0000",
			LIFR:      "#7D007D",
			LIFRFade:  "#4B004B",
			Lightning: "#FFFFFF",
			HighWinds: "#FFFF00",
			None:      "#404040",
			Clear:     "#000000",
		},
		Animation: AnimationConfig{
			WindEnabled:        true,
			LightningEnabled:   true,
			FadeInsteadOfBlink: true,
			WindBlinkThreshold: 15,
			HighWindsThreshold: 25,
			BlinkSpeedSeconds:  1.0,
			TotalBlinkSeconds:  300,
		},
		Dimming: DimmingConfig{
			BrightTimeStart:  "07:00",
			DimTimeStart:     "19:00",
			DimBrightness:    0.1,
			UseSunriseSunset: true,
			Latitude:         47.6,
			Longitude:        -122.33,
		},
		Display: DisplayConfig{
			RotationSeconds: 5.0,
		},
		Legend: LegendConfig{
			Enabled: true,
		},
		Weather: WeatherConfig{
			BaseURL:        "https://aviationweather.gov/api/data",
			HoursBeforeNow: 5,
			TimeoutSeconds: 30,
			MaxRetries:     3,
		},
		MQTT: MQTTConfig{
			ClientID:    "metar-map",
			TopicPrefix: "metarmap",
		},
		HTTP: HTTPConfig{
			Enabled: true,
			Addr:    ":8080",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads the TOML file at path over the defaults, applies environment
// overrides, and validates the result. An empty path loads defaults only.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides lets deployment-specific values come from the
// environment instead of the checked-in config file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("METARMAP_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("METARMAP_HTTP_ADDR"); v != "" {
		c.HTTP.Addr = v
	}
	if v := os.Getenv("METARMAP_WX_BASE_URL"); v != "" {
		c.Weather.BaseURL = v
	}
	if v := os.Getenv("METARMAP_MQTT_PASSWORD"); v != "" {
		c.MQTT.Password = v
	}
}

// Validate checks scalar constraints via struct tags, then the cross-field
// rules the tags cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if c.Animation.HighWindsThreshold != domain.HighWindsDisabled && c.Animation.HighWindsThreshold <= 0 {
		return fmt.Errorf("invalid config: high_winds_threshold must be positive or %d to disable", domain.HighWindsDisabled)
	}
	if _, err := c.Palette(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Dimming.Enabled && !c.Dimming.UseSunriseSunset {
		if _, err := ParseTimeOfDay(c.Dimming.BrightTimeStart); err != nil {
			return fmt.Errorf("invalid config: bright_time_start: %w", err)
		}
		if _, err := ParseTimeOfDay(c.Dimming.DimTimeStart); err != nil {
			return fmt.Errorf("invalid config: dim_time_start: %w", err)
		}
	}
	if c.MQTT.Enabled && c.MQTT.BrokerURL == "" {
		return fmt.Errorf("invalid config: mqtt enabled but broker_url is empty")
	}
	return nil
}

// Palette converts the hex color table to the domain palette.
func (c *Config) Palette() (domain.Palette, error) {
	var pal domain.Palette
	for _, entry := range []struct {
		name string
		hex  string
		dst  *domain.Color
	}{
		{"vfr", c.Colors.VFR, &pal.VFR},
		{"vfr_fade", c.Colors.VFRFade, &pal.VFRFade},
		{"mvfr", c.Colors.MVFR, &pal.MVFR},
		{"mvfr_fade", c.Colors.MVFRFade, &pal.MVFRFade},
		{"ifr", c.Colors.IFR, &pal.IFR},
		{"ifr_fade", c.Colors.IFRFade, &pal.IFRFade},
		{"lifr", c.Colors.LIFR, &pal.LIFR},
		{"lifr_fade", c.Colors.LIFRFade, &pal.LIFRFade},
		{"lightning", c.Colors.Lightning, &pal.Lightning},
		{"high_winds", c.Colors.HighWinds, &pal.HighWinds},
		{"none", c.Colors.None, &pal.None},
		{"clear", c.Colors.Clear, &pal.Clear},
	} {
		color, err := parseHexColor(entry.hex)
		if err != nil {
			return domain.Palette{}, fmt.Errorf("color %s: %w", entry.name, err)
		}
		*entry.dst = color
	}
	return pal, nil
}

// AnimationParams converts the animation section to decision-engine inputs.
func (c *Config) AnimationParams() domain.AnimationParams {
	return domain.AnimationParams{
		WindAnimation:      c.Animation.WindEnabled,
		LightningAnimation: c.Animation.LightningEnabled,
		FadeInsteadOfBlink: c.Animation.FadeInsteadOfBlink,
		WindBlinkThreshold: c.Animation.WindBlinkThreshold,
		HighWindsThreshold: c.Animation.HighWindsThreshold,
	}
}

// BuildOptions converts the animation section to record-builder inputs.
func (c *Config) BuildOptions() domain.BuildOptions {
	return domain.BuildOptions{
		AlwaysBlinkForGusts: c.Animation.AlwaysBlinkForGusts,
		WindBlinkThreshold:  c.Animation.WindBlinkThreshold,
	}
}

// BlinkSpeed is the per-tick sleep as a duration.
func (c *Config) BlinkSpeed() time.Duration {
	return secondsToDuration(c.Animation.BlinkSpeedSeconds)
}

// TotalBlinkTime is the total animated run time as a duration.
func (c *Config) TotalBlinkTime() time.Duration {
	return secondsToDuration(c.Animation.TotalBlinkSeconds)
}

// DisplayRotation is the secondary-display dwell time as a duration.
func (c *Config) DisplayRotation() time.Duration {
	return secondsToDuration(c.Display.RotationSeconds)
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// ParseTimeOfDay parses a "HH:MM" wall-clock time.
func ParseTimeOfDay(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("want HH:MM, got %q", s)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// parseHexColor decodes "#RRGGBB" into a true-RGB color.
func parseHexColor(s string) (domain.Color, error) {
	var c domain.Color
	if len(s) != 7 || s[0] != '#' {
		return c, fmt.Errorf("want #RRGGBB, got %q", s)
	}
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return c, fmt.Errorf("want #RRGGBB, got %q", s)
	}
	return c, nil
}
