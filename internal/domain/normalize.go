package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// BuildOptions carries the configuration the record builder needs to derive
// the gust-blink flag.
type BuildOptions struct {
	AlwaysBlinkForGusts bool
	WindBlinkThreshold  int
}

// BuildStationCondition normalizes one raw report into a StationCondition.
// It is total: every malformed or missing field resolves to its default and
// construction never fails.
func BuildStationCondition(raw RawReport, opts BuildOptions) StationCondition {
	gustKt := parseIntOr(raw.WindGustKt, 0)

	sky := make([]SkyCondition, 0, len(raw.SkyConditions))
	for _, layer := range raw.SkyConditions {
		sky = append(sky, SkyCondition{
			Cover:       layer.Cover,
			CloudBaseFt: parseIntOr(layer.CloudBaseFtAgl, 0),
		})
	}

	return StationCondition{
		StationID:       textOr(raw.StationID, "UNKNOWN"),
		FlightCategory:  ParseFlightCategory(raw.FlightCategory),
		WindDirection:   raw.WindDirDegrees,
		WindSpeedKt:     parseIntOr(raw.WindSpeedKt, 0),
		WindGustKt:      gustKt,
		WindGustFlag:    opts.AlwaysBlinkForGusts || gustKt > opts.WindBlinkThreshold,
		VisibilityMiles: parseVisibility(raw.VisibilityStatuteMi),
		TemperatureC:    parseIntOr(raw.TemperatureC, 0),
		DewpointC:       parseIntOr(raw.DewpointC, 0),
		AltimeterInHg:   math.Round(parseFloatOr(raw.AltimeterInHg, 0)*100) / 100,
		WeatherString:   raw.WxString,
		Lightning:       detectLightning(raw.RawText),
		SkyConditions:   sky,
		ObservationTime: parseObservationTime(raw.ObservationTime),
		RawText:         raw.RawText,
	}
}

// NewPlaceholderCondition builds the record for a configured station absent
// from the feed: CategoryNone, everything else zeroed, stamped now.
func NewPlaceholderCondition(stationID string) StationCondition {
	return StationCondition{
		StationID:       stationID,
		FlightCategory:  CategoryNone,
		SkyConditions:   []SkyCondition{},
		ObservationTime: clock.Now(),
	}
}

// textOr returns s, or def when s is empty (the feed's "absent" encoding).
func textOr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// parseIntOr parses s as a float and rounds to the nearest integer, tolerating
// fractional values in nominally integral fields. Any failure yields def.
func parseIntOr(s string, def int) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return def
	}
	return int(math.Round(f))
}

// parseFloatOr parses s as a float, returning def on failure.
func parseFloatOr(s string, def float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return def
	}
	return f
}

// parseVisibility handles the "at least" plus marker ("10+") by stripping
// every plus sign before the usual float-then-round parse.
func parseVisibility(s string) int {
	return parseIntOr(strings.ReplaceAll(s, "+", ""), 0)
}

// parseObservationTime parses an ISO-8601 timestamp, accepting a trailing Z
// as UTC. Anything unparsable falls back to the current wall clock so the
// record always carries a usable time.
func parseObservationTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t
	}
	return clock.Now()
}

// detectLightning scans a raw METAR for thunderstorm or lightning markers.
// The first 4 characters are excluded so a station identifier containing
// "TS" cannot match; "TSNO" (thunderstorm information not available) vetoes.
func detectLightning(rawText string) bool {
	if indexFrom(rawText, "LTG", 4) == -1 && indexFrom(rawText, "TS", 4) == -1 {
		return false
	}
	if indexFrom(rawText, "TSNO", 4) != -1 {
		return false
	}
	return true
}

// indexFrom is strings.Index starting the search at offset start.
func indexFrom(s, substr string, start int) int {
	if start >= len(s) {
		return -1
	}
	i := strings.Index(s[start:], substr)
	if i == -1 {
		return -1
	}
	return i + start
}
