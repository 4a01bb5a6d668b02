package domain

import "time"

// SkipMarker is the reserved airport-list entry for a gap in the strip.
// Skip entries occupy no LED and never appear in the registry.
const SkipMarker = "NULL"

// FlightCategory is the ceiling/visibility classification reported with a METAR.
type FlightCategory int

const (
	// CategoryUnknown is a reported category string we cannot classify.
	CategoryUnknown FlightCategory = iota
	CategoryVFR
	CategoryMVFR
	CategoryIFR
	CategoryLIFR
	// CategoryNone means no report was found for the station this run.
	CategoryNone
)

// ParseFlightCategory maps a raw category string to the closed enum.
// An absent field means no report was classified, so empty maps to
// CategoryNone; anything else unrecognized is CategoryUnknown.
func ParseFlightCategory(s string) FlightCategory {
	switch s {
	case "":
		return CategoryNone
	case "VFR":
		return CategoryVFR
	case "MVFR":
		return CategoryMVFR
	case "IFR":
		return CategoryIFR
	case "LIFR":
		return CategoryLIFR
	default:
		return CategoryUnknown
	}
}

func (c FlightCategory) String() string {
	switch c {
	case CategoryVFR:
		return "VFR"
	case CategoryMVFR:
		return "MVFR"
	case CategoryIFR:
		return "IFR"
	case CategoryLIFR:
		return "LIFR"
	case CategoryNone:
		return "NONE"
	default:
		return "UNKNOWN"
	}
}

// SkyCondition is one reported cloud layer, in feed order.
type SkyCondition struct {
	Cover       string `json:"cover"`
	CloudBaseFt int    `json:"cloud_base_ft"`
}

// StationCondition is the canonical per-airport record built from one raw
// report. All fields are defaulted; a zero-ish record with CategoryNone
// stands in for stations missing from the feed.
type StationCondition struct {
	StationID       string         `json:"station_id"`
	FlightCategory  FlightCategory `json:"-"`
	WindDirection   string         `json:"wind_direction,omitempty"`
	WindSpeedKt     int            `json:"wind_speed_kt"`
	WindGustKt      int            `json:"wind_gust_kt"`
	WindGustFlag    bool           `json:"wind_gust_flag"`
	VisibilityMiles int            `json:"visibility_mi"`
	TemperatureC    int            `json:"temp_c"`
	DewpointC       int            `json:"dewpoint_c"`
	AltimeterInHg   float64        `json:"altim_in_hg"`
	WeatherString   string         `json:"wx_string,omitempty"`
	Lightning       bool           `json:"lightning"`
	SkyConditions   []SkyCondition `json:"sky_conditions,omitempty"`
	ObservationTime time.Time      `json:"observation_time"`
	RawText         string         `json:"raw_text,omitempty"`
}

// RawReport is one station's report as received from the feed, before
// normalization. Every field is the raw text; absence is the empty string.
type RawReport struct {
	StationID           string
	RawText             string
	ObservationTime     string
	TemperatureC        string
	DewpointC           string
	WindDirDegrees      string
	WindSpeedKt         string
	WindGustKt          string
	VisibilityStatuteMi string
	AltimeterInHg       string
	FlightCategory      string
	WxString            string
	SkyConditions       []RawSkyCondition
}

// RawSkyCondition is one unparsed cloud layer from the feed.
type RawSkyCondition struct {
	Cover          string
	CloudBaseFtAgl string
}

// Color is a true-RGB pixel value. Channel reordering for the physical strip
// (GRB and friends) is the strip adapter's concern, not the domain's.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Palette holds every color the map can render.
type Palette struct {
	VFR       Color
	VFRFade   Color
	MVFR      Color
	MVFRFade  Color
	IFR       Color
	IFRFade   Color
	LIFR      Color
	LIFRFade  Color
	Lightning Color
	HighWinds Color
	None      Color
	Clear     Color
}

// DefaultPalette is the conventional METAR map palette.
func DefaultPalette() Palette {
	return Palette{
		VFR:       Color{G: 255},
		VFRFade:   Color{G: 125},
		MVFR:      Color{B: 255},
		MVFRFade:  Color{B: 125},
		IFR:       Color{R: 255},
		IFRFade:   Color{R: 125},
		LIFR:      Color{R: 125, B: 125},
		LIFRFade:  Color{R: 75, B: 75},
		Lightning: Color{R: 255, G: 255, B: 255},
		HighWinds: Color{R: 255, G: 255},
		None:      Color{R: 64, G: 64, B: 64},
		Clear:     Color{},
	}
}

// categoryColors returns the base and fade colors for a category.
// ok is false for CategoryUnknown and CategoryNone, which have no
// category-keyed colors of their own.
func (p Palette) categoryColors(c FlightCategory) (base, fade Color, ok bool) {
	switch c {
	case CategoryVFR:
		return p.VFR, p.VFRFade, true
	case CategoryMVFR:
		return p.MVFR, p.MVFRFade, true
	case CategoryIFR:
		return p.IFR, p.IFRFade, true
	case CategoryLIFR:
		return p.LIFR, p.LIFRFade, true
	default:
		return Color{}, Color{}, false
	}
}
