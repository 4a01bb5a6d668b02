// Package domain models METAR observations for the LED airport map.
//
// # Data Source
//
// Observations come from the aviationweather.gov data API as one METAR element
// per station, fetched once per run by the awc adapter. Stations with no recent
// report are simply absent from the feed; that is the normal case, not an
// error, and the registry backfills them with a placeholder record.
//
// # Field Conventions
//
// The feed is noisy: any field may be missing, empty, or malformed. Every
// parser in this package is total — a bad field resolves to a documented
// default (empty string, zero, or the build-time clock) and never aborts a
// run. Integer fields are parsed as floats first and rounded, because the
// feed occasionally reports fractional values for nominally integral columns.
//
// Visibility uses a trailing "10+" style plus sign to mean "at least"; the
// marker is stripped before parsing.
//
// # Flight Category
//
// The ceiling/visibility classification drives the LED color:
//
//	VFR   — green
//	MVFR  — blue
//	IFR   — red
//	LIFR  — magenta
//	NONE  — gray (no report found for the station this run)
//
// NONE is distinct from an unrecognized category string: a station that
// reported something we cannot classify renders the off color, while NONE
// always renders the dedicated "no data" gray regardless of animation phase.
//
// # Lightning Heuristic
//
// Thunderstorm activity is detected by scanning the raw report text for the
// substrings "LTG" or "TS", skipping the first 4 characters so a station
// identifier containing "TS" (e.g. KTSP) cannot trigger a false positive.
// The explicit no-thunderstorm marker "TSNO" vetoes the match. The heuristic
// is offset- and case-sensitive on purpose — it matches the behavior of
// deployed maps — and lives entirely behind [BuildStationCondition] so a real
// METAR decoder could replace it without touching the decision engine.
//
// # Decision Engine
//
// [Decide] is a pure function from (condition, animation phase, parameters)
// to an LED color plus the derived windy/high-wind/lightning flags. Wind
// effects render on the "alternate" phase and lightning on the opposite one,
// so the two never collide on a single frame.
package domain
