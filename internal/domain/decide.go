package domain

// HighWindsDisabled turns the high-wind color tier off entirely.
const HighWindsDisabled = -1

// AnimationParams are the decision-engine thresholds and toggles, fixed for a run.
type AnimationParams struct {
	WindAnimation      bool
	LightningAnimation bool
	FadeInsteadOfBlink bool
	WindBlinkThreshold int
	HighWindsThreshold int // HighWindsDisabled to disable the tier
}

// Flags are the derived per-station animation states for one frame.
type Flags struct {
	Windy     bool
	HighWinds bool
	Lightning bool
}

// Decide maps a station condition and the current animation phase to an LED
// color. Pure: identical inputs always produce identical output.
//
// windCycle is the alternating phase flag. Wind effects render only when it
// is true and lightning only when it is false, so the two never share a frame.
// Precedence within a frame: lightning, then high winds, then the windy
// fade/blink, then the category base color. CategoryNone short-circuits all
// of it and always renders the "no data" color.
func Decide(cond StationCondition, windCycle bool, p AnimationParams, pal Palette) (Color, Flags) {
	if cond.FlightCategory == CategoryNone {
		return pal.None, Flags{}
	}

	flags := Flags{}
	flags.Windy = p.WindAnimation && windCycle &&
		(cond.WindSpeedKt >= p.WindBlinkThreshold || cond.WindGustFlag)
	flags.HighWinds = flags.Windy && p.HighWindsThreshold != HighWindsDisabled &&
		(cond.WindSpeedKt >= p.HighWindsThreshold || cond.WindGustKt >= p.HighWindsThreshold)
	flags.Lightning = p.LightningAnimation && !windCycle && cond.Lightning

	base, fade, ok := pal.categoryColors(cond.FlightCategory)
	if !ok {
		// Reported but unrecognized category: off.
		return pal.Clear, flags
	}

	switch {
	case flags.Lightning:
		return pal.Lightning, flags
	case flags.HighWinds:
		return pal.HighWinds, flags
	case flags.Windy:
		if p.FadeInsteadOfBlink {
			return fade, flags
		}
		return pal.Clear, flags
	default:
		return base, flags
	}
}
