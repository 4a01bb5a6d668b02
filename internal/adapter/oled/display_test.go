package oled

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/metar-map/internal/domain"
)

func TestFormatCondition(t *testing.T) {
	t.Run("full report", func(t *testing.T) {
		cond := &domain.StationCondition{
			StationID:       "KSEA",
			FlightCategory:  domain.CategoryVFR,
			WindDirection:   "220",
			WindSpeedKt:     12,
			WindGustKt:      22,
			VisibilityMiles: 10,
			TemperatureC:    12,
			DewpointC:       8,
			AltimeterInHg:   30.02,
			WeatherString:   "-RA",
			SkyConditions: []domain.SkyCondition{
				{Cover: "FEW", CloudBaseFt: 3000},
				{Cover: "SCT", CloudBaseFt: 25000},
				{Cover: "OVC", CloudBaseFt: 30000},
			},
		}
		lines := FormatCondition("KSEA", cond)

		require.Equal(t, []string{
			"KSEA VFR",
			"220@12G22KT",
			"10SM -RA",
			"12/8C A30.02",
			"FEW030 SCT250",
		}, lines, "third cloud layer does not fit the panel")
	})

	t.Run("lightning marker in header", func(t *testing.T) {
		cond := &domain.StationCondition{
			StationID:      "KBFI",
			FlightCategory: domain.CategoryIFR,
			Lightning:      true,
		}
		lines := FormatCondition("KBFI", cond)
		assert.Equal(t, "KBFI IFR LTG", lines[0])
	})

	t.Run("calm wind", func(t *testing.T) {
		cond := &domain.StationCondition{StationID: "KPAE", FlightCategory: domain.CategoryMVFR}
		lines := FormatCondition("KPAE", cond)
		assert.Equal(t, "CALM", lines[1])
	})

	t.Run("variable wind direction", func(t *testing.T) {
		cond := &domain.StationCondition{
			StationID:      "KPAE",
			FlightCategory: domain.CategoryMVFR,
			WindSpeedKt:    5,
		}
		lines := FormatCondition("KPAE", cond)
		assert.Equal(t, "VRB@5KT", lines[1])
	})

	t.Run("no data", func(t *testing.T) {
		assert.Equal(t, []string{"KAWO", "NO DATA"}, FormatCondition("KAWO", nil))

		placeholder := &domain.StationCondition{StationID: "KAWO", FlightCategory: domain.CategoryNone}
		assert.Equal(t, []string{"KAWO", "NO DATA"}, FormatCondition("KAWO", placeholder))
	})
}
