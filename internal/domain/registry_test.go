package domain

import (
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportFor(id string, category FlightCategory) StationCondition {
	return StationCondition{StationID: id, FlightCategory: category, ObservationTime: testBuildTime}
}

func TestNewRegistry(t *testing.T) {
	SetClock(clockwork.NewFakeClockAt(testBuildTime))
	t.Cleanup(func() { SetClock(nil) })

	airports := []string{"KSEA", "NULL", "KBFI", "KPAE"}
	conditions := map[string]StationCondition{
		"KSEA": reportFor("KSEA", CategoryVFR),
		"KPAE": reportFor("KPAE", CategoryIFR),
	}

	t.Run("merges and backfills", func(t *testing.T) {
		reg, err := NewRegistry(airports, conditions, nil, 10)
		require.NoError(t, err)

		slots := reg.Slots()
		require.Len(t, slots, 3, "skip markers occupy no LED")
		assert.Equal(t, Slot{StationID: "KSEA", Index: 0}, slots[0])
		assert.Equal(t, Slot{StationID: "KBFI", Index: 1}, slots[1])
		assert.Equal(t, Slot{StationID: "KPAE", Index: 2}, slots[2])

		kbfi, ok := reg.Condition("KBFI")
		require.True(t, ok)
		assert.Equal(t, CategoryNone, kbfi.FlightCategory, "missing station gets a placeholder")
		assert.Zero(t, kbfi.WindSpeedKt)
		assert.Equal(t, testBuildTime, kbfi.ObservationTime)

		ksea, ok := reg.Condition("KSEA")
		require.True(t, ok)
		assert.Equal(t, CategoryVFR, ksea.FlightCategory)

		assert.Equal(t, 1, reg.MissingCount())
	})

	t.Run("capacity exactly fits", func(t *testing.T) {
		_, err := NewRegistry(airports, conditions, nil, 3)
		assert.NoError(t, err)
	})

	t.Run("too many airports", func(t *testing.T) {
		_, err := NewRegistry(airports, conditions, nil, 2)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrTooManyAirports)
	})

	t.Run("all stations display-eligible by default", func(t *testing.T) {
		reg, err := NewRegistry(airports, conditions, nil, 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"KSEA", "KBFI", "KPAE"}, reg.DisplayStations())
	})

	t.Run("display subset in airport-list order", func(t *testing.T) {
		reg, err := NewRegistry(airports, conditions, []string{"KPAE", "KSEA"}, 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"KSEA", "KPAE"}, reg.DisplayStations())
	})

	t.Run("display subset with unknown station", func(t *testing.T) {
		_, err := NewRegistry(airports, conditions, []string{"KSEA", "KORD"}, 10)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownDisplayStation)
		assert.Contains(t, err.Error(), "KORD")
	})

	t.Run("empty airport list", func(t *testing.T) {
		reg, err := NewRegistry(nil, nil, nil, 10)
		require.NoError(t, err)
		assert.Empty(t, reg.Slots())
		assert.Empty(t, reg.DisplayStations())
	})

	t.Run("skip-only list occupies nothing", func(t *testing.T) {
		reg, err := NewRegistry([]string{"NULL", "NULL"}, nil, nil, 0)
		require.NoError(t, err)
		assert.Empty(t, reg.Slots())
	})
}
