package domain

import (
	"errors"
	"fmt"
)

// Configuration faults detected at registry construction, before any frame is
// rendered. Both are fatal for the run.
var (
	ErrTooManyAirports       = errors.New("configured airports exceed LED count")
	ErrUnknownDisplayStation = errors.New("display subset names an unconfigured airport")
)

// Slot binds a configured station to its LED index. Skip markers occupy no
// LED, so indices are contiguous over the non-skip airports in list order.
type Slot struct {
	StationID string
	Index     int
}

// Registry is the merged, validated view of one fetch: every configured
// non-skip airport has exactly one StationCondition, placeholder or real.
// It is built once per run and read-only afterwards.
type Registry struct {
	slots      []Slot
	conditions map[string]StationCondition
	display    []string
}

// NewRegistry merges the configured airport list with the fetched conditions.
// Configured stations missing from conditions get a placeholder record.
// Fails with ErrTooManyAirports when the non-skip airports cannot fit on the
// strip, and with ErrUnknownDisplayStation when the display subset references
// an airport that is not configured.
func NewRegistry(airports []string, conditions map[string]StationCondition, displayAirports []string, ledCount int) (*Registry, error) {
	slots := make([]Slot, 0, len(airports))
	for _, ap := range airports {
		if ap == SkipMarker {
			continue
		}
		slots = append(slots, Slot{StationID: ap, Index: len(slots)})
	}
	if len(slots) > ledCount {
		return nil, fmt.Errorf("%w: %d airports, %d LEDs", ErrTooManyAirports, len(slots), ledCount)
	}

	merged := make(map[string]StationCondition, len(slots))
	for _, slot := range slots {
		cond, ok := conditions[slot.StationID]
		if !ok {
			cond = NewPlaceholderCondition(slot.StationID)
		}
		merged[slot.StationID] = cond
	}

	display, err := displayList(slots, displayAirports)
	if err != nil {
		return nil, err
	}

	return &Registry{slots: slots, conditions: merged, display: display}, nil
}

// displayList resolves the display-eligible stations in airport-list order.
// An empty subset means every configured station is eligible.
func displayList(slots []Slot, subset []string) ([]string, error) {
	if len(subset) == 0 {
		all := make([]string, len(slots))
		for i, slot := range slots {
			all[i] = slot.StationID
		}
		return all, nil
	}

	configured := make(map[string]bool, len(slots))
	for _, slot := range slots {
		configured[slot.StationID] = true
	}
	for _, id := range subset {
		if !configured[id] {
			return nil, fmt.Errorf("%w: %s", ErrUnknownDisplayStation, id)
		}
	}

	want := make(map[string]bool, len(subset))
	for _, id := range subset {
		want[id] = true
	}
	eligible := make([]string, 0, len(subset))
	for _, slot := range slots {
		if want[slot.StationID] {
			eligible = append(eligible, slot.StationID)
		}
	}
	return eligible, nil
}

// Slots returns the LED slots in airport-list order.
func (r *Registry) Slots() []Slot {
	return r.slots
}

// Condition returns the record for a configured station.
func (r *Registry) Condition(stationID string) (StationCondition, bool) {
	cond, ok := r.conditions[stationID]
	return cond, ok
}

// DisplayStations returns the stations eligible for secondary-display
// rotation, in airport-list order.
func (r *Registry) DisplayStations() []string {
	return r.display
}

// MissingCount reports how many configured stations were absent from the
// feed and carry a placeholder record.
func (r *Registry) MissingCount() int {
	n := 0
	for _, cond := range r.conditions {
		if cond.FlightCategory == CategoryNone {
			n++
		}
	}
	return n
}
