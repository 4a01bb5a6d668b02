//go:build !linux

package strip

import (
	"errors"

	"github.com/couchcryptid/metar-map/internal/config"
)

// The ws281x binding needs the Pi's PWM/DMA hardware; off linux only the
// console driver is available.
func newWS281x(_ config.LEDConfig, _ float64) (Sink, error) {
	return nil, errors.New("ws281x driver is only available on linux")
}
