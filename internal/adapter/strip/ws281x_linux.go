//go:build linux

package strip

import (
	"fmt"

	ws2811 "github.com/rpi-ws281x/rpi-ws281x-go"

	"github.com/couchcryptid/metar-map/internal/config"
	"github.com/couchcryptid/metar-map/internal/domain"
)

// ws281x drives a WS281x strip through the rpi_ws281x PWM/DMA binding.
type ws281x struct {
	dev   *ws2811.WS2811
	count int
}

func newWS281x(cfg config.LEDConfig, brightness float64) (Sink, error) {
	opt := ws2811.DefaultOptions
	opt.Channels[0].GpioPin = cfg.GPIOPin
	opt.Channels[0].LedCount = cfg.Count
	opt.Channels[0].Brightness = int(brightness * 255)
	opt.Channels[0].StripeType = stripeType(cfg.ChannelOrder)

	dev, err := ws2811.MakeWS2811(&opt)
	if err != nil {
		return nil, fmt.Errorf("create ws281x device: %w", err)
	}
	if err := dev.Init(); err != nil {
		return nil, fmt.Errorf("init ws281x device: %w", err)
	}
	return &ws281x{dev: dev, count: cfg.Count}, nil
}

func (s *ws281x) SetPixel(index int, c domain.Color) {
	if index < 0 || index >= s.count {
		return
	}
	s.dev.Leds(0)[index] = uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

func (s *ws281x) Show() error {
	if err := s.dev.Render(); err != nil {
		return fmt.Errorf("render frame: %w", err)
	}
	return s.dev.Wait()
}

func (s *ws281x) Close() error {
	s.dev.Fini()
	return nil
}

// stripeType maps the configured channel order to the driver constant.
// Config validation restricts the input to the six orders listed here.
func stripeType(order string) int {
	switch order {
	case "rgb":
		return ws2811.WS2811StripRGB
	case "rbg":
		return ws2811.WS2811StripRBG
	case "gbr":
		return ws2811.WS2811StripGBR
	case "brg":
		return ws2811.WS2811StripBRG
	case "bgr":
		return ws2811.WS2811StripBGR
	default:
		return ws2811.WS2811StripGRB
	}
}
