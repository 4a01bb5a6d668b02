// Package mqttpub publishes per-station conditions to an MQTT broker so
// home-automation dashboards can consume the same data the strip renders.
package mqttpub

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/couchcryptid/metar-map/internal/config"
	"github.com/couchcryptid/metar-map/internal/domain"
)

const connectTimeout = 10 * time.Second

// Publisher holds a connected MQTT client for the run.
type Publisher struct {
	client mqtt.Client
	prefix string
	logger *slog.Logger
}

// New connects to the configured broker. The run is short, so a connection
// failure is surfaced immediately instead of retrying in the background.
func New(cfg config.MQTTConfig, logger *slog.Logger) (*Publisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.BrokerURL)
	opts.SetClientID(cfg.ClientID)
	opts.SetCleanSession(true)
	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("connect to mqtt broker %s: timeout", cfg.BrokerURL)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to mqtt broker %s: %w", cfg.BrokerURL, err)
	}

	logger.Info("mqtt connected", "broker", cfg.BrokerURL)
	return &Publisher{
		client: client,
		prefix: cfg.TopicPrefix,
		logger: logger.With("component", "mqtt"),
	}, nil
}

// stationMessage is the published payload. FlightCategory serializes as its
// string form rather than the internal enum value.
type stationMessage struct {
	domain.StationCondition
	FlightCategory string `json:"flight_category"`
}

// PublishConditions publishes one retained message per registry slot on
// <prefix>/station/<id>. Retention lets late subscribers see the last run.
func (p *Publisher) PublishConditions(reg *domain.Registry) error {
	for _, slot := range reg.Slots() {
		cond, ok := reg.Condition(slot.StationID)
		if !ok {
			continue
		}
		payload, err := json.Marshal(stationMessage{
			StationCondition: cond,
			FlightCategory:   cond.FlightCategory.String(),
		})
		if err != nil {
			return fmt.Errorf("marshal station %s: %w", slot.StationID, err)
		}

		topic := fmt.Sprintf("%s/station/%s", p.prefix, slot.StationID)
		token := p.client.Publish(topic, 0, true, payload)
		token.Wait()
		if err := token.Error(); err != nil {
			return fmt.Errorf("publish %s: %w", topic, err)
		}
	}
	p.logger.Info("published station conditions", "stations", len(reg.Slots()))
	return nil
}

// Close disconnects, allowing in-flight messages to drain.
func (p *Publisher) Close() {
	p.client.Disconnect(250)
}
