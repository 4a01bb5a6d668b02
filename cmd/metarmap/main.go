// Command metarmap renders current METAR conditions on an LED strip, one LED
// per configured airport. It fetches the feed once, animates for the
// configured blink window, and exits; periodic operation is a systemd timer's
// job.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/metar-map/internal/adapter/awc"
	httpadapter "github.com/couchcryptid/metar-map/internal/adapter/http"
	"github.com/couchcryptid/metar-map/internal/adapter/mqttpub"
	"github.com/couchcryptid/metar-map/internal/adapter/oled"
	"github.com/couchcryptid/metar-map/internal/adapter/strip"
	"github.com/couchcryptid/metar-map/internal/config"
	"github.com/couchcryptid/metar-map/internal/dimming"
	"github.com/couchcryptid/metar-map/internal/domain"
	"github.com/couchcryptid/metar-map/internal/observability"
	"github.com/couchcryptid/metar-map/internal/render"
)

func main() {
	configPath := flag.String("config", "metarmap.toml", "path to the TOML config file")
	flag.Parse()

	_ = godotenv.Load() // optional .env, absence is fine

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	logger.Info("starting metar map",
		"airports", len(cfg.Airports.Stations),
		"leds", cfg.LEDs.Count,
		"wind_animation", cfg.Animation.WindEnabled,
		"lightning_animation", cfg.Animation.LightningEnabled,
		"daytime_dimming", cfg.Dimming.Enabled,
		"display", cfg.Display.Enabled,
		"legend", cfg.Legend.Enabled,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg, err := buildRegistry(ctx, cfg, logger, metrics)
	if err != nil {
		logger.Error("failed to build station registry", "error", err)
		os.Exit(1)
	}

	brightness, err := dimming.Brightness(cfg, time.Now())
	if err != nil {
		logger.Error("failed to pick brightness", "error", err)
		os.Exit(1)
	}
	logger.Info("brightness selected", "brightness", brightness)

	sink, err := strip.New(cfg.LEDs, brightness, logger)
	if err != nil {
		logger.Error("failed to open LED strip", "error", err)
		os.Exit(1)
	}
	defer sink.Close()

	var display render.Display
	if cfg.Display.Enabled {
		d, err := oled.New(cfg.Display.I2CBus, logger)
		if err != nil {
			// The map is still useful without the panel.
			logger.Warn("secondary display unavailable, continuing without it", "error", err)
		} else {
			defer d.Close()
			display = d
		}
	}

	if cfg.MQTT.Enabled {
		publishConditions(cfg, reg, logger)
	}

	pal, err := cfg.Palette()
	if err != nil {
		logger.Error("failed to parse palette", "error", err)
		os.Exit(1)
	}

	sched := render.New(reg, sink, display, render.Options{
		Params:          cfg.AnimationParams(),
		Palette:         pal,
		LegendEnabled:   cfg.Legend.Enabled,
		LegendOffset:    cfg.Legend.Offset,
		DisplayEnabled:  cfg.Display.Enabled && display != nil,
		BlinkSpeed:      cfg.BlinkSpeed(),
		TotalBlinkTime:  cfg.TotalBlinkTime(),
		DisplayRotation: cfg.DisplayRotation(),
	}, clockwork.NewRealClock(), logger, metrics)

	var srv *httpadapter.Server
	if cfg.HTTP.Enabled {
		srv = httpadapter.NewServer(cfg.HTTP.Addr, sched, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
	}

	runErr := sched.Run(ctx)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
	}

	if runErr != nil {
		logger.Error("render loop error", "error", runErr)
		os.Exit(1)
	}
	logger.Info("done")
}

// buildRegistry fetches the feed, normalizes every report, and merges the
// result with the configured airport list.
func buildRegistry(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (*domain.Registry, error) {
	ids := make([]string, 0, len(cfg.Airports.Stations))
	for _, ap := range cfg.Airports.Stations {
		if ap != domain.SkipMarker {
			ids = append(ids, ap)
		}
	}

	client := awc.NewClient(cfg.Weather, logger)
	fetchStart := time.Now()
	reports, err := client.FetchReports(ctx, ids)
	if err != nil {
		return nil, err
	}
	metrics.FetchDuration.Observe(time.Since(fetchStart).Seconds())

	opts := cfg.BuildOptions()
	conditions := make(map[string]domain.StationCondition, len(reports))
	lightning := 0
	for _, raw := range reports {
		cond := domain.BuildStationCondition(raw, opts)
		logger.Debug("station conditions",
			"station", cond.StationID,
			"category", cond.FlightCategory.String(),
			"wind", cond.WindSpeedKt,
			"gust", cond.WindGustKt,
			"visibility_mi", cond.VisibilityMiles,
			"lightning", cond.Lightning,
		)
		conditions[cond.StationID] = cond
		if cond.Lightning {
			lightning++
		}
	}
	metrics.StationsReported.Set(float64(len(conditions)))
	metrics.LightningStations.Set(float64(lightning))

	reg, err := domain.NewRegistry(cfg.Airports.Stations, conditions, cfg.Airports.Display, cfg.LEDs.Count)
	if err != nil {
		return nil, err
	}
	metrics.StationsMissing.Set(float64(reg.MissingCount()))
	return reg, nil
}

// publishConditions pushes the merged registry to MQTT. Publishing is
// best-effort enrichment and never blocks rendering.
func publishConditions(cfg *config.Config, reg *domain.Registry, logger *slog.Logger) {
	pub, err := mqttpub.New(cfg.MQTT, logger)
	if err != nil {
		logger.Warn("mqtt unavailable, skipping publish", "error", err)
		return
	}
	defer pub.Close()
	if err := pub.PublishConditions(reg); err != nil {
		logger.Warn("mqtt publish failed", "error", err)
	}
}
