// Package awc fetches METAR observations from the aviationweather.gov data API.
package awc

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/metar-map/internal/config"
	"github.com/couchcryptid/metar-map/internal/domain"
)

// The API rejects requests without a browser-looking User-Agent.
const userAgent = "Mozilla/5.0 (compatible; metar-map)"

// Client fetches the raw METAR feed once per run.
type Client struct {
	baseURL        string
	hoursBeforeNow int
	maxRetries     int
	httpClient     *http.Client
	logger         *slog.Logger
}

// NewClient creates an AWC API client from the weather config section.
func NewClient(cfg config.WeatherConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		hoursBeforeNow: cfg.HoursBeforeNow,
		maxRetries:     cfg.MaxRetries,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		logger: logger.With("component", "awc"),
	}
}

// FetchReports requests the most recent observation per station and returns
// the raw, unnormalized reports. Stations with no recent report are simply
// absent from the result.
func (c *Client) FetchReports(ctx context.Context, stationIDs []string) ([]domain.RawReport, error) {
	url := fmt.Sprintf(
		"%s/metar?ids=%s&hoursBeforeNow=%d&format=xml&mostRecent=true&mostRecentForEachStation=constraint",
		c.baseURL, strings.Join(stationIDs, ","), c.hoursBeforeNow,
	)

	var resp feedResponse
	if err := c.fetchWithRetry(ctx, url, &resp); err != nil {
		return nil, err
	}

	reports := make([]domain.RawReport, 0, len(resp.Data.METARs))
	for _, m := range resp.Data.METARs {
		reports = append(reports, m.toRawReport())
	}
	c.logger.Info("fetched METAR feed", "requested", len(stationIDs), "reported", len(reports))
	return reports, nil
}

// fetchWithRetry performs the request with exponential backoff between
// attempts. The context cancels both the in-flight request and the backoff.
func (c *Client) fetchWithRetry(ctx context.Context, url string, target any) error {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(500*(1<<uint(attempt-1))) * time.Millisecond
			c.logger.Info("retrying METAR fetch", "attempt", attempt, "backoff", backoff)
			if !sleepWithContext(ctx, backoff) {
				return ctx.Err()
			}
		}

		lastErr = c.fetchOnce(ctx, url, target)
		if lastErr == nil {
			if attempt > 0 {
				c.logger.Info("METAR fetch succeeded after retries", "attempts", attempt+1)
			}
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Warn("METAR fetch failed, may retry",
			"error", lastErr, "attempt", attempt+1, "max_attempts", c.maxRetries+1)
	}

	return fmt.Errorf("fetch METAR feed after %d attempts: %w", c.maxRetries+1, lastErr)
}

func (c *Client) fetchOnce(ctx context.Context, url string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request weather API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	if err := xml.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode weather feed: %w", err)
	}
	return nil
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// feedResponse mirrors the XML envelope of the AWC data API. Every field
// stays a string here; normalization is the domain's job.
type feedResponse struct {
	XMLName xml.Name `xml:"response"`
	Data    struct {
		METARs []metarElement `xml:"METAR"`
	} `xml:"data"`
}

type metarElement struct {
	RawText             string       `xml:"raw_text"`
	StationID           string       `xml:"station_id"`
	ObservationTime     string       `xml:"observation_time"`
	TempC               string       `xml:"temp_c"`
	DewpointC           string       `xml:"dewpoint_c"`
	WindDirDegrees      string       `xml:"wind_dir_degrees"`
	WindSpeedKt         string       `xml:"wind_speed_kt"`
	WindGustKt          string       `xml:"wind_gust_kt"`
	VisibilityStatuteMi string       `xml:"visibility_statute_mi"`
	AltimInHg           string       `xml:"altim_in_hg"`
	FlightCategory      string       `xml:"flight_category"`
	WxString            string       `xml:"wx_string"`
	SkyConditions       []skyElement `xml:"sky_condition"`
}

type skyElement struct {
	SkyCover       string `xml:"sky_cover,attr"`
	CloudBaseFtAgl string `xml:"cloud_base_ft_agl,attr"`
}

func (m metarElement) toRawReport() domain.RawReport {
	sky := make([]domain.RawSkyCondition, 0, len(m.SkyConditions))
	for _, layer := range m.SkyConditions {
		sky = append(sky, domain.RawSkyCondition{
			Cover:          layer.SkyCover,
			CloudBaseFtAgl: layer.CloudBaseFtAgl,
		})
	}
	return domain.RawReport{
		StationID:           m.StationID,
		RawText:             m.RawText,
		ObservationTime:     m.ObservationTime,
		TemperatureC:        m.TempC,
		DewpointC:           m.DewpointC,
		WindDirDegrees:      m.WindDirDegrees,
		WindSpeedKt:         m.WindSpeedKt,
		WindGustKt:          m.WindGustKt,
		VisibilityStatuteMi: m.VisibilityStatuteMi,
		AltimeterInHg:       m.AltimInHg,
		FlightCategory:      m.FlightCategory,
		WxString:            m.WxString,
		SkyConditions:       sky,
	}
}
