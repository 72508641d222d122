// Package elevation looks up terrain heights for run routes through an
// opentopodata-compatible proxy.
package elevation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"RocketClient/internal/cache"
	"RocketClient/internal/geo"
	"RocketClient/internal/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// MaxPoints is the request-size ceiling of the elevation service
const MaxPoints = 100

// Dataset is the elevation model queried by Lookup
const Dataset = "eudem25m"

// Result pairs each queried point with its elevation in metres.
// Elevations[i] is nil when the service had no value for Points[i].
type Result struct {
	Points     []geo.Point
	Elevations []*float64
}

// Response is the body returned by the elevation service
type Response struct {
	Results []struct {
		Elevation *float64 `json:"elevation"`
	} `json:"results"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Client queries the elevation service
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	inst       telemetry.Instruments
	cache      *cache.Cache
}

// NewClient creates an elevation client. baseURL is the service root
// including its version segment, e.g. "https://api.opentopodata.org/v1".
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger, inst telemetry.Instruments) (*Client, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		inst:       inst.OrGlobal(),
		cache:      cache.New(time.Hour),
	}, nil
}

// Downsample keeps every step-th point, step = ceil(len/max), so that at most
// max points remain in their original order.
func Downsample(points []geo.Point, max int) []geo.Point {
	if max <= 0 || len(points) <= max {
		return points
	}
	step := (len(points) + max - 1) / max
	sampled := make([]geo.Point, 0, (len(points)+step-1)/step)
	for i := 0; i < len(points); i += step {
		sampled = append(sampled, points[i])
	}
	return sampled
}

// Lookup fetches elevations for points in one batched request. Routes longer
// than MaxPoints are downsampled first; Result.Points holds what was queried.
// On failure the result is still fully populated with nil elevations and the
// error says why.
func (c *Client) Lookup(ctx context.Context, points []geo.Point) (Result, error) {
	if len(points) == 0 {
		return Result{}, nil
	}

	used := Downsample(points, MaxPoints)
	result := Result{
		Points:     used,
		Elevations: make([]*float64, len(used)),
	}

	key := cache.GenerateCacheKey(used)
	if cached, ok := c.cache.Load(key); ok {
		c.logger.Debug("elevation cache hit", "key", key[:16])
		copy(result.Elevations, cached)
		return result, nil
	}

	ctx, span := c.inst.Tracer.Start(ctx, "elevation_lookup")
	defer span.End()
	span.SetAttributes(
		attribute.Int("elevation.points.requested", len(points)),
		attribute.Int("elevation.points.sent", len(used)),
	)

	apiResp, err := c.fetch(ctx, used)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Warn("elevation lookup failed", "points", len(used), "error", err)
		return result, err
	}

	for i := range result.Elevations {
		if i < len(apiResp.Results) {
			result.Elevations[i] = apiResp.Results[i].Elevation
		}
	}

	c.cache.Store(key, append([]*float64(nil), result.Elevations...))
	c.logger.Info("elevation lookup", "points", len(used), "results", len(apiResp.Results))
	return result, nil
}

func (c *Client) fetch(ctx context.Context, points []geo.Point) (*Response, error) {
	start := time.Now()

	locations := make([]string, len(points))
	for i, p := range points {
		locations[i] = p.String()
	}
	query := url.Values{"locations": {strings.Join(locations, "|")}}
	endpoint := fmt.Sprintf("%s/%s?%s", c.baseURL, Dataset, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("content-type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.inst.RecordDuration(ctx, start)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("elevation API error: %s - %s", resp.Status, string(body))
	}

	var apiResp Response
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &apiResp, nil
}
