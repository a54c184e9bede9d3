// Package ors computes drive-time isochrones with the openrouteservice
// API. The free tier enforces a small daily quota; the client surfaces
// exhaustion as pass.ErrQuotaExceeded so the reach pass stops cleanly and
// resumes the next day.
package ors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Jeepster74/MPone/internal/pass"
	"github.com/Jeepster74/MPone/internal/store"
)

const defaultBaseURL = "https://api.openrouteservice.org/v2/isochrones/driving-car"

// Client implements pass.IsochroneSource.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates an isochrone client.
func NewClient(apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultBaseURL,
		logger:     logger,
	}
}

type isochroneRequest struct {
	Locations [][]float64 `json:"locations"`
	Range     []int       `json:"range"`
	RangeType string      `json:"range_type"`
}

type isochroneResponse struct {
	Features []store.Feature `json:"features"`
}

// Isochrone fetches the drive-time polygon around a point.
func (c *Client) Isochrone(ctx context.Context, lat, lon float64, rangeMinutes int) (store.Feature, error) {
	body, err := json.Marshal(isochroneRequest{
		Locations: [][]float64{{lon, lat}}, // ors wants lon,lat order
		Range:     []int{rangeMinutes * 60},
		RangeType: "time",
	})
	if err != nil {
		return store.Feature{}, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return store.Feature{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return store.Feature{}, fmt.Errorf("isochrone request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests, http.StatusForbidden:
		// 403 is how ors reports a spent daily quota on the free tier.
		io.Copy(io.Discard, resp.Body) //nolint:errcheck
		return store.Feature{}, pass.ErrQuotaExceeded
	default:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return store.Feature{}, fmt.Errorf("ors API error: status %d: %s", resp.StatusCode, msg)
	}

	var ir isochroneResponse
	if err := json.NewDecoder(resp.Body).Decode(&ir); err != nil {
		return store.Feature{}, fmt.Errorf("decode response: %w", err)
	}
	if len(ir.Features) == 0 {
		return store.Feature{}, fmt.Errorf("ors returned no isochrone for %.4f,%.4f", lat, lon)
	}
	return ir.Features[0], nil
}
