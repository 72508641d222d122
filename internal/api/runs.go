package api

import (
	"context"
	"fmt"
	"net/http"

	"RocketClient/internal/backend"

	"github.com/google/uuid"
)

// UploadRun stores a completed run. route is a WKT LINESTRING, distance in km.
func (c *Client) UploadRun(ctx context.Context, route, duration string, distance float64) error {
	req := backend.RunUpload{Route: route, Duration: duration, Distance: distance}
	if err := c.doJSON(ctx, http.MethodPost, c.protectedURL("/runs"), req, nil); err != nil {
		return fmt.Errorf("failed to upload run: %w", err)
	}
	return nil
}

// Runs lists the caller's completed runs
func (c *Client) Runs(ctx context.Context) ([]backend.Run, error) {
	var runs []backend.Run
	if err := c.doJSON(ctx, http.MethodGet, c.protectedURL("/runs"), nil, &runs); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// DeleteRun removes a completed run
func (c *Client) DeleteRun(ctx context.Context, id uuid.UUID) error {
	if err := c.doJSON(ctx, http.MethodDelete, c.protectedURL("/runs/"+id.String()), nil, nil); err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	return nil
}

// PlanRun saves a named route. Names are unique per user.
func (c *Client) PlanRun(ctx context.Context, name, route string, distance float64) error {
	req := backend.PlanRunRequest{Route: route, Name: name, Distance: distance}
	if err := c.doJSON(ctx, http.MethodPost, c.protectedURL("/runs/plan"), req, nil); err != nil {
		return fmt.Errorf("failed to plan run: %w", err)
	}
	return nil
}

// PlannedRuns lists the caller's saved routes
func (c *Client) PlannedRuns(ctx context.Context) ([]backend.PlannedRun, error) {
	var runs []backend.PlannedRun
	if err := c.doJSON(ctx, http.MethodGet, c.protectedURL("/runs/plan"), nil, &runs); err != nil {
		return nil, fmt.Errorf("failed to list planned runs: %w", err)
	}
	return runs, nil
}

// DeletePlannedRun removes a saved route
func (c *Client) DeletePlannedRun(ctx context.Context, id uuid.UUID) error {
	if err := c.doJSON(ctx, http.MethodDelete, c.protectedURL("/runs/plan/"+id.String()), nil, nil); err != nil {
		return fmt.Errorf("failed to delete planned run: %w", err)
	}
	return nil
}
