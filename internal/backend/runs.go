package backend

import "github.com/google/uuid"

// Run is a completed run. Route is a WKT LINESTRING.
type Run struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Route     string    `json:"route"`
	Duration  string    `json:"duration"`
	Distance  float64   `json:"distance"`
	CreatedAt string    `json:"created_at"`
}

// RunUpload is the body of POST /runs
type RunUpload struct {
	Route    string  `json:"route"`
	Duration string  `json:"duration"`
	Distance float64 `json:"distance"`
}

// PlannedRun is a named route saved for later
type PlannedRun struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Route     string    `json:"route"`
	Distance  float64   `json:"distance"`
	CreatedAt string    `json:"created_at"`
}

// PlanRunRequest is the body of POST /runs/plan
type PlanRunRequest struct {
	Route    string  `json:"route"`
	Name     string  `json:"name"`
	Distance float64 `json:"distance"`
}
