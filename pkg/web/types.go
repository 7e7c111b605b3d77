// Package web provides HTTP request and response types for the journey API.
package web

import (
	"context"

	"github.com/versify/automation/pkg/models"
)

// Dispatcher runs one orchestrator task payload.
type Dispatcher interface {
	Dispatch(ctx context.Context, payload map[string]any) (map[string]any, error)
}

// RunListResponse is the body of the journey run listing.
type RunListResponse struct {
	Runs       []*models.JourneyRun `json:"runs"`
	TotalCount int                  `json:"total_count"`
}
