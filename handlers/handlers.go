// Package handlers adapts the core package's file-path-oriented operations
// to Gin's multipart-upload HTTP surface, the same role the teacher's
// Handlers struct played over its service layer.
package handlers

import (
	"time"
)

// Handlers holds no service dependencies of its own; core's package-level
// functions are the service layer now, so there is nothing left to inject.
type Handlers struct {
	startedAt time.Time
}

// NewHandlers creates a Handlers instance and records the server start time
// used by HealthHandler's uptime field.
func NewHandlers() *Handlers {
	return &Handlers{startedAt: time.Now()}
}
