package health

import (
	"github.com/dmitrymomot/cafe/core/handler"
	"github.com/dmitrymomot/cafe/core/response"
)

// Status is the body returned by both probes.
type Status struct {
	Status  string            `json:"status"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// Liveness reports that the process is up. It performs no dependency checks.
func Liveness[C handler.Context](version string) handler.HandlerFunc[C] {
	return func(C) handler.Response {
		return response.JSON(Status{Status: "alive", Version: version})
	}
}
