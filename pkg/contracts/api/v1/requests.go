// Package api contains the JSON contract of the metricsboard HTTP API.
package api

import (
	"metricsboard/pkg/contracts/domain"
)

// ExportRequest carries the query parameters of POST /api/dashboard/export
type ExportRequest struct {
	Format string `json:"format" query:"format" validate:"required,oneof=xlsx csv"`
	// Filename names the download without extension; empty derives it from the upload
	Filename string `json:"filename,omitempty" query:"filename" validate:"omitempty,filename"`
}

// DashboardResponse wraps a successfully built dashboard
type DashboardResponse struct {
	Status string            `json:"status"`
	Data   *domain.Dashboard `json:"data"`
}

// NewDashboardResponse returns a success envelope around d
func NewDashboardResponse(d *domain.Dashboard) *DashboardResponse {
	return &DashboardResponse{Status: "success", Data: d}
}
