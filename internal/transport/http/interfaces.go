package http

import (
	"context"

	"metricsboard/internal/services"
	"metricsboard/pkg/contracts/domain"
)

// DashboardServiceInterface defines the dashboard operations used by the handlers
type DashboardServiceInterface interface {
	Build(ctx context.Context, upload *services.Upload) (*domain.Dashboard, error)
	Export(ctx context.Context, upload *services.Upload, format, filename string) (*services.ExportResult, error)
}

// StructValidator validates tagged request structs
type StructValidator interface {
	ValidateStruct(v interface{}) error
}
