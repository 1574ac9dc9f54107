package list_services

import (
	"context"

	"github.com/nkrasko/BM-AppointmentService/internal/service/catalog"
)

type CatalogService interface {
	List(ctx context.Context, activeOnly bool) (*catalog.ListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
