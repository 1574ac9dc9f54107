package create_service

import (
	"context"

	"github.com/nkrasko/BM-AppointmentService/internal/service/catalog"
)

type CatalogService interface {
	Create(ctx context.Context, req *catalog.CreateRequest) (*catalog.ServiceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
