package update_service

import (
	"context"

	"github.com/nkrasko/BM-AppointmentService/internal/service/catalog"
)

type CatalogService interface {
	Update(ctx context.Context, id int64, req *catalog.UpdateRequest) (*catalog.ServiceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
