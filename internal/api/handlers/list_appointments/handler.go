package list_appointments

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/nkrasko/BM-AppointmentService/internal/api/handlers"
	"github.com/nkrasko/BM-AppointmentService/internal/domain"
	"github.com/nkrasko/BM-AppointmentService/internal/service/appointments"
)

const (
	msgInvalidStatus   = "некорректный статус записи"
	msgInvalidClientID = "некорректный ID клиента"
	msgInvalidPage     = "некорректные параметры пагинации"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
)

type Handler struct {
	service AppointmentsService
	logger  Logger
}

func NewHandler(service AppointmentsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/appointments?status=&client_id=&from=&to=&page=&per_page=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &appointments.ListRequest{Page: 1, PerPage: domain.DefaultPerPage}

	if raw := query.Get("status"); raw != "" {
		req.Status = &raw
	}
	if raw := query.Get("client_id"); raw != "" {
		clientID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidClientID)
			return
		}
		req.ClientID = &clientID
	}
	if raw := query.Get("from"); raw != "" {
		from, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.StartFrom = &from
	}
	if raw := query.Get("to"); raw != "" {
		to, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		// Верхняя граница включает весь день
		end := to.Add(24*time.Hour - time.Nanosecond)
		req.StartTo = &end
	}
	if raw := query.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			handlers.RespondBadRequest(w, msgInvalidPage)
			return
		}
		req.Page = page
	}
	if raw := query.Get("per_page"); raw != "" {
		perPage, err := strconv.Atoi(raw)
		if err != nil || perPage < 1 {
			handlers.RespondBadRequest(w, msgInvalidPage)
			return
		}
		req.PerPage = perPage
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		if errors.Is(err, appointments.ErrInvalidStatus) {
			handlers.RespondBadRequest(w, msgInvalidStatus)
			return
		}
		h.logger.Error("GET /appointments - Failed to list appointments: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
