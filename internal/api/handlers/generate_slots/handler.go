package generate_slots

import (
	"errors"
	"net/http"
	"time"

	"github.com/nkrasko/BM-AppointmentService/internal/api/handlers"
	"github.com/nkrasko/BM-AppointmentService/internal/domain"
	"github.com/nkrasko/BM-AppointmentService/internal/service/schedule"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidInput       = "некорректные параметры генерации"
)

// GenerateSlotsRequest HTTP запрос на генерацию сетки слотов на день
type GenerateSlotsRequest struct {
	Date            string `json:"date"`       // YYYY-MM-DD
	WorkStart       string `json:"work_start"` // HH:MM
	WorkEnd         string `json:"work_end"`   // HH:MM
	DurationMinutes int    `json:"duration_minutes"`
}

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/slots/generate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req GenerateSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /slots/generate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		h.logger.Warn("POST /slots/generate - Invalid date %q: %v", req.Date, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.GenerateDaySlots(r.Context(), &schedule.GenerateDayRequest{
		Date:            date,
		WorkStart:       req.WorkStart,
		WorkEnd:         req.WorkEnd,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidInput) {
			handlers.RespondBadRequest(w, msgInvalidInput)
			return
		}
		h.logger.Error("POST /slots/generate - Failed to generate slots: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /slots/generate - date=%s, created=%d, skipped=%d", req.Date, len(result.Created), result.Skipped)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
