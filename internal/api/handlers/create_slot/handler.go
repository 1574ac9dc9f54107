package create_slot

import (
	"errors"
	"net/http"
	"time"

	"github.com/nkrasko/BM-AppointmentService/internal/api/handlers"
	"github.com/nkrasko/BM-AppointmentService/internal/service/schedule"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInterval    = "конец слота должен быть позже начала"
	msgSlotInPast         = "нельзя создать слот в прошлом"
	msgSlotConflict       = "слот с таким временем начала уже существует"
)

// CreateSlotRequest HTTP запрос на создание слота
type CreateSlotRequest struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
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

// Handle POST /api/v1/slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.CreateSlot(r.Context(), &schedule.CreateSlotRequest{
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInterval):
			handlers.RespondBadRequest(w, msgInvalidInterval)

		case errors.Is(err, schedule.ErrSlotInPast):
			handlers.RespondBadRequest(w, msgSlotInPast)

		case errors.Is(err, schedule.ErrSlotConflict):
			handlers.RespondConflict(w, msgSlotConflict)

		default:
			h.logger.Error("POST /slots - Failed to create slot: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /slots - Slot created: id=%d", result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
