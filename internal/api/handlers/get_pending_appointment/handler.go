package get_pending_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/nkrasko/BM-AppointmentService/internal/api/handlers"
	"github.com/nkrasko/BM-AppointmentService/internal/service/appointments"
)

const (
	msgInvalidOffset = "некорректный offset"
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

// Handle GET /api/v1/appointments/pending?offset=N
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	offset := 0
	if raw := r.URL.Query().Get("offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			handlers.RespondBadRequest(w, msgInvalidOffset)
			return
		}
		offset = parsed
	}

	result, err := h.service.GetPendingByOffset(r.Context(), offset)
	if err != nil {
		if errors.Is(err, appointments.ErrInvalidInput) {
			handlers.RespondBadRequest(w, msgInvalidOffset)
			return
		}
		h.logger.Error("GET /appointments/pending - Failed to get pending appointment: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
