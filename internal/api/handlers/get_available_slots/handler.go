package get_available_slots

import (
	"errors"
	"net/http"
	"time"

	"github.com/nkrasko/BM-AppointmentService/internal/api/handlers"
	"github.com/nkrasko/BM-AppointmentService/internal/domain"
	getSlots "github.com/nkrasko/BM-AppointmentService/internal/usecase/get_available_slots"
)

const (
	msgInvalidDate  = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgPastDate     = "дата уже прошла"
	msgInvalidRange = "некорректный диапазон дат"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/slots/available?date=YYYY-MM-DD&from=...&to=...
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req := &getSlots.Request{}

	query := r.URL.Query()
	if raw := query.Get("date"); raw != "" {
		date, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /slots/available - Invalid date %q: %v", raw, err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.Date = &date
	}
	if raw := query.Get("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidRange)
			return
		}
		req.From = &from
	}
	if raw := query.Get("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidRange)
			return
		}
		req.To = &to
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getSlots.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.Is(err, getSlots.ErrInvalidRange):
			handlers.RespondBadRequest(w, msgInvalidRange)

		default:
			h.logger.Error("GET /slots/available - Failed to get slots: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
