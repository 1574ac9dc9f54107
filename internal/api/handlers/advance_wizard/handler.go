package advance_wizard

import (
	"errors"
	"net/http"

	"github.com/nkrasko/BM-AppointmentService/internal/api/handlers"
	"github.com/nkrasko/BM-AppointmentService/internal/api/middleware"
	"github.com/nkrasko/BM-AppointmentService/internal/service/wizard"
	confirmBooking "github.com/nkrasko/BM-AppointmentService/internal/usecase/confirm_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidAction      = "некорректный код действия"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgDraftNotFound      = "черновик записи не найден, начните заново"
	msgMissingData        = "не заполнены данные текущего шага"
	msgPastDate           = "нельзя выбрать дату в прошлом"
	msgSlotNotFound       = "слот не найден"
	msgSlotUnavailable    = "слот уже занят, выберите другой"
	msgServiceNotFound    = "услуга не найдена"
	msgServiceInactive    = "услуга больше недоступна"
	msgTooManyPhotos      = "превышен лимит фотографий"
	msgCommentTooLong     = "комментарий слишком длинный"
	msgSlotTaken          = "слот только что заняли, вернитесь назад и выберите другой"
	msgSlotGone           = "слот больше не существует, вернитесь назад и выберите другой"
)

type Handler struct {
	service WizardService
	logger  Logger
}

func NewHandler(service WizardService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/draft/advance
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/draft/advance - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req AdvanceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/draft/advance - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	action, err := req.ToAction()
	if err != nil {
		h.logger.Warn("POST /bookings/draft/advance - Invalid action: client_id=%d, %v", clientID, err)
		handlers.RespondBadRequest(w, msgInvalidAction)
		return
	}

	input, err := req.ToStepInput()
	if err != nil {
		h.logger.Warn("POST /bookings/draft/advance - Invalid date: client_id=%d, %v", clientID, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	change, err := h.service.Advance(r.Context(), clientID, req.Handle, action, input)
	if err != nil {
		switch {
		case errors.Is(err, wizard.ErrDraftNotFound):
			h.logger.Warn("POST /bookings/draft/advance - Draft not found: client_id=%d, handle=%s", clientID, req.Handle)
			handlers.RespondNotFound(w, msgDraftNotFound)

		case errors.Is(err, wizard.ErrMissingData), errors.Is(err, confirmBooking.ErrMissingData):
			handlers.RespondBadRequest(w, msgMissingData)

		case errors.Is(err, wizard.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.Is(err, wizard.ErrSlotNotFound):
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, wizard.ErrSlotUnavailable):
			handlers.RespondConflict(w, msgSlotUnavailable)

		case errors.Is(err, wizard.ErrServiceNotFound):
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, wizard.ErrServiceInactive):
			handlers.RespondBadRequest(w, msgServiceInactive)

		case errors.Is(err, wizard.ErrTooManyPhotos):
			handlers.RespondBadRequest(w, msgTooManyPhotos)

		case errors.Is(err, wizard.ErrCommentTooLong):
			handlers.RespondBadRequest(w, msgCommentTooLong)

		case errors.Is(err, confirmBooking.ErrSlotTaken):
			h.logger.Warn("POST /bookings/draft/advance - Slot taken on commit: client_id=%d", clientID)
			handlers.RespondConflict(w, msgSlotTaken)

		case errors.Is(err, confirmBooking.ErrSlotGone):
			h.logger.Warn("POST /bookings/draft/advance - Slot gone on commit: client_id=%d", clientID)
			handlers.RespondConflict(w, msgSlotGone)

		default:
			h.logger.Error("POST /bookings/draft/advance - Failed to advance: client_id=%d, error=%v", clientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/draft/advance - client_id=%d, step=%s, committed=%t, cancelled=%t",
		clientID, change.Step.String(), change.Committed, change.Cancelled)
	handlers.RespondJSON(w, http.StatusOK, FromStepChange(change))
}
