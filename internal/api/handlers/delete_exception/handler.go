package delete_exception

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/availability"
)

const (
	msgInvalidID = "некорректный ID"
	msgNotFound  = "исключение не найдено"
	msgForbidden = "доступ запрещен"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/professionals/{professionalId}/exceptions/{exceptionId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	professionalID, err := strconv.ParseInt(vars["professionalId"], 10, 64)
	if err != nil || professionalID <= 0 {
		h.logger.Warn("DELETE /professionals/{id}/exceptions/{id} - Invalid professional ID: %q", vars["professionalId"])
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	exceptionID, err := strconv.ParseInt(vars["exceptionId"], 10, 64)
	if err != nil || exceptionID <= 0 {
		h.logger.Warn("DELETE /professionals/{id}/exceptions/{id} - Invalid exception ID: %q", vars["exceptionId"])
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	if err := h.service.DeleteException(r.Context(), professionalID, exceptionID); err != nil {
		switch {
		case errors.Is(err, availability.ErrExceptionNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, availability.ErrAccessDenied):
			h.logger.Warn("DELETE /professionals/{id}/exceptions/{id} - Access denied: exception_id=%d, professional_id=%d",
				exceptionID, professionalID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /professionals/{id}/exceptions/{id} - Failed to delete: exception_id=%d, error=%v",
				exceptionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /professionals/{id}/exceptions/{id} - Exception deleted: exception_id=%d", exceptionID)
	w.WriteHeader(http.StatusNoContent)
}
