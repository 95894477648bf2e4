package get_exceptions

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/availability"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/availability/models"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

const (
	msgInvalidProfessionalID = "некорректный ID профессионала"
	msgInvalidParams         = "некорректные параметры запроса"
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

// Handle GET /api/v1/professionals/{professionalId}/exceptions
// Query params: from, to (опционально, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	professionalID, err := strconv.ParseInt(vars["professionalId"], 10, 64)
	if err != nil || professionalID <= 0 {
		h.logger.Warn("GET /professionals/{id}/exceptions - Invalid professional ID: %q", vars["professionalId"])
		handlers.RespondBadRequest(w, msgInvalidProfessionalID)
		return
	}

	req := &models.GetExceptionsRequest{ProfessionalID: professionalID}
	for name, dst := range map[string]**types.Date{"from": &req.From, "to": &req.To} {
		raw := r.URL.Query().Get(name)
		if raw == "" {
			continue
		}
		date, err := types.ParseDate(raw)
		if err != nil {
			h.logger.Warn("GET /professionals/{id}/exceptions - Invalid %s: %v", name, err)
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
		*dst = &date
	}

	result, err := h.service.GetExceptions(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidParams)
		default:
			h.logger.Error("GET /professionals/{id}/exceptions - Failed to get exceptions: professional_id=%d, error=%v",
				professionalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
