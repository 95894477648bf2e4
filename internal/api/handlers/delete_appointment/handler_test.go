package delete_appointment

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/middleware"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/appointments"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
)

type stubService struct {
	appointmentID  int64
	professionalID int64
	err            error
}

func (s *stubService) Delete(_ context.Context, appointmentID, professionalID int64) error {
	s.appointmentID = appointmentID
	s.professionalID = professionalID
	return s.err
}

func serve(svc *stubService, appointmentID string, professionalID int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/appointments/"+appointmentID, nil)
	req = mux.SetURLVars(req, map[string]string{"appointmentId": appointmentID})
	if professionalID > 0 {
		req = req.WithContext(middleware.WithProfessionalID(req.Context(), professionalID))
	}
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandle_Deleted(t *testing.T) {
	svc := &stubService{}

	rec := serve(svc, "12", 5)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, int64(12), svc.appointmentID)
	assert.Equal(t, int64(5), svc.professionalID)
}

func TestHandle_ErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{appointments.ErrAppointmentNotFound, http.StatusNotFound},
		{appointments.ErrAccessDenied, http.StatusForbidden},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		rec := serve(&stubService{err: tc.err}, "12", 5)
		assert.Equal(t, tc.status, rec.Code, "%v", tc.err)
	}
}

func TestHandle_BadRequests(t *testing.T) {
	svc := &stubService{}

	assert.Equal(t, http.StatusBadRequest, serve(svc, "abc", 5).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(svc, "12", 0).Code)
	assert.Zero(t, svc.appointmentID)
}
