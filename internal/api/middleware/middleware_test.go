package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/pkg/metrics"
)

func echoProfessional(t *testing.T, want int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := GetProfessionalID(r.Context())
		require.True(t, ok)
		assert.Equal(t, want, id)
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuth(t *testing.T) {
	handler := Auth(echoProfessional(t, 42))

	cases := map[string]int{
		"42":  http.StatusNoContent,
		"":    http.StatusUnauthorized,
		"abc": http.StatusUnauthorized,
		"-1":  http.StatusUnauthorized,
	}

	for header, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set(ProfessionalIDHeader, header)
		}
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, want, rec.Code, "header %q", header)
	}
}

func TestOwnerOnly(t *testing.T) {
	r := mux.NewRouter()
	r.Handle("/professionals/{professionalId}/exceptions", Auth(OwnerOnly("professionalId")(echoProfessional(t, 5))))

	cases := []struct {
		path   string
		status int
	}{
		{"/professionals/5/exceptions", http.StatusNoContent},
		{"/professionals/6/exceptions", http.StatusForbidden},
		{"/professionals/x/exceptions", http.StatusBadRequest},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, tc.path, nil)
		req.Header.Set(ProfessionalIDHeader, "5")
		rec := httptest.NewRecorder()

		r.ServeHTTP(rec, req)

		assert.Equal(t, tc.status, rec.Code, tc.path)
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, incoming)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, incoming, seen)
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	m := metrics.NewWithRegisterer("test", prometheus.NewRegistry())
	r := mux.NewRouter()
	r.Use(MetricsMiddleware(m))
	r.HandleFunc("/professionals/{professionalId}/available-slots", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, id := range []string{"1", "2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/professionals/"+id+"/available-slots", nil))
	}

	counter := m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/professionals/{professionalId}/available-slots", "418")
	assert.Equal(t, float64(2), testutil.ToFloat64(counter))
}
