package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
)

// ProfessionalIDHeader заголовок с ID профессионала, проставляется API gateway
const ProfessionalIDHeader = "X-Professional-ID"

type professionalIDKey struct{}

// Auth извлекает ID профессионала из заголовка и кладет его в контекст.
// Без заголовка запрос отклоняется с 401.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(ProfessionalIDHeader)
		if raw == "" {
			handlers.RespondUnauthorized(w, "отсутствует заголовок "+ProfessionalIDHeader)
			return
		}

		professionalID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || professionalID <= 0 {
			handlers.RespondUnauthorized(w, "некорректный заголовок "+ProfessionalIDHeader)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithProfessionalID(r.Context(), professionalID)))
	})
}

// WithProfessionalID кладет ID профессионала в контекст
func WithProfessionalID(ctx context.Context, professionalID int64) context.Context {
	return context.WithValue(ctx, professionalIDKey{}, professionalID)
}

// GetProfessionalID достает ID профессионала из контекста
func GetProfessionalID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(professionalIDKey{}).(int64)
	return id, ok
}

// OwnerOnly пропускает запрос, только если ID профессионала в пути совпадает с ID из заголовка.
// Ставится после Auth.
func OwnerOnly(pathVar string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			callerID, ok := GetProfessionalID(r.Context())
			if !ok {
				handlers.RespondUnauthorized(w, "отсутствует заголовок "+ProfessionalIDHeader)
				return
			}

			ownerID, err := strconv.ParseInt(mux.Vars(r)[pathVar], 10, 64)
			if err != nil || ownerID <= 0 {
				handlers.RespondBadRequest(w, "некорректный ID профессионала")
				return
			}

			if ownerID != callerID {
				handlers.RespondForbidden(w, "доступ запрещен")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
