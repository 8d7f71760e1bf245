package middleware

import (
	"net/http"

	"github.com/amiraziz/souq-backend/api/responses"
	pkgerrors "github.com/amiraziz/souq-backend/pkg/errors"
	"github.com/amiraziz/souq-backend/pkg/logger"
)

// Recoverer converts panics into a 500 response instead of tearing down
// the connection.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					err := pkgerrors.Newf(pkgerrors.CodeInternal, "panic: %v", rec)
					responses.WriteError(r.Context(), logg, w, err)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
