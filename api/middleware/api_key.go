package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/angelmondragon/potionshop-backend/api/responses"
	pkgerrors "github.com/angelmondragon/potionshop-backend/pkg/errors"
	"github.com/angelmondragon/potionshop-backend/pkg/logger"
)

// DefaultAPIKeyHeader carries the shared key when no header is configured.
const DefaultAPIKeyHeader = "access_token"

// APIKey rejects requests whose header does not match key. An empty key
// disables the check.
func APIKey(key, header string, logg *logger.Logger) func(http.Handler) http.Handler {
	if header = strings.TrimSpace(header); header == "" {
		header = DefaultAPIKeyHeader
	}
	expected := []byte(key)
	return func(next http.Handler) http.Handler {
		if key == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := strings.TrimSpace(r.Header.Get(header))
			if provided == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}
			if subtle.ConstantTimeCompare([]byte(provided), expected) != 1 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
