package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

var defaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://localhost:8080",
}

// CORS returns middleware that applies the API's allowed origin policy.
// apiKeyHeader is allowed on requests so browser clients can authenticate.
func CORS(apiKeyHeader string) func(http.Handler) http.Handler {
	headers := []string{"Accept", "Content-Type", "X-Request-Id", "X-Requested-With"}
	if apiKeyHeader != "" {
		headers = append(headers, apiKeyHeader)
	}
	return cors.New(cors.Options{
		AllowedOrigins: defaultCORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: headers,
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}).Handler
}
