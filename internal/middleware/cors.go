package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// PrintCORSMiddleware allows any origin on the print surface. The external
// printing app fetches the print-job JSON from whatever origin it runs as,
// so the route has to stay wide open.
func PrintCORSMiddleware() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining"},
		MaxAge:         300,
	})
}
