package middleware

import (
	"log"
	"net"
	"net/http"
	"strings"

	"github.com/utilflow/lead-sequencer/internal/entity"
)

// APILog records one row per API request, including the final status
// code. Logging never blocks the response: a failed insert is printed
// and dropped.
func APILog(logs entity.APILogRepositoryInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rw, r)

			entry := entity.NewAPILogEntry(r.Method, r.URL.Path, rw.statusCode, getClientIP(r))
			if err := logs.Create(r.Context(), entry); err != nil {
				log.Printf("⚠️ failed to write API log entry: %v", err)
			}
		})
	}
}

func getClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return real
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
