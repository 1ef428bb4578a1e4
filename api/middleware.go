package api

import (
	"net/http"

	"github.com/samber/lo"
)

// corsMiddleware reflects the request origin when it is on the allowed list.
// An empty list disables cross-origin access entirely; same-origin clients
// are unaffected either way.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && lo.Contains(s.allowedOrigins, origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// recoverMiddleware is the last-resort safety net for truly unanticipated
// faults. Expected failures are mapped to responses at their originating
// stage and never reach this handler.
func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error("panic in handler", "path", r.URL.Path, "panic", rec)
				s.writeError(w, http.StatusInternalServerError, KindServer, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
