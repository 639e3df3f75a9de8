package api

import (
	"net/http"
	"strconv"
	"time"

	"sharebox/internal/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	headerRequestID = "X-Request-Id"
	headerUserID    = "X-Sharer-User-Id"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// requestIDMiddleware assigns a request id when the client did not send one
// and echoes it back on the response.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(headerRequestID, id)
		}
		w.Header().Set(headerRequestID, id)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		reqLogger := s.logger.With().
			Str("request_id", r.Header.Get(headerRequestID)).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Logger()
		next.ServeHTTP(rec, r.WithContext(reqLogger.WithContext(r.Context())))

		endpoint := r.Pattern
		if endpoint == "" {
			endpoint = r.URL.Path
		}
		metrics.IncHTTP(endpoint, strconv.Itoa(rec.status))

		event := reqLogger.Info()
		if rec.status >= http.StatusInternalServerError {
			event = reqLogger.Error()
		}
		event.
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

// rateLimitMiddleware enforces the global token bucket first, then the
// per-user fixed window keyed by the sharer header. Requests without the
// header skip the per-user check; handlers that need the actor reject them
// with 400 anyway.
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.global != nil && !s.global.Allow() {
			writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}

		if s.limiter != nil {
			if userID, err := strconv.ParseInt(r.Header.Get(headerUserID), 10, 64); err == nil {
				window := time.Duration(s.cfg.RateLimit.UserWindow) * time.Second
				allowed, limitErr := s.limiter.Allow(r.Context(), userID, s.cfg.RateLimit.UserRequests, window)
				if limitErr != nil {
					zerolog.Ctx(r.Context()).Error().Err(limitErr).Msg("rate limiter error")
				} else if !allowed {
					writeError(w, http.StatusTooManyRequests, "too many requests")
					return
				}
			}
		}

		next.ServeHTTP(w, r)
	})
}
