package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/ragner01/microjobs-marketplace/internal/gateway"
	"github.com/rs/zerolog/log"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	idempotencyTTL    = 24 * time.Hour
)

// responseRecorder copies whatever the handler writes.
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)                  // keep a copy for the store
	return r.ResponseWriter.Write(b) // and send it to the client
}

// Idempotency replays the stored response for a repeated Idempotency-Key.
// Keys are scoped by method and path. 5xx responses are not stored so the
// client can retry them. If the store is unreachable requests pass through.
func Idempotency(store gateway.IdempotencyRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdempotencyHeader)
			if key == "" {
				// No key, no replay protection.
				next.ServeHTTP(w, r)
				return
			}
			// The same key on a different endpoint is a different request.
			key = r.Method + ":" + r.URL.Path + ":" + key
			ctx := r.Context()

			cached, err := store.Get(ctx, key)
			if err != nil {
				log.Error().Err(err).Msg("failed to read idempotency key")
				// Fail open: a Redis outage must not take the API down.
				next.ServeHTTP(w, r)
				return
			}
			// Hit: replay the stored response as-is.
			if cached != nil {
				log.Info().Str("key", key).Msg("idempotency cache hit")
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("X-Idempotency-Hit", "true")
				w.WriteHeader(cached.StatusCode)
				if _, err := w.Write(cached.Body); err != nil {
					log.Error().Err(err).Msg("failed to write cached response")
				}
				return
			}

			// Miss: run the handler and record what it answers.
			recorder := &responseRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK, // handlers that never call WriteHeader
				body:           &bytes.Buffer{},
			}
			next.ServeHTTP(recorder, r)

			// 2xx and 4xx are final answers. 5xx stays retryable.
			if recorder.statusCode < http.StatusInternalServerError {
				err := store.Save(ctx, key, gateway.CachedResponse{
					StatusCode: recorder.statusCode,
					Body:       recorder.body.Bytes(),
				}, idempotencyTTL)
				if err != nil {
					log.Error().Err(err).Msg("failed to save idempotency key")
				}
			}
		})
	}
}
