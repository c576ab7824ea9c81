package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/bwise1/placemark/internal/session"
	"github.com/bwise1/placemark/util/tracing"
	"github.com/bwise1/placemark/util/values"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lucsky/cuid"
)

type sessionKey struct{}

// RequestTracing handles the request tracing context
func RequestTracing(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		requestSource := r.Header.Get(values.HeaderRequestSource)
		if requestSource == "" {
			errM := errors.New("X-Request-Source is empty")

			writeErrorResponse(w, errM, values.BadRequestBody, errM.Error())
			return
		}

		requestID := r.Header.Get(values.HeaderRequestID)
		if requestID == "" {
			requestID = cuid.New()
		}
		w.Header().Set(values.HeaderRequestID, requestID)

		tracingContext := tracing.Context{
			RequestID:     requestID,
			RequestSource: requestSource,
		}

		ctx = context.WithValue(ctx, values.ContextTracingKey, tracingContext)
		next.ServeHTTP(w, r.WithContext(ctx))
	}

	return http.HandlerFunc(fn)
}

// RequireSession resolves the {id} URL parameter to an open session.
func (api *API) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeErrorResponse(w, err, values.BadRequestBody, "invalid session id")
			return
		}

		s, err := api.Sessions.Get(id)
		if err != nil {
			if errors.Is(err, session.ErrNotFound) {
				writeErrorResponse(w, err, values.NotFound, "session not found")
				return
			}
			writeErrorResponse(w, err, values.Error, "unable to load session")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, s)))
	})
}

func sessionFromContext(ctx context.Context) *session.Session {
	s, _ := ctx.Value(sessionKey{}).(*session.Session)
	return s
}
