package rest

import (
	"net/http"

	"github.com/bwise1/placemark/util"
	"github.com/bwise1/placemark/util/tracing"
	"github.com/bwise1/placemark/util/values"
	"github.com/go-chi/chi/v5"
)

func (api *API) SessionRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Method(http.MethodPost, "/", Handler(api.OpenSession))

	mux.Route("/{id}", func(r chi.Router) {
		r.Use(api.RequireSession)
		r.Method(http.MethodDelete, "/", Handler(api.CloseSession))
		r.Method(http.MethodGet, "/ws", Handler(api.SessionStream))
		r.Mount("/map", api.MapRoutes())
		r.Mount("/bookmarks", api.BookmarkRoutes())
	})
	return mux
}

func (api *API) OpenSession(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	s := api.Sessions.Open()

	return &ServerResponse{
		Message:    "Session opened",
		Status:     values.Created,
		StatusCode: util.StatusCode(values.Created),
		Data: map[string]interface{}{
			"id":    s.ID.String(),
			"state": s.Map.State(),
		},
	}
}

func (api *API) CloseSession(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)
	s := sessionFromContext(r.Context())

	if err := api.Sessions.Close(s.ID); err != nil {
		return respondWithError(err, "session not found", values.NotFound, &tc)
	}

	return &ServerResponse{
		Message:    "Session closed",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
	}
}

// SessionStream upgrades to a websocket carrying the session's state and events.
func (api *API) SessionStream(w http.ResponseWriter, r *http.Request) *ServerResponse {
	s := sessionFromContext(r.Context())
	api.Deps.WebSocket.HandleConnections(w, r, s.ID.String())
	return nil
}
