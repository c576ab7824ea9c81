package rest

import (
	"errors"
	"net/http"

	"github.com/bwise1/placemark/internal/model"
	"github.com/bwise1/placemark/util"
	"github.com/bwise1/placemark/util/tracing"
	"github.com/bwise1/placemark/util/values"
	"github.com/go-chi/chi/v5"
)

func (api *API) BookmarkRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Method(http.MethodGet, "/", Handler(api.GetBookmarks))
	mux.Method(http.MethodPost, "/select", Handler(api.SelectBookmark))
	return mux
}

func (api *API) GetBookmarks(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)
	s := sessionFromContext(r.Context())

	holder, err := s.Bookmarks(r.Context())
	if err != nil {
		return respondWithError(err, "failed to load bookmarks", values.Error, &tc)
	}

	return &ServerResponse{
		Message:    "Bookmarks retrieved successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       holder.State(),
	}
}

// SelectBookmark leaves the bookmark screen: the map selects the bookmark and
// the next bookmark screen open loads a fresh list.
func (api *API) SelectBookmark(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)
	s := sessionFromContext(r.Context())

	var req model.SelectBookmarkRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}
	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, "validation failed", values.BadRequestBody, &tc)
	}

	holder, err := s.Bookmarks(r.Context())
	if err != nil {
		return respondWithError(err, "failed to load bookmarks", values.Error, &tc)
	}
	place, ok := holder.Find(req.Name)
	if !ok {
		return respondWithError(errors.New(req.Name), "bookmark not found", values.NotFound, &tc)
	}

	s.Map.SetSelectedLocation(&place.Name, &place.Description, place.Category, place.Location)
	s.ResetBookmarks()

	return &ServerResponse{
		Message:    "Bookmark selected",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data: map[string]interface{}{
			"target": place.Location,
			"state":  s.Map.State(),
		},
	}
}
