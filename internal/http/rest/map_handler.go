package rest

import (
	"errors"
	"net/http"

	"github.com/bwise1/placemark/internal/mapstate"
	"github.com/bwise1/placemark/internal/model"
	"github.com/bwise1/placemark/util"
	"github.com/bwise1/placemark/util/tracing"
	"github.com/bwise1/placemark/util/values"
	"github.com/go-chi/chi/v5"
)

// defaultTapZoom is used when a point search carries no camera zoom.
const defaultTapZoom = 17

func (api *API) MapRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Method(http.MethodGet, "/", Handler(api.GetMapState))
	mux.Method(http.MethodPost, "/last-location", Handler(api.SetLastLocation))
	mux.Method(http.MethodPost, "/selection", Handler(api.SetSelection))
	mux.Method(http.MethodPost, "/search/point", Handler(api.SearchPoint))
	mux.Method(http.MethodPost, "/search/keyword", Handler(api.SearchKeyword))
	mux.Method(http.MethodPost, "/bookmarks", Handler(api.SaveBookmark))
	mux.Method(http.MethodPost, "/errors", Handler(api.SendMapError))
	mux.Method(http.MethodGet, "/events", Handler(api.DrainMapEvents))
	return mux
}

func (api *API) GetMapState(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	s := sessionFromContext(r.Context())

	return &ServerResponse{
		Message:    "Map state retrieved successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       s.Map.State(),
	}
}

func (api *API) SetLastLocation(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)
	s := sessionFromContext(r.Context())

	var req model.LastLocationRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}
	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, "validation failed", values.BadRequestBody, &tc)
	}

	s.Map.SetLastKnownLocation(&req.Point)

	return &ServerResponse{
		Message:    "Last location updated",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       s.Map.State(),
	}
}

func (api *API) SetSelection(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)
	s := sessionFromContext(r.Context())

	var req model.SelectionRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}
	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, "validation failed", values.BadRequestBody, &tc)
	}

	s.Map.SetSelectedLocation(req.Name, req.Description, req.Category, req.Point)

	return &ServerResponse{
		Message:    "Selection updated",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       s.Map.State(),
	}
}

func (api *API) SearchPoint(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)
	s := sessionFromContext(r.Context())

	var req model.PointSearchRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}
	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, "validation failed", values.BadRequestBody, &tc)
	}

	zoom := defaultTapZoom
	if req.Zoom != nil {
		zoom = *req.Zoom
	}

	if err := s.Map.SearchPoint(r.Context(), req.Point, model.SearchTypeGeo, zoom); err != nil {
		return searchError(err, &tc)
	}

	return &ServerResponse{
		Message:    "Point search completed",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       s.Map.State(),
	}
}

func (api *API) SearchKeyword(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)
	s := sessionFromContext(r.Context())

	var req model.KeywordSearchRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}
	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, "validation failed", values.BadRequestBody, &tc)
	}

	if err := s.Map.SearchKeyword(r.Context(), req.Keyword, req.Region, model.SearchTypeBiz); err != nil {
		return searchError(err, &tc)
	}

	return &ServerResponse{
		Message:    "Keyword search completed",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       s.Map.State(),
	}
}

func (api *API) SaveBookmark(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)
	s := sessionFromContext(r.Context())

	var req model.SaveBookmarkRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}
	if !util.NotBlank(req.Place.Name) {
		return respondWithError(errors.New("name is blank"), "bookmark name is required", values.BadRequestBody, &tc)
	}

	if err := s.Map.Save(r.Context(), req.Place); err != nil {
		return respondWithError(err, "failed to save bookmark", values.Error, &tc)
	}

	return &ServerResponse{
		Message:    "Bookmark saved successfully",
		Status:     values.Created,
		StatusCode: util.StatusCode(values.Created),
		Data:       req.Place,
	}
}

func (api *API) SendMapError(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)
	s := sessionFromContext(r.Context())

	var req model.ErrorRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}
	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, "validation failed", values.BadRequestBody, &tc)
	}

	s.Map.SendError(req.Message)

	return &ServerResponse{
		Message:    "Error queued",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
	}
}

func (api *API) DrainMapEvents(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	s := sessionFromContext(r.Context())

	return &ServerResponse{
		Message:    "Events retrieved successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       s.Map.DrainEvents(),
	}
}

func searchError(err error, tc *tracing.Context) *ServerResponse {
	switch {
	case errors.Is(err, mapstate.ErrSuperseded):
		return respondWithError(err, "search superseded by a newer search", values.Conflict, tc)
	case errors.Is(err, mapstate.ErrNoLastLocation):
		return respondWithError(err, mapstate.MsgLocationUnavailable, values.Unprocessable, tc)
	case errors.Is(err, mapstate.ErrInvalidArguments):
		return respondWithError(err, "invalid search arguments", values.BadRequestBody, tc)
	case errors.Is(err, mapstate.ErrNoResults):
		return respondWithError(err, mapstate.MsgSearchError, values.NotFound, tc)
	default:
		return respondWithError(err, "search failed", values.SystemErr, tc)
	}
}
