package rest

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/bwise1/placemark/util"
	"github.com/bwise1/placemark/util/tracing"
)

// ServerResponse is the envelope every handler returns.
type ServerResponse struct {
	Status     string      `json:"status"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	StatusCode int         `json:"status_code"`
	Err        error       `json:"-"`
}

func respondWithError(err error, message, status string, tc *tracing.Context) *ServerResponse {
	if tc != nil {
		log.Printf("[%s] %s: %v", tc, message, err)
	} else {
		log.Printf("%s: %v", message, err)
	}
	return &ServerResponse{
		Status:     status,
		Message:    message,
		StatusCode: util.StatusCode(status),
		Err:        err,
	}
}

func writeJSONResponse(w http.ResponseWriter, body []byte, statusCode int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if _, err := w.Write(body); err != nil {
		log.Println("unable to write response:", err)
	}
}

func writeErrorResponse(w http.ResponseWriter, err error, status, message string) {
	log.Printf("%s: %v", message, err)
	body, _ := json.Marshal(ServerResponse{
		Status:     status,
		Message:    message,
		StatusCode: util.StatusCode(status),
	})
	writeJSONResponse(w, body, util.StatusCode(status))
}
