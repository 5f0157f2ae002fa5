package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/Overland-East-Bay/job-tracker-api/internal/app/jobs"
)

type errorResponse struct {
	Message string `json:"message"`
}

// writeError is the single place failures become HTTP responses.
// Anything that is not a classified *jobs.Error is logged and reported as a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if ae := (*jobs.Error)(nil); errors.As(err, &ae) {
		switch ae.Kind {
		case jobs.KindUnauthenticated, jobs.KindBadRequest, jobs.KindNotFound:
			writeMessage(w, ae.Kind.Status(), ae.Message)
			return
		case jobs.KindInternal:
		}
	}

	loggerFromContext(r.Context()).
		WithError(err).
		WithField("request_id", middleware.GetReqID(r.Context())).
		Error("request failed")
	writeMessage(w, http.StatusInternalServerError, jobs.MessageInternal)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
