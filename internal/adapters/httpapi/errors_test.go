package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Overland-East-Bay/job-tracker-api/internal/app/jobs"
)

func TestWriteError_Classification(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"unauthenticated", jobs.Unauthenticated(), http.StatusUnauthorized, "Authentication invalid"},
		{"bad request", jobs.BadRequest("Please provide company name"), http.StatusBadRequest, "Please provide company name"},
		{"not found", &jobs.Error{Kind: jobs.KindNotFound, Message: "No job with id x"}, http.StatusNotFound, "No job with id x"},
		{"wrapped", fmt.Errorf("outer: %w", jobs.BadRequest("inner")), http.StatusBadRequest, "inner"},
		{"internal kind", &jobs.Error{Kind: jobs.KindInternal, Message: "db password leaked"}, http.StatusInternalServerError, "Something went wrong, try again later"},
		{"unclassified", errors.New("connection refused"), http.StatusInternalServerError, "Something went wrong, try again later"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		writeError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tc.err)

		if rec.Code != tc.wantStatus {
			t.Fatalf("%s: status=%d want %d", tc.name, rec.Code, tc.wantStatus)
		}
		var er errorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &er); err != nil {
			t.Fatalf("%s: decode: %v", tc.name, err)
		}
		if er.Message != tc.wantMessage {
			t.Fatalf("%s: message=%q want %q", tc.name, er.Message, tc.wantMessage)
		}
	}
}
