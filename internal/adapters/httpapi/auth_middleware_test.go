package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Overland-East-Bay/job-tracker-api/internal/domain"
	"github.com/Overland-East-Bay/job-tracker-api/internal/platform/auth/jwtissuer"
	"github.com/Overland-East-Bay/job-tracker-api/internal/platform/auth/jwtverifier"
	"github.com/Overland-East-Bay/job-tracker-api/internal/platform/config"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// authProbeServer echoes the identity the middleware attached.
type authProbeServer struct{}

func (authProbeServer) ListJobs(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusInternalServerError, "identity missing from context")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"userId": string(id.UserID), "name": id.Name})
}
func (authProbeServer) GetJob(w http.ResponseWriter, _ *http.Request)    { w.WriteHeader(http.StatusNoContent) }
func (authProbeServer) CreateJob(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }
func (authProbeServer) UpdateJob(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }
func (authProbeServer) DeleteJob(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }

var authTestSecret = []byte("auth-test-secret")

func newTestAuthRouter(t *testing.T) (http.Handler, func(now time.Time, secret []byte) string) {
	t.Helper()

	clk := fixedClock{t: time.Unix(1700000000, 0)}
	v := jwtverifier.NewWithOptions(config.JWTConfig{Secret: authTestSecret}, clk)

	mint := func(now time.Time, secret []byte) string {
		iss, err := jwtissuer.New(secret, 5*time.Minute)
		if err != nil {
			t.Fatalf("jwtissuer.New: %v", err)
		}
		tok, err := iss.Mint(domain.Identity{UserID: "user-123", Name: "Ada"}, now)
		if err != nil {
			t.Fatalf("Mint: %v", err)
		}
		return tok
	}

	h := NewRouterWithOptions(authProbeServer{}, RouterOptions{
		AuthMiddleware: NewAuthMiddleware(v),
		BasePath:       "/api/v1",
	})
	return h, mint
}

func requireAuthInvalid(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d want %d body=%s", rec.Code, http.StatusUnauthorized, rec.Body.String())
	}
	var er errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &er); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if er.Message != "Authentication invalid" {
		t.Fatalf("message: got %q", er.Message)
	}
}

func TestAuthMiddleware_MissingHeader_401(t *testing.T) {
	t.Parallel()

	h, _ := newTestAuthRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)
	requireAuthInvalid(t, rec)
}

func TestAuthMiddleware_MalformedHeader_401(t *testing.T) {
	t.Parallel()

	h, _ := newTestAuthRouter(t)
	for _, authz := range []string{"Basic abc", "Bearer ", "bearer abc", "Bearer not.a.jwt"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
		req.Header.Set("Authorization", authz)
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)
		requireAuthInvalid(t, rec)
	}
}

func TestAuthMiddleware_WrongSecretAndExpired_401(t *testing.T) {
	t.Parallel()

	h, mint := newTestAuthRouter(t)
	now := time.Unix(1700000000, 0)
	for name, tok := range map[string]string{
		"wrong secret": mint(now, []byte("other-secret")),
		"expired":      mint(now.Add(-time.Hour), authTestSecret),
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: status got %d want 401", name, rec.Code)
		}
	}
}

func TestAuthMiddleware_ValidToken_AllowsRequestAndSetsIdentity(t *testing.T) {
	t.Parallel()

	h, mint := newTestAuthRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
	req.Header.Set("Authorization", "Bearer "+mint(time.Unix(1700000000, 0), authTestSecret))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d want %d body=%s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var got map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["userId"] != "user-123" || got["name"] != "Ada" {
		t.Fatalf("unexpected identity: %v", got)
	}
}

func TestRouter_HealthzAndLandingAreUnauthenticated(t *testing.T) {
	t.Parallel()

	h, _ := newTestAuthRouter(t)
	for _, path := range []string{"/healthz", "/"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status got %d want 200", path, rec.Code)
		}
	}
}

func TestRouter_UnknownRoute_404(t *testing.T) {
	t.Parallel()

	h, _ := newTestAuthRouter(t)
	for _, path := range []string{"/nope", "/api/v1/nope"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s: status got %d want 404", path, rec.Code)
		}
		var er errorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &er); err != nil || er.Message != "Route does not exist" {
			t.Fatalf("%s: unexpected body %q", path, rec.Body.String())
		}
	}
}

func TestRouter_NoAuthMiddlewareDeniesJobs(t *testing.T) {
	t.Parallel()

	h := NewRouterWithOptions(authProbeServer{}, RouterOptions{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs", nil))
	requireAuthInvalid(t, rec)
}
