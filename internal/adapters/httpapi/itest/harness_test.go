package itest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	gormidempotency "github.com/Overland-East-Bay/job-tracker-api/internal/adapters/gormstore/idempotency"
	gormjobrepo "github.com/Overland-East-Bay/job-tracker-api/internal/adapters/gormstore/jobrepo"
	gormtestutil "github.com/Overland-East-Bay/job-tracker-api/internal/adapters/gormstore/testutil"
	"github.com/Overland-East-Bay/job-tracker-api/internal/adapters/httpapi"
	memclock "github.com/Overland-East-Bay/job-tracker-api/internal/adapters/memory/clock"
	memidempotency "github.com/Overland-East-Bay/job-tracker-api/internal/adapters/memory/idempotency"
	memjobrepo "github.com/Overland-East-Bay/job-tracker-api/internal/adapters/memory/jobrepo"
	pgidempotency "github.com/Overland-East-Bay/job-tracker-api/internal/adapters/postgres/idempotency"
	pgjobrepo "github.com/Overland-East-Bay/job-tracker-api/internal/adapters/postgres/jobrepo"
	pgtestutil "github.com/Overland-East-Bay/job-tracker-api/internal/adapters/postgres/testutil"
	surrealjobrepo "github.com/Overland-East-Bay/job-tracker-api/internal/adapters/surreal/jobrepo"
	surrealtestutil "github.com/Overland-East-Bay/job-tracker-api/internal/adapters/surreal/testutil"
	"github.com/Overland-East-Bay/job-tracker-api/internal/app/jobs"
	"github.com/Overland-East-Bay/job-tracker-api/internal/domain"
	"github.com/Overland-East-Bay/job-tracker-api/internal/platform/auth/jwtissuer"
	"github.com/Overland-East-Bay/job-tracker-api/internal/platform/auth/jwtverifier"
	"github.com/Overland-East-Bay/job-tracker-api/internal/platform/config"
	idempotencyport "github.com/Overland-East-Bay/job-tracker-api/internal/ports/out/idempotency"
	jobrepoport "github.com/Overland-East-Bay/job-tracker-api/internal/ports/out/jobrepo"
)

type backend string

const (
	backendMemory   backend = "memory"
	backendPostgres backend = "postgres"
	backendSQLite   backend = "sqlite"
	backendMySQL    backend = "mysql"
	backendSurreal  backend = "surreal"
)

func backendsFromEnv(t *testing.T) []backend {
	t.Helper()
	switch v := strings.ToLower(strings.TrimSpace(os.Getenv("ITEST_BACKEND"))); v {
	case "", "memory":
		return []backend{backendMemory, backendSQLite}
	case "postgres", "sqlite", "mysql", "surreal":
		return []backend{backend(v)}
	case "all":
		return []backend{backendMemory, backendSQLite, backendPostgres, backendMySQL, backendSurreal}
	default:
		t.Fatalf("unknown ITEST_BACKEND value (expected memory|postgres|sqlite|mysql|surreal|all)")
		return nil
	}
}

type testServer struct {
	baseURL string
	client  *http.Client
	issuer  *jwtissuer.Issuer
	clk     *memclock.ManualClock
}

func newTestServer(t *testing.T, b backend) *testServer {
	t.Helper()

	secret := []byte("itest-secret")
	clk := memclock.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	var (
		jobRepo   jobrepoport.Repository
		idemStore idempotencyport.Store
	)

	switch b {
	case backendPostgres:
		pool := pgtestutil.OpenMigratedPool(t)
		jobRepo = pgjobrepo.NewRepo(pool)
		idemStore = pgidempotency.NewStore(pool)
	case backendSQLite:
		db := gormtestutil.OpenTestSQLite(t)
		jobRepo = gormjobrepo.NewRepo(db)
		idemStore = gormidempotency.NewStore(db)
	case backendMySQL:
		db := gormtestutil.OpenTestMySQL(t)
		jobRepo = gormjobrepo.NewRepo(db)
		idemStore = gormidempotency.NewStore(db)
	case backendSurreal:
		jobRepo = surrealjobrepo.NewRepo(surrealtestutil.OpenTestDB(t))
		idemStore = memidempotency.NewStore()
	case backendMemory:
		jobRepo = memjobrepo.NewRepo()
		idemStore = memidempotency.NewStore()
	default:
		t.Fatalf("unknown backend: %s", b)
	}

	svc := jobs.NewService(jobRepo, clk)
	api := httpapi.NewServer(svc, idemStore)

	v := jwtverifier.NewWithOptions(config.JWTConfig{Secret: secret}, clk)
	handler := httpapi.NewRouterWithOptions(api, httpapi.RouterOptions{
		AuthMiddleware: httpapi.NewAuthMiddleware(v),
		BasePath:       "/api/v1",
	})

	iss, err := jwtissuer.New(secret, 24*time.Hour)
	if err != nil {
		t.Fatalf("jwtissuer.New: %v", err)
	}

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{
		baseURL: srv.URL,
		client:  srv.Client(),
		issuer:  iss,
		clk:     clk,
	}
}

// token mints a bearer token for userID. An empty userID means no Authorization header.
func (s *testServer) token(t *testing.T, userID string) string {
	t.Helper()
	if userID == "" {
		return ""
	}
	tok, err := s.issuer.Mint(domain.Identity{UserID: domain.UserID(userID), Name: userID}, s.clk.Now())
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return tok
}

func (s *testServer) url(path string) string {
	if strings.HasPrefix(path, "/") {
		return s.baseURL + path
	}
	return s.baseURL + "/" + path
}

func (s *testServer) doJSON(t *testing.T, method string, path string, userID string, body any) (int, []byte, http.Header) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.url(path), r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if tok := s.token(t, userID); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out, resp.Header
}

type errorResponse struct {
	Message string `json:"message"`
}

type jobBody struct {
	ID        string    `json:"id"`
	Company   string    `json:"company"`
	Position  string    `json:"position"`
	Status    string    `json:"status"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func mustUnmarshal[T any](t *testing.T, b []byte) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v\nbody=%s", err, string(b))
	}
	return out
}

func requireErrorMessage(t *testing.T, status int, body []byte, wantStatus int, wantMessage string) {
	t.Helper()
	if status != wantStatus {
		t.Fatalf("status=%d want=%d body=%s", status, wantStatus, string(body))
	}
	got := mustUnmarshal[errorResponse](t, body)
	if got.Message != wantMessage {
		t.Fatalf("message=%q want=%q body=%s", got.Message, wantMessage, string(body))
	}
}

func requireStatus(t *testing.T, status int, body []byte, want int) {
	t.Helper()
	if status != want {
		t.Fatalf("status=%d want=%d body=%s", status, want, string(body))
	}
}
