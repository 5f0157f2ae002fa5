package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// ServerInterface is the set of job endpoints the router dispatches to.
type ServerInterface interface {
	ListJobs(w http.ResponseWriter, r *http.Request)
	GetJob(w http.ResponseWriter, r *http.Request)
	CreateJob(w http.ResponseWriter, r *http.Request)
	UpdateJob(w http.ResponseWriter, r *http.Request)
	DeleteJob(w http.ResponseWriter, r *http.Request)
}

type RouterOptions struct {
	// AuthMiddleware guards every job route. When nil all job routes answer 401.
	AuthMiddleware func(http.Handler) http.Handler
	// BasePath prefixes the job routes, e.g. "/api/v1".
	BasePath string
	Logger   logrus.FieldLogger
}

const landingPage = `<!doctype html>
<html><head><title>Job Tracker API</title></head>
<body><h1>Job Tracker API</h1><p>Authenticated job routes live under <code>%s/jobs</code>.</p></body></html>
`

// NewRouterWithOptions constructs the API HTTP router.
func NewRouterWithOptions(si ServerInterface, opts RouterOptions) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	auth := opts.AuthMiddleware
	if auth == nil {
		auth = denyAll
	}
	base := strings.TrimRight(opts.BasePath, "/")

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)

	// Health endpoint is unauthenticated (used for infra checks).
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, landingPage, base)
	})

	authed := r.With(auth)
	authed.Get(base+"/jobs", si.ListJobs)
	authed.Post(base+"/jobs", si.CreateJob)
	authed.Get(base+"/jobs/{id}", si.GetJob)
	authed.Patch(base+"/jobs/{id}", si.UpdateJob)
	authed.Delete(base+"/jobs/{id}", si.DeleteJob)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusNotFound, "Route does not exist")
	})
	return r
}
