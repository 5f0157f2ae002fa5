package httpapi

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/Overland-East-Bay/job-tracker-api/internal/app/jobs"
	"github.com/Overland-East-Bay/job-tracker-api/internal/domain"
	"github.com/Overland-East-Bay/job-tracker-api/internal/ports/out/idempotency"
)

const (
	maxBodyBytes = 1 << 20

	msgInvalidJSON    = "Invalid JSON body"
	msgIdempotencyKey = "Idempotency key reused with different payload"
)

// Server is the HTTP adapter over jobs.Service.
type Server struct {
	Jobs *jobs.Service
	// Idem enables Idempotency-Key replay on create. Optional.
	Idem idempotency.Store
}

func NewServer(jobsSvc *jobs.Service, idem idempotency.Store) *Server {
	return &Server{
		Jobs: jobsSvc,
		Idem: idem,
	}
}

var _ ServerInterface = (*Server)(nil)

func (s *Server) ListJobs(w http.ResponseWriter, r *http.Request) {
	caller, ok := IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, jobs.Unauthenticated())
		return
	}
	js, err := s.Jobs.ListJobs(r.Context(), caller)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := listJobsResponse{Jobs: make([]jobResponse, 0, len(js)), Count: len(js)}
	for _, j := range js {
		resp.Jobs = append(resp.Jobs, jobFromDomain(j))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) GetJob(w http.ResponseWriter, r *http.Request) {
	caller, ok := IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, jobs.Unauthenticated())
		return
	}
	j, err := s.Jobs.GetJob(r.Context(), caller, jobIDParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jobEnvelope{Job: jobFromDomain(j)})
}

func (s *Server) CreateJob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := IdentityFromContext(ctx)
	if !ok {
		writeError(w, r, jobs.Unauthenticated())
		return
	}
	body, err := decodeJobRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	// Idempotency handling:
	// - Replay if same caller+key+route+bodyHash
	// - Reject if same caller+key+route with different bodyHash (400)
	// Nothing is recorded for the key until a create succeeds, so a rejected body never binds it.
	idemKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	var metaFP, respFP idempotency.Fingerprint
	var bodyHash string
	if s.Idem != nil && idemKey != "" {
		bodyHash, err = hashJobRequest(body)
		if err != nil {
			writeError(w, r, err)
			return
		}
		metaFP = idempotency.Fingerprint{
			Key:      idempotency.Key(idemKey),
			UserID:   caller.UserID,
			Method:   http.MethodPost,
			Route:    "/jobs",
			BodyHash: "",
		}
		if meta, ok, err := s.Idem.Get(ctx, metaFP); err != nil {
			writeError(w, r, err)
			return
		} else if ok && string(meta.Body) != bodyHash {
			writeError(w, r, jobs.BadRequest(msgIdempotencyKey))
			return
		}

		respFP = metaFP
		respFP.BodyHash = bodyHash
		if rec, ok, err := s.Idem.Get(ctx, respFP); err != nil {
			writeError(w, r, err)
			return
		} else if ok && rec.StatusCode == http.StatusCreated && strings.HasPrefix(rec.ContentType, "application/json") {
			w.Header().Set("Content-Type", rec.ContentType)
			w.Header().Set("Idempotent-Replay", "true")
			w.WriteHeader(rec.StatusCode)
			_, _ = w.Write(rec.Body)
			return
		}
	}

	created, err := s.Jobs.CreateJob(ctx, caller, jobs.CreateJobInput{
		Company:  body.Company,
		Position: body.Position,
		Status:   body.status(),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := jobEnvelope{Job: jobFromDomain(created)}
	if respFP.Key != "" {
		s.rememberCreate(r, metaFP, respFP, bodyHash, resp)
	}
	writeJSON(w, http.StatusCreated, resp)
}

// rememberCreate records a successful create for replay. The job already exists, so a
// failed write is logged and the 201 still goes out.
func (s *Server) rememberCreate(r *http.Request, metaFP, respFP idempotency.Fingerprint, bodyHash string, resp jobEnvelope) {
	ctx := r.Context()
	log := loggerFromContext(ctx).WithField("idempotency_key", string(metaFP.Key))

	b, err := json.Marshal(resp)
	if err != nil {
		log.WithError(err).Warn("encode idempotent response")
		return
	}
	now := time.Now().UTC()
	if err := s.Idem.Put(ctx, metaFP, idempotency.Record{
		StatusCode:  0,
		ContentType: "text/plain",
		Body:        []byte(bodyHash),
		CreatedAt:   now,
	}); err != nil {
		log.WithError(err).Warn("store idempotency key")
		return
	}
	if err := s.Idem.Put(ctx, respFP, idempotency.Record{
		StatusCode:  http.StatusCreated,
		ContentType: "application/json",
		Body:        append(b, '\n'),
		CreatedAt:   now,
	}); err != nil {
		log.WithError(err).Warn("store idempotent response")
	}
}

func (s *Server) UpdateJob(w http.ResponseWriter, r *http.Request) {
	caller, ok := IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, jobs.Unauthenticated())
		return
	}
	body, err := decodeJobRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	updated, err := s.Jobs.UpdateJob(r.Context(), caller, jobIDParam(r), jobs.UpdateJobInput{
		Company:  body.Company,
		Position: body.Position,
		Status:   body.status(),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jobEnvelope{Job: jobFromDomain(updated)})
}

func (s *Server) DeleteJob(w http.ResponseWriter, r *http.Request) {
	caller, ok := IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, jobs.Unauthenticated())
		return
	}
	removed, err := s.Jobs.DeleteJob(r.Context(), caller, jobIDParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "Job with Job ID %s is deleted", removed.ID)
}

// jobIDParam binds {id} as a UUID and returns it in canonical form.
// A value that is not a UUID is passed through untouched; stores report it as not found.
func jobIDParam(r *http.Request) domain.JobID {
	raw := chi.URLParam(r, "id")
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "id", raw, &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return domain.JobID(raw)
	}
	return domain.JobID(id.String())
}

// decodeJobRequest reads a create/update body holding a single JSON object. An empty body
// decodes as {}.
func decodeJobRequest(r *http.Request) (jobRequest, error) {
	var body jobRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return jobRequest{}, nil
		}
		return jobRequest{}, jobs.BadRequest(msgInvalidJSON)
	}
	// Exactly one JSON value; anything after it but whitespace is rejected.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return jobRequest{}, jobs.BadRequest(msgInvalidJSON)
	}
	return body, nil
}

func hashJobRequest(b jobRequest) (string, error) {
	canon := struct {
		Company  string  `json:"company"`
		Position string  `json:"position"`
		Status   *string `json:"status"`
	}{
		Company:  domain.NormalizeJobField(b.Company),
		Position: domain.NormalizeJobField(b.Position),
	}
	if b.Status.IsSpecified() && !b.Status.IsNull() {
		if v, err := b.Status.Get(); err == nil {
			canon.Status = &v
		}
	}
	raw, err := json.Marshal(canon)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
