package main

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/Overland-East-Bay/job-tracker-api/internal/domain"
	"github.com/Overland-East-Bay/job-tracker-api/internal/platform/auth/jwtissuer"
	"github.com/Overland-East-Bay/job-tracker-api/internal/platform/config"
)

// Tiny dev-only token minter.
//
// It signs HS256 tokens with the same JWT_SECRET the api verifies, so local clients can
// call the job endpoints without a real login flow. Never expose it outside a dev box.

func main() {
	_ = godotenv.Load()

	port := getenv("PORT", "5556")

	jwtCfg, err := config.LoadJWTConfigFromEnv()
	if err != nil {
		logrus.Fatalf("invalid auth config: %v", err)
	}
	iss, err := jwtissuer.New(jwtCfg.Secret, jwtCfg.Lifetime)
	if err != nil {
		logrus.Fatalf("jwt issuer: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           newRouter(iss, time.Now),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logrus.WithFields(logrus.Fields{"port": port, "lifetime": jwtCfg.Lifetime.String()}).Info("devjwt listening")
	logrus.Fatal(srv.ListenAndServe())
}

func newRouter(iss *jwtissuer.Issuer, now func() time.Time) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Mint a token:
	//   GET /token?userId=alice&name=Alice
	r.Get("/token", func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.URL.Query().Get("userId"))
		if userID == "" {
			http.Error(w, "missing userId", http.StatusBadRequest)
			return
		}
		name := strings.TrimSpace(r.URL.Query().Get("name"))

		issuedAt := now().UTC()
		token, err := iss.Mint(domain.Identity{UserID: domain.UserID(userID), Name: name}, issuedAt)
		if err != nil {
			logrus.WithError(err).Error("mint token")
			http.Error(w, "failed to mint token", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token":  token,
			"userId": userID,
			"name":   name,
		})
	})

	return r
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}
