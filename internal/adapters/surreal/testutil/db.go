package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/surrealdb/surrealdb.go"

	"github.com/Overland-East-Bay/job-tracker-api/internal/adapters/surreal"
)

// OpenTestDB connects to TEST_SURREAL_URL using a throwaway database name.
// Tests are skipped when the variable is unset.
func OpenTestDB(t *testing.T) *surrealdb.DB {
	t.Helper()
	url := os.Getenv("TEST_SURREAL_URL")
	if url == "" {
		t.Skip("TEST_SURREAL_URL not set; skipping surreal tests")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := surreal.Connect(ctx, surreal.Config{
		URL:       url,
		Namespace: "test",
		Database:  fmt.Sprintf("jobs_%d", time.Now().UnixNano()),
		User:      getenv("TEST_SURREAL_USER", "root"),
		Password:  getenv("TEST_SURREAL_PASSWORD", "root"),
	})
	if err != nil {
		t.Fatalf("connect surreal: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(context.Background()) })

	if err := surreal.EnsureSchema(ctx, db); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return db
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
