package db

import (
	"context"
	"os"
	"testing"

	"github.com/idlikadai3-prog/idli-kadai-frontend/config"
)

// TestMain connects to the database named by the TEST_DB_* env vars when they
// are set; without them every integration test here is skipped.
func TestMain(m *testing.M) {
	if host := os.Getenv("TEST_DB_HOST"); host != "" {
		cfg, _ := config.Load()
		cfg.DB.Host = host
		if name := os.Getenv("TEST_DB_NAME"); name != "" {
			cfg.DB.Database = name
		}
		if err := Init(cfg.DB); err == nil {
			code := m.Run()
			Close()
			os.Exit(code)
		}
	}
	os.Exit(m.Run())
}

func TestTokenStore_RoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if Pool == nil {
		t.Skip("no test database configured")
	}
	ctx := context.Background()
	s := NewTokenStore()
	const userID = int64(-1001) // negative id keeps the fixture out of real data

	t.Cleanup(func() { s.Delete(ctx, userID) })

	got, err := s.Get(ctx, userID)
	if err != nil || got != "" {
		t.Fatalf("Get(absent) = (%q, %v), want empty and nil", got, err)
	}
	if err := s.Set(ctx, userID, "tok-a"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Set(ctx, userID, "tok-b"); err != nil {
		t.Fatalf("Set(upsert) error = %v", err)
	}
	got, err = s.Get(ctx, userID)
	if err != nil || got != "tok-b" {
		t.Fatalf("Get() = (%q, %v), want tok-b", got, err)
	}
	if err := s.Delete(ctx, userID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	got, _ = s.Get(ctx, userID)
	if got != "" {
		t.Errorf("Get(deleted) = %q, want empty", got)
	}
}
