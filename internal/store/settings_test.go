package store

import (
	"context"
	"testing"

	"github.com/lkosir/najdeno/internal/db"
)

func TestGetJWTSecretStable(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	first, err := GetJWTSecret(ctx, database)
	if err != nil {
		t.Fatalf("GetJWTSecret: %v", err)
	}
	if first == "" {
		t.Fatal("expected a generated secret")
	}

	second, err := GetJWTSecret(ctx, database)
	if err != nil {
		t.Fatalf("GetJWTSecret: %v", err)
	}
	if first != second {
		t.Error("expected the stored secret to be reused")
	}
}

func TestAdminPasswordHashRoundTrip(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	hash, err := GetAdminPasswordHash(ctx, database)
	if err != nil {
		t.Fatalf("GetAdminPasswordHash: %v", err)
	}
	if hash != "" {
		t.Errorf("expected empty hash before init, got %q", hash)
	}

	if err := SetAdminPasswordHash(ctx, database, "hash-one"); err != nil {
		t.Fatalf("SetAdminPasswordHash: %v", err)
	}
	if err := SetAdminPasswordHash(ctx, database, "hash-two"); err != nil {
		t.Fatalf("SetAdminPasswordHash overwrite: %v", err)
	}

	hash, _ = GetAdminPasswordHash(ctx, database)
	if hash != "hash-two" {
		t.Errorf("expected latest hash, got %q", hash)
	}
}
