package store

import (
	"context"
	"testing"

	"github.com/lkosir/najdeno/internal/db"
	"github.com/lkosir/najdeno/internal/model"
)

func TestGetStats(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	empty, err := GetStats(ctx, database)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if empty.TotalItems != 0 || empty.TotalClaims != 0 {
		t.Errorf("expected zero stats on empty store, got %+v", empty)
	}

	lost, _ := CreateItem(ctx, database, testItem("Lost Keys", model.TypeLost, model.CategoryAccessories))
	CreateItem(ctx, database, testItem("Found Scarf", model.TypeFound, model.CategoryClothing))
	UpdateItemStatus(ctx, database, lost.ID, model.ItemStatusPending, model.ItemStatusApproved)
	CreateClaim(ctx, database, testClaim(lost.ID, "Jamie"))

	stats, err := GetStats(ctx, database)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.TotalItems != 2 || stats.LostItems != 1 || stats.FoundItems != 1 {
		t.Errorf("unexpected type counts: %+v", stats)
	}
	if stats.PendingItems != 1 || stats.ApprovedItems != 1 || stats.ReturnedItems != 0 {
		t.Errorf("unexpected status counts: %+v", stats)
	}
	if stats.TotalClaims != 1 {
		t.Errorf("expected 1 claim, got %d", stats.TotalClaims)
	}

	// Stats are recomputed, not cached: a delete shows up immediately.
	DeleteItem(ctx, database, lost.ID)
	stats, _ = GetStats(ctx, database)
	if stats.TotalItems != 1 || stats.TotalClaims != 0 {
		t.Errorf("expected stats to reflect the delete, got %+v", stats)
	}
}
