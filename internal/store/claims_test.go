package store

import (
	"context"
	"testing"

	"github.com/lkosir/najdeno/internal/db"
	"github.com/lkosir/najdeno/internal/model"
)

func testClaim(itemID int64, name string) model.Claim {
	return model.Claim{
		ItemID:         itemID,
		ClaimantName:   name,
		ClaimantEmail:  "a@b.edu",
		SecurityAnswer: "blue cover",
		Status:         model.ClaimStatusPending,
	}
}

func TestCreateAndGetClaim(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, testItem("Claimed Item", model.TypeLost, model.CategoryOther))

	claim, err := CreateClaim(ctx, database, testClaim(item.ID, "Jamie"))
	if err != nil {
		t.Fatalf("CreateClaim: %v", err)
	}
	if claim.Status != model.ClaimStatusPending {
		t.Errorf("expected pending, got %q", claim.Status)
	}
	if claim.ItemID != item.ID {
		t.Errorf("expected item id %d, got %d", item.ID, claim.ItemID)
	}
}

func TestClaimForeignKeyEnforced(t *testing.T) {
	database := db.NewTestDB(t)

	_, err := CreateClaim(context.Background(), database, testClaim(999, "Nobody"))
	if err == nil {
		t.Fatal("expected foreign key violation for missing item")
	}
}

func TestListClaimsFilters(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	itemA, _ := CreateItem(ctx, database, testItem("Item A", model.TypeLost, model.CategoryOther))
	itemB, _ := CreateItem(ctx, database, testItem("Item B", model.TypeFound, model.CategoryOther))

	CreateClaim(ctx, database, testClaim(itemA.ID, "One"))
	CreateClaim(ctx, database, testClaim(itemA.ID, "Two"))
	settled, _ := CreateClaim(ctx, database, testClaim(itemB.ID, "Three"))
	UpdateClaimStatus(ctx, database, settled.ID, model.ClaimStatusDenied)

	forA, err := ListClaims(ctx, database, ClaimFilter{ItemID: itemA.ID})
	if err != nil {
		t.Fatalf("ListClaims: %v", err)
	}
	if len(forA) != 2 {
		t.Errorf("expected 2 claims for item A, got %d", len(forA))
	}

	pending, _ := ListClaims(ctx, database, ClaimFilter{Status: model.ClaimStatusPending})
	if len(pending) != 2 {
		t.Errorf("expected 2 pending claims, got %d", len(pending))
	}

	denied, _ := ListClaims(ctx, database, ClaimFilter{Status: model.ClaimStatusDenied})
	if len(denied) != 1 || denied[0].ID != settled.ID {
		t.Errorf("expected the denied claim, got %v", denied)
	}
}

func TestUpdateClaimStatusOnlyFromPending(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, testItem("Item", model.TypeLost, model.CategoryOther))
	claim, _ := CreateClaim(ctx, database, testClaim(item.ID, "Jamie"))

	ok, err := UpdateClaimStatus(ctx, database, claim.ID, model.ClaimStatusApproved)
	if err != nil {
		t.Fatalf("UpdateClaimStatus: %v", err)
	}
	if !ok {
		t.Fatal("expected pending claim to settle")
	}

	ok, _ = UpdateClaimStatus(ctx, database, claim.ID, model.ClaimStatusDenied)
	if ok {
		t.Error("expected settled claim to refuse another transition")
	}

	got, _ := GetClaim(ctx, database, claim.ID)
	if got.Status != model.ClaimStatusApproved {
		t.Errorf("expected approved to stick, got %q", got.Status)
	}
}

func TestDeleteItemCascades(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, testItem("Cascading", model.TypeLost, model.CategoryOther))
	CreateClaim(ctx, database, testClaim(item.ID, "One"))
	CreateClaim(ctx, database, testClaim(item.ID, "Two"))

	if _, err := DeleteItem(ctx, database, item.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}

	claims, err := ListClaims(ctx, database, ClaimFilter{})
	if err != nil {
		t.Fatalf("ListClaims: %v", err)
	}
	if len(claims) != 0 {
		t.Errorf("expected cascade to remove claims, got %d", len(claims))
	}
}
