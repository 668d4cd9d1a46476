package lifecycle

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/lkosir/najdeno/internal/db"
	"github.com/lkosir/najdeno/internal/model"
	"github.com/lkosir/najdeno/internal/store"
)

func newController(t *testing.T) (*Controller, *sql.DB) {
	t.Helper()
	database := db.NewTestDB(t)
	return &Controller{DB: database}, database
}

func testItem() NewItem {
	return NewItem{
		Title:          "AirPods Pro Case",
		Description:    "White case, scratched on the back.",
		Category:       model.CategoryElectronics,
		Type:           model.TypeLost,
		Location:       "Library",
		DateOccurred:   "2025-03-10",
		TimeOccurred:   "14:30",
		ContactEmail:   "student2@school.edu",
		SecurityAnswer: "Blue Silicone Cover",
	}
}

func TestCreateItemForcesPending(t *testing.T) {
	ctrl, _ := newController(t)
	ctx := context.Background()

	item, err := ctrl.CreateItem(ctx, testItem())
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if item.Status != model.ItemStatusPending {
		t.Errorf("expected status pending, got %q", item.Status)
	}
	if item.SecurityAnswer != "blue silicone cover" {
		t.Errorf("expected normalized answer, got %q", item.SecurityAnswer)
	}
	if item.ImageURL != nil {
		t.Errorf("expected nil image URL, got %q", *item.ImageURL)
	}
	if item.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
}

func TestItemTransitionDiscipline(t *testing.T) {
	ctrl, database := newController(t)
	ctx := context.Background()

	item, _ := ctrl.CreateItem(ctx, testItem())

	if err := ctrl.MarkReturned(ctx, item.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("MarkReturned on pending item: expected ErrInvalidTransition, got %v", err)
	}

	if err := ctrl.ApproveItem(ctx, item.ID); err != nil {
		t.Fatalf("ApproveItem: %v", err)
	}
	if err := ctrl.ApproveItem(ctx, item.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("second ApproveItem: expected ErrInvalidTransition, got %v", err)
	}

	if err := ctrl.MarkReturned(ctx, item.ID); err != nil {
		t.Fatalf("MarkReturned: %v", err)
	}
	if err := ctrl.ApproveItem(ctx, item.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("ApproveItem on returned item: expected ErrInvalidTransition, got %v", err)
	}

	got, _ := store.GetItem(ctx, database, item.ID)
	if got.Status != model.ItemStatusReturned {
		t.Errorf("expected final status returned, got %q", got.Status)
	}
}

func TestApproveMissingItem(t *testing.T) {
	ctrl, _ := newController(t)

	if err := ctrl.ApproveItem(context.Background(), 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteItemCascadesClaims(t *testing.T) {
	ctrl, database := newController(t)
	ctx := context.Background()

	item, _ := ctrl.CreateItem(ctx, testItem())
	ctrl.ApproveItem(ctx, item.ID)

	for _, name := range []string{"First Claimant", "Second Claimant"} {
		_, err := ctrl.CreateClaim(ctx, NewClaim{
			ItemID:         item.ID,
			ClaimantName:   name,
			ClaimantEmail:  "a@b.edu",
			SecurityAnswer: "blue cover",
		})
		if err != nil {
			t.Fatalf("CreateClaim: %v", err)
		}
	}

	if err := ctrl.DeleteItem(ctx, item.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}

	claims, err := store.ListClaims(ctx, database, store.ClaimFilter{ItemID: item.ID})
	if err != nil {
		t.Fatalf("ListClaims: %v", err)
	}
	if len(claims) != 0 {
		t.Errorf("expected 0 claims after item delete, got %d", len(claims))
	}

	if err := ctrl.DeleteItem(ctx, item.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteItem: expected ErrNotFound, got %v", err)
	}
}

func TestClaimSettlesExactlyOnce(t *testing.T) {
	ctrl, database := newController(t)
	ctx := context.Background()

	item, _ := ctrl.CreateItem(ctx, testItem())
	ctrl.ApproveItem(ctx, item.ID)

	claim, err := ctrl.CreateClaim(ctx, NewClaim{
		ItemID:         item.ID,
		ClaimantName:   "Claimant",
		ClaimantEmail:  "a@b.edu",
		SecurityAnswer: " Blue Cover ",
	})
	if err != nil {
		t.Fatalf("CreateClaim: %v", err)
	}
	if claim.Status != model.ClaimStatusPending {
		t.Errorf("expected pending claim, got %q", claim.Status)
	}
	if claim.SecurityAnswer != "blue cover" {
		t.Errorf("expected normalized claim answer, got %q", claim.SecurityAnswer)
	}

	if err := ctrl.ApproveClaim(ctx, claim.ID); err != nil {
		t.Fatalf("ApproveClaim: %v", err)
	}
	if err := ctrl.DenyClaim(ctx, claim.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("DenyClaim on approved claim: expected ErrInvalidTransition, got %v", err)
	}

	got, _ := store.GetClaim(ctx, database, claim.ID)
	if got.Status != model.ClaimStatusApproved {
		t.Errorf("expected claim to stay approved, got %q", got.Status)
	}
}

func TestCreateClaimMissingItem(t *testing.T) {
	ctrl, _ := newController(t)

	_, err := ctrl.CreateClaim(context.Background(), NewClaim{
		ItemID:         42,
		ClaimantName:   "Nobody",
		ClaimantEmail:  "a@b.edu",
		SecurityAnswer: "answer",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// The controller deliberately does not require the claimed item to be
// approved; that policy lives at the API boundary. This test pins the
// actual controller behavior so a future change is a conscious one.
func TestCreateClaimAgainstPendingItemAllowed(t *testing.T) {
	ctrl, _ := newController(t)
	ctx := context.Background()

	item, _ := ctrl.CreateItem(ctx, testItem())

	claim, err := ctrl.CreateClaim(ctx, NewClaim{
		ItemID:         item.ID,
		ClaimantName:   "Eager Claimant",
		ClaimantEmail:  "a@b.edu",
		SecurityAnswer: "answer",
	})
	if err != nil {
		t.Fatalf("CreateClaim against pending item: %v", err)
	}
	if claim.Status != model.ClaimStatusPending {
		t.Errorf("expected pending claim, got %q", claim.Status)
	}
}
