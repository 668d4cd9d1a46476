// Package lifecycle enforces the item and claim state machines. All status
// changes and entity creation/deletion go through here; the store and any
// in-memory snapshots held by search or presentation code are read-only.
package lifecycle

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lkosir/najdeno/internal/model"
	"github.com/lkosir/najdeno/internal/store"
	"github.com/lkosir/najdeno/internal/verify"
)

// ErrNotFound means the referenced entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidTransition means the target status is not reachable from the
// entity's current status. The entity is left unchanged.
var ErrInvalidTransition = errors.New("invalid transition")

// Controller mediates every mutation of items and claims.
type Controller struct {
	DB *sql.DB
}

// NewItem is a validated submission ready for creation. Status is not part
// of it: created items always start pending.
type NewItem struct {
	Title          string
	Description    string
	Category       model.Category
	Type           model.ItemType
	Location       string
	DateOccurred   string
	TimeOccurred   string
	ContactEmail   string
	ImageURL       *string
	SecurityAnswer string
}

// NewClaim is a validated claim submission.
type NewClaim struct {
	ItemID         int64
	ClaimantName   string
	ClaimantEmail  string
	SecurityAnswer string
}

// CreateItem stores a new item report. The security answer is normalized and
// the status is forced to pending regardless of anything the caller holds.
func (c *Controller) CreateItem(ctx context.Context, rec NewItem) (*model.Item, error) {
	item := model.Item{
		Title:          rec.Title,
		Description:    rec.Description,
		Category:       rec.Category,
		Type:           rec.Type,
		Location:       rec.Location,
		DateOccurred:   rec.DateOccurred,
		TimeOccurred:   rec.TimeOccurred,
		ContactEmail:   rec.ContactEmail,
		ImageURL:       rec.ImageURL,
		SecurityAnswer: verify.Normalize(rec.SecurityAnswer),
		Status:         model.ItemStatusPending,
	}
	created, err := store.CreateItem(ctx, c.DB, item)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}
	return created, nil
}

// CreateClaim stores a new claim against an existing item. The referenced
// item must exist, but its status is not checked here: the API layer only
// offers the claim action for approved items, and whether to also enforce
// that at this boundary is an open policy question.
func (c *Controller) CreateClaim(ctx context.Context, rec NewClaim) (*model.Claim, error) {
	item, err := store.GetItem(ctx, c.DB, rec.ItemID)
	if err != nil {
		return nil, fmt.Errorf("looking up claimed item: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("item %d: %w", rec.ItemID, ErrNotFound)
	}

	claim := model.Claim{
		ItemID:         rec.ItemID,
		ClaimantName:   rec.ClaimantName,
		ClaimantEmail:  rec.ClaimantEmail,
		SecurityAnswer: verify.Normalize(rec.SecurityAnswer),
		Status:         model.ClaimStatusPending,
	}
	created, err := store.CreateClaim(ctx, c.DB, claim)
	if err != nil {
		return nil, fmt.Errorf("creating claim: %w", err)
	}
	return created, nil
}

// ApproveItem moves a pending item to approved.
func (c *Controller) ApproveItem(ctx context.Context, id int64) error {
	return c.advanceItem(ctx, id, model.ItemStatusPending, model.ItemStatusApproved)
}

// MarkReturned moves an approved item to returned.
func (c *Controller) MarkReturned(ctx context.Context, id int64) error {
	return c.advanceItem(ctx, id, model.ItemStatusApproved, model.ItemStatusReturned)
}

// advanceItem performs a guarded status update. The WHERE clause carries the
// expected current status, so a stale or repeated request fails instead of
// overwriting a newer state.
func (c *Controller) advanceItem(ctx context.Context, id int64, from, to model.ItemStatus) error {
	if !from.CanAdvanceTo(to) {
		return fmt.Errorf("item %d: %s -> %s: %w", id, from, to, ErrInvalidTransition)
	}

	ok, err := store.UpdateItemStatus(ctx, c.DB, id, from, to)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	// Distinguish a missing item from a wrong-status one.
	item, err := store.GetItem(ctx, c.DB, id)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	return fmt.Errorf("item %d: %s -> %s: %w", id, item.Status, to, ErrInvalidTransition)
}

// DeleteItem removes an item from any status. All claims referencing it are
// removed with it. Irreversible.
func (c *Controller) DeleteItem(ctx context.Context, id int64) error {
	ok, err := store.DeleteItem(ctx, c.DB, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	return nil
}

// ApproveClaim moves a pending claim to approved.
func (c *Controller) ApproveClaim(ctx context.Context, id int64) error {
	return c.settleClaim(ctx, id, model.ClaimStatusApproved)
}

// DenyClaim moves a pending claim to denied.
func (c *Controller) DenyClaim(ctx context.Context, id int64) error {
	return c.settleClaim(ctx, id, model.ClaimStatusDenied)
}

// settleClaim moves a pending claim to a terminal status, exactly once.
func (c *Controller) settleClaim(ctx context.Context, id int64, to model.ClaimStatus) error {
	ok, err := store.UpdateClaimStatus(ctx, c.DB, id, to)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	claim, err := store.GetClaim(ctx, c.DB, id)
	if err != nil {
		return err
	}
	if claim == nil {
		return fmt.Errorf("claim %d: %w", id, ErrNotFound)
	}
	return fmt.Errorf("claim %d: %s -> %s: %w", id, claim.Status, to, ErrInvalidTransition)
}
