package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lkosir/najdeno/internal/model"
)

// ClaimFilter narrows ListClaims. Zero values mean "no constraint".
type ClaimFilter struct {
	ItemID int64
	Status model.ClaimStatus
}

// CreateClaim inserts a new claim and returns the stored record.
func CreateClaim(ctx context.Context, db *sql.DB, claim model.Claim) (*model.Claim, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO claims (item_id, claimant_name, claimant_email, security_answer, status)
		 VALUES (?, ?, ?, ?, ?)`,
		claim.ItemID, claim.ClaimantName, claim.ClaimantEmail,
		claim.SecurityAnswer, claim.Status,
	)
	if err != nil {
		return nil, fmt.Errorf("creating claim: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting claim id: %w", err)
	}

	return GetClaim(ctx, db, id)
}

// GetClaim returns a claim by ID, or nil if it doesn't exist.
func GetClaim(ctx context.Context, db *sql.DB, id int64) (*model.Claim, error) {
	claim := &model.Claim{}
	err := db.QueryRowContext(ctx,
		`SELECT id, item_id, claimant_name, claimant_email, security_answer, status, created_at
		 FROM claims WHERE id = ?`, id,
	).Scan(&claim.ID, &claim.ItemID, &claim.ClaimantName, &claim.ClaimantEmail,
		&claim.SecurityAnswer, &claim.Status, &claim.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting claim: %w", err)
	}
	return claim, nil
}

// ListClaims returns claims matching the filter, newest first.
func ListClaims(ctx context.Context, db *sql.DB, filter ClaimFilter) ([]model.Claim, error) {
	query := `SELECT id, item_id, claimant_name, claimant_email, security_answer, status, created_at
	          FROM claims`

	var conds []string
	var args []any
	if filter.ItemID != 0 {
		conds = append(conds, "item_id = ?")
		args = append(args, filter.ItemID)
	}
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, filter.Status)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing claims: %w", err)
	}
	defer rows.Close()

	var claims []model.Claim
	for rows.Next() {
		var claim model.Claim
		if err := rows.Scan(&claim.ID, &claim.ItemID, &claim.ClaimantName,
			&claim.ClaimantEmail, &claim.SecurityAnswer, &claim.Status,
			&claim.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning claim: %w", err)
		}
		claims = append(claims, claim)
	}
	return claims, rows.Err()
}

// UpdateClaimStatus moves a pending claim to a terminal status. Returns false
// if the claim is missing or already terminal; terminal claims never
// transition again.
func UpdateClaimStatus(ctx context.Context, db *sql.DB, id int64, to model.ClaimStatus) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE claims SET status = ? WHERE id = ? AND status = ?`,
		to, id, model.ClaimStatusPending,
	)
	if err != nil {
		return false, fmt.Errorf("updating claim status: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking claim status update: %w", err)
	}
	return n > 0, nil
}
