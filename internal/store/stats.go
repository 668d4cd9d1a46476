package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lkosir/najdeno/internal/model"
)

// GetStats computes summary counts over the full item and claim collections.
// Pure projection: always reads the current state, nothing is cached.
func GetStats(ctx context.Context, db *sql.DB) (*model.Stats, error) {
	stats := &model.Stats{}

	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE type = 'lost'),
		        COUNT(*) FILTER (WHERE type = 'found'),
		        COUNT(*) FILTER (WHERE status = 'pending'),
		        COUNT(*) FILTER (WHERE status = 'approved'),
		        COUNT(*) FILTER (WHERE status = 'returned')
		 FROM items`,
	).Scan(&stats.TotalItems, &stats.LostItems, &stats.FoundItems,
		&stats.PendingItems, &stats.ApprovedItems, &stats.ReturnedItems)
	if err != nil {
		return nil, fmt.Errorf("counting items: %w", err)
	}

	err = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM claims`).Scan(&stats.TotalClaims)
	if err != nil {
		return nil, fmt.Errorf("counting claims: %w", err)
	}

	return stats, nil
}
