package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lkosir/najdeno/internal/model"
)

// ItemFilter narrows ListItems. Zero values mean "no constraint".
type ItemFilter struct {
	Type     model.ItemType
	Category model.Category
	Status   model.ItemStatus
	Limit    int
}

// CreateItem inserts a new item and returns the stored record.
func CreateItem(ctx context.Context, db *sql.DB, item model.Item) (*model.Item, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO items (title, description, category, type, location,
		                    date_occurred, time_occurred, contact_email,
		                    image_url, security_answer, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.Title, item.Description, item.Category, item.Type, item.Location,
		item.DateOccurred, item.TimeOccurred, item.ContactEmail,
		item.ImageURL, item.SecurityAnswer, item.Status,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID, or nil if it doesn't exist.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	item := &model.Item{}
	var imageURL sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, title, description, category, type, location,
		        date_occurred, time_occurred, contact_email, image_url,
		        security_answer, status, created_at
		 FROM items WHERE id = ?`, id,
	).Scan(&item.ID, &item.Title, &item.Description, &item.Category, &item.Type,
		&item.Location, &item.DateOccurred, &item.TimeOccurred, &item.ContactEmail,
		&imageURL, &item.SecurityAnswer, &item.Status, &item.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	if imageURL.Valid {
		item.ImageURL = &imageURL.String
	}
	return item, nil
}

// ListItems returns items matching the filter, newest first.
func ListItems(ctx context.Context, db *sql.DB, filter ItemFilter) ([]model.Item, error) {
	query := `SELECT id, title, description, category, type, location,
	                 date_occurred, time_occurred, contact_email, image_url,
	                 security_answer, status, created_at
	          FROM items`

	var conds []string
	var args []any
	if filter.Type != "" {
		conds = append(conds, "type = ?")
		args = append(args, filter.Type)
	}
	if filter.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, filter.Status)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		var imageURL sql.NullString
		if err := rows.Scan(&item.ID, &item.Title, &item.Description, &item.Category,
			&item.Type, &item.Location, &item.DateOccurred, &item.TimeOccurred,
			&item.ContactEmail, &imageURL, &item.SecurityAnswer, &item.Status,
			&item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		if imageURL.Valid {
			item.ImageURL = &imageURL.String
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateItemStatus advances an item's status, but only if its current status
// matches from. Returns false if the item is missing or not in that status,
// so concurrent admin actions fail cleanly instead of overwriting each other.
func UpdateItemStatus(ctx context.Context, db *sql.DB, id int64, from, to model.ItemStatus) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET status = ? WHERE id = ? AND status = ?`,
		to, id, from,
	)
	if err != nil {
		return false, fmt.Errorf("updating item status: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking item status update: %w", err)
	}
	return n > 0, nil
}

// DeleteItem hard-deletes an item. Its claims are removed by the schema's
// cascade. Returns false if no item had the given ID.
func DeleteItem(ctx context.Context, db *sql.DB, id int64) (bool, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking item delete: %w", err)
	}
	return n > 0, nil
}
