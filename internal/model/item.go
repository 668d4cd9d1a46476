package model

import "time"

// Item represents a lost or found item report.
type Item struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Category       Category   `json:"category"`
	Type           ItemType   `json:"type"`
	Location       string     `json:"location"`
	DateOccurred   string     `json:"date_occurred"`
	TimeOccurred   string     `json:"time_occurred"`
	ContactEmail   string     `json:"contact_email"`
	ImageURL       *string    `json:"image_url"`
	SecurityAnswer string     `json:"-"`
	Status         ItemStatus `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ItemType says whether an item was lost or found. Immutable after creation.
type ItemType string

const (
	TypeLost  ItemType = "lost"
	TypeFound ItemType = "found"
)

// Valid reports whether t is a known item type.
func (t ItemType) Valid() bool {
	switch t {
	case TypeLost, TypeFound:
		return true
	}
	return false
}

// Category classifies an item.
type Category string

const (
	CategoryElectronics Category = "electronics"
	CategoryClothing    Category = "clothing"
	CategoryBooks       Category = "books"
	CategoryAccessories Category = "accessories"
	CategorySports      Category = "sports"
	CategoryOther       Category = "other"
)

// Categories lists all categories in display order.
var Categories = []Category{
	CategoryElectronics,
	CategoryClothing,
	CategoryBooks,
	CategoryAccessories,
	CategorySports,
	CategoryOther,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryElectronics, CategoryClothing, CategoryBooks,
		CategoryAccessories, CategorySports, CategoryOther:
		return true
	}
	return false
}

// ItemStatus is an item's position in its lifecycle. Items start pending and
// only ever advance pending → approved → returned; deletion is allowed from
// any status and removes the item's claims with it.
type ItemStatus string

const (
	ItemStatusPending  ItemStatus = "pending"
	ItemStatusApproved ItemStatus = "approved"
	ItemStatusReturned ItemStatus = "returned"
)

// Valid reports whether s is a known item status.
func (s ItemStatus) Valid() bool {
	switch s {
	case ItemStatusPending, ItemStatusApproved, ItemStatusReturned:
		return true
	}
	return false
}

// CanAdvanceTo reports whether target is reachable from s in a single
// transition. Status never regresses.
func (s ItemStatus) CanAdvanceTo(target ItemStatus) bool {
	switch s {
	case ItemStatusPending:
		return target == ItemStatusApproved
	case ItemStatusApproved:
		return target == ItemStatusReturned
	case ItemStatusReturned:
		return false
	}
	return false
}
