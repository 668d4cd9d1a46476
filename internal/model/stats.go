package model

// Stats is a read-side projection over the full item and claim collections.
// Recomputed on every request, never cached across mutations.
type Stats struct {
	TotalItems    int64 `json:"total_items"`
	LostItems     int64 `json:"lost_items"`
	FoundItems    int64 `json:"found_items"`
	PendingItems  int64 `json:"pending_items"`
	ApprovedItems int64 `json:"approved_items"`
	ReturnedItems int64 `json:"returned_items"`
	TotalClaims   int64 `json:"total_claims"`
}
