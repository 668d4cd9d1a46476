package model

import "time"

// Claim is an assertion of ownership against an item, pending admin review.
// SecurityAnswer holds the claimant's answer, normalized the same way as the
// item's stored answer; the two are never compared automatically.
type Claim struct {
	ID             int64       `json:"id"`
	ItemID         int64       `json:"item_id"`
	ClaimantName   string      `json:"claimant_name"`
	ClaimantEmail  string      `json:"claimant_email"`
	SecurityAnswer string      `json:"security_answer"`
	Status         ClaimStatus `json:"status"`
	CreatedAt      time.Time   `json:"created_at"`
}

// ClaimStatus is a claim's position in its lifecycle. Claims start pending
// and transition exactly once, to approved or denied.
type ClaimStatus string

const (
	ClaimStatusPending  ClaimStatus = "pending"
	ClaimStatusApproved ClaimStatus = "approved"
	ClaimStatusDenied   ClaimStatus = "denied"
)

// Valid reports whether s is a known claim status.
func (s ClaimStatus) Valid() bool {
	switch s {
	case ClaimStatusPending, ClaimStatusApproved, ClaimStatusDenied:
		return true
	}
	return false
}

// Terminal reports whether s admits no further transition.
func (s ClaimStatus) Terminal() bool {
	return s == ClaimStatusApproved || s == ClaimStatusDenied
}
