package api

import (
	"database/sql"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/lkosir/najdeno/internal/intake"
	"github.com/lkosir/najdeno/internal/lifecycle"
	"github.com/lkosir/najdeno/internal/model"
	"github.com/lkosir/najdeno/internal/store"
	"github.com/lkosir/najdeno/internal/verify"
)

// ClaimsHandler handles public claim submission.
type ClaimsHandler struct {
	DB        *sql.DB
	Lifecycle *lifecycle.Controller
}

type createClaimRequest struct {
	ClaimantName   string `json:"claimant_name"`
	ClaimantEmail  string `json:"claimant_email"`
	SecurityAnswer string `json:"security_answer"`
}

// Create handles POST /api/items/{id}/claims. Claims are only accepted for
// approved items; that policy is enforced here at the public boundary, not
// in the lifecycle controller.
func (h *ClaimsHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req createClaimRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var errs []intake.FieldError
	if strings.TrimSpace(req.ClaimantName) == "" {
		errs = append(errs, intake.FieldError{Field: "claimant_name", Message: "required"})
	}
	if !intake.ValidEmail(req.ClaimantEmail) {
		errs = append(errs, intake.FieldError{Field: "claimant_email", Message: "must be a valid email address"})
	}
	if !verify.ValidLength(verify.Normalize(req.SecurityAnswer)) {
		errs = append(errs, intake.FieldError{Field: "security_answer", Message: fmt.Sprintf("must be %d-%d characters", verify.MinAnswerLen, verify.MaxAnswerLen)})
	}
	if len(errs) > 0 {
		jsonFieldErrors(w, errs)
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to look up item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	if item.Status != model.ItemStatusApproved {
		jsonError(w, http.StatusConflict, "item is not open for claims")
		return
	}

	claim, err := h.Lifecycle.CreateClaim(r.Context(), lifecycle.NewClaim{
		ItemID:         id,
		ClaimantName:   strings.TrimSpace(req.ClaimantName),
		ClaimantEmail:  strings.TrimSpace(req.ClaimantEmail),
		SecurityAnswer: req.SecurityAnswer,
	})
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create claim")
		return
	}

	jsonResponse(w, http.StatusCreated, claim)
}
