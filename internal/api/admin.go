package api

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/lkosir/najdeno/internal/lifecycle"
	"github.com/lkosir/najdeno/internal/model"
	"github.com/lkosir/najdeno/internal/store"
)

// AdminHandler handles the review dashboard endpoints: item and claim
// transitions, full listings, and aggregate stats.
type AdminHandler struct {
	DB        *sql.DB
	Lifecycle *lifecycle.Controller
}

// ListItems handles GET /api/admin/items. Unlike the public listing it shows
// every status and the stored security answer.
func (h *AdminHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	var filter store.ItemFilter
	if s := r.URL.Query().Get("status"); s != "" {
		filter.Status = model.ItemStatus(s)
		if !filter.Status.Valid() {
			jsonError(w, http.StatusBadRequest, "invalid status filter")
			return
		}
	}

	items, err := store.ListItems(r.Context(), h.DB, filter)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}

	// Admins see the stored answer for adjudication.
	type adminItem struct {
		model.Item
		SecurityAnswer string `json:"security_answer"`
	}
	out := make([]adminItem, len(items))
	for i, item := range items {
		out[i] = adminItem{Item: item, SecurityAnswer: item.SecurityAnswer}
	}
	jsonResponse(w, http.StatusOK, out)
}

// ApproveItem handles POST /api/admin/items/{id}/approve.
func (h *AdminHandler) ApproveItem(w http.ResponseWriter, r *http.Request) {
	h.transitionItem(w, r, h.Lifecycle.ApproveItem)
}

// ReturnItem handles POST /api/admin/items/{id}/return.
func (h *AdminHandler) ReturnItem(w http.ResponseWriter, r *http.Request) {
	h.transitionItem(w, r, h.Lifecycle.MarkReturned)
}

// DeleteItem handles DELETE /api/admin/items/{id}.
func (h *AdminHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := h.Lifecycle.DeleteItem(r.Context(), id); err != nil {
		writeLifecycleError(w, err, "failed to delete item")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// adminClaim pairs a claim with the claimed item's stored answer so the
// admin can read both normalized strings side by side. The decision is
// always the admin's; the strings are never compared automatically.
type adminClaim struct {
	model.Claim
	ItemTitle  string `json:"item_title"`
	ItemAnswer string `json:"item_security_answer"`
}

// ListClaims handles GET /api/admin/claims.
func (h *AdminHandler) ListClaims(w http.ResponseWriter, r *http.Request) {
	var filter store.ClaimFilter
	if s := r.URL.Query().Get("status"); s != "" {
		filter.Status = model.ClaimStatus(s)
		if !filter.Status.Valid() {
			jsonError(w, http.StatusBadRequest, "invalid status filter")
			return
		}
	}
	if itemParam := r.URL.Query().Get("item"); itemParam != "" {
		id, err := strconv.ParseInt(itemParam, 10, 64)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid item filter")
			return
		}
		filter.ItemID = id
	}

	claims, err := store.ListClaims(r.Context(), h.DB, filter)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list claims")
		return
	}

	out := []adminClaim{}
	itemCache := map[int64]*model.Item{}
	for _, claim := range claims {
		item, ok := itemCache[claim.ItemID]
		if !ok {
			item, err = store.GetItem(r.Context(), h.DB, claim.ItemID)
			if err != nil {
				jsonError(w, http.StatusInternalServerError, "failed to list claims")
				return
			}
			itemCache[claim.ItemID] = item
		}
		ac := adminClaim{Claim: claim}
		if item != nil {
			ac.ItemTitle = item.Title
			ac.ItemAnswer = item.SecurityAnswer
		}
		out = append(out, ac)
	}
	jsonResponse(w, http.StatusOK, out)
}

// ApproveClaim handles POST /api/admin/claims/{id}/approve.
func (h *AdminHandler) ApproveClaim(w http.ResponseWriter, r *http.Request) {
	h.transitionClaim(w, r, h.Lifecycle.ApproveClaim)
}

// DenyClaim handles POST /api/admin/claims/{id}/deny.
func (h *AdminHandler) DenyClaim(w http.ResponseWriter, r *http.Request) {
	h.transitionClaim(w, r, h.Lifecycle.DenyClaim)
}

// Stats handles GET /api/admin/stats.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := store.GetStats(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}
	jsonResponse(w, http.StatusOK, stats)
}

// transitionItem runs an item status transition identified by the path id.
func (h *AdminHandler) transitionItem(w http.ResponseWriter, r *http.Request, transition func(context.Context, int64) error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := transition(r.Context(), id); err != nil {
		writeLifecycleError(w, err, "failed to update item")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// transitionClaim runs a claim status transition identified by the path id.
func (h *AdminHandler) transitionClaim(w http.ResponseWriter, r *http.Request, transition func(context.Context, int64) error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid claim id")
		return
	}

	if err := transition(r.Context(), id); err != nil {
		writeLifecycleError(w, err, "failed to update claim")
		return
	}

	claim, err := store.GetClaim(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get claim")
		return
	}
	jsonResponse(w, http.StatusOK, claim)
}

// writeLifecycleError maps controller failures onto HTTP statuses: missing
// entity → 404, unreachable status → 409, anything else → 500.
func writeLifecycleError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, lifecycle.ErrNotFound):
		jsonError(w, http.StatusNotFound, "not found")
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		jsonError(w, http.StatusConflict, "invalid status transition")
	default:
		slog.Error("lifecycle operation failed", "error", err)
		jsonError(w, http.StatusInternalServerError, fallback)
	}
}
