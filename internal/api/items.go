package api

import (
	"database/sql"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/lkosir/najdeno/internal/intake"
	"github.com/lkosir/najdeno/internal/model"
	"github.com/lkosir/najdeno/internal/search"
	"github.com/lkosir/najdeno/internal/store"
)

// maxUploadBytes bounds report submissions carrying an image.
const maxUploadBytes = 6 << 20

// ItemsHandler handles the public item browse and search endpoints.
type ItemsHandler struct {
	DB *sql.DB
}

// List handles GET /api/items. Only approved items are visible; a free-text
// query ranks them and type/category filters narrow the result.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter search.Filter
	if t := r.URL.Query().Get("type"); t != "" {
		filter.Type = model.ItemType(t)
		if !filter.Type.Valid() {
			jsonError(w, http.StatusBadRequest, "invalid type filter")
			return
		}
	}
	if c := r.URL.Query().Get("category"); c != "" {
		filter.Category = model.Category(c)
		if !filter.Category.Valid() {
			jsonError(w, http.StatusBadRequest, "invalid category filter")
			return
		}
	}

	items, err := store.ListItems(r.Context(), h.DB, store.ItemFilter{Status: model.ItemStatusApproved})
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}

	results := search.NewIndex(items).Search(r.URL.Query().Get("q"), filter)
	jsonResponse(w, http.StatusOK, results)
}

// Get handles GET /api/items/{id}. Non-approved items are not visible here.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil || item.Status != model.ItemStatusApproved {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	jsonResponse(w, http.StatusOK, item)
}

// ReportsHandler handles report submission and staged validation.
type ReportsHandler struct {
	Pipeline *intake.Pipeline
}

// Create handles POST /api/reports. Accepts JSON, or multipart/form-data
// when an image is attached.
func (h *ReportsHandler) Create(w http.ResponseWriter, r *http.Request) {
	sub, err := parseSubmission(w, r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.Pipeline.Submit(r.Context(), *sub)
	if err != nil {
		var verr *intake.ValidationError
		if errors.As(err, &verr) {
			jsonFieldErrors(w, verr.Fields)
			return
		}
		jsonError(w, http.StatusInternalServerError, "failed to create report")
		return
	}

	warnings := result.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	jsonResponse(w, http.StatusCreated, map[string]any{
		"item":     result.Item,
		"warnings": warnings,
	})
}

// ValidateStage handles POST /api/reports/validate?stage=N so wizard clients
// can gate forward progress one stage at a time.
func (h *ReportsHandler) ValidateStage(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(r.URL.Query().Get("stage"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid stage")
		return
	}
	stage := intake.Stage(n)
	if !stage.Valid() {
		jsonError(w, http.StatusBadRequest, "invalid stage")
		return
	}

	var sub intake.Submission
	if err := decodeJSON(r, &sub); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if errs := sub.ValidateStage(stage); len(errs) > 0 {
		jsonFieldErrors(w, errs)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]bool{"valid": true})
}

// parseSubmission reads a submission from either a JSON body or a multipart
// form with an optional "image" file.
func parseSubmission(w http.ResponseWriter, r *http.Request) (*intake.Submission, error) {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		var sub intake.Submission
		if err := decodeJSON(r, &sub); err != nil {
			return nil, errors.New("invalid request body")
		}
		return &sub, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, errors.New("file too large or invalid multipart form")
	}

	sub := intake.Submission{
		Type:           model.ItemType(r.FormValue("type")),
		Category:       model.Category(r.FormValue("category")),
		Title:          r.FormValue("title"),
		DateOccurred:   r.FormValue("date_occurred"),
		TimeOccurred:   r.FormValue("time_occurred"),
		Location:       r.FormValue("location"),
		Description:    r.FormValue("description"),
		ContactEmail:   r.FormValue("contact_email"),
		SecurityAnswer: r.FormValue("security_answer"),
	}

	file, _, err := r.FormFile("image")
	if err == nil {
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, errors.New("failed to read image")
		}
		sub.ImageData = data
	} else if err != http.ErrMissingFile {
		return nil, errors.New("invalid image field")
	}

	return &sub, nil
}
