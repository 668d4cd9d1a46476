package intake

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/lkosir/najdeno/internal/blob"
	"github.com/lkosir/najdeno/internal/db"
	"github.com/lkosir/najdeno/internal/lifecycle"
	"github.com/lkosir/najdeno/internal/model"
	"github.com/lkosir/najdeno/internal/store"
)

func validSubmission() Submission {
	return Submission{
		Type:           model.TypeLost,
		Category:       model.CategoryElectronics,
		Title:          "AirPods Pro Case",
		DateOccurred:   "2025-03-10",
		TimeOccurred:   "14:30",
		Location:       "Cafeteria",
		Description:    "White case with a carabiner clip.",
		ContactEmail:   "student2@school.edu",
		SecurityAnswer: "Blue Silicone Cover",
	}
}

func newPipeline(t *testing.T) (*Pipeline, *lifecycle.Controller) {
	t.Helper()
	database := db.NewTestDB(t)
	ctrl := &lifecycle.Controller{DB: database}
	blobs, err := blob.NewFilesystem(t.TempDir(), "http://test.local")
	if err != nil {
		t.Fatalf("NewFilesystem: %v", err)
	}
	return &Pipeline{Lifecycle: ctrl, Blobs: blobs}, ctrl
}

func fieldNames(errs []FieldError) map[string]bool {
	names := map[string]bool{}
	for _, e := range errs {
		names[e.Field] = true
	}
	return names
}

func TestStagesValidateIndependently(t *testing.T) {
	// A blank submission fails every required field, but each stage only
	// reports its own.
	var sub Submission

	stage1 := fieldNames(sub.ValidateStage(StageClassification))
	for _, f := range []string{"type", "category", "title"} {
		if !stage1[f] {
			t.Errorf("stage 1 missing error for %s", f)
		}
	}
	if len(stage1) != 3 {
		t.Errorf("stage 1 reported extra fields: %v", stage1)
	}

	stage2 := fieldNames(sub.ValidateStage(StageContext))
	for _, f := range []string{"date_occurred", "time_occurred", "location", "description"} {
		if !stage2[f] {
			t.Errorf("stage 2 missing error for %s", f)
		}
	}

	if errs := sub.ValidateStage(StageMedia); len(errs) != 0 {
		t.Errorf("stage 3 has no required fields, got %v", errs)
	}

	stage4 := fieldNames(sub.ValidateStage(StageContact))
	for _, f := range []string{"contact_email", "security_answer"} {
		if !stage4[f] {
			t.Errorf("stage 4 missing error for %s", f)
		}
	}
}

func TestDescriptionBounds(t *testing.T) {
	sub := validSubmission()

	sub.Description = "short"
	if errs := sub.ValidateStage(StageContext); !fieldNames(errs)["description"] {
		t.Error("expected 5-character description to be rejected")
	}

	sub.Description = "åéîøü12345" // exactly 10 runes
	if errs := sub.ValidateStage(StageContext); fieldNames(errs)["description"] {
		t.Error("expected 10-character description to be accepted")
	}
}

func TestPaddedFieldsValidateTrimmed(t *testing.T) {
	// Surrounding whitespace never counts toward a minimum: Submit trims
	// before storing, so the bounds apply to the trimmed value.
	sub := validSubmission()
	sub.Description = "ninechars " // 10 runes raw, 9 after trimming
	if errs := sub.ValidateStage(StageContext); !fieldNames(errs)["description"] {
		t.Error("expected padded 9-character description to be rejected")
	}

	sub = validSubmission()
	sub.Title = " ab "
	if errs := sub.ValidateStage(StageClassification); !fieldNames(errs)["title"] {
		t.Error("expected padded 2-character title to be rejected")
	}

	sub = validSubmission()
	sub.SecurityAnswer = " ab "
	if errs := sub.ValidateStage(StageContact); !fieldNames(errs)["security_answer"] {
		t.Error("expected padded 2-character answer to be rejected")
	}
}

func TestSubmitRejectsPaddedShortDescription(t *testing.T) {
	pipeline, ctrl := newPipeline(t)

	sub := validSubmission()
	sub.Description = "ninechars "

	_, err := pipeline.Submit(context.Background(), sub)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !fieldNames(verr.Fields)["description"] {
		t.Errorf("expected a description error, got %v", verr.Fields)
	}

	items, _ := store.ListItems(context.Background(), ctrl.DB, store.ItemFilter{})
	if len(items) != 0 {
		t.Errorf("expected no items after rejected submission, got %d", len(items))
	}
}

func TestEmailValidation(t *testing.T) {
	sub := validSubmission()

	sub.ContactEmail = "not-an-email"
	if errs := sub.ValidateStage(StageContact); !fieldNames(errs)["contact_email"] {
		t.Error("expected not-an-email to be rejected")
	}

	sub.ContactEmail = "a@b.edu"
	if errs := sub.ValidateStage(StageContact); fieldNames(errs)["contact_email"] {
		t.Error("expected a@b.edu to be accepted")
	}
}

func TestSubmitCreatesPendingItem(t *testing.T) {
	pipeline, _ := newPipeline(t)

	result, err := pipeline.Submit(context.Background(), validSubmission())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}

	item := result.Item
	if item.Status != model.ItemStatusPending {
		t.Errorf("expected status pending, got %q", item.Status)
	}
	if item.SecurityAnswer != "blue silicone cover" {
		t.Errorf("expected normalized answer, got %q", item.SecurityAnswer)
	}
	if item.ImageURL != nil {
		t.Errorf("expected nil image URL, got %q", *item.ImageURL)
	}
}

func TestSubmitRejectsInvalidWithoutCreating(t *testing.T) {
	pipeline, ctrl := newPipeline(t)

	sub := validSubmission()
	sub.Description = "short"
	sub.ContactEmail = "not-an-email"

	_, err := pipeline.Submit(context.Background(), sub)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	names := fieldNames(verr.Fields)
	if !names["description"] || !names["contact_email"] {
		t.Errorf("expected description and contact_email errors, got %v", verr.Fields)
	}

	items, _ := store.ListItems(context.Background(), ctrl.DB, store.ItemFilter{})
	if len(items) != 0 {
		t.Errorf("expected no items after rejected submission, got %d", len(items))
	}
}

func TestSubmitWithImage(t *testing.T) {
	pipeline, _ := newPipeline(t)

	sub := validSubmission()
	sub.ImageData = encodePNG(t)

	result, err := pipeline.Submit(context.Background(), sub)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.Item.ImageURL == nil {
		t.Fatal("expected image URL to be set")
	}
	if !strings.HasPrefix(*result.Item.ImageURL, "http://test.local/uploads/items/") {
		t.Errorf("unexpected image URL %q", *result.Item.ImageURL)
	}
}

// failingBlobs simulates an unavailable object store.
type failingBlobs struct{}

func (failingBlobs) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	return "", fmt.Errorf("object store unavailable")
}

func TestSubmitUploadFailureDowngradesToWarning(t *testing.T) {
	pipeline, _ := newPipeline(t)
	pipeline.Blobs = failingBlobs{}

	sub := validSubmission()
	sub.ImageData = encodePNG(t)

	result, err := pipeline.Submit(context.Background(), sub)
	if err != nil {
		t.Fatalf("Submit should not fail on upload errors: %v", err)
	}
	if result.Item.ImageURL != nil {
		t.Errorf("expected nil image URL after failed upload, got %q", *result.Item.ImageURL)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("expected one warning, got %v", result.Warnings)
	}
}

func TestSubmitBadImageDowngradesToWarning(t *testing.T) {
	pipeline, _ := newPipeline(t)

	sub := validSubmission()
	sub.ImageData = []byte("not an image at all")

	result, err := pipeline.Submit(context.Background(), sub)
	if err != nil {
		t.Fatalf("Submit should not fail on undecodable images: %v", err)
	}
	if result.Item.ImageURL != nil {
		t.Error("expected nil image URL for undecodable image")
	}
	if len(result.Warnings) != 1 {
		t.Errorf("expected one warning, got %v", result.Warnings)
	}
}

func encodePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test PNG: %v", err)
	}
	return buf.Bytes()
}
