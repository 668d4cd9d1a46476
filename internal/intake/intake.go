// Package intake validates report submissions in stages and turns a complete
// submission into a pending item. Wizard-style clients validate one stage at
// a time; final submission revalidates everything, so the lifecycle
// controller never sees a partial record.
package intake

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/lkosir/najdeno/internal/blob"
	"github.com/lkosir/najdeno/internal/imaging"
	"github.com/lkosir/najdeno/internal/lifecycle"
	"github.com/lkosir/najdeno/internal/model"
	"github.com/lkosir/najdeno/internal/verify"
)

// Stage identifies one step of the report form.
type Stage int

const (
	StageClassification Stage = 1
	StageContext        Stage = 2
	StageMedia          Stage = 3
	StageContact        Stage = 4
)

// Valid reports whether s is a known stage.
func (s Stage) Valid() bool {
	return s >= StageClassification && s <= StageContact
}

// Field length bounds.
const (
	MinTitleLen       = 3
	MaxTitleLen       = 100
	MinDescriptionLen = 10
	MaxDescriptionLen = 500
)

// Submission is the aggregate report record accumulated across form stages.
// It is never persisted; only a fully valid submission yields an item.
type Submission struct {
	// Stage 1: classification.
	Type     model.ItemType `json:"type"`
	Category model.Category `json:"category"`
	Title    string         `json:"title"`

	// Stage 2: context.
	DateOccurred string `json:"date_occurred"`
	TimeOccurred string `json:"time_occurred"`
	Location     string `json:"location"`
	Description  string `json:"description"`

	// Stage 3: media (optional).
	ImageData []byte `json:"-"`

	// Stage 4: contact and verification.
	ContactEmail   string `json:"contact_email"`
	SecurityAnswer string `json:"security_answer"`
}

// FieldError reports a single field constraint violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries all field errors of a rejected submission.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}
	return fmt.Sprintf("invalid submission: %s", strings.Join(names, ", "))
}

// ValidateStage checks only the fields belonging to the given stage, so a
// client can gate forward progress without the rest of the record. Length
// bounds are checked on the trimmed values, since that is what Submit stores;
// surrounding whitespace never counts toward a minimum.
func (s *Submission) ValidateStage(stage Stage) []FieldError {
	var errs []FieldError

	switch stage {
	case StageClassification:
		if !s.Type.Valid() {
			errs = append(errs, FieldError{"type", "must be lost or found"})
		}
		if !s.Category.Valid() {
			errs = append(errs, FieldError{"category", "unknown category"})
		}
		if n := utf8.RuneCountInString(strings.TrimSpace(s.Title)); n < MinTitleLen || n > MaxTitleLen {
			errs = append(errs, FieldError{"title", fmt.Sprintf("must be %d-%d characters", MinTitleLen, MaxTitleLen)})
		}

	case StageContext:
		if strings.TrimSpace(s.DateOccurred) == "" {
			errs = append(errs, FieldError{"date_occurred", "required"})
		}
		if strings.TrimSpace(s.TimeOccurred) == "" {
			errs = append(errs, FieldError{"time_occurred", "required"})
		}
		if strings.TrimSpace(s.Location) == "" {
			errs = append(errs, FieldError{"location", "required"})
		}
		if n := utf8.RuneCountInString(strings.TrimSpace(s.Description)); n < MinDescriptionLen || n > MaxDescriptionLen {
			errs = append(errs, FieldError{"description", fmt.Sprintf("must be %d-%d characters", MinDescriptionLen, MaxDescriptionLen)})
		}

	case StageMedia:
		// The image is optional and validated by sniffing at upload time.

	case StageContact:
		if !ValidEmail(s.ContactEmail) {
			errs = append(errs, FieldError{"contact_email", "must be a valid email address"})
		}
		if !verify.ValidLength(verify.Normalize(s.SecurityAnswer)) {
			errs = append(errs, FieldError{"security_answer", fmt.Sprintf("must be %d-%d characters", verify.MinAnswerLen, verify.MaxAnswerLen)})
		}
	}

	return errs
}

// Validate checks the full aggregate, all stages in order.
func (s *Submission) Validate() []FieldError {
	var errs []FieldError
	for stage := StageClassification; stage <= StageContact; stage++ {
		errs = append(errs, s.ValidateStage(stage)...)
	}
	return errs
}

// Pipeline finalizes submissions: full validation, optional image upload,
// then handoff to the lifecycle controller.
type Pipeline struct {
	Lifecycle *lifecycle.Controller
	Blobs     blob.Store
}

// Result is a successful submission outcome. Warnings carry non-fatal
// problems, currently only a failed image upload.
type Result struct {
	Item     *model.Item
	Warnings []string
}

// Submit validates the full submission and creates the item. An attached
// image is processed and uploaded first; if that fails the report is still
// created, with a nil image URL and a warning, never a broken reference.
func (p *Pipeline) Submit(ctx context.Context, sub Submission) (*Result, error) {
	if errs := sub.Validate(); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	var imageURL *string
	var warnings []string
	if len(sub.ImageData) > 0 {
		url, err := p.uploadImage(ctx, sub.ImageData)
		if err != nil {
			slog.Warn("image upload failed, creating report without image", "error", err)
			warnings = append(warnings, "image could not be saved; the report was created without it")
		} else {
			imageURL = &url
		}
	}

	item, err := p.Lifecycle.CreateItem(ctx, lifecycle.NewItem{
		Title:          strings.TrimSpace(sub.Title),
		Description:    strings.TrimSpace(sub.Description),
		Category:       sub.Category,
		Type:           sub.Type,
		Location:       strings.TrimSpace(sub.Location),
		DateOccurred:   strings.TrimSpace(sub.DateOccurred),
		TimeOccurred:   strings.TrimSpace(sub.TimeOccurred),
		ContactEmail:   strings.TrimSpace(sub.ContactEmail),
		ImageURL:       imageURL,
		SecurityAnswer: sub.SecurityAnswer,
	})
	if err != nil {
		return nil, err
	}

	return &Result{Item: item, Warnings: warnings}, nil
}

// uploadImage normalizes the image and uploads it, returning the public URL.
func (p *Pipeline) uploadImage(ctx context.Context, data []byte) (string, error) {
	photo, err := imaging.Process(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("processing image: %w", err)
	}

	url, err := p.Blobs.Upload(ctx, imaging.NewObjectKey(), bytes.NewReader(photo.Data), photo.MIME)
	if err != nil {
		return "", fmt.Errorf("uploading image: %w", err)
	}
	return url, nil
}

// ValidEmail accepts bare RFC 5322 addresses, no display names. Shared with
// the claim submission flow, which validates the same way.
func ValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
