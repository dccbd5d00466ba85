// Package form validates record submissions and manages the picture preview
// a form holds before it is submitted.
package form

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"recordbook/internal/blob"
	"recordbook/internal/model"
)

var (
	// ErrUnsupportedFileType is returned for pictures outside AcceptedTypes.
	ErrUnsupportedFileType = errors.New("only .jpg, .jpeg, .png files allowed")
	// ErrClosed is returned by a form that has been torn down.
	ErrClosed = errors.New("form is closed")
)

// AcceptedTypes lists the picture content types a form takes.
var AcceptedTypes = []string{"image/jpeg", "image/png", "image/jpg"}

// Appender receives built records.
type Appender interface {
	Append(rec model.Record)
}

// Fields is the text input of a submission.
type Fields struct {
	FullName    string
	Amount      string
	PhoneNumber string
}

// Form holds in-progress input for one submitter.
type Form struct {
	mu       sync.Mutex
	store    Appender
	blobs    *blob.Registry
	validate *validator.Validate
	now      func() time.Time

	picture *model.Picture
	preview blob.Handle
	closed  bool
}

// New returns an empty form that appends to s and keeps previews in blobs.
func New(s Appender, blobs *blob.Registry, v *validator.Validate) *Form {
	return &Form{store: s, blobs: blobs, validate: v, now: time.Now}
}

// Accepted reports whether contentType is an allowed picture type.
func Accepted(contentType string) bool {
	return slices.Contains(AcceptedTypes, contentType)
}

// SelectPicture sets the profile picture. An unsupported type leaves the form
// untouched. An accepted picture replaces the previous preview, which is
// released first.
func (f *Form) SelectPicture(contentType string, data []byte) error {
	if !Accepted(contentType) {
		return ErrUnsupportedFileType
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}

	f.releasePreview()
	f.picture = &model.Picture{ContentType: contentType, Data: append([]byte(nil), data...)}
	f.preview = f.blobs.Create(contentType, data)
	return nil
}

// Preview returns the handle of the current picture preview, if any.
func (f *Form) Preview() (blob.Handle, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.preview, f.preview != ""
}

// Submit validates fields with the selected picture. A valid submission is
// timestamped, appended to the store, and the form is reset. Validation
// failures are returned as validator.ValidationErrors and create nothing.
func (f *Form) Submit(fields Fields) (model.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return model.Record{}, ErrClosed
	}

	sub := model.Submission{
		FullName:       fields.FullName,
		Amount:         fields.Amount,
		PhoneNumber:    fields.PhoneNumber,
		ProfilePicture: f.picture,
	}
	if err := f.validate.Struct(sub); err != nil {
		return model.Record{}, err
	}

	amount, err := decimal.NewFromString(sub.Amount)
	if err != nil {
		return model.Record{}, err
	}

	// The record keeps its own handle; the preview is released on reset.
	rec := model.Record{
		FullName:       sub.FullName,
		Amount:         amount,
		PhoneNumber:    sub.PhoneNumber,
		ProfilePicture: f.blobs.Create(sub.ProfilePicture.ContentType, sub.ProfilePicture.Data),
		DateSubmitted:  f.now(),
	}
	f.store.Append(rec)
	f.reset()
	return rec, nil
}

// Close tears the form down and releases its preview. Further calls are no-ops.
func (f *Form) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	f.reset()
}

func (f *Form) reset() {
	f.releasePreview()
	f.picture = nil
}

// releasePreview must be called with f.mu held.
func (f *Form) releasePreview() {
	if f.preview == "" {
		return
	}
	// The form is the only owner of its preview handle, so this cannot fail.
	_ = f.blobs.Release(f.preview)
	f.preview = ""
}
