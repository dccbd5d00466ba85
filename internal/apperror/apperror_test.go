package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"recordbook/internal/blob"
	"recordbook/internal/filter"
	"recordbook/internal/form"
	"recordbook/internal/model"
)

func TestCustomValidationError(t *testing.T) {
	v := form.NewValidator()
	err := v.Struct(model.Submission{
		FullName:    "John D0e",
		Amount:      "0",
		PhoneNumber: "1234567890",
	})

	got := CustomValidationError(err)
	assert.Equal(t, []map[string]string{
		{"fullName": "must contain letters and spaces only"},
		{"amount": "must be a number of at least 0.01"},
		{"phoneNumber": "must match format 08012345678"},
		{"profilePicture": "is required"},
	}, got)
}

func TestCustomValidationError_Required(t *testing.T) {
	v := form.NewValidator()
	err := v.Struct(model.Submission{ProfilePicture: &model.Picture{ContentType: "image/png"}})

	got := CustomValidationError(err)
	assert.Equal(t, []map[string]string{
		{"fullName": "is required"},
		{"amount": "is required"},
		{"phoneNumber": "is required"},
	}, got)
}

func TestCustomValidationError_NotValidation(t *testing.T) {
	assert.Empty(t, CustomValidationError(errors.New("boom")))
	assert.False(t, IsValidation(errors.New("boom")))
}

func TestStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{form.ErrUnsupportedFileType, http.StatusUnsupportedMediaType},
		{fmt.Errorf("start: %w", filter.ErrInvalidDate), http.StatusBadRequest},
		{form.ErrUnknownSession, http.StatusNotFound},
		{blob.ErrUnknownHandle, http.StatusNotFound},
		{form.ErrClosed, http.StatusConflict},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Status(tc.err), tc.err.Error())
	}
	assert.Equal(t, "internal error", Message(errors.New("disk on fire")))
	assert.Equal(t, form.ErrUnsupportedFileType.Error(), Message(form.ErrUnsupportedFileType))
}
