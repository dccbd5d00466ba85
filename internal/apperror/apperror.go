// Package apperror maps validation and domain errors to client-facing messages.
package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"recordbook/internal/blob"
	"recordbook/internal/filter"
	"recordbook/internal/form"
)

var (
	errRequired            = errors.New("is required")
	errInvalidFullName     = errors.New("must contain letters and spaces only")
	errInvalidAmount       = errors.New("must be a number of at least 0.01")
	errInvalidPhoneFormat  = errors.New("must match format 08012345678")
	errInvalidRequestInput = errors.New("invalid request payload")
)

var customErrors = map[string]error{
	"Submission.FullName.required":       errRequired,
	"Submission.FullName.fullname":       errInvalidFullName,
	"Submission.Amount.required":         errRequired,
	"Submission.Amount.amount":           errInvalidAmount,
	"Submission.PhoneNumber.required":    errRequired,
	"Submission.PhoneNumber.phoneformat": errInvalidPhoneFormat,
	"Submission.ProfilePicture.required": errRequired,
}

// CustomValidationError converts validator errors into a list of
// field-to-message entries, one per failed rule.
func CustomValidationError(err error) []map[string]string {
	errList := make([]map[string]string, 0)

	var validationErr validator.ValidationErrors
	if errors.As(err, &validationErr) {
		for _, e := range validationErr {
			field := e.StructNamespace()
			key := field + "." + e.Tag()

			errMsg := fmt.Sprintf("%s is invalid", e.Field())
			if v, ok := customErrors[key]; ok {
				errMsg = v.Error()
			}

			errList = append(errList, map[string]string{e.Field(): errMsg})
		}
	}
	return errList
}

// IsValidation reports whether err carries field validation failures.
func IsValidation(err error) bool {
	var validationErr validator.ValidationErrors
	return errors.As(err, &validationErr)
}

// Status picks the HTTP status for a domain error.
func Status(err error) int {
	switch {
	case IsValidation(err), errors.Is(err, filter.ErrInvalidDate):
		return http.StatusBadRequest
	case errors.Is(err, form.ErrUnsupportedFileType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, form.ErrUnknownSession), errors.Is(err, blob.ErrUnknownHandle):
		return http.StatusNotFound
	case errors.Is(err, form.ErrClosed):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the text shown to clients for err. Internal failures are
// not echoed back.
func Message(err error) string {
	if Status(err) == http.StatusInternalServerError {
		return "internal error"
	}
	return err.Error()
}

// InvalidPayload is the message for undecodable request bodies.
func InvalidPayload() string {
	return errInvalidRequestInput.Error()
}
