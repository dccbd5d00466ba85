// Package model defines the record types shared across the service.
package model

import (
	"time"

	"github.com/shopspring/decimal"

	"recordbook/internal/blob"
)

// Record is one validated form submission. Records are never mutated once
// appended to the store.
type Record struct {
	FullName       string          `json:"fullName"`
	Amount         decimal.Decimal `json:"amount"`
	PhoneNumber    string          `json:"phoneNumber"`
	ProfilePicture blob.Handle     `json:"profilePicture"`
	DateSubmitted  time.Time       `json:"dateSubmitted"`
}

// PictureURL is the path the profile picture is served under.
func (r Record) PictureURL() string {
	return PictureURL(r.ProfilePicture)
}

// PictureURL returns the serving path for h, or "" for the empty handle.
func PictureURL(h blob.Handle) string {
	if h == "" {
		return ""
	}
	return "/pictures/" + string(h)
}

// Picture is an uploaded image held by a form until submission.
type Picture struct {
	ContentType string
	Data        []byte
}

// Submission represents the raw form input checked before a Record is built.
type Submission struct {
	FullName       string   `json:"fullName" validate:"required,fullname"`
	Amount         string   `json:"amount" validate:"required,amount"`
	PhoneNumber    string   `json:"phoneNumber" validate:"required,phoneformat"`
	ProfilePicture *Picture `json:"profilePicture" validate:"required"`
}

// RecordView is the client-facing JSON shape of a Record.
type RecordView struct {
	FullName       string          `json:"fullName"`
	Amount         decimal.Decimal `json:"amount"`
	PhoneNumber    string          `json:"phoneNumber"`
	ProfilePicture string          `json:"profilePicture"`
	DateSubmitted  time.Time       `json:"dateSubmitted"`
}

// View converts r for a response body.
func (r Record) View() RecordView {
	return RecordView{
		FullName:       r.FullName,
		Amount:         r.Amount,
		PhoneNumber:    r.PhoneNumber,
		ProfilePicture: r.PictureURL(),
		DateSubmitted:  r.DateSubmitted,
	}
}

// Views converts a slice of records, never returning nil.
func Views(records []Record) []RecordView {
	out := make([]RecordView, len(records))
	for i, r := range records {
		out[i] = r.View()
	}
	return out
}
