package store

import (
	"errors"

	"github.com/doodlesbykumbi/cms-in-go/pkg/model"
)

// ErrFormNotFound is returned when a form doesn't exist
var ErrFormNotFound = errors.New("form not found")

// FormsStore abstracts form lookups
type FormsStore interface {
	// FetchForm returns a form with its fields ordered by position.
	// Returns ErrFormNotFound if the form doesn't exist.
	FetchForm(id uint) (*model.Form, error)

	// ListForms returns all forms ordered by name, without fields.
	ListForms() ([]model.Form, error)
}
