package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/doodlesbykumbi/cms-in-go/pkg/model"
)

// ErrEntryNotFound is returned when a form entry doesn't exist
var ErrEntryNotFound = errors.New("form entry not found")

// ErrInvalidOrder is returned when an order clause is not allowed
var ErrInvalidOrder = errors.New("invalid order")

// DefaultOrder lists the newest entries first
const DefaultOrder = "created_at desc"

var orderColumns = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// ParseOrder checks an "<column> [asc|desc]" clause against the column
// allowlist and returns it in canonical form. Empty input yields DefaultOrder.
func ParseOrder(order string) (string, error) {
	fields := strings.Fields(strings.ToLower(order))
	switch len(fields) {
	case 0:
		return DefaultOrder, nil
	case 1:
		fields = append(fields, "asc")
	case 2:
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidOrder, order)
	}

	if !orderColumns[fields[0]] {
		return "", fmt.Errorf("%w: unknown column %q", ErrInvalidOrder, fields[0])
	}
	if fields[1] != "asc" && fields[1] != "desc" {
		return "", fmt.Errorf("%w: unknown direction %q", ErrInvalidOrder, fields[1])
	}
	return fields[0] + " " + fields[1], nil
}

// ListOptions controls pagination of entry listings
type ListOptions struct {
	Page    int
	PerPage int
	// Order must come from ParseOrder
	Order string
}

// Offset returns the number of rows skipped before the page
func (o ListOptions) Offset() int {
	if o.Page < 1 {
		return 0
	}
	return (o.Page - 1) * o.PerPage
}

// EntryList is one page of entries
type EntryList struct {
	Entries []model.FormEntry `json:"entries"`
	Total   int64             `json:"total"`
	Page    int               `json:"page"`
	PerPage int               `json:"per_page"`
}

// TotalPages returns the number of pages needed for Total entries
func (l *EntryList) TotalPages() int {
	if l.PerPage <= 0 {
		return 1
	}
	pages := int((l.Total + int64(l.PerPage) - 1) / int64(l.PerPage))
	if pages < 1 {
		return 1
	}
	return pages
}

// EntriesStore abstracts form entry persistence
type EntriesStore interface {
	// FetchEntry returns an entry by id.
	// Returns ErrEntryNotFound if the entry doesn't exist.
	FetchEntry(id uint) (*model.FormEntry, error)

	// ListEntries returns a page of a form's entries.
	ListEntries(formID uint, opts ListOptions) (*EntryList, error)

	// CreateEntry inserts an entry. Bound entries are validated first and
	// a model.ValidationErrors is returned without writing anything.
	CreateEntry(entry *model.FormEntry) error

	// UpdateEntry saves an existing entry, validating it like CreateEntry.
	UpdateEntry(entry *model.FormEntry) error
}
