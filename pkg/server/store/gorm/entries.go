package gorm

import (
	"errors"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/cms-in-go/pkg/model"
	"github.com/doodlesbykumbi/cms-in-go/pkg/server/store"
)

// Ensure EntriesStore implements store.EntriesStore
var _ store.EntriesStore = (*EntriesStore)(nil)

// EntriesStore implements store.EntriesStore using GORM
type EntriesStore struct {
	db *gorm.DB
}

// NewEntriesStore creates a new EntriesStore
func NewEntriesStore(db *gorm.DB) *EntriesStore {
	return &EntriesStore{db: db}
}

// FetchEntry returns an entry by id.
func (s *EntriesStore) FetchEntry(id uint) (*model.FormEntry, error) {
	var entry model.FormEntry
	if err := s.db.First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrEntryNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// ListEntries returns a page of a form's entries.
func (s *EntriesStore) ListEntries(formID uint, opts store.ListOptions) (*store.EntryList, error) {
	order := opts.Order
	if order == "" {
		order = store.DefaultOrder
	}

	list := &store.EntryList{Page: opts.Page, PerPage: opts.PerPage}
	if list.Page < 1 {
		list.Page = 1
	}

	err := s.db.Model(&model.FormEntry{}).Where("form_id = ?", formID).Count(&list.Total).Error
	if err != nil {
		return nil, err
	}
	if list.Total == 0 {
		list.Entries = []model.FormEntry{}
		return list, nil
	}

	err = s.db.Where("form_id = ?", formID).
		Order(order).
		Limit(opts.PerPage).
		Offset(opts.Offset()).
		Find(&list.Entries).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// CreateEntry inserts an entry. Validation runs in the BeforeSave hook, so an
// invalid bound entry rolls the transaction back.
func (s *EntriesStore) CreateEntry(entry *model.FormEntry) error {
	return s.db.Create(entry).Error
}

// UpdateEntry saves the data of an existing entry.
func (s *EntriesStore) UpdateEntry(entry *model.FormEntry) error {
	tx := s.db.Model(entry).Select("form_id", "data", "updated_at").Updates(entry)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrEntryNotFound
	}
	return nil
}
