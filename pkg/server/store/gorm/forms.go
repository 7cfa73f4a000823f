package gorm

import (
	"errors"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/cms-in-go/pkg/model"
	"github.com/doodlesbykumbi/cms-in-go/pkg/server/store"
)

// Ensure FormsStore implements store.FormsStore
var _ store.FormsStore = (*FormsStore)(nil)

// FormsStore implements store.FormsStore using GORM
type FormsStore struct {
	db *gorm.DB
}

// NewFormsStore creates a new FormsStore
func NewFormsStore(db *gorm.DB) *FormsStore {
	return &FormsStore{db: db}
}

func orderedFields(db *gorm.DB) *gorm.DB {
	return db.Order("position, id")
}

// FetchForm returns a form with its fields ordered by position.
func (s *FormsStore) FetchForm(id uint) (*model.Form, error) {
	var form model.Form
	err := s.db.Preload("Fields", orderedFields).First(&form, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrFormNotFound
		}
		return nil, err
	}
	return &form, nil
}

// ListForms returns all forms ordered by name, without fields.
func (s *FormsStore) ListForms() ([]model.Form, error) {
	var forms []model.Form
	if err := s.db.Order("name").Find(&forms).Error; err != nil {
		return nil, err
	}
	return forms, nil
}
