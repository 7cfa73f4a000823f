package model

import (
	"encoding/json"
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FormEntry is a set of values a visitor submitted against a Form. Values are
// stored as a JSON object keyed by field name.
type FormEntry struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	FormID    uint           `gorm:"not null;index" json:"form_id"`
	Data      datatypes.JSON `gorm:"type:jsonb" json:"data"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`

	form     *Form
	rejected []string
}

func (FormEntry) TableName() string {
	return "form_entries"
}

func (e *FormEntry) RecordID() uint {
	return e.ID
}

// NewEntry builds an empty entry bound to form. Bound entries are validated
// against the form's fields when saved.
func NewEntry(form *Form) *FormEntry {
	entry := &FormEntry{FormID: form.ID}
	entry.Bind(form)

	defaults := map[string]string{}
	for _, field := range form.Fields {
		if field.DefaultValue != "" {
			defaults[field.Key()] = field.DefaultValue
		}
	}
	if len(defaults) > 0 {
		entry.setValues(defaults)
	}
	return entry
}

// Bind attaches form to an entry loaded from the store, enabling validation.
func (e *FormEntry) Bind(form *Form) *FormEntry {
	e.form = form
	return e
}

// Form returns the bound form, or nil.
func (e *FormEntry) Form() *Form {
	return e.form
}

// PermittedParams returns the field names that may be assigned.
func (e *FormEntry) PermittedParams() []string {
	if e.form == nil {
		return nil
	}
	return e.form.FieldNames()
}

// Assign merges params into the entry's values. Keys that are not permitted
// are not stored; they are remembered and reported by Validate.
func (e *FormEntry) Assign(params map[string]string) {
	permitted := make(map[string]bool)
	for _, name := range e.PermittedParams() {
		permitted[name] = true
	}

	values := e.Values()
	e.rejected = nil
	for key, value := range params {
		if !permitted[key] {
			e.rejected = append(e.rejected, key)
			continue
		}
		values[key] = value
	}
	sort.Strings(e.rejected)
	e.setValues(values)
}

// Values decodes the stored values. Non-string JSON values are formatted.
func (e *FormEntry) Values() map[string]string {
	values := map[string]string{}
	if len(e.Data) == 0 {
		return values
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(e.Data, &raw); err != nil {
		return values
	}
	for key, value := range raw {
		switch v := value.(type) {
		case nil:
			values[key] = ""
		case string:
			values[key] = v
		default:
			values[key] = fmt.Sprint(v)
		}
	}
	return values
}

// Value returns the value stored under name.
func (e *FormEntry) Value(name string) string {
	return e.Values()[name]
}

func (e *FormEntry) setValues(values map[string]string) {
	raw, _ := json.Marshal(values)
	e.Data = datatypes.JSON(raw)
}

// Validate checks the entry against its bound form. Unbound entries are
// always valid.
func (e *FormEntry) Validate() error {
	if e.form == nil {
		return nil
	}

	var errs ValidationErrors
	for _, key := range e.rejected {
		errs.Add(key, "is not a permitted field")
	}

	values := e.Values()
	for i := range e.form.Fields {
		field := &e.form.Fields[i]
		name := field.Key()
		value := strings.TrimSpace(values[name])

		if value == "" {
			if field.Required {
				errs.Add(name, "can't be blank")
			}
			continue
		}

		switch {
		case field.FieldType == FieldTypeEmail:
			if _, err := mail.ParseAddress(value); err != nil {
				errs.Add(name, "is not a valid email address")
			}
		case field.HasChoices():
			if !containsString(field.ChoiceList(), value) {
				errs.Add(name, "is not included in the list")
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (e *FormEntry) BeforeSave(tx *gorm.DB) error {
	if e.form != nil {
		e.FormID = e.form.ID
	}
	return e.Validate()
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
