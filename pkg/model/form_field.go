package model

import (
	"strings"
	"unicode"

	"gorm.io/gorm"
)

// FieldType is the kind of input a form field renders as.
type FieldType string

const (
	FieldTypeTextField FieldType = "text_field"
	FieldTypeTextArea  FieldType = "text_area"
	FieldTypeEmail     FieldType = "email"
	FieldTypeSelect    FieldType = "select"
	FieldTypeRadio     FieldType = "radio_buttons"
	FieldTypeCheckbox  FieldType = "check_box"
	FieldTypeHidden    FieldType = "hidden"
)

// FormField is one input of a Form. Name is the key the submitted value is
// stored under.
type FormField struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	FormID       uint      `gorm:"not null;index" json:"form_id"`
	Label        string    `gorm:"not null" json:"label"`
	Name         string    `gorm:"not null" json:"name"`
	FieldType    FieldType `gorm:"type:text;not null;default:text_field" json:"field_type"`
	Required     bool      `json:"required"`
	Choices      string    `json:"choices"`
	Instructions string    `json:"instructions"`
	DefaultValue string    `json:"default_value"`
	Position     int       `json:"position"`
}

func (FormField) TableName() string {
	return "form_fields"
}

func (f *FormField) RecordID() uint {
	return f.ID
}

// Key returns the storage key of the field, deriving it from the label when
// no name was set.
func (f *FormField) Key() string {
	if f.Name != "" {
		return f.Name
	}
	return FieldName(f.Label)
}

// ChoiceList returns the newline separated choices of a select or radio field.
func (f *FormField) ChoiceList() []string {
	var choices []string
	for _, line := range strings.Split(f.Choices, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			choices = append(choices, line)
		}
	}
	return choices
}

// HasChoices reports whether submitted values must be one of ChoiceList.
func (f *FormField) HasChoices() bool {
	return f.FieldType == FieldTypeSelect || f.FieldType == FieldTypeRadio
}

func (f *FormField) BeforeSave(tx *gorm.DB) error {
	if f.Name == "" {
		f.Name = FieldName(f.Label)
	}
	if f.FieldType == "" {
		f.FieldType = FieldTypeTextField
	}
	return nil
}

// FieldName converts a label such as "Your E-mail" into the storage key
// "your_e_mail".
func FieldName(label string) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(label)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if underscore && b.Len() > 0 {
				b.WriteByte('_')
			}
			underscore = false
			b.WriteRune(r)
			continue
		}
		underscore = true
	}
	return b.String()
}
