package model

import "time"

// Form is a submittable field schema together with what happens after a
// visitor submits it.
type Form struct {
	ID                   uint                 `gorm:"primaryKey" json:"id"`
	Name                 string               `gorm:"not null" json:"name"`
	Description          string               `json:"description"`
	ConfirmationBehavior ConfirmationBehavior `gorm:"type:text;not null;default:show_text" json:"confirmation_behavior"`
	ConfirmationText     string               `json:"confirmation_text"`
	ConfirmationRedirect string               `json:"confirmation_redirect"`
	NotificationEmail    string               `json:"notification_email"`
	Fields               []FormField          `gorm:"foreignKey:FormID" json:"fields"`
	CreatedAt            time.Time            `json:"created_at"`
	UpdatedAt            time.Time            `json:"updated_at"`
}

func (Form) TableName() string {
	return "forms"
}

func (f *Form) RecordID() uint {
	return f.ID
}

// ShowText reports whether a successful submission renders the confirmation
// text inline instead of redirecting.
func (f *Form) ShowText() bool {
	return f.ConfirmationBehavior == ConfirmationBehaviorShowText
}

// FieldNames returns the storage keys of the form's fields in display order.
func (f *Form) FieldNames() []string {
	names := make([]string, 0, len(f.Fields))
	for _, field := range f.Fields {
		names = append(names, field.Key())
	}
	return names
}

// Field returns the field stored under name.
func (f *Form) Field(name string) (*FormField, bool) {
	for i := range f.Fields {
		if f.Fields[i].Key() == name {
			return &f.Fields[i], true
		}
	}
	return nil, false
}
