package model

import (
	"strings"
	"time"
)

// EmailMessage is an outgoing message. It is persisted first and marked
// delivered once the mailer accepted it.
type EmailMessage struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Sender      string     `json:"sender"`
	Recipients  string     `gorm:"not null" json:"recipients"`
	Subject     string     `json:"subject"`
	Body        string     `gorm:"type:text" json:"body"`
	DeliveredAt *time.Time `gorm:"column:delivered_at" json:"delivered_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (EmailMessage) TableName() string {
	return "email_messages"
}

func (m *EmailMessage) RecordID() uint {
	return m.ID
}

// Delivered reports whether the message has been handed to the mailer.
func (m *EmailMessage) Delivered() bool {
	return m.DeliveredAt != nil
}

// RecipientList splits Recipients on commas and semicolons.
func (m *EmailMessage) RecipientList() []string {
	fields := strings.FieldsFunc(m.Recipients, func(r rune) bool {
		return r == ',' || r == ';'
	})
	recipients := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			recipients = append(recipients, f)
		}
	}
	return recipients
}
