package store

import (
	"errors"
	"time"

	"github.com/doodlesbykumbi/cms-in-go/pkg/model"
)

// ErrMessageNotFound is returned when an email message doesn't exist
var ErrMessageNotFound = errors.New("email message not found")

// MessagesStore abstracts the notification outbox
type MessagesStore interface {
	// CreateMessage persists a new, undelivered message.
	CreateMessage(msg *model.EmailMessage) error

	// PendingMessages returns up to limit undelivered messages, oldest first.
	PendingMessages(limit int) ([]model.EmailMessage, error)

	// MarkDelivered stamps a message as delivered.
	// Returns ErrMessageNotFound if the message doesn't exist.
	MarkDelivered(id uint, at time.Time) error
}
