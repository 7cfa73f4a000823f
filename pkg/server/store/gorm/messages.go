package gorm

import (
	"time"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/cms-in-go/pkg/model"
	"github.com/doodlesbykumbi/cms-in-go/pkg/server/store"
)

// Ensure MessagesStore implements store.MessagesStore
var _ store.MessagesStore = (*MessagesStore)(nil)

// MessagesStore implements store.MessagesStore using GORM
type MessagesStore struct {
	db *gorm.DB
}

// NewMessagesStore creates a new MessagesStore
func NewMessagesStore(db *gorm.DB) *MessagesStore {
	return &MessagesStore{db: db}
}

// CreateMessage persists a new, undelivered message.
func (s *MessagesStore) CreateMessage(msg *model.EmailMessage) error {
	return s.db.Create(msg).Error
}

// PendingMessages returns up to limit undelivered messages, oldest first.
func (s *MessagesStore) PendingMessages(limit int) ([]model.EmailMessage, error) {
	var msgs []model.EmailMessage
	err := s.db.Where("delivered_at IS NULL").Order("id").Limit(limit).Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// MarkDelivered stamps a message as delivered.
func (s *MessagesStore) MarkDelivered(id uint, at time.Time) error {
	tx := s.db.Model(&model.EmailMessage{}).Where("id = ?", id).Updates(map[string]interface{}{
		"delivered_at": at,
		"updated_at":   at,
	})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrMessageNotFound
	}
	return nil
}
