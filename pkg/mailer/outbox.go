package mailer

import (
	"fmt"
	"time"

	"github.com/doodlesbykumbi/cms-in-go/pkg/model"
	"github.com/doodlesbykumbi/cms-in-go/pkg/server/store"
)

// Outbox persists messages and delivers them
type Outbox struct {
	messages store.MessagesStore
	sender   Sender
	from     string
	now      func() time.Time
}

// NewOutbox creates an outbox. A nil sender leaves messages pending.
func NewOutbox(messages store.MessagesStore, sender Sender, from string) *Outbox {
	return &Outbox{messages: messages, sender: sender, from: from, now: time.Now}
}

// WithSender replaces the sender.
func (o *Outbox) WithSender(sender Sender) *Outbox {
	o.sender = sender
	return o
}

// Enqueue persists msg and delivers it right away when a sender is set.
// A persisted but undelivered message is reported through the error with
// delivered false.
func (o *Outbox) Enqueue(msg *model.EmailMessage) (delivered bool, err error) {
	if msg.Sender == "" {
		msg.Sender = o.from
	}
	if err := o.messages.CreateMessage(msg); err != nil {
		return false, fmt.Errorf("failed to save message: %w", err)
	}
	if o.sender == nil {
		return false, nil
	}
	if err := o.deliver(msg); err != nil {
		return false, err
	}
	return true, nil
}

func (o *Outbox) deliver(msg *model.EmailMessage) error {
	if err := o.sender.Send(msg); err != nil {
		return fmt.Errorf("failed to deliver message %d: %w", msg.ID, err)
	}
	at := o.now()
	if err := o.messages.MarkDelivered(msg.ID, at); err != nil {
		return fmt.Errorf("failed to mark message %d delivered: %w", msg.ID, err)
	}
	msg.DeliveredAt = &at
	return nil
}

// DeliverPending sends up to limit undelivered messages. It stops at the
// first failure and returns how many were sent before it.
func (o *Outbox) DeliverPending(limit int) (int, error) {
	if o.sender == nil {
		return 0, fmt.Errorf("no mail relay configured")
	}

	pending, err := o.messages.PendingMessages(limit)
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range pending {
		if err := o.deliver(&pending[i]); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}
