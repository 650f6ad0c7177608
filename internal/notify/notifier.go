package notify

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/bluevoyage/travelbooking/internal/domain"
	"github.com/bluevoyage/travelbooking/internal/kafka"
	"github.com/bluevoyage/travelbooking/internal/repository"
	"github.com/google/uuid"
)

type Producer interface {
	Publish(ctx context.Context, topic, key string, payload interface{}) error
}

// Notifier publishes user-facing notifications to the notifications topic.
// Dispatch is best-effort: a failed publish is logged and swallowed, never
// bubbled up to fail the mutation that triggered it.
type Notifier struct {
	producer Producer
	users    repository.UserRepository
	topic    string
}

func NewNotifier(producer Producer, users repository.UserRepository, topic string) *Notifier {
	return &Notifier{producer: producer, users: users, topic: topic}
}

func (n *Notifier) Notify(ctx context.Context, notification domain.Notification) {
	if n == nil || n.producer == nil || n.topic == "" {
		return
	}

	event, err := toEvent(notification)
	if err != nil {
		log.Printf("WARNING: failed to encode notification for user %s: %v", notification.UserID, err)
		return
	}
	if err := n.producer.Publish(ctx, n.topic, uuid.NewString(), event); err != nil {
		log.Printf("WARNING: failed to publish notification for user %s: %v", notification.UserID, err)
	}
}

// NotifyAdmins fans the notification out to every active admin account.
func (n *Notifier) NotifyAdmins(ctx context.Context, notification domain.Notification) {
	if n == nil || n.producer == nil || n.topic == "" {
		return
	}

	admins, err := n.users.ListActiveAdmins(ctx)
	if err != nil {
		log.Printf("WARNING: failed to list admins for notification fan-out: %v", err)
		return
	}
	for _, admin := range admins {
		notification.UserID = admin.ID
		n.Notify(ctx, notification)
	}
}

func toEvent(notification domain.Notification) (kafka.NotificationEvent, error) {
	var data json.RawMessage
	if notification.Data != nil {
		encoded, err := json.Marshal(notification.Data)
		if err != nil {
			return kafka.NotificationEvent{}, err
		}
		data = encoded
	}
	return kafka.NotificationEvent{
		UserID:  notification.UserID,
		Type:    string(notification.Type()),
		Title:   notification.Title,
		Message: notification.Message,
		Data:    data,
		SentAt:  time.Now(),
	}, nil
}
