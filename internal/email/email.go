package email

import (
	"context"
	"fmt"

	"github.com/bluevoyage/travelbooking/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.NotificationEvent) error {
	fmt.Printf("send %s notification to user %s: %s\n", event.Type, event.UserID, event.Message)
	return nil
}
