package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/outer-user-333/recon-0-lite/internal/core/domain"
	"github.com/outer-user-333/recon-0-lite/internal/core/port"
)

// NotificationService exposes an account's notification feed.
type NotificationService struct {
	notifications port.NotificationRepository
}

// NewNotificationService constructs a NotificationService instance.
func NewNotificationService(notifications port.NotificationRepository) (*NotificationService, error) {
	if notifications == nil {
		return nil, errors.New("notification repository is required")
	}
	return &NotificationService{notifications: notifications}, nil
}

// ListForAccount returns the principal's notifications, newest first.
func (s *NotificationService) ListForAccount(ctx context.Context, principal *domain.Principal) ([]domain.Notification, error) {
	if principal == nil {
		return nil, ErrUnauthorized
	}

	notifications, err := s.notifications.ListByAccount(ctx, principal.AccountID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}
