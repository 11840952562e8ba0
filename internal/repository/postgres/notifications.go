package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"

	"github.com/outer-user-333/recon-0-lite/internal/core/domain"
	"github.com/outer-user-333/recon-0-lite/internal/core/port"
)

// NotificationRepository implements port.NotificationRepository using PostgreSQL.
type NotificationRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewNotificationRepository constructs a repository backed by any executor
// that satisfies pgExecutor.
func NewNotificationRepository(exec pgExecutor) *NotificationRepository {
	return &NotificationRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a notification row.
func (r *NotificationRepository) Create(ctx context.Context, notification domain.Notification) error {
	sql, args, err := r.builder.Insert("recon.notifications").
		Columns("id", "account_id", "type", "message", "read", "created_at").
		Values(
			notification.ID,
			notification.AccountID,
			notification.Type,
			notification.Message,
			notification.Read,
			notification.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert notification sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}

	return nil
}

// ListByAccount returns the account's notifications, newest first.
func (r *NotificationRepository) ListByAccount(ctx context.Context, accountID string) ([]domain.Notification, error) {
	stmt, args, err := r.builder.
		Select("id", "account_id", "type", "message", "read", "created_at").
		From("recon.notifications").
		Where(squirrel.Eq{"account_id": accountID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list notifications sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var notification domain.Notification
		if err := rows.Scan(
			&notification.ID,
			&notification.AccountID,
			&notification.Type,
			&notification.Message,
			&notification.Read,
			&notification.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, notification)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}

	return notifications, nil
}

var _ port.NotificationRepository = (*NotificationRepository)(nil)
