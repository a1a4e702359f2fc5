package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/AndresGalvis92/warmtask-pro/shared/models"
)

// RecentNotificationLimit caps how many notifications a fetch returns. The
// derived unread count is only accurate within this window.
const RecentNotificationLimit = 10

// defines methods for notification db operations
type NotificationRepositoryInterface interface {
	Create(ctx context.Context, n *models.Notification) error
	ListRecent(ctx context.Context, userID string) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
}

type NotificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	query := `INSERT INTO notifications (id, user_id, title, message, type, read, link, created_at)
	 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(
		ctx, query, n.ID, n.UserID, n.Title, n.Message, n.Type, n.Read, n.Link, n.CreatedAt)
	return err
}

// ListRecent returns the newest notifications for userID, capped at
// RecentNotificationLimit, newest first.
func (r *NotificationRepository) ListRecent(ctx context.Context, userID string) ([]*models.Notification, error) {
	query := `SELECT id, user_id, title, message, type, read, link, created_at
	 FROM notifications WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, userID, RecentNotificationLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		n := &models.Notification{}
		if err := rows.Scan(
			&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.Read, &n.Link, &n.CreatedAt,
		); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead flips the read flag of a single notification. The userID scope
// keeps one user from touching another's notifications.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(
		ctx, `UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("notification with id %s does not exist", id)
	}
	return nil
}

// MarkAllRead marks every unread notification of userID read in one write.
// Calling it again is a no-op.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(
		ctx, `UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE`, userID)
	return err
}
