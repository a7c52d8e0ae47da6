package notification

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/wb-go/wbf/dbpg"

	"github.com/monui/notification-service/internal/model"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNoNotificationsFound = errors.New("no notifications found")
)

// Repository provides methods to interact with the notifications
// and notification_recipients tables.
type Repository struct {
	db *dbpg.DB
}

// NewRepository creates a new notification repository.
func NewRepository(db *dbpg.DB) *Repository {
	return &Repository{db: db}
}

// CreateNotification inserts a new notification together with its recipient
// batch and returns the notification ID. Recipients start as pending with
// zero attempts.
func (r *Repository) CreateNotification(ctx context.Context, notification model.Notification) (uuid.UUID, error) {
	triggerDates, err := json.Marshal(notification.TriggerDates)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal trigger dates: %w", err)
	}

	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO notifications (
		    title, body, trigger_dates, event_id, created_by
		) VALUES ($1, $2, $3, $4, $5)
		RETURNING id;
    `

	err = tx.QueryRowContext(
		ctx, query,
		notification.Title, notification.Body, triggerDates,
		notification.EventID, notification.CreatedBy,
	).Scan(&notification.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create notification: %w", err)
	}

	recipientQuery := `
		INSERT INTO notification_recipients (
		    notification_id, phone_number, status, retry_count
		) VALUES ($1, $2, $3, 0);
    `

	for _, rec := range notification.Recipients {
		if _, err := tx.ExecContext(ctx, recipientQuery, notification.ID, rec.PhoneNumber, model.StatusPending); err != nil {
			return uuid.Nil, fmt.Errorf("failed to create recipient: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("commit tx: %w", err)
	}

	return notification.ID, nil
}

// GetNotificationByID retrieves a notification with its recipients.
func (r *Repository) GetNotificationByID(ctx context.Context, id uuid.UUID) (model.Notification, error) {
	query := `
		SELECT id, title, body, trigger_dates, event_id, created_by, created_at, updated_at
		FROM notifications
		WHERE id = $1;
    `

	var n model.Notification
	var triggerDates []byte
	err := r.db.Master.QueryRowContext(ctx, query, id).Scan(
		&n.ID, &n.Title, &n.Body, &triggerDates,
		&n.EventID, &n.CreatedBy, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Notification{}, ErrNotificationNotFound
		}

		return model.Notification{}, fmt.Errorf("failed to get notification: %w", err)
	}

	if err := json.Unmarshal(triggerDates, &n.TriggerDates); err != nil {
		return model.Notification{}, fmt.Errorf("unmarshal trigger dates: %w", err)
	}

	recipients, err := r.recipientsFor(ctx, []uuid.UUID{n.ID})
	if err != nil {
		return model.Notification{}, err
	}
	n.Recipients = recipients[n.ID]

	return n, nil
}

// GetAllNotifications retrieves all notifications ordered by creation date descending.
func (r *Repository) GetAllNotifications(ctx context.Context) ([]model.Notification, error) {
	query := `
		SELECT id, title, body, trigger_dates, event_id, created_by, created_at, updated_at
		FROM notifications
		ORDER BY created_at DESC;
    `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get all notifications: %w", err)
	}
	defer rows.Close()

	notifications, err := scanNotifications(rows)
	if err != nil {
		return nil, err
	}

	if len(notifications) == 0 {
		return nil, ErrNoNotificationsFound
	}

	return notifications, nil
}

// UpdateNotification updates the payload and trigger dates of a notification.
func (r *Repository) UpdateNotification(ctx context.Context, n model.Notification) error {
	triggerDates, err := json.Marshal(n.TriggerDates)
	if err != nil {
		return fmt.Errorf("marshal trigger dates: %w", err)
	}

	query := `
		UPDATE notifications
		SET title = $1, body = $2, trigger_dates = $3, updated_at = NOW()
		WHERE id = $4;
    `

	res, err := r.db.ExecContext(ctx, query, n.Title, n.Body, triggerDates, n.ID)
	if err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}

	rows, _ := res.RowsAffected()

	if rows == 0 {
		return ErrNotificationNotFound
	}

	return nil
}

// DeleteNotification removes a notification; its recipients go with it (ON DELETE CASCADE).
func (r *Repository) DeleteNotification(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM notifications
		WHERE id = $1;
    `

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}

	rows, _ := res.RowsAffected()

	if rows == 0 {
		return ErrNotificationNotFound
	}

	return nil
}

// FindDue retrieves notifications with at least one trigger date at or before
// now and at least one recipient that is neither terminal nor out of attempts.
// Recipients are loaded eagerly for every returned notification.
func (r *Repository) FindDue(ctx context.Context, now time.Time, maxRetries int) ([]model.Notification, error) {
	query := `
		SELECT n.id, n.title, n.body, n.trigger_dates, n.event_id, n.created_by, n.created_at, n.updated_at
		FROM notifications n
		WHERE EXISTS (
		    SELECT 1 FROM jsonb_array_elements_text(n.trigger_dates) AS td
		    WHERE td::timestamptz <= $1
		)
		AND EXISTS (
		    SELECT 1 FROM notification_recipients r
		    WHERE r.notification_id = n.id
		      AND r.status NOT IN ('sent', 'maxtry')
		      AND r.retry_count < $2
		);
    `

	rows, err := r.db.QueryContext(ctx, query, now, maxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to find due notifications: %w", err)
	}
	defer rows.Close()

	notifications, err := scanNotifications(rows)
	if err != nil {
		return nil, err
	}

	if len(notifications) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(notifications))
	for _, n := range notifications {
		ids = append(ids, n.ID)
	}

	recipients, err := r.recipientsFor(ctx, ids)
	if err != nil {
		return nil, err
	}

	for i := range notifications {
		notifications[i].Recipients = recipients[notifications[i].ID]
	}

	return notifications, nil
}

// UpdateRecipientDelivery persists the delivery state of a single recipient.
func (r *Repository) UpdateRecipientDelivery(ctx context.Context, rec model.Recipient) error {
	query := `
		UPDATE notification_recipients
		SET status = $1, retry_count = $2, last_attempt = $3, updated_at = NOW()
		WHERE id = $4;
    `

	res, err := r.db.ExecContext(ctx, query, rec.Status, rec.RetryCount, rec.LastAttempt, rec.ID)
	if err != nil {
		return fmt.Errorf("failed to update recipient: %w", err)
	}

	rows, _ := res.RowsAffected()

	if rows == 0 {
		return ErrNotificationNotFound
	}

	return nil
}

// GetStatsByUser aggregates recipient outcomes of a user's notifications by
// the notification creation date, ascending, over the trailing window of days.
// Only sent and failed are counted.
func (r *Repository) GetStatsByUser(ctx context.Context, userID uuid.UUID, days int) ([]model.DailyStat, error) {
	query := `
		SELECT to_char(n.created_at, 'YYYY-MM-DD') AS date,
		       COUNT(*) FILTER (WHERE r.status = 'sent')   AS sent,
		       COUNT(*) FILTER (WHERE r.status = 'failed') AS failed
		FROM notifications n
		LEFT JOIN notification_recipients r ON r.notification_id = n.id
		WHERE n.created_by = $1
		  AND n.created_at >= NOW() - ($2 * INTERVAL '1 day')
		GROUP BY date
		ORDER BY date ASC;
    `

	rows, err := r.db.QueryContext(ctx, query, userID, days)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	defer rows.Close()

	var stats []model.DailyStat
	for rows.Next() {
		var s model.DailyStat
		if err := rows.Scan(&s.Date, &s.Sent, &s.Failed); err != nil {
			return nil, err
		}

		stats = append(stats, s)
	}

	return stats, rows.Err()
}

// GetRecipientsByUser retrieves a page of recipients whose owning notification
// was created by the user, most recently attempted first, plus the total count.
func (r *Repository) GetRecipientsByUser(ctx context.Context, userID uuid.UUID, limit, offset int) (model.PaginatedRecipients, error) {
	query := `
		SELECT r.id, r.notification_id, r.phone_number, r.status, r.retry_count,
		       r.last_attempt, r.created_at, r.updated_at,
		       n.title, n.body, n.created_by, n.created_at
		FROM notification_recipients r
		JOIN notifications n ON n.id = r.notification_id
		WHERE n.created_by = $1
		ORDER BY r.last_attempt DESC NULLS LAST
		LIMIT $2 OFFSET $3;
    `

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return model.PaginatedRecipients{}, fmt.Errorf("failed to get recipients: %w", err)
	}
	defer rows.Close()

	var recipients []model.Recipient
	for rows.Next() {
		var rec model.Recipient
		var n model.Notification

		err := rows.Scan(
			&rec.ID, &rec.NotificationID, &rec.PhoneNumber, &rec.Status, &rec.RetryCount,
			&rec.LastAttempt, &rec.CreatedAt, &rec.UpdatedAt,
			&n.Title, &n.Body, &n.CreatedBy, &n.CreatedAt,
		)
		if err != nil {
			return model.PaginatedRecipients{}, err
		}

		n.ID = rec.NotificationID
		rec.Notification = &n
		recipients = append(recipients, rec)
	}
	if err := rows.Err(); err != nil {
		return model.PaginatedRecipients{}, err
	}

	countQuery := `
		SELECT COUNT(*)
		FROM notification_recipients r
		JOIN notifications n ON n.id = r.notification_id
		WHERE n.created_by = $1;
    `

	var total int
	if err := r.db.Master.QueryRowContext(ctx, countQuery, userID).Scan(&total); err != nil {
		return model.PaginatedRecipients{}, fmt.Errorf("failed to count recipients: %w", err)
	}

	return model.PaginatedRecipients{Data: recipients, Total: total}, nil
}

// recipientsFor loads recipients for the given notification IDs, grouped by owner,
// in creation order.
func (r *Repository) recipientsFor(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]model.Recipient, error) {
	query := `
		SELECT id, notification_id, phone_number, status, retry_count, last_attempt, created_at, updated_at
		FROM notification_recipients
		WHERE notification_id = ANY($1)
		ORDER BY created_at;
    `

	idStrs := make([]string, 0, len(ids))
	for _, id := range ids {
		idStrs = append(idStrs, id.String())
	}

	rows, err := r.db.QueryContext(ctx, query, pq.Array(idStrs))
	if err != nil {
		return nil, fmt.Errorf("failed to get recipients: %w", err)
	}
	defer rows.Close()

	recipients := make(map[uuid.UUID][]model.Recipient)
	for rows.Next() {
		var rec model.Recipient
		err := rows.Scan(
			&rec.ID, &rec.NotificationID, &rec.PhoneNumber, &rec.Status,
			&rec.RetryCount, &rec.LastAttempt, &rec.CreatedAt, &rec.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		recipients[rec.NotificationID] = append(recipients[rec.NotificationID], rec)
	}

	return recipients, rows.Err()
}

func scanNotifications(rows *sql.Rows) ([]model.Notification, error) {
	var notifications []model.Notification
	for rows.Next() {
		var n model.Notification
		var triggerDates []byte
		err := rows.Scan(
			&n.ID, &n.Title, &n.Body, &triggerDates,
			&n.EventID, &n.CreatedBy, &n.CreatedAt, &n.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		if err := json.Unmarshal(triggerDates, &n.TriggerDates); err != nil {
			return nil, fmt.Errorf("unmarshal trigger dates: %w", err)
		}

		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}
