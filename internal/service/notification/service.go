package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/monui/notification-service/internal/metrics"
	"github.com/monui/notification-service/internal/model"
)

//go:generate mockgen -source=service.go -destination=../../mocks/service/notification/mock.go -package=mocks

// maxRetries is the delivery attempt ceiling. A recipient that reaches it is
// finalized as maxtry on the next scan without another transport call.
const maxRetries = 3

var (
	ErrNoTriggerDates = errors.New("notification has no trigger dates")
	ErrNoRecipients   = errors.New("notification has no recipients")
	ErrInvalidPhone   = errors.New("invalid phone number")
	ErrInvalidPeriod  = errors.New("invalid stats period")
)

type notificationRepository interface {
	CreateNotification(context.Context, model.Notification) (uuid.UUID, error)
	GetNotificationByID(context.Context, uuid.UUID) (model.Notification, error)
	GetAllNotifications(context.Context) ([]model.Notification, error)
	UpdateNotification(context.Context, model.Notification) error
	DeleteNotification(context.Context, uuid.UUID) error
	FindDue(context.Context, time.Time, int) ([]model.Notification, error)
	UpdateRecipientDelivery(context.Context, model.Recipient) error
	GetStatsByUser(context.Context, uuid.UUID, int) ([]model.DailyStat, error)
	GetRecipientsByUser(context.Context, uuid.UUID, int, int) (model.PaginatedRecipients, error)
}

// Messenger sends a single text message to a single address.
type Messenger interface {
	Send(to string, msg string) error
}

type cache interface {
	SetWithRetry(ctx context.Context, strategy retry.Strategy, key string, value interface{}) error
	GetWithRetry(ctx context.Context, strategy retry.Strategy, key string) (string, error)
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Service owns the reminder lifecycle and is the sole writer of recipient
// delivery state after creation.
type Service struct {
	repo      notificationRepository
	messenger Messenger
	cache     cache

	now func() time.Time
}

func NewService(repo notificationRepository, messenger Messenger, cache cache) *Service {
	return &Service{
		repo:      repo,
		messenger: messenger,
		cache:     cache,
		now:       time.Now,
	}
}

// CreateNotification validates and stores a new notification with its
// recipient batch. Recipient phone numbers are normalized to E.164.
func (s *Service) CreateNotification(ctx context.Context, notification model.Notification) (uuid.UUID, error) {
	if len(notification.TriggerDates) == 0 {
		return uuid.Nil, ErrNoTriggerDates
	}
	if len(notification.Recipients) == 0 {
		return uuid.Nil, ErrNoRecipients
	}

	for i, rec := range notification.Recipients {
		normalized, err := normalizePhone(rec.PhoneNumber)
		if err != nil {
			return uuid.Nil, fmt.Errorf("recipient %q: %w", rec.PhoneNumber, ErrInvalidPhone)
		}
		notification.Recipients[i].PhoneNumber = normalized
	}

	id, err := s.repo.CreateNotification(ctx, notification)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create notification: %w", err)
	}

	return id, nil
}

func (s *Service) GetNotificationByID(ctx context.Context, id uuid.UUID) (model.Notification, error) {
	notification, err := s.repo.GetNotificationByID(ctx, id)
	if err != nil {
		return model.Notification{}, fmt.Errorf("get notification: %w", err)
	}

	return notification, nil
}

func (s *Service) GetAllNotifications(ctx context.Context) ([]model.Notification, error) {
	notifications, err := s.repo.GetAllNotifications(ctx)
	if err != nil {
		return nil, fmt.Errorf("get all notifications: %w", err)
	}

	return notifications, nil
}

// UpdateNotification applies a partial update of the payload fields.
// Empty fields keep their stored values.
func (s *Service) UpdateNotification(ctx context.Context, id uuid.UUID, title, body string, triggerDates []time.Time) (model.Notification, error) {
	notification, err := s.repo.GetNotificationByID(ctx, id)
	if err != nil {
		return model.Notification{}, fmt.Errorf("get notification: %w", err)
	}

	if title != "" {
		notification.Title = title
	}
	if body != "" {
		notification.Body = body
	}
	if len(triggerDates) > 0 {
		notification.TriggerDates = triggerDates
	}

	if err := s.repo.UpdateNotification(ctx, notification); err != nil {
		return model.Notification{}, fmt.Errorf("update notification: %w", err)
	}

	return notification, nil
}

func (s *Service) DeleteNotification(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteNotification(ctx, id); err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}

	return nil
}

// ProcessDueNotifications runs one delivery scan: it fetches due notifications
// and walks their recipients through the delivery state machine. Transport
// failures are recorded per recipient and never abort the scan; only a failure
// to query the store is returned to the caller.
func (s *Service) ProcessDueNotifications(ctx context.Context) error {
	due, err := s.repo.FindDue(ctx, s.now(), maxRetries)
	if err != nil {
		return fmt.Errorf("find due notifications: %w", err)
	}

	if len(due) == 0 {
		return nil
	}

	metrics.DueNotificationsTotal.Add(float64(len(due)))

	for _, notification := range due {
		for _, recipient := range notification.Recipients {
			s.deliver(ctx, notification, recipient)
		}

		s.invalidateStats(ctx, notification.CreatedBy)
	}

	return nil
}

// deliver attempts delivery to a single recipient and persists the outcome.
//
// Terminal recipients are skipped without mutation. The ceiling check happens
// before the send so an exhausted recipient is finalized without another
// transport call. retryCount counts attempts, so it increments on success too.
func (s *Service) deliver(ctx context.Context, notification model.Notification, recipient model.Recipient) {
	if recipient.Terminal() {
		return
	}

	if recipient.RetryCount >= maxRetries {
		recipient.Status = model.StatusMaxTry
		metrics.RecipientsExhaustedTotal.Inc()
		zlog.Logger.Warn().
			Str("recipient", recipient.ID.String()).
			Str("notification", notification.ID.String()).
			Int("retry_count", recipient.RetryCount).
			Msg("recipient exhausted retries")

		s.persistRecipient(ctx, recipient)
		return
	}

	start := time.Now()
	sendErr := s.messenger.Send(recipient.PhoneNumber, notification.Body)
	metrics.DeliverySendDuration.Observe(time.Since(start).Seconds())

	attemptedAt := s.now()
	recipient.LastAttempt = &attemptedAt
	recipient.RetryCount++

	if sendErr != nil {
		recipient.Status = model.StatusFailed
		metrics.DeliveryAttemptsTotal.WithLabelValues("failed").Inc()
		zlog.Logger.Error().Err(sendErr).
			Str("recipient", recipient.ID.String()).
			Str("notification", notification.ID.String()).
			Int("retry_count", recipient.RetryCount).
			Msg("failed to send message")
	} else {
		recipient.Status = model.StatusSent
		metrics.DeliveryAttemptsTotal.WithLabelValues("sent").Inc()
	}

	s.persistRecipient(ctx, recipient)
}

func (s *Service) persistRecipient(ctx context.Context, recipient model.Recipient) {
	if err := s.repo.UpdateRecipientDelivery(ctx, recipient); err != nil {
		zlog.Logger.Error().Err(err).
			Str("recipient", recipient.ID.String()).
			Msg("failed to persist recipient state")
	}
}

// GetStatsByUser returns per-day sent/failed counts for the user's
// notifications over the trailing period, read through the cache.
func (s *Service) GetStatsByUser(ctx context.Context, strategy retry.Strategy, userID uuid.UUID, period string) ([]model.DailyStat, error) {
	days, err := periodDays(period)
	if err != nil {
		return nil, err
	}

	key := statsKey(userID, days)

	cached, err := s.cache.GetWithRetry(ctx, strategy, key)
	if err != nil && !errors.Is(err, redis.Nil) {
		zlog.Logger.Error().Err(err).Str("key", key).Msg("failed to get stats from cache")
	}

	if err == nil {
		var stats []model.DailyStat
		if jsonErr := json.Unmarshal([]byte(cached), &stats); jsonErr == nil {
			return stats, nil
		}
	}

	stats, err := s.repo.GetStatsByUser(ctx, userID, days)
	if err != nil {
		return nil, fmt.Errorf("get stats: %w", err)
	}

	if data, jsonErr := json.Marshal(stats); jsonErr == nil {
		if err := s.cache.SetWithRetry(ctx, strategy, key, string(data)); err != nil {
			zlog.Logger.Error().Err(err).Str("key", key).Msg("failed to cache stats")
		}
	}

	return stats, nil
}

// GetRecipientsByUser returns a page of the user's recipients ordered by the
// most recent delivery attempt.
func (s *Service) GetRecipientsByUser(ctx context.Context, userID uuid.UUID, page, limit int) (model.PaginatedRecipients, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	recipients, err := s.repo.GetRecipientsByUser(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return model.PaginatedRecipients{}, fmt.Errorf("get recipients: %w", err)
	}

	return recipients, nil
}

// invalidateStats drops the user's cached stats after delivery outcomes change.
func (s *Service) invalidateStats(ctx context.Context, userID uuid.UUID) {
	if userID == uuid.Nil {
		return
	}

	keys := []string{statsKey(userID, 7), statsKey(userID, 30), statsKey(userID, 90)}
	if err := s.cache.Del(ctx, keys...).Err(); err != nil {
		zlog.Logger.Error().Err(err).Str("user", userID.String()).Msg("failed to invalidate stats cache")
	}
}

func statsKey(userID uuid.UUID, days int) string {
	return fmt.Sprintf("stats:%s:%dd", userID, days)
}

func periodDays(period string) (int, error) {
	switch period {
	case "", "90d":
		return 90, nil
	case "30d":
		return 30, nil
	case "7d":
		return 7, nil
	default:
		return 0, ErrInvalidPeriod
	}
}

// normalizePhone validates a destination number and formats it as E.164.
func normalizePhone(num string) (string, error) {
	if num == "" {
		return "", fmt.Errorf("missing number")
	}
	if num[0] != '+' {
		return "", fmt.Errorf("phone number must be in E.164 format with +")
	}

	parsed, err := phonenumbers.Parse(num, "")
	if err != nil || !phonenumbers.IsValidNumber(parsed) {
		return "", fmt.Errorf("invalid phone number")
	}

	return phonenumbers.Format(parsed, phonenumbers.E164), nil
}
