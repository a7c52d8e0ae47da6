package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/retry"

	mocks "github.com/monui/notification-service/internal/mocks/service/notification"
	"github.com/monui/notification-service/internal/model"
)

func setupService(t *testing.T) (*Service, *mocks.MocknotificationRepository, *mocks.MockMessenger, *mocks.Mockcache) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repoMock := mocks.NewMocknotificationRepository(ctrl)
	messengerMock := mocks.NewMockMessenger(ctrl)
	cacheMock := mocks.NewMockcache(ctrl)

	svc := NewService(repoMock, messengerMock, cacheMock)

	return svc, repoMock, messengerMock, cacheMock
}

func dueNotification(recipients ...model.Recipient) model.Notification {
	return model.Notification{
		ID:           uuid.New(),
		Title:        "Event reminder",
		Body:         "Your event starts in 1 hour!",
		TriggerDates: []time.Time{time.Now().Add(-time.Minute)},
		EventID:      uuid.New(),
		Recipients:   recipients,
	}
}

func TestService_ProcessDueNotifications_NoDue(t *testing.T) {
	svc, repoMock, _, _ := setupService(t)

	repoMock.EXPECT().FindDue(gomock.Any(), gomock.Any(), maxRetries).Return(nil, nil)

	err := svc.ProcessDueNotifications(context.Background())
	assert.NoError(t, err)
}

func TestService_ProcessDueNotifications_FindDueError(t *testing.T) {
	svc, repoMock, _, _ := setupService(t)

	repoMock.EXPECT().FindDue(gomock.Any(), gomock.Any(), maxRetries).Return(nil, errors.New("db down"))

	err := svc.ProcessDueNotifications(context.Background())
	assert.Error(t, err)
}

func TestService_ProcessDueNotifications_SendsPending(t *testing.T) {
	svc, repoMock, messengerMock, _ := setupService(t)

	now := time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	rec := model.Recipient{
		ID:          uuid.New(),
		PhoneNumber: "+5511999999999",
		Status:      model.StatusPending,
	}
	n := dueNotification(rec)

	repoMock.EXPECT().FindDue(gomock.Any(), now, maxRetries).Return([]model.Notification{n}, nil)
	messengerMock.EXPECT().Send(rec.PhoneNumber, n.Body).Return(nil)

	var saved model.Recipient
	repoMock.EXPECT().UpdateRecipientDelivery(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, r model.Recipient) error {
			saved = r
			return nil
		},
	)

	err := svc.ProcessDueNotifications(context.Background())
	require.NoError(t, err)

	assert.Equal(t, model.StatusSent, saved.Status)
	assert.Equal(t, 1, saved.RetryCount)
	require.NotNil(t, saved.LastAttempt)
	assert.Equal(t, now, *saved.LastAttempt)
}

func TestService_ProcessDueNotifications_SkipsSent(t *testing.T) {
	svc, repoMock, _, _ := setupService(t)

	rec := model.Recipient{
		ID:          uuid.New(),
		PhoneNumber: "+5511999999999",
		Status:      model.StatusSent,
		RetryCount:  1,
	}
	n := dueNotification(rec)

	repoMock.EXPECT().FindDue(gomock.Any(), gomock.Any(), maxRetries).Return([]model.Notification{n}, nil)

	err := svc.ProcessDueNotifications(context.Background())
	assert.NoError(t, err)
}

func TestService_ProcessDueNotifications_MaxTry(t *testing.T) {
	svc, repoMock, _, _ := setupService(t)

	rec := model.Recipient{
		ID:          uuid.New(),
		PhoneNumber: "+5511999999999",
		Status:      model.StatusFailed,
		RetryCount:  3,
	}
	n := dueNotification(rec)

	repoMock.EXPECT().FindDue(gomock.Any(), gomock.Any(), maxRetries).Return([]model.Notification{n}, nil)

	var saved model.Recipient
	repoMock.EXPECT().UpdateRecipientDelivery(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, r model.Recipient) error {
			saved = r
			return nil
		},
	)

	err := svc.ProcessDueNotifications(context.Background())
	require.NoError(t, err)

	assert.Equal(t, model.StatusMaxTry, saved.Status)
	assert.Equal(t, 3, saved.RetryCount)
}

func TestService_ProcessDueNotifications_FailureIncrementsRetry(t *testing.T) {
	svc, repoMock, messengerMock, _ := setupService(t)

	now := time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	rec := model.Recipient{
		ID:          uuid.New(),
		PhoneNumber: "+5511999999999",
		Status:      model.StatusPending,
	}
	n := dueNotification(rec)

	repoMock.EXPECT().FindDue(gomock.Any(), now, maxRetries).Return([]model.Notification{n}, nil)
	messengerMock.EXPECT().Send(rec.PhoneNumber, n.Body).Return(errors.New("provider error"))

	var saved model.Recipient
	repoMock.EXPECT().UpdateRecipientDelivery(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, r model.Recipient) error {
			saved = r
			return nil
		},
	)

	err := svc.ProcessDueNotifications(context.Background())
	require.NoError(t, err)

	assert.Equal(t, model.StatusFailed, saved.Status)
	assert.Equal(t, 1, saved.RetryCount)
	require.NotNil(t, saved.LastAttempt)
	assert.Equal(t, now, *saved.LastAttempt)
}

func TestService_ProcessDueNotifications_RetriesFailedRecipient(t *testing.T) {
	svc, repoMock, messengerMock, _ := setupService(t)

	rec := model.Recipient{
		ID:          uuid.New(),
		PhoneNumber: "+5511999999999",
		Status:      model.StatusFailed,
		RetryCount:  1,
	}
	n := dueNotification(rec)

	repoMock.EXPECT().FindDue(gomock.Any(), gomock.Any(), maxRetries).Return([]model.Notification{n}, nil)
	messengerMock.EXPECT().Send(rec.PhoneNumber, n.Body).Return(nil)

	var saved model.Recipient
	repoMock.EXPECT().UpdateRecipientDelivery(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, r model.Recipient) error {
			saved = r
			return nil
		},
	)

	err := svc.ProcessDueNotifications(context.Background())
	require.NoError(t, err)

	assert.Equal(t, model.StatusSent, saved.Status)
	assert.Equal(t, 2, saved.RetryCount)
}

func TestService_ProcessDueNotifications_IsolatesRecipientFailures(t *testing.T) {
	svc, repoMock, messengerMock, _ := setupService(t)

	failing := model.Recipient{ID: uuid.New(), PhoneNumber: "+5511111111111", Status: model.StatusPending}
	succeeding := model.Recipient{ID: uuid.New(), PhoneNumber: "+5511999999999", Status: model.StatusPending}
	n := dueNotification(failing, succeeding)

	repoMock.EXPECT().FindDue(gomock.Any(), gomock.Any(), maxRetries).Return([]model.Notification{n}, nil)
	messengerMock.EXPECT().Send(failing.PhoneNumber, n.Body).Return(errors.New("provider error"))
	messengerMock.EXPECT().Send(succeeding.PhoneNumber, n.Body).Return(nil)

	saved := make(map[uuid.UUID]model.Recipient)
	repoMock.EXPECT().UpdateRecipientDelivery(gomock.Any(), gomock.Any()).Times(2).DoAndReturn(
		func(_ context.Context, r model.Recipient) error {
			saved[r.ID] = r
			return nil
		},
	)

	err := svc.ProcessDueNotifications(context.Background())
	require.NoError(t, err)

	assert.Equal(t, model.StatusFailed, saved[failing.ID].Status)
	assert.Equal(t, model.StatusSent, saved[succeeding.ID].Status)
}

func TestService_ProcessDueNotifications_InvalidatesStatsCache(t *testing.T) {
	svc, repoMock, messengerMock, cacheMock := setupService(t)

	userID := uuid.New()
	rec := model.Recipient{ID: uuid.New(), PhoneNumber: "+5511999999999", Status: model.StatusPending}
	n := dueNotification(rec)
	n.CreatedBy = userID

	repoMock.EXPECT().FindDue(gomock.Any(), gomock.Any(), maxRetries).Return([]model.Notification{n}, nil)
	messengerMock.EXPECT().Send(rec.PhoneNumber, n.Body).Return(nil)
	repoMock.EXPECT().UpdateRecipientDelivery(gomock.Any(), gomock.Any()).Return(nil)
	cacheMock.EXPECT().
		Del(gomock.Any(), statsKey(userID, 7), statsKey(userID, 30), statsKey(userID, 90)).
		Return(redis.NewIntResult(3, nil))

	err := svc.ProcessDueNotifications(context.Background())
	assert.NoError(t, err)
}

func TestService_CreateNotification(t *testing.T) {
	svc, repoMock, _, _ := setupService(t)

	n := model.Notification{
		Title:        "Event reminder",
		Body:         "Starts soon",
		TriggerDates: []time.Time{time.Now().Add(time.Hour)},
		EventID:      uuid.New(),
		Recipients:   []model.Recipient{{PhoneNumber: "+5511999999999"}},
	}

	id := uuid.New()
	repoMock.EXPECT().CreateNotification(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, created model.Notification) (uuid.UUID, error) {
			assert.Equal(t, "+5511999999999", created.Recipients[0].PhoneNumber)
			return id, nil
		},
	)

	gotID, err := svc.CreateNotification(context.Background(), n)
	require.NoError(t, err)
	assert.Equal(t, id, gotID)
}

func TestService_CreateNotification_Validation(t *testing.T) {
	svc, _, _, _ := setupService(t)

	base := model.Notification{
		Title:        "Event reminder",
		Body:         "Starts soon",
		TriggerDates: []time.Time{time.Now()},
		Recipients:   []model.Recipient{{PhoneNumber: "+5511999999999"}},
	}

	noDates := base
	noDates.TriggerDates = nil
	_, err := svc.CreateNotification(context.Background(), noDates)
	assert.ErrorIs(t, err, ErrNoTriggerDates)

	noRecipients := base
	noRecipients.Recipients = nil
	_, err = svc.CreateNotification(context.Background(), noRecipients)
	assert.ErrorIs(t, err, ErrNoRecipients)

	badPhone := base
	badPhone.Recipients = []model.Recipient{{PhoneNumber: "11999999999"}}
	_, err = svc.CreateNotification(context.Background(), badPhone)
	assert.ErrorIs(t, err, ErrInvalidPhone)
}

func TestService_GetStatsByUser_CacheMiss(t *testing.T) {
	svc, repoMock, _, cacheMock := setupService(t)

	userID := uuid.New()
	strategy := retry.Strategy{}
	stats := []model.DailyStat{{Date: "2025-01-20", Sent: 1, Failed: 1}}

	cacheMock.EXPECT().GetWithRetry(gomock.Any(), strategy, statsKey(userID, 7)).Return("", redis.Nil)
	repoMock.EXPECT().GetStatsByUser(gomock.Any(), userID, 7).Return(stats, nil)
	cacheMock.EXPECT().SetWithRetry(gomock.Any(), strategy, statsKey(userID, 7), gomock.Any()).Return(nil)

	got, err := svc.GetStatsByUser(context.Background(), strategy, userID, "7d")
	require.NoError(t, err)
	assert.Equal(t, stats, got)
}

func TestService_GetStatsByUser_CacheHit(t *testing.T) {
	svc, _, _, cacheMock := setupService(t)

	userID := uuid.New()
	strategy := retry.Strategy{}
	stats := []model.DailyStat{{Date: "2025-01-20", Sent: 10, Failed: 2}}
	cached, _ := json.Marshal(stats)

	cacheMock.EXPECT().GetWithRetry(gomock.Any(), strategy, statsKey(userID, 90)).Return(string(cached), nil)

	got, err := svc.GetStatsByUser(context.Background(), strategy, userID, "")
	require.NoError(t, err)
	assert.Equal(t, stats, got)
}

func TestService_GetStatsByUser_InvalidPeriod(t *testing.T) {
	svc, _, _, _ := setupService(t)

	_, err := svc.GetStatsByUser(context.Background(), retry.Strategy{}, uuid.New(), "14d")
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestService_GetRecipientsByUser_Defaults(t *testing.T) {
	svc, repoMock, _, _ := setupService(t)

	userID := uuid.New()

	repoMock.EXPECT().GetRecipientsByUser(gomock.Any(), userID, 20, 0).
		Return(model.PaginatedRecipients{Total: 0}, nil)

	_, err := svc.GetRecipientsByUser(context.Background(), userID, 0, 0)
	assert.NoError(t, err)
}

func TestService_GetRecipientsByUser_SecondPage(t *testing.T) {
	svc, repoMock, _, _ := setupService(t)

	userID := uuid.New()

	repoMock.EXPECT().GetRecipientsByUser(gomock.Any(), userID, 10, 10).
		Return(model.PaginatedRecipients{Total: 25}, nil)

	got, err := svc.GetRecipientsByUser(context.Background(), userID, 2, 10)
	require.NoError(t, err)
	assert.Equal(t, 25, got.Total)
}
