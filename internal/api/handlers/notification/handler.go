package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/monui/notification-service/internal/api/dto"
	"github.com/monui/notification-service/internal/api/respond"
	"github.com/monui/notification-service/internal/config"
	"github.com/monui/notification-service/internal/model"
	"github.com/monui/notification-service/internal/repository/notification"
	notifsvc "github.com/monui/notification-service/internal/service/notification"
)

//go:generate mockgen -source=handler.go -destination=../../../mocks/api/handlers/notification/mock.go -package=mocks

type notificationService interface {
	CreateNotification(context.Context, model.Notification) (uuid.UUID, error)
	GetNotificationByID(context.Context, uuid.UUID) (model.Notification, error)
	GetAllNotifications(context.Context) ([]model.Notification, error)
	UpdateNotification(context.Context, uuid.UUID, string, string, []time.Time) (model.Notification, error)
	DeleteNotification(context.Context, uuid.UUID) error
	GetStatsByUser(context.Context, retry.Strategy, uuid.UUID, string) ([]model.DailyStat, error)
	GetRecipientsByUser(context.Context, uuid.UUID, int, int) (model.PaginatedRecipients, error)
}

type Handler struct {
	service   notificationService
	validator *validator.Validate
	cfg       *config.Config
}

func NewHandler(
	s notificationService,
	v *validator.Validate,
	cfg *config.Config,
) *Handler {
	return &Handler{service: s, validator: v, cfg: cfg}
}

func (h *Handler) Create(c *ginext.Context) {
	var req dto.CreateRequest

	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to decode request body")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid request body"))
		return
	}

	if err := h.validator.Struct(req); err != nil {
		zlog.Logger.Warn().Err(err).Msg("failed to validate request body")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("validation error: %s", err.Error()))
		return
	}

	recipients := make([]model.Recipient, 0, len(req.Recipients))
	for _, r := range req.Recipients {
		recipients = append(recipients, model.Recipient{PhoneNumber: r.PhoneNumber})
	}

	notif := model.Notification{
		Title:        req.Title,
		Body:         req.Body,
		TriggerDates: req.TriggerDates,
		EventID:      uuid.MustParse(req.EventID),
		Recipients:   recipients,
	}
	if req.CreatedBy != "" {
		notif.CreatedBy = uuid.MustParse(req.CreatedBy)
	}

	id, err := h.service.CreateNotification(c.Request.Context(), notif)
	if err != nil {
		if errors.Is(err, notifsvc.ErrInvalidPhone) {
			zlog.Logger.Warn().Err(err).Msg("invalid recipient phone")
			respond.Fail(c.Writer, http.StatusBadRequest, err)
			return
		}

		zlog.Logger.Error().Err(err).Str("title", notif.Title).Msg("failed to create notification")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.Created(c.Writer, id)
}

func (h *Handler) GetAll(c *ginext.Context) {
	notifications, err := h.service.GetAllNotifications(c.Request.Context())
	if err != nil {
		if errors.Is(err, notification.ErrNoNotificationsFound) {
			respond.OK(c.Writer, []model.Notification{})
			return
		}

		zlog.Logger.Error().Err(err).Msg("failed to get notifications")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.OK(c.Writer, notifications)
}

func (h *Handler) GetByID(c *ginext.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	notif, err := h.service.GetNotificationByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, notification.ErrNotificationNotFound) {
			zlog.Logger.Warn().Str("id", id.String()).Msg("notification not found")
			respond.Fail(c.Writer, http.StatusNotFound, fmt.Errorf("notification not found"))
			return
		}

		zlog.Logger.Error().Err(err).Str("id", id.String()).Msg("failed to get notification")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.OK(c.Writer, notif)
}

func (h *Handler) Update(c *ginext.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to decode request body")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid request body"))
		return
	}

	notif, err := h.service.UpdateNotification(c.Request.Context(), id, req.Title, req.Body, req.TriggerDates)
	if err != nil {
		if errors.Is(err, notification.ErrNotificationNotFound) {
			zlog.Logger.Warn().Str("id", id.String()).Msg("notification not found")
			respond.Fail(c.Writer, http.StatusNotFound, fmt.Errorf("notification not found"))
			return
		}

		zlog.Logger.Error().Err(err).Str("id", id.String()).Msg("failed to update notification")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.OK(c.Writer, notif)
}

func (h *Handler) Delete(c *ginext.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteNotification(c.Request.Context(), id); err != nil {
		if errors.Is(err, notification.ErrNotificationNotFound) {
			zlog.Logger.Warn().Str("id", id.String()).Msg("notification not found")
			respond.Fail(c.Writer, http.StatusNotFound, fmt.Errorf("notification not found"))
			return
		}

		zlog.Logger.Error().Err(err).Str("id", id.String()).Msg("failed to delete notification")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.OK(c.Writer, "notification deleted")
}

func (h *Handler) Stats(c *ginext.Context) {
	userIDStr := c.Param("userId")
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("userId", userIDStr).Msg("failed to parse user id")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid user id"))
		return
	}

	period := c.Query("period")

	stats, err := h.service.GetStatsByUser(c.Request.Context(), h.cfg.Retry, userID, period)
	if err != nil {
		if errors.Is(err, notifsvc.ErrInvalidPeriod) {
			respond.Fail(c.Writer, http.StatusBadRequest, err)
			return
		}

		zlog.Logger.Error().Err(err).Str("userId", userID.String()).Msg("failed to get stats")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.OK(c.Writer, stats)
}

func (h *Handler) Recipients(c *ginext.Context) {
	userIDStr := c.Query("userId")
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("userId", userIDStr).Msg("failed to parse user id")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid user id"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	recipients, err := h.service.GetRecipientsByUser(c.Request.Context(), userID, page, limit)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("userId", userID.String()).Msg("failed to get recipients")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.OK(c.Writer, recipients)
}

func (h *Handler) parseID(c *ginext.Context) (uuid.UUID, bool) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("idStr", idStr).Msg("failed to parse id")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid id"))
		return uuid.Nil, false
	}

	return id, true
}
