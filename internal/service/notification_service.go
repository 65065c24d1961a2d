package service

import (
	"context"
	"encoding/json"
	"log"

	"pulse/internal/middleware"
	"pulse/internal/models"
	"pulse/internal/repository"
)

// EventPublisher pushes notification events to connected clients. The
// realtime package provides the Redis-backed implementation.
type EventPublisher interface {
	PublishUser(ctx context.Context, userID uint, payload string) error
}

// EventNotificationCreated is the event type sent over the realtime stream
// when a notification is appended.
const EventNotificationCreated = "notification_created"

// NotificationService manages the append-only notification log.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
	publisher        EventPublisher
}

// NewNotificationService returns a new NotificationService. publisher may be
// nil when no realtime delivery is wired (tests, seeding).
func NewNotificationService(notificationRepo repository.NotificationRepository, publisher EventPublisher) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo, publisher: publisher}
}

// Notify appends a notification for recipientID about actorID's action on a
// post. Events where the actor is the recipient are dropped: users never get
// notified about their own activity.
func (s *NotificationService) Notify(ctx context.Context, recipientID, actorID uint, verb models.NotificationVerb, postID uint) error {
	if recipientID == actorID {
		return nil
	}

	n := &models.Notification{
		RecipientID: recipientID,
		ActorID:     actorID,
		Verb:        verb,
		PostID:      postID,
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return err
	}
	middleware.NotificationsEmitted.WithLabelValues(string(verb)).Inc()

	s.publishCreated(ctx, n)
	return nil
}

// publishCreated pushes the new notification to the recipient's realtime
// stream. Delivery is best-effort; the stored row is the source of truth.
func (s *NotificationService) publishCreated(ctx context.Context, n *models.Notification) {
	if s.publisher == nil {
		return
	}

	event := map[string]any{
		"type": EventNotificationCreated,
		"payload": map[string]any{
			"id":       n.ID,
			"actor_id": n.ActorID,
			"verb":     n.Verb,
			"post_id":  n.PostID,
		},
	}
	eventJSON, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal %s event: %v", EventNotificationCreated, err)
		return
	}
	if err := s.publisher.PublishUser(ctx, n.RecipientID, string(eventJSON)); err != nil {
		log.Printf("failed to publish %s event to user %d: %v", EventNotificationCreated, n.RecipientID, err)
	}
}

// ListNotifications returns the user's notifications, newest first.
func (s *NotificationService) ListNotifications(ctx context.Context, userID uint, limit, offset int) ([]*models.Notification, error) {
	return s.notificationRepo.ListByRecipient(ctx, userID, limit, offset)
}

// CountUnread returns the number of unread notifications for the user.
func (s *NotificationService) CountUnread(ctx context.Context, userID uint) (int64, error) {
	return s.notificationRepo.CountUnread(ctx, userID)
}

// MarkRead marks a single notification as read. The recipient scoping happens
// in the repository, so marking someone else's notification is a silent no-op.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uint) error {
	return s.notificationRepo.MarkRead(ctx, userID, notificationID)
}

// MarkAllRead marks every unread notification for the user as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}
