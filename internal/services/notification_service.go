package services

import (
	"log"
	"time"

	"garment_tracker/internal/models"
	"garment_tracker/internal/redis"
	"garment_tracker/internal/repository"
	"garment_tracker/internal/ws"
	"garment_tracker/pkg/push"
)

// Ref links a notification to the entity that produced it.
type Ref struct {
	OrderID      *uint
	RepositionID *uint
	TransferID   *uint
}

// NotificationService persists notification rows and fans them out to the
// websocket hub and the push gateway. Everything here is best-effort: a
// failure is logged and never propagates to the state transition that
// triggered it.
type NotificationService interface {
	Notify(userID uint, notifType models.NotificationType, title, message string, ref Ref)
	NotifyUsers(users []models.User, excludeUserID uint, notifType models.NotificationType, title, message string, ref Ref)
	NotifyAreas(areas []models.Area, excludeUserID uint, notifType models.NotificationType, title, message string, ref Ref)
	NotifyCompletionApprovers(notifType models.NotificationType, title, message string, ref Ref)
	Broadcast(eventType string, data interface{})
	List(userID uint) ([]models.Notification, error)
	MarkRead(id uint, userID uint) error
	UnreadCount(userID uint) (int64, error)
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	redis            *redis.Client
	hub              *ws.Hub
	pushClient       *push.Client
}

func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	redisClient *redis.Client,
	hub *ws.Hub,
	pushClient *push.Client,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		redis:            redisClient,
		hub:              hub,
		pushClient:       pushClient,
	}
}

func (s *notificationService) Notify(userID uint, notifType models.NotificationType, title, message string, ref Ref) {
	notification := &models.Notification{
		UserID:       userID,
		Type:         notifType,
		Title:        title,
		Message:      message,
		OrderID:      ref.OrderID,
		RepositionID: ref.RepositionID,
		TransferID:   ref.TransferID,
	}

	if err := s.notificationRepo.Create(notification); err != nil {
		log.Printf("[notify] failed to store notification for user %d: %v", userID, err)
		return
	}

	if s.redis != nil {
		if err := s.redis.InvalidateUnreadCount(userID); err != nil {
			log.Printf("[notify] failed to invalidate unread cache for user %d: %v", userID, err)
		}
	}

	if s.hub != nil {
		s.hub.SendToUser(userID, ws.Event{Type: "notification", Data: notification})
	}

	if s.pushClient != nil && s.pushClient.Enabled() {
		if err := s.pushClient.Send(userID, title, message); err != nil {
			log.Printf("[notify] push delivery failed for user %d: %v", userID, err)
		}
	}
}

func (s *notificationService) NotifyUsers(users []models.User, excludeUserID uint, notifType models.NotificationType, title, message string, ref Ref) {
	for _, user := range users {
		if user.ID == excludeUserID {
			continue
		}
		s.Notify(user.ID, notifType, title, message, ref)
	}
}

func (s *notificationService) NotifyAreas(areas []models.Area, excludeUserID uint, notifType models.NotificationType, title, message string, ref Ref) {
	users, err := s.userRepo.GetByAreas(areas)
	if err != nil {
		log.Printf("[notify] failed to resolve users for areas %v: %v", areas, err)
		return
	}
	s.NotifyUsers(users, excludeUserID, notifType, title, message, ref)
}

func (s *notificationService) NotifyCompletionApprovers(notifType models.NotificationType, title, message string, ref Ref) {
	users, err := s.userRepo.GetCompletionApprovers()
	if err != nil {
		log.Printf("[notify] failed to resolve completion approvers: %v", err)
		return
	}
	s.NotifyUsers(users, 0, notifType, title, message, ref)
}

func (s *notificationService) Broadcast(eventType string, data interface{}) {
	if s.hub != nil {
		s.hub.Broadcast(ws.Event{Type: eventType, Data: data})
	}
}

func (s *notificationService) List(userID uint) ([]models.Notification, error) {
	return s.notificationRepo.GetByUser(userID)
}

func (s *notificationService) MarkRead(id uint, userID uint) error {
	if err := s.notificationRepo.MarkRead(id); err != nil {
		return err
	}
	if s.redis != nil {
		if err := s.redis.InvalidateUnreadCount(userID); err != nil {
			log.Printf("[notify] failed to invalidate unread cache for user %d: %v", userID, err)
		}
	}
	return nil
}

func (s *notificationService) UnreadCount(userID uint) (int64, error) {
	if s.redis != nil {
		if count, err := s.redis.GetUnreadCount(userID); err == nil {
			return count, nil
		}
	}

	count, err := s.notificationRepo.CountUnread(userID)
	if err != nil {
		return 0, err
	}
	if s.redis != nil {
		if err := s.redis.SetUnreadCount(userID, count, time.Minute); err != nil {
			log.Printf("[notify] failed to cache unread count for user %d: %v", userID, err)
		}
	}
	return count, nil
}
