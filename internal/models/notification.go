package models

import (
	"time"
)

type NotificationType string

const (
	NotifTransferRequest     NotificationType = "transfer_request"
	NotifTransferAccepted    NotificationType = "transfer_accepted"
	NotifTransferRejected    NotificationType = "transfer_rejected"
	NotifOrderCompleted      NotificationType = "order_completed"
	NotifRepositionCreated   NotificationType = "reposition_created"
	NotifRepositionApproved  NotificationType = "reposition_approved"
	NotifRepositionRejected  NotificationType = "reposition_rejected"
	NotifRepositionCompleted NotificationType = "reposition_completed"
	NotifRepositionDeleted   NotificationType = "reposition_deleted"
	NotifCompletionRequested NotificationType = "completion_requested"
	NotifRepositionTransfer  NotificationType = "reposition_transfer"
)

// Notification is a best-effort side-effect record. Creation failures are
// logged and never roll back the state transition that produced them.
type Notification struct {
	ID           uint             `json:"id" gorm:"primaryKey"`
	UserID       uint             `json:"user_id" gorm:"not null;index"`
	Type         NotificationType `json:"type" gorm:"type:varchar(30);not null"`
	Title        string           `json:"title" gorm:"not null"`
	Message      string           `json:"message" gorm:"not null"`
	TransferID   *uint            `json:"transfer_id"`
	OrderID      *uint            `json:"order_id"`
	RepositionID *uint            `json:"reposition_id"`
	Read         bool             `json:"read" gorm:"not null;default:false"`
	CreatedAt    time.Time        `json:"created_at"`
}
