package models

import (
	"time"
)

// Order history action tags.
const (
	HistoryCreated          = "created"
	HistoryTransferCreated  = "transfer_created"
	HistoryTransferAccepted = "transfer_accepted"
	HistoryTransferRejected = "transfer_rejected"
	HistoryCompleted        = "completed"
)

// Reposition-only action tags (order tags above are shared).
const (
	HistoryApproved            = "approved"
	HistoryRejected            = "rejected"
	HistoryTransferRequested   = "transfer_requested"
	HistoryCompletionRequested = "completion_requested"
	HistoryDeleted             = "deleted"
)

// OrderHistory is an append-only audit entry for an order. Entries are never
// mutated; they disappear only when the order is hard-deleted.
type OrderHistory struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	OrderID     uint      `json:"order_id" gorm:"not null;index"`
	Action      string    `json:"action" gorm:"not null"`
	Description string    `json:"description" gorm:"not null"`
	FromArea    *Area     `json:"from_area" gorm:"type:varchar(20)"`
	ToArea      *Area     `json:"to_area" gorm:"type:varchar(20)"`
	Pieces      *int      `json:"pieces"`
	UserID      uint      `json:"user_id" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
}

func (OrderHistory) TableName() string { return "order_history" }

// RepositionHistory mirrors OrderHistory for repositions.
type RepositionHistory struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	RepositionID uint      `json:"reposition_id" gorm:"not null;index"`
	Action       string    `json:"action" gorm:"not null"`
	Description  string    `json:"description" gorm:"not null"`
	FromArea     *Area     `json:"from_area" gorm:"type:varchar(20)"`
	ToArea       *Area     `json:"to_area" gorm:"type:varchar(20)"`
	UserID       uint      `json:"user_id" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
}

func (RepositionHistory) TableName() string { return "reposition_history" }
