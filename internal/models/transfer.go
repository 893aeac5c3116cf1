package models

import (
	"time"
)

type TransferStatus string

const (
	TransferPending  TransferStatus = "pending"
	TransferAccepted TransferStatus = "accepted"
	TransferRejected TransferStatus = "rejected"
)

func (s TransferStatus) IsValid() bool {
	return s == TransferPending || s == TransferAccepted || s == TransferRejected
}

// Transfer is a request to move Pieces pieces of an order from FromArea to
// ToArea. Resolved at most once: pending → accepted or rejected, terminal.
type Transfer struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	OrderID     uint           `json:"order_id" gorm:"not null;index"`
	FromArea    Area           `json:"from_area" gorm:"type:varchar(20);not null"`
	ToArea      Area           `json:"to_area" gorm:"type:varchar(20);not null"`
	Pieces      int            `json:"pieces" gorm:"not null"`
	Status      TransferStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	Notes       string         `json:"notes"`
	CreatedBy   uint           `json:"created_by" gorm:"not null"`
	ProcessedBy *uint          `json:"processed_by"`
	CreatedAt   time.Time      `json:"created_at"`
	ProcessedAt *time.Time     `json:"processed_at"`
}
