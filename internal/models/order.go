package models

import (
	"time"
)

type OrderStatus string

const (
	OrderActive    OrderStatus = "active"
	OrderCompleted OrderStatus = "completed"
)

func (s OrderStatus) IsValid() bool {
	return s == OrderActive || s == OrderCompleted
}

type Order struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	Folio        string      `json:"folio" gorm:"unique;not null"`
	ClienteHotel string      `json:"cliente_hotel" gorm:"not null"`
	NoSolicitud  string      `json:"no_solicitud" gorm:"not null"`
	NoHoja       string      `json:"no_hoja"`
	Modelo       string      `json:"modelo" gorm:"not null"`
	TipoPrenda   string      `json:"tipo_prenda" gorm:"not null"`
	Color        string      `json:"color" gorm:"not null"`
	Tela         string      `json:"tela" gorm:"not null"`
	TotalPiezas  int         `json:"total_piezas" gorm:"not null"`
	CurrentArea  Area        `json:"current_area" gorm:"type:varchar(20);not null;default:'corte'"`
	Status       OrderStatus `json:"status" gorm:"type:varchar(20);not null;default:'active'"`
	CreatedBy    uint        `json:"created_by" gorm:"not null"`
	CreatedAt    time.Time   `json:"created_at"`
	CompletedAt  *time.Time  `json:"completed_at"`

	// AreaSplit is computed on reads: true when the ledger holds rows in more
	// than one area, in which case CurrentArea is the last consolidated area.
	AreaSplit bool `json:"area_split" gorm:"-"`
}

// OrderPiece is one piece-ledger row: how many pieces of an order currently
// sit in an area. Rows with zero pieces are deleted, never kept. The sum of
// Pieces across an order's rows always equals the order's TotalPiezas.
type OrderPiece struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	OrderID   uint      `json:"order_id" gorm:"not null;index:idx_order_area,unique"`
	Area      Area      `json:"area" gorm:"type:varchar(20);not null;index:idx_order_area,unique"`
	Pieces    int       `json:"pieces" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (OrderPiece) TableName() string { return "order_pieces" }
