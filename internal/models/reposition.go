package models

import (
	"time"
)

type RepositionType string

const (
	TypeRepocision RepositionType = "repocision"
	TypeReproceso  RepositionType = "reproceso"
)

func (t RepositionType) IsValid() bool {
	return t == TypeRepocision || t == TypeReproceso
}

type Urgency string

const (
	UrgencyUrgente     Urgency = "urgente"
	UrgencyIntermedio  Urgency = "intermedio"
	UrgencyPocoUrgente Urgency = "poco_urgente"
)

func (u Urgency) IsValid() bool {
	return u == UrgencyUrgente || u == UrgencyIntermedio || u == UrgencyPocoUrgente
}

type RepositionStatus string

const (
	RepositionPendiente  RepositionStatus = "pendiente"
	RepositionAprobado   RepositionStatus = "aprobado"
	RepositionRechazado  RepositionStatus = "rechazado"
	RepositionEnProceso  RepositionStatus = "en_proceso"
	RepositionCompletado RepositionStatus = "completado"
	RepositionEliminado  RepositionStatus = "eliminado"
)

func (s RepositionStatus) IsValid() bool {
	switch s {
	case RepositionPendiente, RepositionAprobado, RepositionRechazado,
		RepositionEnProceso, RepositionCompletado, RepositionEliminado:
		return true
	}
	return false
}

// IsTerminal reports whether the status is absorbing: no transition leaves it.
func (s RepositionStatus) IsTerminal() bool {
	return s == RepositionCompletado || s == RepositionEliminado
}

// Reposition is a rework/replacement ticket, tracked independently of orders.
// It moves wholesale between areas (no piece splitting) once approved.
type Reposition struct {
	ID                uint             `json:"id" gorm:"primaryKey"`
	Folio             string           `json:"folio" gorm:"unique;not null"`
	Type              RepositionType   `json:"type" gorm:"type:varchar(20);not null"`
	SolicitanteNombre string           `json:"solicitante_nombre" gorm:"not null"`
	SolicitanteArea   Area             `json:"solicitante_area" gorm:"type:varchar(20);not null"`
	FechaSolicitud    time.Time        `json:"fecha_solicitud" gorm:"not null"`
	NoSolicitud       string           `json:"no_solicitud" gorm:"not null"`
	NoHoja            string           `json:"no_hoja"`
	CausanteDano      string           `json:"causante_dano" gorm:"not null"`
	DescripcionSuceso string           `json:"descripcion_suceso" gorm:"not null"`
	ModeloPrenda      string           `json:"modelo_prenda" gorm:"not null"`
	Tela              string           `json:"tela" gorm:"not null"`
	Color             string           `json:"color" gorm:"not null"`
	TipoPieza         string           `json:"tipo_pieza" gorm:"not null"`
	Urgencia          Urgency          `json:"urgencia" gorm:"type:varchar(20);not null"`
	Observaciones     string           `json:"observaciones"`
	CurrentArea       Area             `json:"current_area" gorm:"type:varchar(20);not null"`
	Status            RepositionStatus `json:"status" gorm:"type:varchar(20);not null;default:'pendiente'"`
	CreatedBy         uint             `json:"created_by" gorm:"not null"`
	ApprovedBy        *uint            `json:"approved_by"`
	CreatedAt         time.Time        `json:"created_at"`
	ApprovedAt        *time.Time       `json:"approved_at"`
	CompletedAt       *time.Time       `json:"completed_at"`
	DeletedAt         *time.Time       `json:"deleted_at"`

	Pieces []RepositionPiece `json:"pieces,omitempty" gorm:"foreignKey:RepositionID"`
}

// RepositionPiece is an informational size/quantity line. Quantities here are
// not conserved the way the order piece ledger is.
type RepositionPiece struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	RepositionID  uint      `json:"reposition_id" gorm:"not null;index"`
	Talla         string    `json:"talla" gorm:"not null"`
	Cantidad      int       `json:"cantidad" gorm:"not null"`
	FolioOriginal string    `json:"folio_original"`
	CreatedAt     time.Time `json:"created_at"`
}

// RepositionTransfer moves an entire reposition between areas. Only repositions
// in status aprobado may be transferred.
type RepositionTransfer struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	RepositionID uint           `json:"reposition_id" gorm:"not null;index"`
	FromArea     Area           `json:"from_area" gorm:"type:varchar(20);not null"`
	ToArea       Area           `json:"to_area" gorm:"type:varchar(20);not null"`
	Notes        string         `json:"notes"`
	Status       TransferStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedBy    uint           `json:"created_by" gorm:"not null"`
	ProcessedBy  *uint          `json:"processed_by"`
	CreatedAt    time.Time      `json:"created_at"`
	ProcessedAt  *time.Time     `json:"processed_at"`
}

// FolioCounter holds the last issued sequence number per monthly folio prefix.
// Incremented atomically inside the reposition creation transaction.
type FolioCounter struct {
	Prefix    string    `json:"prefix" gorm:"primaryKey"`
	Counter   int       `json:"counter" gorm:"not null;default:0"`
	UpdatedAt time.Time `json:"updated_at"`
}
