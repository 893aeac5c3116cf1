package services

import (
	"errors"
	"fmt"
	"time"

	"garment_tracker/internal/models"
	"garment_tracker/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreateTransferRequest struct {
	OrderID uint        `json:"order_id" binding:"required"`
	ToArea  models.Area `json:"to_area" binding:"required"`
	Pieces  int         `json:"pieces" binding:"required"`
	Notes   string      `json:"notes"`
}

// TransferService runs the order transfer state machine. A transfer is
// created pending by someone holding pieces in the source area and resolved
// exactly once by someone in the destination area. Acceptance is the only
// operation that mutates the piece ledger, and it does so atomically with the
// transfer update and history entry.
type TransferService interface {
	Request(req CreateTransferRequest, actor Actor) (*models.Transfer, error)
	Accept(transferID uint, actor Actor) (*models.Transfer, error)
	Reject(transferID uint, actor Actor) (*models.Transfer, error)
	PendingForArea(area models.Area) ([]models.Transfer, error)
	ListByArea(area models.Area) ([]models.Transfer, error)
}

type transferService struct {
	db           *gorm.DB
	transferRepo repository.TransferRepository
	notifier     NotificationService
}

func NewTransferService(db *gorm.DB, transferRepo repository.TransferRepository, notifier NotificationService) TransferService {
	return &transferService{db: db, transferRepo: transferRepo, notifier: notifier}
}

// Request creates a pending transfer from the actor's own area. The piece
// count is validated against a live ledger read; the authoritative check
// happens again at acceptance time under a row lock.
func (s *transferService) Request(req CreateTransferRequest, actor Actor) (*models.Transfer, error) {
	if req.Pieces < 1 {
		return nil, &ValidationError{Msg: "la cantidad de piezas debe ser al menos 1"}
	}
	if !req.ToArea.IsValid() || req.ToArea == models.AreaAdmin {
		return nil, &ValidationError{Msg: fmt.Sprintf("área destino inválida: %s", req.ToArea)}
	}
	if req.ToArea == actor.Area {
		return nil, &ValidationError{Msg: "el área destino no puede ser el área origen"}
	}

	transfer := &models.Transfer{
		OrderID:   req.OrderID,
		FromArea:  actor.Area,
		ToArea:    req.ToArea,
		Pieces:    req.Pieces,
		Status:    models.TransferPending,
		Notes:     req.Notes,
		CreatedBy: actor.ID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, req.OrderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		available, err := ledgerBalance(tx, req.OrderID, actor.Area)
		if err != nil {
			return err
		}
		if available < req.Pieces {
			return &InsufficientBalanceError{
				Area:      actor.Area,
				Requested: req.Pieces,
				Available: available,
			}
		}

		if err := tx.Create(transfer).Error; err != nil {
			return fmt.Errorf("failed to create transfer: %w", err)
		}

		return tx.Create(&models.OrderHistory{
			OrderID:     req.OrderID,
			Action:      models.HistoryTransferCreated,
			Description: fmt.Sprintf("%d piezas enviadas a %s", req.Pieces, req.ToArea),
			FromArea:    &transfer.FromArea,
			ToArea:      &transfer.ToArea,
			Pieces:      &transfer.Pieces,
			UserID:      actor.ID,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	go func() {
		s.notifier.NotifyAreas([]models.Area{transfer.ToArea}, actor.ID,
			models.NotifTransferRequest,
			"Transferencia pendiente",
			fmt.Sprintf("%d piezas en camino de %s a %s", transfer.Pieces, transfer.FromArea, transfer.ToArea),
			Ref{OrderID: &transfer.OrderID, TransferID: &transfer.ID})
		s.notifier.Broadcast("transfer_created", map[string]interface{}{"transfer_id": transfer.ID})
	}()

	return transfer, nil
}

// Accept resolves a pending transfer and moves its pieces in the ledger. The
// transfer row and the source ledger row are locked for the duration of the
// transaction so two conflicting accepts cannot both drain the same balance.
func (s *transferService) Accept(transferID uint, actor Actor) (*models.Transfer, error) {
	var transfer models.Transfer

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&transfer, transferID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if transfer.Status != models.TransferPending {
			return ErrAlreadyProcessed
		}
		if actor.Area != transfer.ToArea && !actor.IsAdmin() {
			return &AuthorizationError{Msg: "solo el área destino puede aceptar la transferencia"}
		}

		if err := applyLedgerTransfer(tx, transfer.OrderID, transfer.FromArea, transfer.ToArea, transfer.Pieces); err != nil {
			return err
		}

		// Consolidation: CurrentArea only moves when every piece of the
		// order now sits in the destination area.
		resident, err := residentArea(tx, transfer.OrderID)
		if err != nil {
			return err
		}
		if resident == transfer.ToArea {
			if err := tx.Model(&models.Order{}).Where("id = ?", transfer.OrderID).
				Update("current_area", transfer.ToArea).Error; err != nil {
				return err
			}
		}

		now := time.Now()
		if err := tx.Model(&transfer).Updates(map[string]interface{}{
			"status":       models.TransferAccepted,
			"processed_by": actor.ID,
			"processed_at": now,
		}).Error; err != nil {
			return fmt.Errorf("failed to mark transfer accepted: %w", err)
		}

		return tx.Create(&models.OrderHistory{
			OrderID:     transfer.OrderID,
			Action:      models.HistoryTransferAccepted,
			Description: fmt.Sprintf("Transferencia aceptada - %d piezas movidas de %s a %s", transfer.Pieces, transfer.FromArea, transfer.ToArea),
			FromArea:    &transfer.FromArea,
			ToArea:      &transfer.ToArea,
			Pieces:      &transfer.Pieces,
			UserID:      actor.ID,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	go func() {
		s.notifier.Notify(transfer.CreatedBy, models.NotifTransferAccepted,
			"Transferencia aceptada",
			fmt.Sprintf("%d piezas recibidas en %s", transfer.Pieces, transfer.ToArea),
			Ref{OrderID: &transfer.OrderID, TransferID: &transfer.ID})
		s.notifier.Broadcast("transfer_accepted", map[string]interface{}{"transfer_id": transfer.ID})
	}()

	return &transfer, nil
}

// Reject resolves a pending transfer without touching the ledger; the pieces
// remain with the source area.
func (s *transferService) Reject(transferID uint, actor Actor) (*models.Transfer, error) {
	var transfer models.Transfer

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&transfer, transferID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if transfer.Status != models.TransferPending {
			return ErrAlreadyProcessed
		}
		if actor.Area != transfer.ToArea && !actor.IsAdmin() {
			return &AuthorizationError{Msg: "solo el área destino puede rechazar la transferencia"}
		}

		now := time.Now()
		if err := tx.Model(&transfer).Updates(map[string]interface{}{
			"status":       models.TransferRejected,
			"processed_by": actor.ID,
			"processed_at": now,
		}).Error; err != nil {
			return fmt.Errorf("failed to mark transfer rejected: %w", err)
		}

		return tx.Create(&models.OrderHistory{
			OrderID:     transfer.OrderID,
			Action:      models.HistoryTransferRejected,
			Description: fmt.Sprintf("Transferencia rechazada - %d piezas devueltas a %s", transfer.Pieces, transfer.FromArea),
			FromArea:    &transfer.FromArea,
			ToArea:      &transfer.ToArea,
			Pieces:      &transfer.Pieces,
			UserID:      actor.ID,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	go func() {
		s.notifier.Notify(transfer.CreatedBy, models.NotifTransferRejected,
			"Transferencia rechazada",
			fmt.Sprintf("%s rechazó %d piezas; permanecen en %s", transfer.ToArea, transfer.Pieces, transfer.FromArea),
			Ref{OrderID: &transfer.OrderID, TransferID: &transfer.ID})
		s.notifier.Broadcast("transfer_rejected", map[string]interface{}{"transfer_id": transfer.ID})
	}()

	return &transfer, nil
}

func (s *transferService) PendingForArea(area models.Area) ([]models.Transfer, error) {
	return s.transferRepo.GetPendingForArea(area)
}

func (s *transferService) ListByArea(area models.Area) ([]models.Transfer, error) {
	return s.transferRepo.GetByArea(area)
}

// ledgerBalance returns the live piece count an area holds for an order,
// zero when no ledger row exists.
func ledgerBalance(tx *gorm.DB, orderID uint, area models.Area) (int, error) {
	var row models.OrderPiece
	err := tx.Where("order_id = ? AND area = ?", orderID, area).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return row.Pieces, nil
}

// applyLedgerTransfer moves pieces between two ledger rows of one order. The
// source row is locked and re-read so the balance check holds at commit time;
// a zero source row is deleted, a missing destination row is created. The
// ledger sum is unchanged by construction.
func applyLedgerTransfer(tx *gorm.DB, orderID uint, fromArea, toArea models.Area, pieces int) error {
	var src models.OrderPiece
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("order_id = ? AND area = ?", orderID, fromArea).First(&src).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &InsufficientBalanceError{Area: fromArea, Requested: pieces, Available: 0}
	}
	if err != nil {
		return err
	}

	remaining := src.Pieces - pieces
	if remaining < 0 {
		return &InsufficientBalanceError{Area: fromArea, Requested: pieces, Available: src.Pieces}
	}

	if remaining == 0 {
		if err := tx.Delete(&src).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Model(&src).Update("pieces", remaining).Error; err != nil {
			return err
		}
	}

	var dst models.OrderPiece
	err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("order_id = ? AND area = ?", orderID, toArea).First(&dst).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(&models.OrderPiece{
			OrderID: orderID,
			Area:    toArea,
			Pieces:  pieces,
		}).Error
	}
	if err != nil {
		return err
	}
	return tx.Model(&dst).Update("pieces", dst.Pieces+pieces).Error
}

// residentArea returns the single area holding every piece of the order, or
// empty when the pieces are split across areas.
func residentArea(tx *gorm.DB, orderID uint) (models.Area, error) {
	var rows []models.OrderPiece
	if err := tx.Where("order_id = ?", orderID).Find(&rows).Error; err != nil {
		return "", err
	}
	if len(rows) == 1 {
		return rows[0].Area, nil
	}
	return "", nil
}
