package services

import (
	"errors"
	"fmt"
	"time"

	"garment_tracker/internal/models"
	"garment_tracker/internal/repository"

	"gorm.io/gorm"
)

type CreateOrderRequest struct {
	Folio        string      `json:"folio" binding:"required"`
	ClienteHotel string      `json:"cliente_hotel" binding:"required"`
	NoSolicitud  string      `json:"no_solicitud" binding:"required"`
	NoHoja       string      `json:"no_hoja"`
	Modelo       string      `json:"modelo" binding:"required"`
	TipoPrenda   string      `json:"tipo_prenda" binding:"required"`
	Color        string      `json:"color" binding:"required"`
	Tela         string      `json:"tela" binding:"required"`
	TotalPiezas  int         `json:"total_piezas" binding:"required"`
	IntakeArea   models.Area `json:"intake_area"`
}

type OrderService interface {
	Create(req CreateOrderRequest, actor Actor) (*models.Order, error)
	List(area models.Area) ([]models.Order, error)
	Get(id uint) (*models.Order, error)
	GetPieces(id uint) ([]models.OrderPiece, error)
	GetHistory(id uint) ([]models.OrderHistory, error)
	Complete(orderID uint, actor Actor) error
	Delete(orderID uint, actor Actor) error
}

type orderService struct {
	db        *gorm.DB
	orderRepo repository.OrderRepository
	notifier  NotificationService
}

func NewOrderService(db *gorm.DB, orderRepo repository.OrderRepository, notifier NotificationService) OrderService {
	return &orderService{db: db, orderRepo: orderRepo, notifier: notifier}
}

// Create registers a new order and seeds the piece ledger with every piece in
// the intake area. Order intake is restricted to corte, envios and admin.
func (s *orderService) Create(req CreateOrderRequest, actor Actor) (*models.Order, error) {
	if actor.Area != models.AreaCorte && actor.Area != models.AreaEnvios && !actor.IsAdmin() {
		return nil, &AuthorizationError{Msg: "área restringida para crear pedidos"}
	}
	if req.TotalPiezas < 1 {
		return nil, &ValidationError{Msg: "el total de piezas debe ser al menos 1"}
	}

	intake := req.IntakeArea
	if intake == "" {
		intake = models.AreaCorte
	}
	if !intake.IsValid() || intake == models.AreaAdmin {
		return nil, &ValidationError{Msg: fmt.Sprintf("área de ingreso inválida: %s", intake)}
	}

	order := &models.Order{
		Folio:        req.Folio,
		ClienteHotel: req.ClienteHotel,
		NoSolicitud:  req.NoSolicitud,
		NoHoja:       req.NoHoja,
		Modelo:       req.Modelo,
		TipoPrenda:   req.TipoPrenda,
		Color:        req.Color,
		Tela:         req.Tela,
		TotalPiezas:  req.TotalPiezas,
		CurrentArea:  intake,
		Status:       models.OrderActive,
		CreatedBy:    actor.ID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Order
		err := tx.Where("folio = ?", req.Folio).First(&existing).Error
		if err == nil {
			return &InvariantViolationError{Msg: fmt.Sprintf("folio duplicado: %s", req.Folio)}
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		if err := tx.Create(&models.OrderPiece{
			OrderID: order.ID,
			Area:    intake,
			Pieces:  req.TotalPiezas,
		}).Error; err != nil {
			return fmt.Errorf("failed to seed piece ledger: %w", err)
		}

		return tx.Create(&models.OrderHistory{
			OrderID:     order.ID,
			Action:      models.HistoryCreated,
			Description: fmt.Sprintf("Pedido creado con %d piezas", req.TotalPiezas),
			UserID:      actor.ID,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	go s.notifier.Broadcast("order_created", map[string]interface{}{"order_id": order.ID})

	return order, nil
}

func (s *orderService) List(area models.Area) ([]models.Order, error) {
	return s.orderRepo.GetAll(area)
}

// Get returns the order with AreaSplit computed from the live ledger. When
// pieces sit in more than one area, CurrentArea is the last consolidated
// area, not the live location.
func (s *orderService) Get(id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	pieces, err := s.orderRepo.GetPieces(id)
	if err != nil {
		return nil, err
	}
	order.AreaSplit = len(pieces) > 1

	return order, nil
}

func (s *orderService) GetPieces(id uint) ([]models.OrderPiece, error) {
	return s.orderRepo.GetPieces(id)
}

func (s *orderService) GetHistory(id uint) ([]models.OrderHistory, error) {
	return s.orderRepo.GetHistory(id)
}

// Complete marks an active order completed. Only envios may complete orders;
// completing an already-completed order is an error, not a no-op.
func (s *orderService) Complete(orderID uint, actor Actor) error {
	if actor.Area != models.AreaEnvios {
		return &AuthorizationError{Msg: "solo el área de envíos puede completar la orden"}
	}

	var order models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if order.Status != models.OrderActive {
			return ErrAlreadyProcessed
		}

		now := time.Now()
		if err := tx.Model(&order).Updates(map[string]interface{}{
			"status":       models.OrderCompleted,
			"completed_at": now,
		}).Error; err != nil {
			return fmt.Errorf("failed to complete order: %w", err)
		}

		return tx.Create(&models.OrderHistory{
			OrderID:     orderID,
			Action:      models.HistoryCompleted,
			Description: "Pedido finalizado",
			UserID:      actor.ID,
		}).Error
	})
	if err != nil {
		return err
	}

	go func() {
		s.notifier.Notify(order.CreatedBy, models.NotifOrderCompleted,
			"Pedido completado",
			fmt.Sprintf("El pedido %s fue completado", order.Folio),
			Ref{OrderID: &order.ID})
		s.notifier.Broadcast("order_completed", map[string]interface{}{"order_id": order.ID})
	}()

	return nil
}

// Delete removes an order and everything referencing it: ledger rows,
// transfers, history and notifications. Hard delete, admin only, irreversible.
func (s *orderService) Delete(orderID uint, actor Actor) error {
	if !actor.IsAdmin() {
		return &AuthorizationError{Msg: "se requiere acceso de administrador"}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderPiece{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", orderID).Delete(&models.Transfer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderHistory{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", orderID).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
	if err != nil {
		return err
	}

	go s.notifier.Broadcast("order_deleted", map[string]interface{}{"order_id": orderID})

	return nil
}
