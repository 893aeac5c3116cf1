package repository

import (
	"garment_tracker/internal/models"

	"gorm.io/gorm"
)

type OrderRepository interface {
	GetByID(id uint) (*models.Order, error)
	GetByFolio(folio string) (*models.Order, error)
	GetAll(area models.Area) ([]models.Order, error)
	GetPieces(orderID uint) ([]models.OrderPiece, error)
	GetHistory(orderID uint) ([]models.OrderHistory, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByFolio(folio string) (*models.Order, error) {
	var order models.Order
	err := r.db.Where("folio = ?", folio).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetAll(area models.Area) ([]models.Order, error) {
	var orders []models.Order
	query := r.db.Order("created_at desc")
	if area != "" {
		query = query.Where("current_area = ?", area)
	}
	err := query.Find(&orders).Error
	return orders, err
}

func (r *orderRepository) GetPieces(orderID uint) ([]models.OrderPiece, error) {
	var pieces []models.OrderPiece
	err := r.db.Where("order_id = ?", orderID).Order("area asc").Find(&pieces).Error
	return pieces, err
}

func (r *orderRepository) GetHistory(orderID uint) ([]models.OrderHistory, error) {
	var history []models.OrderHistory
	err := r.db.Where("order_id = ?", orderID).Order("created_at asc").Find(&history).Error
	return history, err
}
