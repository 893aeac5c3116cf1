package repository

import (
	"garment_tracker/internal/models"

	"gorm.io/gorm"
)

type TransferRepository interface {
	GetByID(id uint) (*models.Transfer, error)
	GetByArea(area models.Area) ([]models.Transfer, error)
	GetPendingForArea(area models.Area) ([]models.Transfer, error)
}

type transferRepository struct {
	db *gorm.DB
}

func NewTransferRepository(db *gorm.DB) TransferRepository {
	return &transferRepository{db: db}
}

func (r *transferRepository) GetByID(id uint) (*models.Transfer, error) {
	var transfer models.Transfer
	err := r.db.First(&transfer, id).Error
	if err != nil {
		return nil, err
	}
	return &transfer, nil
}

func (r *transferRepository) GetByArea(area models.Area) ([]models.Transfer, error) {
	var transfers []models.Transfer
	err := r.db.Where("from_area = ? OR to_area = ?", area, area).
		Order("created_at desc").Find(&transfers).Error
	return transfers, err
}

func (r *transferRepository) GetPendingForArea(area models.Area) ([]models.Transfer, error) {
	var transfers []models.Transfer
	err := r.db.Where("to_area = ? AND status = ?", area, models.TransferPending).
		Order("created_at desc").Find(&transfers).Error
	return transfers, err
}
