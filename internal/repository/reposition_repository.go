package repository

import (
	"garment_tracker/internal/models"

	"gorm.io/gorm"
)

type RepositionRepository interface {
	GetByID(id uint) (*models.Reposition, error)
	List(area models.Area, includeFinished bool) ([]models.Reposition, error)
	GetPieces(repositionID uint) ([]models.RepositionPiece, error)
	GetHistory(repositionID uint) ([]models.RepositionHistory, error)
	GetTransferByID(id uint) (*models.RepositionTransfer, error)
	GetPendingTransfersForArea(area models.Area) ([]models.RepositionTransfer, error)
}

type repositionRepository struct {
	db *gorm.DB
}

func NewRepositionRepository(db *gorm.DB) RepositionRepository {
	return &repositionRepository{db: db}
}

func (r *repositionRepository) GetByID(id uint) (*models.Reposition, error) {
	var reposition models.Reposition
	err := r.db.Preload("Pieces").First(&reposition, id).Error
	if err != nil {
		return nil, err
	}
	return &reposition, nil
}

// List returns repositions, newest first. Unless includeFinished is set,
// completed and deleted tickets are hidden. An empty area means no filter.
func (r *repositionRepository) List(area models.Area, includeFinished bool) ([]models.Reposition, error) {
	var repositions []models.Reposition
	query := r.db.Order("created_at desc")
	if area != "" {
		query = query.Where("current_area = ?", area)
	}
	if !includeFinished {
		query = query.Where("status NOT IN ?", []models.RepositionStatus{
			models.RepositionCompletado, models.RepositionEliminado,
		})
	}
	err := query.Find(&repositions).Error
	return repositions, err
}

func (r *repositionRepository) GetPieces(repositionID uint) ([]models.RepositionPiece, error) {
	var pieces []models.RepositionPiece
	err := r.db.Where("reposition_id = ?", repositionID).Find(&pieces).Error
	return pieces, err
}

func (r *repositionRepository) GetHistory(repositionID uint) ([]models.RepositionHistory, error) {
	var history []models.RepositionHistory
	err := r.db.Where("reposition_id = ?", repositionID).Order("created_at asc").Find(&history).Error
	return history, err
}

func (r *repositionRepository) GetTransferByID(id uint) (*models.RepositionTransfer, error) {
	var transfer models.RepositionTransfer
	err := r.db.First(&transfer, id).Error
	if err != nil {
		return nil, err
	}
	return &transfer, nil
}

func (r *repositionRepository) GetPendingTransfersForArea(area models.Area) ([]models.RepositionTransfer, error) {
	var transfers []models.RepositionTransfer
	err := r.db.Where("to_area = ? AND status = ?", area, models.TransferPending).
		Order("created_at desc").Find(&transfers).Error
	return transfers, err
}
