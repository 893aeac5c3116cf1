package repository

import (
	"garment_tracker/internal/models"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetByAreas(areas []models.Area) ([]models.User, error)
	GetCompletionApprovers() ([]models.User, error)
	GetAll() ([]models.User, error)
	UpdatePassword(id uint, hashedPassword string) error
	Delete(id uint) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByAreas(areas []models.Area) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("area IN ?", areas).Find(&users).Error
	return users, err
}

func (r *userRepository) GetCompletionApprovers() ([]models.User, error) {
	var users []models.User
	err := r.db.Where("area = ? OR can_approve_completion = ?", models.AreaAdmin, true).Find(&users).Error
	return users, err
}

func (r *userRepository) GetAll() ([]models.User, error) {
	var users []models.User
	err := r.db.Order("id asc").Find(&users).Error
	return users, err
}

func (r *userRepository) UpdatePassword(id uint, hashedPassword string) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("password", hashedPassword).Error
}

func (r *userRepository) Delete(id uint) error {
	return r.db.Delete(&models.User{}, id).Error
}
