package services

import (
	"errors"
	"fmt"

	"garment_tracker/internal/models"
	"garment_tracker/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterUserRequest struct {
	Username             string      `json:"username" binding:"required"`
	Password             string      `json:"password" binding:"required"`
	Name                 string      `json:"name" binding:"required"`
	Area                 models.Area `json:"area" binding:"required"`
	CanApproveCompletion bool        `json:"can_approve_completion"`
}

type UserService interface {
	Register(req RegisterUserRequest, actor Actor) (*models.User, error)
	Authenticate(username, password string) (*models.User, error)
	List(actor Actor) ([]models.User, error)
	ResetPassword(userID uint, newPassword string, actor Actor) error
	Delete(userID uint, actor Actor) error
	CreateAdminPassword(password string, actor Actor) error
	VerifyAdminPassword(password string) (bool, error)
}

type userService struct {
	db       *gorm.DB
	userRepo repository.UserRepository
}

func NewUserService(db *gorm.DB, userRepo repository.UserRepository) UserService {
	return &userService{db: db, userRepo: userRepo}
}

// Register creates a user with a bcrypt-hashed password. Admin only.
func (s *userService) Register(req RegisterUserRequest, actor Actor) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, &AuthorizationError{Msg: "se requiere acceso de administrador"}
	}
	if !req.Area.IsValid() {
		return nil, &ValidationError{Msg: fmt.Sprintf("área inválida: %s", req.Area)}
	}
	if len(req.Password) < 6 {
		return nil, &ValidationError{Msg: "la contraseña debe tener al menos 6 caracteres"}
	}

	if _, err := s.userRepo.GetByUsername(req.Username); err == nil {
		return nil, &ValidationError{Msg: fmt.Sprintf("el usuario %s ya existe", req.Username)}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:             req.Username,
		Password:             string(hashed),
		Name:                 req.Name,
		Area:                 req.Area,
		CanApproveCompletion: req.CanApproveCompletion,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Authenticate verifies credentials and returns the user. Callers issue the
// session token; this layer never sees it.
func (s *userService) Authenticate(username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &AuthorizationError{Msg: "credenciales inválidas"}
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, &AuthorizationError{Msg: "credenciales inválidas"}
	}
	return user, nil
}

func (s *userService) List(actor Actor) ([]models.User, error) {
	if !actor.IsAdmin() {
		return nil, &AuthorizationError{Msg: "se requiere acceso de administrador"}
	}
	return s.userRepo.GetAll()
}

func (s *userService) ResetPassword(userID uint, newPassword string, actor Actor) error {
	if !actor.IsAdmin() && actor.ID != userID {
		return &AuthorizationError{Msg: "no puede cambiar la contraseña de otro usuario"}
	}
	if len(newPassword) < 6 {
		return &ValidationError{Msg: "la contraseña debe tener al menos 6 caracteres"}
	}

	if _, err := s.userRepo.GetByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.userRepo.UpdatePassword(userID, string(hashed))
}

func (s *userService) Delete(userID uint, actor Actor) error {
	if !actor.IsAdmin() {
		return &AuthorizationError{Msg: "se requiere acceso de administrador"}
	}
	if actor.ID == userID {
		return &ValidationError{Msg: "no puede eliminar su propio usuario"}
	}

	if _, err := s.userRepo.GetByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.userRepo.Delete(userID)
}

// CreateAdminPassword rotates the override password guarding destructive
// actions. The previous one is deactivated, never deleted.
func (s *userService) CreateAdminPassword(password string, actor Actor) error {
	if !actor.IsAdmin() {
		return &AuthorizationError{Msg: "se requiere acceso de administrador"}
	}
	if len(password) < 6 {
		return &ValidationError{Msg: "la contraseña debe tener al menos 6 caracteres"}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.AdminPassword{}).Where("is_active = ?", true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Create(&models.AdminPassword{
			Password:  string(hashed),
			CreatedBy: actor.ID,
			IsActive:  true,
		}).Error
	})
}

func (s *userService) VerifyAdminPassword(password string) (bool, error) {
	var record models.AdminPassword
	err := s.db.Where("is_active = ?", true).Order("id desc").First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return bcrypt.CompareHashAndPassword([]byte(record.Password), []byte(password)) == nil, nil
}
