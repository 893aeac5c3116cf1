package migrations

import (
	"errors"
	"log"

	"garment_tracker/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RunMigrations seeds the default admin account after the schema migration.
// Safe to run on every startup.
func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	if err := createDefaultAdmin(db); err != nil {
		return err
	}

	log.Println("Database migrations completed successfully!")
	return nil
}

func createDefaultAdmin(db *gorm.DB) error {
	var existing models.User
	err := db.Where("username = ?", "admin").First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &models.User{
		Username:             "admin",
		Password:             string(hashed),
		Name:                 "Administrador",
		Area:                 models.AreaAdmin,
		CanApproveCompletion: true,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}

	log.Println("Default admin user created (username: admin)")
	return nil
}
