package database

import (
	"fmt"
	"log"

	"garment_tracker/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Initialize(databaseURL string) (*gorm.DB, error) {
	config := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(postgres.Open(databaseURL), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Println("Database connected and migrated successfully")
	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.AdminPassword{},
		&models.Order{},
		&models.OrderPiece{},
		&models.Transfer{},
		&models.OrderHistory{},
		&models.Reposition{},
		&models.RepositionPiece{},
		&models.RepositionTransfer{},
		&models.RepositionHistory{},
		&models.FolioCounter{},
		&models.Notification{},
	)
}
