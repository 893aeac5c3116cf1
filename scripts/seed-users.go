package main

import (
	"fmt"
	"log"

	"garment_tracker/internal/config"
	"garment_tracker/internal/database"
	"garment_tracker/internal/migrations"
	"garment_tracker/internal/models"

	"golang.org/x/crypto/bcrypt"
)

// Seeds one user per workflow area for local development.
func main() {
	fmt.Println("Initializing database...")

	cfg := config.Load()

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := migrations.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	fmt.Println("Creating area users...")
	for _, area := range models.WorkflowAreas {
		username := string(area)

		var existing models.User
		if err := db.Where("username = ?", username).First(&existing).Error; err == nil {
			fmt.Printf("  user %s already exists, skipping\n", username)
			continue
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(username+"123"), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal("Failed to hash password:", err)
		}

		user := &models.User{
			Username: username,
			Password: string(hashed),
			Name:     fmt.Sprintf("Usuario %s", area),
			Area:     area,
		}
		if err := db.Create(user).Error; err != nil {
			log.Fatal("Failed to create user:", err)
		}
		fmt.Printf("  created user %s\n", username)
	}

	fmt.Println("Database initialization completed!")
}
