package models

import (
	"time"
)

type User struct {
	ID                   uint      `json:"id" gorm:"primaryKey"`
	Username             string    `json:"username" gorm:"unique;not null"`
	Password             string    `json:"-" gorm:"not null"`
	Name                 string    `json:"name" gorm:"not null"`
	Area                 Area      `json:"area" gorm:"type:varchar(20);not null"`
	CanApproveCompletion bool      `json:"can_approve_completion" gorm:"default:false"`
	CreatedAt            time.Time `json:"created_at"`
}

// AdminPassword is an override password used to guard destructive admin
// actions such as order deletion. Stored hashed.
type AdminPassword struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Password  string    `json:"-" gorm:"not null"`
	CreatedBy uint      `json:"created_by" gorm:"not null"`
	IsActive  bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at"`
}
