package model

import (
	"time"

	"github.com/google/uuid"
)

// Role: "admin" manages catalog, users and reports; "user" operates the POS.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Role         string    `gorm:"type:varchar(10);not null;default:'user'"`
	Ativo        bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
