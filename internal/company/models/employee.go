package models

import (
	"time"

	"github.com/google/uuid"
)

// Employee works in exactly one office.
type Employee struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	FirstName string    `gorm:"size:255;not null"`
	LastName  string    `gorm:"size:255;not null"`
	Email     string    `gorm:"size:255;not null"`
	Phone     *string   `gorm:"size:64"`
	JobTitle  string    `gorm:"size:255;not null"`
	OfficeID  uuid.UUID `gorm:"type:char(36);not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
