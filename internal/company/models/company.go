// Package models defines the entities populated by the seeding run:
// Company, Office and Employee, mapped to their tables through GORM tags.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Company defines a company entity. A company owns its offices and
// points at exactly one of them as its head office once that office exists.
type Company struct {
	// ID is the unique identifier for the company.
	ID uuid.UUID `gorm:"type:char(36);primaryKey"`
	// Name is the company’s name.
	Name string `gorm:"size:255;not null"`
	// Phone is the switchboard number.
	Phone string `gorm:"size:64;not null"`
	// Email is the general contact address.
	Email string `gorm:"size:255;not null"`
	// Website is the public site URL.
	Website string `gorm:"size:255;not null"`
	// Image is a URL to a cover picture.
	Image string `gorm:"size:255;not null"`
	// HeadOfficeID references the head office. It stays invalid (NULL)
	// until the first office of the company has been created.
	HeadOfficeID uuid.NullUUID `gorm:"type:char(36);index"`
	// Offices lists the offices owned by the company.
	Offices []Office `gorm:"constraint:OnDelete:CASCADE"`
	// CreatedAt records the timestamp when the company was created.
	CreatedAt time.Time
	// UpdatedAt records the timestamp when the company was last updated.
	UpdatedAt time.Time
}

// HasHeadOffice reports whether the head office reference has been set.
func (c *Company) HasHeadOffice() bool {
	return c.HeadOfficeID.Valid
}

// Stats holds row counts for the three seeded tables.
type Stats struct {
	Companies int64
	Offices   int64
	Employees int64
}
