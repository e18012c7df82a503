package models

import (
	"time"

	"github.com/google/uuid"
)

// Office is a physical site of a company.
type Office struct {
	ID        uuid.UUID  `gorm:"type:char(36);primaryKey"`
	Name      string     `gorm:"size:255;not null"`
	Address   string     `gorm:"size:255;not null"`
	City      string     `gorm:"size:255;not null"`
	ZipCode   string     `gorm:"size:32;not null"`
	Country   string     `gorm:"size:255;not null"`
	Email     *string    `gorm:"size:255"`
	Phone     *string    `gorm:"size:64"`
	CompanyID uuid.UUID  `gorm:"type:char(36);not null;index"`
	Employees []Employee `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsHeadOfficeOf reports whether the office is the head office of c.
// Head-office status is not stored on the office; it is derived from
// the company's reference.
func (o *Office) IsHeadOfficeOf(c *Company) bool {
	return c != nil &&
		o.CompanyID == c.ID &&
		c.HeadOfficeID.Valid &&
		c.HeadOfficeID.UUID == o.ID
}
