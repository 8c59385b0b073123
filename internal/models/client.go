package models

import "time"

// Client is a customer record. Every client is owned by exactly one
// commercial contact; that user's department must be COMMERCIAL.
type Client struct {
	ID                  uint   `gorm:"primaryKey"`
	FullName            string `gorm:"size:255;not null"`
	Email               string `gorm:"size:255;uniqueIndex;not null"`
	Phone               string `gorm:"size:50"`
	Company             string `gorm:"size:255"`
	CommercialContactID uint   `gorm:"not null;index"`
	CommercialContact   User   `gorm:"foreignKey:CommercialContactID"`
	CreatedAt           time.Time
	UpdatedAt           time.Time

	Contracts []Contract `gorm:"foreignKey:ClientID"`
}

// CommercialOwnerID implements the ownership check used by the
// authorization engine.
func (c *Client) CommercialOwnerID() uint { return c.CommercialContactID }
