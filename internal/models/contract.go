package models

import "time"

// ContractStatus is the contract lifecycle state. Transitions are one-way:
// draft -> signed -> cancelled, or draft -> cancelled. Cancelled is terminal.
type ContractStatus string

const (
	ContractDraft     ContractStatus = "draft"
	ContractSigned    ContractStatus = "signed"
	ContractCancelled ContractStatus = "cancelled"
)

// Contract binds a client to a commercial engagement. CommercialContactID
// mirrors the client's owning commercial and must always match it.
type Contract struct {
	ID                  uint           `gorm:"primaryKey"`
	ClientID            uint           `gorm:"not null;index"`
	Client              Client         `gorm:"foreignKey:ClientID"`
	CommercialContactID uint           `gorm:"not null;index"`
	CommercialContact   User           `gorm:"foreignKey:CommercialContactID"`
	TotalAmount         float64        `gorm:"not null"`
	AmountDue           float64        `gorm:"not null"`
	Status              ContractStatus `gorm:"size:16;not null;default:draft;index"`
	SignedAt            *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time

	Events []Event `gorm:"foreignKey:ContractID"`
}

// Signed reports whether events may be created against this contract.
func (c *Contract) Signed() bool { return c.Status == ContractSigned }

// FullyPaid reports whether the client has settled the whole amount.
func (c *Contract) FullyPaid() bool { return c.AmountDue <= 0 }

// CommercialOwnerID implements the ownership check used by the
// authorization engine.
func (c *Contract) CommercialOwnerID() uint { return c.CommercialContactID }
