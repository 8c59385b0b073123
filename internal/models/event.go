package models

import "time"

// Event is the execution phase of a signed contract. Support assignment is
// optional at creation and performed by GESTION afterwards.
type Event struct {
	ID               uint      `gorm:"primaryKey"`
	ContractID       uint      `gorm:"not null;index"`
	Contract         Contract  `gorm:"foreignKey:ContractID"`
	Name             string    `gorm:"size:255;not null"`
	SupportContactID *uint     `gorm:"index"`
	SupportContact   *User     `gorm:"foreignKey:SupportContactID"`
	StartDate        time.Time `gorm:"not null"`
	EndDate          time.Time `gorm:"not null"`
	Location         string    `gorm:"size:255"`
	Attendees        int       `gorm:"not null;default:0"`
	Notes            string    `gorm:"type:text"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// SupportOwnerID implements the assignment check used by the authorization
// engine. ok is false while no support contact is assigned.
func (e *Event) SupportOwnerID() (uint, bool) {
	if e.SupportContactID == nil {
		return 0, false
	}
	return *e.SupportContactID, true
}
