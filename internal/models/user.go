package models

import "time"

// Department determines the static permission set of a collaborator.
type Department string

const (
	DepartmentGestion    Department = "GESTION"
	DepartmentCommercial Department = "COMMERCIAL"
	DepartmentSupport    Department = "SUPPORT"
)

// Valid reports whether d is one of the three known departments.
func (d Department) Valid() bool {
	switch d {
	case DepartmentGestion, DepartmentCommercial, DepartmentSupport:
		return true
	}
	return false
}

// User is a collaborator account. Accounts are created and deleted by
// GESTION only; a user may change their own password.
type User struct {
	ID             uint       `gorm:"primaryKey"`
	EmployeeNumber string     `gorm:"size:8;uniqueIndex;not null"`
	FullName       string     `gorm:"size:255;not null"`
	Email          string     `gorm:"size:255;uniqueIndex;not null"`
	Department     Department `gorm:"size:16;not null;index"`
	PasswordHash   string     `gorm:"size:255;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (u *User) IsGestion() bool    { return u.Department == DepartmentGestion }
func (u *User) IsCommercial() bool { return u.Department == DepartmentCommercial }
func (u *User) IsSupport() bool    { return u.Department == DepartmentSupport }
