package db

import (
	"errors"

	"gorm.io/gorm"

	"github.com/epicevents/crm/internal/auth"
	"github.com/epicevents/crm/internal/models"
)

// ErrAlreadySeeded is returned when a bootstrap account already exists.
var ErrAlreadySeeded = errors.New("user accounts already exist")

// Seed creates the first GESTION account in an empty database. Every later
// account goes through the user service under that actor's authority.
func Seed(conn *gorm.DB, fullName, email, password string) (*models.User, error) {
	if !auth.StrongPassword(password) {
		return nil, errors.New("bootstrap password does not meet the policy (8+ chars, upper, lower, digit, special)")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	number, err := auth.GenerateEmployeeNumber()
	if err != nil {
		return nil, err
	}

	user := models.User{
		EmployeeNumber: number,
		FullName:       fullName,
		Email:          email,
		Department:     models.DepartmentGestion,
		PasswordHash:   hash,
	}
	err = conn.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadySeeded
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
