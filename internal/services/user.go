package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/epicevents/crm/internal/apperr"
	"github.com/epicevents/crm/internal/auth"
	"github.com/epicevents/crm/internal/authz"
	"github.com/epicevents/crm/internal/models"
	"github.com/epicevents/crm/internal/validation"
)

// UserService orchestrates collaborator account operations.
type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService { return &UserService{DB: db} }

type CreateUserInput struct {
	FullName   string
	Email      string
	Department models.Department
	Password   string
}

type UpdateUserInput struct {
	FullName   *string
	Email      *string
	Department *models.Department
	Password   *string
}

// Create registers a new collaborator. GESTION only. The employee number is
// generated, retrying on the unlikely collision.
func (s *UserService) Create(ctx context.Context, actor *models.User, in CreateUserInput) (*models.User, error) {
	v := validation.Violations{}
	validation.Required("full_name", in.FullName, v)
	validation.Required("email", in.Email, v)
	validation.Email("email", in.Email, v)
	if !in.Department.Valid() {
		v["department"] = "unknown_department"
	}
	if !auth.StrongPassword(in.Password) {
		v["password"] = "too_weak"
	}
	if !v.Empty() {
		field, msg := v.First()
		return nil, apperr.Validation(field, msg)
	}

	if d := authz.Authorize(actor, authz.ActionCreateUser, nil); !d.Allowed {
		return nil, denyError(d, authz.ActionCreateUser)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	user := models.User{
		FullName:     strings.TrimSpace(in.FullName),
		Email:        strings.TrimSpace(strings.ToLower(in.Email)),
		Department:   in.Department,
		PasswordHash: hash,
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperr.Validation("email", "already_in_use")
		}
		for i := 0; i < 5; i++ {
			number, err := auth.GenerateEmployeeNumber()
			if err != nil {
				return apperr.Internal(err)
			}
			if err := tx.Model(&models.User{}).Where("employee_number = ?", number).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				user.EmployeeNumber = number
				break
			}
		}
		if user.EmployeeNumber == "" {
			return apperr.New(apperr.KindInternal, "could not allocate an employee number")
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, storeError(err)
	}
	return &user, nil
}

// Get loads one collaborator. GESTION only.
func (s *UserService) Get(ctx context.Context, actor *models.User, id uint) (*models.User, error) {
	if d := authz.Authorize(actor, authz.ActionReadUser, nil); !d.Allowed {
		return nil, denyError(d, authz.ActionReadUser)
	}
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, storeError(err)
	}
	return &user, nil
}

// List returns all collaborators. GESTION only.
func (s *UserService) List(ctx context.Context, actor *models.User) ([]models.User, error) {
	if d := authz.Authorize(actor, authz.ActionReadUser, nil); !d.Allowed {
		return nil, denyError(d, authz.ActionReadUser)
	}
	var users []models.User
	if err := s.DB.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, storeError(err)
	}
	return users, nil
}

// Update modifies a collaborator. GESTION may change every field.
func (s *UserService) Update(ctx context.Context, actor *models.User, id uint, in UpdateUserInput) (*models.User, error) {
	v := validation.Violations{}
	if in.Email != nil {
		validation.Required("email", *in.Email, v)
		validation.Email("email", *in.Email, v)
	}
	if in.FullName != nil {
		validation.Required("full_name", *in.FullName, v)
	}
	if in.Department != nil && !in.Department.Valid() {
		v["department"] = "unknown_department"
	}
	if in.Password != nil && !auth.StrongPassword(*in.Password) {
		v["password"] = "too_weak"
	}
	if !v.Empty() {
		field, msg := v.First()
		return nil, apperr.Validation(field, msg)
	}

	if d := authz.Authorize(actor, authz.ActionUpdateUser, nil); !d.Allowed {
		return nil, denyError(d, authz.ActionUpdateUser)
	}

	var user models.User
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			return err
		}
		// Clients and contracts must always point at a COMMERCIAL contact,
		// events at a SUPPORT one. A department change would silently break
		// those references, so it is blocked until the records are reassigned,
		// the same protection Delete applies.
		if in.Department != nil && *in.Department != user.Department {
			var clients, contracts, events int64
			if err := tx.Model(&models.Client{}).Where("commercial_contact_id = ?", id).Count(&clients).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Contract{}).Where("commercial_contact_id = ?", id).Count(&contracts).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Event{}).Where("support_contact_id = ?", id).Count(&events).Error; err != nil {
				return err
			}
			if clients+contracts+events > 0 {
				return apperr.Validation("department", "user_still_referenced_by_records")
			}
		}
		if in.FullName != nil {
			user.FullName = strings.TrimSpace(*in.FullName)
		}
		if in.Email != nil {
			email := strings.TrimSpace(strings.ToLower(*in.Email))
			var count int64
			if err := tx.Model(&models.User{}).Where("email = ? AND id <> ?", email, id).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return apperr.Validation("email", "already_in_use")
			}
			user.Email = email
		}
		if in.Department != nil {
			user.Department = *in.Department
		}
		if in.Password != nil {
			hash, err := auth.HashPassword(*in.Password)
			if err != nil {
				return apperr.Internal(err)
			}
			user.PasswordHash = hash
		}
		return tx.Save(&user).Error
	})
	if err != nil {
		return nil, storeError(err)
	}
	return &user, nil
}

// ChangePassword lets a collaborator rotate their own password after
// re-proving the current one. This is the only self-service mutation.
func (s *UserService) ChangePassword(ctx context.Context, actor *models.User, current, next string) error {
	if actor == nil {
		return apperr.New(apperr.KindUnauthenticated, "no authenticated actor")
	}
	if !auth.StrongPassword(next) {
		return apperr.Validation("password", "too_weak")
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, actor.ID).Error; err != nil {
			return err
		}
		if err := auth.VerifyPassword(user.PasswordHash, current); err != nil {
			return apperr.New(apperr.KindUnauthenticated, "current password does not match")
		}
		hash, err := auth.HashPassword(next)
		if err != nil {
			return apperr.Internal(err)
		}
		return tx.Model(&user).Update("password_hash", hash).Error
	})
	return storeError(err)
}

// Delete removes a collaborator. GESTION only. Accounts still referenced as
// a commercial or support contact are protected; their records must be
// reassigned first.
func (s *UserService) Delete(ctx context.Context, actor *models.User, id uint) error {
	if d := authz.Authorize(actor, authz.ActionDeleteUser, nil); !d.Allowed {
		return denyError(d, authz.ActionDeleteUser)
	}
	if actor.ID == id {
		return apperr.Validation("id", "cannot_delete_own_account")
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return err
		}
		var clients, contracts, events int64
		if err := tx.Model(&models.Client{}).Where("commercial_contact_id = ?", id).Count(&clients).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Contract{}).Where("commercial_contact_id = ?", id).Count(&contracts).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Event{}).Where("support_contact_id = ?", id).Count(&events).Error; err != nil {
			return err
		}
		if clients+contracts+events > 0 {
			return apperr.Validation("id", "user_still_referenced_by_records")
		}
		return tx.Delete(&models.User{}, id).Error
	})
	return storeError(err)
}

// FindByEmail is a lookup helper used by seeding and tests.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Where("email = ?", strings.TrimSpace(strings.ToLower(email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.KindNotFound, "user not found")
	}
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return &user, nil
}
