package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/epicevents/crm/internal/apperr"
	"github.com/epicevents/crm/internal/authz"
	"github.com/epicevents/crm/internal/models"
	"github.com/epicevents/crm/internal/validation"
)

// ClientService orchestrates client record operations.
type ClientService struct {
	DB *gorm.DB
	// Cascade controls whether deleting a client removes its contracts and
	// their events, or is blocked while dependents exist.
	Cascade bool
}

func NewClientService(db *gorm.DB, cascade bool) *ClientService {
	return &ClientService{DB: db, Cascade: cascade}
}

type CreateClientInput struct {
	FullName string
	Email    string
	Phone    string
	Company  string
	// CommercialContactID may be zero for a COMMERCIAL actor, meaning
	// self-assignment. GESTION must name the owning commercial explicitly.
	CommercialContactID uint
}

type UpdateClientInput struct {
	FullName            *string
	Email               *string
	Phone               *string
	Company             *string
	CommercialContactID *uint
}

type ListClientsOptions struct {
	// Mine restricts the list to clients owned by the actor.
	Mine bool
}

// Create registers a client. A COMMERCIAL actor becomes the owning contact;
// GESTION may assign any commercial. The owning contact must always be in
// the COMMERCIAL department.
func (s *ClientService) Create(ctx context.Context, actor *models.User, in CreateClientInput) (*models.Client, error) {
	v := validation.Violations{}
	validation.Required("full_name", in.FullName, v)
	validation.Required("email", in.Email, v)
	validation.Email("email", in.Email, v)
	if !v.Empty() {
		field, msg := v.First()
		return nil, apperr.Validation(field, msg)
	}

	if d := authz.Authorize(actor, authz.ActionCreateClient, nil); !d.Allowed {
		return nil, denyError(d, authz.ActionCreateClient)
	}

	contactID := in.CommercialContactID
	if contactID == 0 && actor.IsCommercial() {
		contactID = actor.ID
	}
	if contactID == 0 {
		return nil, apperr.Validation("commercial_contact_id", "required")
	}
	if actor.IsCommercial() && contactID != actor.ID {
		return nil, apperr.Permission(string(authz.ReasonNotOwner), "a commercial can only self-assign clients")
	}

	client := models.Client{
		FullName:            strings.TrimSpace(in.FullName),
		Email:               strings.TrimSpace(strings.ToLower(in.Email)),
		Phone:               strings.TrimSpace(in.Phone),
		Company:             strings.TrimSpace(in.Company),
		CommercialContactID: contactID,
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var contact models.User
		if err := tx.First(&contact, contactID).Error; err != nil {
			return err
		}
		if d := authz.CheckCommercialAssignee(&contact); !d.Allowed {
			return denyError(d, authz.ActionCreateClient)
		}
		var count int64
		if err := tx.Model(&models.Client{}).Where("email = ?", client.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperr.Validation("email", "already_in_use")
		}
		return tx.Create(&client).Error
	})
	if err != nil {
		return nil, storeError(err)
	}
	return &client, nil
}

// Get loads one client. Readable by every department.
func (s *ClientService) Get(ctx context.Context, actor *models.User, id uint) (*models.Client, error) {
	if d := authz.Authorize(actor, authz.ActionReadClient, nil); !d.Allowed {
		return nil, denyError(d, authz.ActionReadClient)
	}
	var client models.Client
	if err := s.DB.WithContext(ctx).Preload("CommercialContact").First(&client, id).Error; err != nil {
		return nil, storeError(err)
	}
	return &client, nil
}

// List returns clients, optionally restricted to the actor's own.
func (s *ClientService) List(ctx context.Context, actor *models.User, opts ListClientsOptions) ([]models.Client, error) {
	if d := authz.Authorize(actor, authz.ActionReadClient, nil); !d.Allowed {
		return nil, denyError(d, authz.ActionReadClient)
	}
	q := s.DB.WithContext(ctx).Preload("CommercialContact").Order("id")
	if opts.Mine {
		q = q.Where("commercial_contact_id = ?", actor.ID)
	}
	var clients []models.Client
	if err := q.Find(&clients).Error; err != nil {
		return nil, storeError(err)
	}
	return clients, nil
}

// Update modifies a client. The ownership gate admits the owning commercial
// or GESTION; the decision is taken against the freshly read record inside
// the transaction.
func (s *ClientService) Update(ctx context.Context, actor *models.User, id uint, in UpdateClientInput) (*models.Client, error) {
	v := validation.Violations{}
	if in.FullName != nil {
		validation.Required("full_name", *in.FullName, v)
	}
	if in.Email != nil {
		validation.Required("email", *in.Email, v)
		validation.Email("email", *in.Email, v)
	}
	if !v.Empty() {
		field, msg := v.First()
		return nil, apperr.Validation(field, msg)
	}

	var client models.Client
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&client, id).Error; err != nil {
			return err
		}
		if d := authz.Authorize(actor, authz.ActionUpdateClient, &client); !d.Allowed {
			return denyError(d, authz.ActionUpdateClient)
		}
		if in.FullName != nil {
			client.FullName = strings.TrimSpace(*in.FullName)
		}
		if in.Email != nil {
			email := strings.TrimSpace(strings.ToLower(*in.Email))
			var count int64
			if err := tx.Model(&models.Client{}).Where("email = ? AND id <> ?", email, id).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return apperr.Validation("email", "already_in_use")
			}
			client.Email = email
		}
		if in.Phone != nil {
			client.Phone = strings.TrimSpace(*in.Phone)
		}
		if in.Company != nil {
			client.Company = strings.TrimSpace(*in.Company)
		}
		if in.CommercialContactID != nil {
			var contact models.User
			if err := tx.First(&contact, *in.CommercialContactID).Error; err != nil {
				return err
			}
			if d := authz.CheckCommercialAssignee(&contact); !d.Allowed {
				return denyError(d, authz.ActionUpdateClient)
			}
			client.CommercialContactID = contact.ID
			// Contracts mirror the client's owning commercial; keep them in step.
			if err := tx.Model(&models.Contract{}).
				Where("client_id = ?", client.ID).
				Update("commercial_contact_id", contact.ID).Error; err != nil {
				return err
			}
		}
		return tx.Save(&client).Error
	})
	if err != nil {
		return nil, storeError(err)
	}
	return &client, nil
}

// Delete removes a client. GESTION only. With Cascade the client's
// contracts and their events go in the same transaction; without it the
// delete is blocked while contracts exist.
func (s *ClientService) Delete(ctx context.Context, actor *models.User, id uint) error {
	if d := authz.Authorize(actor, authz.ActionDeleteClient, nil); !d.Allowed {
		return denyError(d, authz.ActionDeleteClient)
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var client models.Client
		if err := tx.First(&client, id).Error; err != nil {
			return err
		}
		var contractIDs []uint
		if err := tx.Model(&models.Contract{}).Where("client_id = ?", id).Pluck("id", &contractIDs).Error; err != nil {
			return err
		}
		if len(contractIDs) > 0 {
			if !s.Cascade {
				return apperr.Validation("id", "client_has_contracts")
			}
			if err := tx.Where("contract_id IN ?", contractIDs).Delete(&models.Event{}).Error; err != nil {
				return err
			}
			if err := tx.Where("client_id = ?", id).Delete(&models.Contract{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Client{}, id).Error
	})
	return storeError(err)
}
