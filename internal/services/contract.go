package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/epicevents/crm/internal/apperr"
	"github.com/epicevents/crm/internal/authz"
	"github.com/epicevents/crm/internal/models"
	"github.com/epicevents/crm/internal/validation"
)

// ContractService orchestrates contract operations, including the
// draft -> signed -> cancelled lifecycle and payment tracking.
type ContractService struct {
	DB      *gorm.DB
	Cascade bool
}

func NewContractService(db *gorm.DB, cascade bool) *ContractService {
	return &ContractService{DB: db, Cascade: cascade}
}

type CreateContractInput struct {
	ClientID    uint
	TotalAmount float64
	// AmountDue defaults to TotalAmount when negative.
	AmountDue float64
}

type UpdateContractInput struct {
	TotalAmount *float64
	AmountDue   *float64
}

type ListContractsOptions struct {
	// Mine restricts to contracts owned by the actor.
	Mine bool
	// Unsigned keeps only draft contracts.
	Unsigned bool
	// Unpaid keeps only contracts with an outstanding amount.
	Unpaid bool
}

// Create opens a draft contract for a client. GESTION may create for any
// client; a COMMERCIAL actor only for clients they own. The contract's
// commercial contact always mirrors the client's.
func (s *ContractService) Create(ctx context.Context, actor *models.User, in CreateContractInput) (*models.Contract, error) {
	v := validation.Violations{}
	validation.PositiveFloat("total_amount", in.TotalAmount, v)
	if in.AmountDue > in.TotalAmount {
		v["amount_due"] = "exceeds_maximum"
	}
	if !v.Empty() {
		field, msg := v.First()
		return nil, apperr.Validation(field, msg)
	}

	amountDue := in.AmountDue
	if amountDue < 0 {
		amountDue = in.TotalAmount
	}

	var contract models.Contract
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var client models.Client
		if err := tx.First(&client, in.ClientID).Error; err != nil {
			return err
		}
		if d := authz.Authorize(actor, authz.ActionCreateContract, &client); !d.Allowed {
			return denyError(d, authz.ActionCreateContract)
		}
		contract = models.Contract{
			ClientID:            client.ID,
			CommercialContactID: client.CommercialContactID,
			TotalAmount:         in.TotalAmount,
			AmountDue:           amountDue,
			Status:              models.ContractDraft,
		}
		return tx.Create(&contract).Error
	})
	if err != nil {
		return nil, storeError(err)
	}
	return &contract, nil
}

// Get loads one contract. Readable by every department.
func (s *ContractService) Get(ctx context.Context, actor *models.User, id uint) (*models.Contract, error) {
	if d := authz.Authorize(actor, authz.ActionReadContract, nil); !d.Allowed {
		return nil, denyError(d, authz.ActionReadContract)
	}
	var contract models.Contract
	if err := s.DB.WithContext(ctx).Preload("Client").Preload("CommercialContact").First(&contract, id).Error; err != nil {
		return nil, storeError(err)
	}
	return &contract, nil
}

// List returns contracts filtered by the given options.
func (s *ContractService) List(ctx context.Context, actor *models.User, opts ListContractsOptions) ([]models.Contract, error) {
	if d := authz.Authorize(actor, authz.ActionReadContract, nil); !d.Allowed {
		return nil, denyError(d, authz.ActionReadContract)
	}
	q := s.DB.WithContext(ctx).Preload("Client").Order("id")
	if opts.Mine {
		q = q.Where("commercial_contact_id = ?", actor.ID)
	}
	if opts.Unsigned {
		q = q.Where("status = ?", models.ContractDraft)
	}
	if opts.Unpaid {
		q = q.Where("amount_due > 0")
	}
	var contracts []models.Contract
	if err := q.Find(&contracts).Error; err != nil {
		return nil, storeError(err)
	}
	return contracts, nil
}

// Update changes contract amounts. Owner or GESTION; the decision and the
// amount invariants are checked against the freshly read record. Cancelled
// contracts are immutable.
func (s *ContractService) Update(ctx context.Context, actor *models.User, id uint, in UpdateContractInput) (*models.Contract, error) {
	var contract models.Contract
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&contract, id).Error; err != nil {
			return err
		}
		if d := authz.Authorize(actor, authz.ActionUpdateContract, &contract); !d.Allowed {
			return denyError(d, authz.ActionUpdateContract)
		}
		if contract.Status == models.ContractCancelled {
			return apperr.Validation("status", "contract_cancelled")
		}
		total := contract.TotalAmount
		due := contract.AmountDue
		if in.TotalAmount != nil {
			total = *in.TotalAmount
		}
		if in.AmountDue != nil {
			due = *in.AmountDue
		}
		v := validation.Violations{}
		validation.PositiveFloat("total_amount", total, v)
		validation.NonNegativeFloat("amount_due", due, v)
		validation.MaxFloat("amount_due", due, total, v)
		if !v.Empty() {
			field, msg := v.First()
			return apperr.Validation(field, msg)
		}
		contract.TotalAmount = total
		contract.AmountDue = due
		return tx.Save(&contract).Error
	})
	if err != nil {
		return nil, storeError(err)
	}
	return &contract, nil
}

// Sign moves a draft contract to signed and stamps SignedAt. One-way:
// re-signing and signing a cancelled contract are rejected.
func (s *ContractService) Sign(ctx context.Context, actor *models.User, id uint) (*models.Contract, error) {
	var contract models.Contract
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&contract, id).Error; err != nil {
			return err
		}
		if d := authz.Authorize(actor, authz.ActionSignContract, &contract); !d.Allowed {
			return denyError(d, authz.ActionSignContract)
		}
		switch contract.Status {
		case models.ContractSigned:
			return apperr.Validation("status", "already_signed")
		case models.ContractCancelled:
			return apperr.Validation("status", "contract_cancelled")
		}
		now := time.Now().UTC()
		contract.Status = models.ContractSigned
		contract.SignedAt = &now
		return tx.Save(&contract).Error
	})
	if err != nil {
		return nil, storeError(err)
	}
	return &contract, nil
}

// Cancel moves a contract to the terminal cancelled state. Owner or GESTION.
func (s *ContractService) Cancel(ctx context.Context, actor *models.User, id uint) (*models.Contract, error) {
	var contract models.Contract
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&contract, id).Error; err != nil {
			return err
		}
		if d := authz.Authorize(actor, authz.ActionUpdateContract, &contract); !d.Allowed {
			return denyError(d, authz.ActionUpdateContract)
		}
		if contract.Status == models.ContractCancelled {
			return apperr.Validation("status", "contract_cancelled")
		}
		contract.Status = models.ContractCancelled
		return tx.Save(&contract).Error
	})
	if err != nil {
		return nil, storeError(err)
	}
	return &contract, nil
}

// RecordPayment reduces the outstanding amount. The decrement runs as a
// single conditional UPDATE against the current stored value, so two
// invocations racing on the same contract both land and neither is lost.
func (s *ContractService) RecordPayment(ctx context.Context, actor *models.User, id uint, amount float64) (*models.Contract, error) {
	if amount <= 0 {
		return nil, apperr.Validation("amount", "must_be_positive")
	}

	var contract models.Contract
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&contract, id).Error; err != nil {
			return err
		}
		if d := authz.Authorize(actor, authz.ActionUpdateContract, &contract); !d.Allowed {
			return denyError(d, authz.ActionUpdateContract)
		}
		if contract.Status == models.ContractCancelled {
			return apperr.Validation("status", "contract_cancelled")
		}
		res := tx.Model(&models.Contract{}).
			Where("id = ? AND amount_due >= ?", id, amount).
			Update("amount_due", gorm.Expr("amount_due - ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.Validation("amount", "exceeds_amount_due")
		}
		return tx.First(&contract, id).Error
	})
	if err != nil {
		return nil, storeError(err)
	}
	return &contract, nil
}

// Delete removes a contract. GESTION only. With Cascade its events go too;
// without it the delete is blocked while events exist.
func (s *ContractService) Delete(ctx context.Context, actor *models.User, id uint) error {
	if d := authz.Authorize(actor, authz.ActionDeleteContract, nil); !d.Allowed {
		return denyError(d, authz.ActionDeleteContract)
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var contract models.Contract
		if err := tx.First(&contract, id).Error; err != nil {
			return err
		}
		var events int64
		if err := tx.Model(&models.Event{}).Where("contract_id = ?", id).Count(&events).Error; err != nil {
			return err
		}
		if events > 0 {
			if !s.Cascade {
				return apperr.Validation("id", "contract_has_events")
			}
			if err := tx.Where("contract_id = ?", id).Delete(&models.Event{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Contract{}, id).Error
	})
	return storeError(err)
}
