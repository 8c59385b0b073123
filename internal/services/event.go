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

// EventService orchestrates event operations. Events exist only under
// signed contracts; support assignment is a GESTION action.
type EventService struct {
	DB *gorm.DB
}

func NewEventService(db *gorm.DB) *EventService { return &EventService{DB: db} }

type CreateEventInput struct {
	ContractID uint
	Name       string
	StartDate  time.Time
	EndDate    time.Time
	Location   string
	Attendees  int
	Notes      string
	// SupportContactID may only be set by GESTION at creation time.
	SupportContactID *uint
}

type UpdateEventInput struct {
	Name      *string
	StartDate *time.Time
	EndDate   *time.Time
	Location  *string
	Attendees *int
	Notes     *string
}

type ListEventsOptions struct {
	// Mine restricts to events assigned to the actor (SUPPORT) or belonging
	// to the actor's contracts (COMMERCIAL).
	Mine bool
	// WithoutSupport keeps only events with no support contact yet.
	WithoutSupport bool
	// UpcomingDays keeps only events starting within the next N days.
	UpcomingDays int
}

// Create plans an event under a contract. The contract must be signed; the
// check runs against the record read inside the transaction, so a contract
// cancelled between check and commit cannot slip through.
func (s *EventService) Create(ctx context.Context, actor *models.User, in CreateEventInput) (*models.Event, error) {
	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	validation.NonNegativeInt("attendees", in.Attendees, v)
	validation.DateOrder("end_date", in.StartDate, in.EndDate, v)
	if !v.Empty() {
		field, msg := v.First()
		return nil, apperr.Validation(field, msg)
	}
	if in.SupportContactID != nil && !actor.IsGestion() {
		return nil, apperr.Permission(string(authz.ReasonRoleDenied), "only GESTION assigns support contacts")
	}

	var event models.Event
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var contract models.Contract
		if err := tx.First(&contract, in.ContractID).Error; err != nil {
			return err
		}
		if d := authz.Authorize(actor, authz.ActionCreateEvent, &contract); !d.Allowed {
			return denyError(d, authz.ActionCreateEvent)
		}
		if !contract.Signed() {
			return apperr.New(apperr.KindContractNotSigned, "contract must be signed first")
		}
		if in.SupportContactID != nil {
			var support models.User
			if err := tx.First(&support, *in.SupportContactID).Error; err != nil {
				return err
			}
			if d := authz.CheckSupportAssignee(&support); !d.Allowed {
				return denyError(d, authz.ActionAssignEvent)
			}
		}
		event = models.Event{
			ContractID:       contract.ID,
			Name:             in.Name,
			SupportContactID: in.SupportContactID,
			StartDate:        in.StartDate,
			EndDate:          in.EndDate,
			Location:         in.Location,
			Attendees:        in.Attendees,
			Notes:            in.Notes,
		}
		return tx.Create(&event).Error
	})
	if err != nil {
		return nil, storeError(err)
	}
	return &event, nil
}

// Get loads one event. Readable by every department.
func (s *EventService) Get(ctx context.Context, actor *models.User, id uint) (*models.Event, error) {
	if d := authz.Authorize(actor, authz.ActionReadEvent, nil); !d.Allowed {
		return nil, denyError(d, authz.ActionReadEvent)
	}
	var event models.Event
	if err := s.DB.WithContext(ctx).Preload("Contract").Preload("SupportContact").First(&event, id).Error; err != nil {
		return nil, storeError(err)
	}
	return &event, nil
}

// List returns events filtered by the given options.
func (s *EventService) List(ctx context.Context, actor *models.User, opts ListEventsOptions) ([]models.Event, error) {
	if d := authz.Authorize(actor, authz.ActionReadEvent, nil); !d.Allowed {
		return nil, denyError(d, authz.ActionReadEvent)
	}
	q := s.DB.WithContext(ctx).Preload("Contract").Preload("SupportContact").Order("events.id")
	if opts.Mine {
		if actor.IsCommercial() {
			q = q.Joins("JOIN contracts ON contracts.id = events.contract_id").
				Where("contracts.commercial_contact_id = ?", actor.ID)
		} else {
			q = q.Where("support_contact_id = ?", actor.ID)
		}
	}
	if opts.WithoutSupport {
		q = q.Where("support_contact_id IS NULL")
	}
	if opts.UpcomingDays > 0 {
		now := time.Now().UTC()
		q = q.Where("start_date BETWEEN ? AND ?", now, now.AddDate(0, 0, opts.UpcomingDays))
	}
	var events []models.Event
	if err := q.Find(&events).Error; err != nil {
		return nil, storeError(err)
	}
	return events, nil
}

// Update changes event details. The ownership gate admits the assigned
// support contact or GESTION, decided on the freshly read record.
func (s *EventService) Update(ctx context.Context, actor *models.User, id uint, in UpdateEventInput) (*models.Event, error) {
	var event models.Event
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&event, id).Error; err != nil {
			return err
		}
		if d := authz.Authorize(actor, authz.ActionUpdateEvent, &event); !d.Allowed {
			return denyError(d, authz.ActionUpdateEvent)
		}
		start := event.StartDate
		end := event.EndDate
		if in.StartDate != nil {
			start = *in.StartDate
		}
		if in.EndDate != nil {
			end = *in.EndDate
		}
		v := validation.Violations{}
		validation.DateOrder("end_date", start, end, v)
		if in.Name != nil {
			validation.Required("name", *in.Name, v)
		}
		if in.Attendees != nil {
			validation.NonNegativeInt("attendees", *in.Attendees, v)
		}
		if !v.Empty() {
			field, msg := v.First()
			return apperr.Validation(field, msg)
		}
		if in.Name != nil {
			event.Name = *in.Name
		}
		event.StartDate = start
		event.EndDate = end
		if in.Location != nil {
			event.Location = *in.Location
		}
		if in.Attendees != nil {
			event.Attendees = *in.Attendees
		}
		if in.Notes != nil {
			event.Notes = *in.Notes
		}
		return tx.Save(&event).Error
	})
	if err != nil {
		return nil, storeError(err)
	}
	return &event, nil
}

// AssignSupport sets the event's support contact. GESTION only; the target
// must be a SUPPORT user. Reassigning the same user is a no-op success.
func (s *EventService) AssignSupport(ctx context.Context, actor *models.User, eventID, userID uint) (*models.Event, error) {
	if d := authz.Authorize(actor, authz.ActionAssignEvent, nil); !d.Allowed {
		return nil, denyError(d, authz.ActionAssignEvent)
	}

	var event models.Event
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&event, eventID).Error; err != nil {
			return err
		}
		var support models.User
		if err := tx.First(&support, userID).Error; err != nil {
			return err
		}
		if d := authz.CheckSupportAssignee(&support); !d.Allowed {
			return denyError(d, authz.ActionAssignEvent)
		}
		if event.SupportContactID != nil && *event.SupportContactID == userID {
			return nil
		}
		event.SupportContactID = &support.ID
		return tx.Save(&event).Error
	})
	if err != nil {
		return nil, storeError(err)
	}
	return &event, nil
}

// Delete removes an event. GESTION only.
func (s *EventService) Delete(ctx context.Context, actor *models.User, id uint) error {
	if d := authz.Authorize(actor, authz.ActionDeleteEvent, nil); !d.Allowed {
		return denyError(d, authz.ActionDeleteEvent)
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.First(&event, id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Event{}, id).Error
	})
	return storeError(err)
}
