package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/epicevents/crm/internal/apperr"
	"github.com/epicevents/crm/internal/models"
	"github.com/epicevents/crm/internal/services"
)

// TestFullWorkflow walks one deal through the whole pipeline: hiring the
// commercial, registering the client, contracting, signing, planning the
// event and handing it to support.
func TestFullWorkflow(t *testing.T) {
	conn := setupTestDB(t, "workflow")
	ctx := context.Background()

	admin := seedUser(t, conn, "Admin", "admin@workflow.test", models.DepartmentGestion)

	users := services.NewUserService(conn)
	clients := services.NewClientService(conn, true)
	contracts := services.NewContractService(conn, true)
	events := services.NewEventService(conn)

	// GESTION hires a commercial and two support collaborators.
	marie, err := users.Create(ctx, admin, services.CreateUserInput{
		FullName:   "Marie Martin",
		Email:      "marie@workflow.test",
		Department: models.DepartmentCommercial,
		Password:   "Str0ng#Pass",
	})
	if err != nil {
		t.Fatalf("hire marie: %v", err)
	}
	paul, err := users.Create(ctx, admin, services.CreateUserInput{
		FullName:   "Paul Petit",
		Email:      "paul@workflow.test",
		Department: models.DepartmentSupport,
		Password:   "Str0ng#Pass",
	})
	if err != nil {
		t.Fatalf("hire paul: %v", err)
	}
	zoe, err := users.Create(ctx, admin, services.CreateUserInput{
		FullName:   "Zoe Durand",
		Email:      "zoe@workflow.test",
		Department: models.DepartmentSupport,
		Password:   "Str0ng#Pass",
	})
	if err != nil {
		t.Fatalf("hire zoe: %v", err)
	}

	// Marie registers her client.
	techco, err := clients.Create(ctx, marie, services.CreateClientInput{
		FullName: "Kevin Casey",
		Email:    "kevin@techco.test",
		Company:  "TechCo",
	})
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	if techco.CommercialContactID != marie.ID {
		t.Fatalf("client owner = %d, want marie %d", techco.CommercialContactID, marie.ID)
	}

	// GESTION opens a contract; the commercial contact mirrors the client's.
	contract, err := contracts.Create(ctx, admin, services.CreateContractInput{
		ClientID:    techco.ID,
		TotalAmount: 1000,
		AmountDue:   -1,
	})
	if err != nil {
		t.Fatalf("create contract: %v", err)
	}
	if contract.CommercialContactID != marie.ID {
		t.Fatalf("contract owner = %d, want marie %d", contract.CommercialContactID, marie.ID)
	}

	// No events before the signature.
	in := services.CreateEventInput{
		ContractID: contract.ID,
		Name:       "TechCo Launch Party",
		StartDate:  time.Now().Add(14 * 24 * time.Hour),
		EndDate:    time.Now().Add(14*24*time.Hour + 6*time.Hour),
		Location:   "Lyon",
		Attendees:  80,
	}
	if _, err := events.Create(ctx, marie, in); !apperr.IsKind(err, apperr.KindContractNotSigned) {
		t.Fatalf("event under draft: %v, want ContractNotSignedError", err)
	}

	// Marie signs her contract and plans the event.
	if _, err := contracts.Sign(ctx, marie, contract.ID); err != nil {
		t.Fatalf("sign: %v", err)
	}
	event, err := events.Create(ctx, marie, in)
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	// GESTION hands the event to Paul.
	if _, err := events.AssignSupport(ctx, admin, event.ID, paul.ID); err != nil {
		t.Fatalf("assign paul: %v", err)
	}

	// Paul maintains his event; Zoe cannot touch it.
	notes := "AV check at 16:00, doors at 18:00"
	if _, err := events.Update(ctx, paul, event.ID, services.UpdateEventInput{Notes: &notes}); err != nil {
		t.Fatalf("paul update: %v", err)
	}
	if _, err := events.Update(ctx, zoe, event.ID, services.UpdateEventInput{Notes: &notes}); !apperr.IsKind(err, apperr.KindPermission) {
		t.Fatalf("zoe update: %v, want PermissionError", err)
	}

	// Payments land one after another against current stored state.
	if _, err := contracts.RecordPayment(ctx, admin, contract.ID, 100); err != nil {
		t.Fatalf("first payment: %v", err)
	}
	final, err := contracts.RecordPayment(ctx, marie, contract.ID, 50)
	if err != nil {
		t.Fatalf("second payment: %v", err)
	}
	if final.AmountDue != 850 {
		t.Fatalf("amount due = %v, want 850", final.AmountDue)
	}
}
