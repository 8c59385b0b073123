package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/epicevents/crm/internal/apperr"
	"github.com/epicevents/crm/internal/models"
	"github.com/epicevents/crm/internal/services"
)

func TestUserCreate(t *testing.T) {
	conn := setupTestDB(t, "user_create")
	gestion := seedUser(t, conn, "Admin", "admin@usercreate.test", models.DepartmentGestion)

	svc := services.NewUserService(conn)
	user, err := svc.Create(context.Background(), gestion, services.CreateUserInput{
		FullName:   "Marie Martin",
		Email:      "Marie@UserCreate.Test",
		Department: models.DepartmentCommercial,
		Password:   "Str0ng#Pass",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if user.Email != "marie@usercreate.test" {
		t.Fatalf("email not normalized: %s", user.Email)
	}
	if !strings.HasPrefix(user.EmployeeNumber, "EE") || len(user.EmployeeNumber) != 8 {
		t.Fatalf("employee number %q, want EE followed by six digits", user.EmployeeNumber)
	}
	if user.PasswordHash == "Str0ng#Pass" || user.PasswordHash == "" {
		t.Fatalf("password stored in the clear or missing")
	}
}

func TestUserCreateOnlyGestion(t *testing.T) {
	conn := setupTestDB(t, "user_create_role")
	commercial := seedUser(t, conn, "Marie", "marie@userrole.test", models.DepartmentCommercial)
	support := seedUser(t, conn, "Paul", "paul@userrole.test", models.DepartmentSupport)

	svc := services.NewUserService(conn)
	in := services.CreateUserInput{
		FullName:   "New Hire",
		Email:      "hire@userrole.test",
		Department: models.DepartmentSupport,
		Password:   "Str0ng#Pass",
	}
	for _, actor := range []*models.User{commercial, support} {
		if _, err := svc.Create(context.Background(), actor, in); !apperr.IsKind(err, apperr.KindPermission) {
			t.Errorf("%s create user: %v, want PermissionError", actor.Department, err)
		}
	}
}

func TestUserCreateValidation(t *testing.T) {
	conn := setupTestDB(t, "user_create_validation")
	gestion := seedUser(t, conn, "Admin", "admin@uservalid.test", models.DepartmentGestion)

	svc := services.NewUserService(conn)
	cases := []services.CreateUserInput{
		{FullName: "", Email: "a@uservalid.test", Department: models.DepartmentSupport, Password: "Str0ng#Pass"},
		{FullName: "A", Email: "not-an-email", Department: models.DepartmentSupport, Password: "Str0ng#Pass"},
		{FullName: "A", Email: "a@uservalid.test", Department: "MARKETING", Password: "Str0ng#Pass"},
		{FullName: "A", Email: "a@uservalid.test", Department: models.DepartmentSupport, Password: "weak"},
		{FullName: "A", Email: "a@uservalid.test", Department: models.DepartmentSupport, Password: "nodigitsorsymbols"},
	}
	for _, in := range cases {
		if _, err := svc.Create(context.Background(), gestion, in); !apperr.IsKind(err, apperr.KindValidation) {
			t.Errorf("create %+v: %v, want ValidationError", in, err)
		}
	}

	// Duplicate email is caught inside the transaction.
	ok := services.CreateUserInput{FullName: "A", Email: "dupe@uservalid.test", Department: models.DepartmentSupport, Password: "Str0ng#Pass"}
	if _, err := svc.Create(context.Background(), gestion, ok); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.Create(context.Background(), gestion, ok); !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("duplicate email: %v, want ValidationError", err)
	}
}

func TestUserUpdate(t *testing.T) {
	conn := setupTestDB(t, "user_update")
	gestion := seedUser(t, conn, "Admin", "admin@userupd.test", models.DepartmentGestion)
	target := seedUser(t, conn, "Paul", "paul@userupd.test", models.DepartmentSupport)

	svc := services.NewUserService(conn)
	dept := models.DepartmentCommercial
	updated, err := svc.Update(context.Background(), gestion, target.ID, services.UpdateUserInput{Department: &dept})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Department != models.DepartmentCommercial {
		t.Fatalf("department = %s, want COMMERCIAL", updated.Department)
	}

	if _, err := svc.Update(context.Background(), target, gestion.ID, services.UpdateUserInput{Department: &dept}); !apperr.IsKind(err, apperr.KindPermission) {
		t.Fatalf("non-gestion update: %v, want PermissionError", err)
	}
}

func TestUserUpdateDepartmentGuardsReferences(t *testing.T) {
	conn := setupTestDB(t, "user_update_dept")
	gestion := seedUser(t, conn, "Admin", "admin@userdept.test", models.DepartmentGestion)
	marie := seedUser(t, conn, "Marie", "marie@userdept.test", models.DepartmentCommercial)
	paul := seedUser(t, conn, "Paul", "paul@userdept.test", models.DepartmentSupport)
	client := seedClient(t, conn, marie.ID, "client@userdept.test")
	contract := seedContract(t, conn, client, 1000, 1000, models.ContractSigned)
	event := models.Event{ContractID: contract.ID, Name: "Gala", SupportContactID: &paul.ID}
	if err := conn.Create(&event).Error; err != nil {
		t.Fatalf("seed event: %v", err)
	}

	svc := services.NewUserService(conn)
	ctx := context.Background()

	// Marie owns a client and a contract; moving her out of COMMERCIAL would
	// leave them pointing at the wrong department.
	support := models.DepartmentSupport
	if _, err := svc.Update(ctx, gestion, marie.ID, services.UpdateUserInput{Department: &support}); !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("move referenced commercial: %v, want ValidationError", err)
	}
	var fresh models.User
	if err := conn.First(&fresh, marie.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if fresh.Department != models.DepartmentCommercial {
		t.Fatalf("department changed to %s despite references", fresh.Department)
	}

	// Paul has an assigned event; same protection.
	commercial := models.DepartmentCommercial
	if _, err := svc.Update(ctx, gestion, paul.ID, services.UpdateUserInput{Department: &commercial}); !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("move referenced support: %v, want ValidationError", err)
	}

	// Other fields still update while the department stays put.
	name := "Marie Martin-Durand"
	if _, err := svc.Update(ctx, gestion, marie.ID, services.UpdateUserInput{FullName: &name}); err != nil {
		t.Fatalf("rename referenced commercial: %v", err)
	}

	// An unreferenced account moves freely.
	idle := seedUser(t, conn, "Idle", "idle@userdept.test", models.DepartmentSupport)
	moved, err := svc.Update(ctx, gestion, idle.ID, services.UpdateUserInput{Department: &commercial})
	if err != nil {
		t.Fatalf("move unreferenced user: %v", err)
	}
	if moved.Department != models.DepartmentCommercial {
		t.Fatalf("department = %s, want COMMERCIAL", moved.Department)
	}
}

func TestUserChangePassword(t *testing.T) {
	conn := setupTestDB(t, "user_passwd")
	user := seedUser(t, conn, "Paul", "paul@userpasswd.test", models.DepartmentSupport)

	svc := services.NewUserService(conn)
	ctx := context.Background()

	if err := svc.ChangePassword(ctx, user, "wrong-current", "N3w#Secret1"); !apperr.IsKind(err, apperr.KindUnauthenticated) {
		t.Fatalf("wrong current password: %v, want UnauthenticatedError", err)
	}
	if err := svc.ChangePassword(ctx, user, "Secret#123", "weak"); !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("weak new password: %v, want ValidationError", err)
	}
	if err := svc.ChangePassword(ctx, user, "Secret#123", "N3w#Secret1"); err != nil {
		t.Fatalf("change password: %v", err)
	}

	var fresh models.User
	if err := conn.First(&fresh, user.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if fresh.PasswordHash == user.PasswordHash {
		t.Fatalf("hash unchanged after rotation")
	}
}

func TestUserDeleteGuards(t *testing.T) {
	conn := setupTestDB(t, "user_delete")
	gestion := seedUser(t, conn, "Admin", "admin@userdel.test", models.DepartmentGestion)
	marie := seedUser(t, conn, "Marie", "marie@userdel.test", models.DepartmentCommercial)
	idle := seedUser(t, conn, "Idle", "idle@userdel.test", models.DepartmentSupport)
	seedClient(t, conn, marie.ID, "client@userdel.test")

	svc := services.NewUserService(conn)
	ctx := context.Background()

	if err := svc.Delete(ctx, gestion, gestion.ID); !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("self-delete: %v, want ValidationError", err)
	}
	// Accounts still referenced by records are protected.
	if err := svc.Delete(ctx, gestion, marie.ID); !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("delete referenced commercial: %v, want ValidationError", err)
	}
	if err := svc.Delete(ctx, gestion, idle.ID); err != nil {
		t.Fatalf("delete unreferenced user: %v", err)
	}
	if err := svc.Delete(ctx, marie, idle.ID); !apperr.IsKind(err, apperr.KindPermission) {
		t.Fatalf("non-gestion delete: %v, want PermissionError", err)
	}
}

func TestUserListOnlyGestion(t *testing.T) {
	conn := setupTestDB(t, "user_list")
	gestion := seedUser(t, conn, "Admin", "admin@userlist.test", models.DepartmentGestion)
	marie := seedUser(t, conn, "Marie", "marie@userlist.test", models.DepartmentCommercial)

	svc := services.NewUserService(conn)
	users, err := svc.List(context.Background(), gestion)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("users = %d, want 2", len(users))
	}
	if _, err := svc.List(context.Background(), marie); !apperr.IsKind(err, apperr.KindPermission) {
		t.Fatalf("commercial list users: %v, want PermissionError", err)
	}
}
