package db

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/epicevents/crm/internal/models"
)

func TestConnectCreatesSQLiteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "crm.db")
	conn, err := Connect(path)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	// Schema is in place after Connect.
	if !conn.Migrator().HasTable(&models.User{}) {
		t.Fatalf("users table missing after migration")
	}
	if !conn.Migrator().HasTable(&models.Event{}) {
		t.Fatalf("events table missing after migration")
	}
}

func TestConnectRejectsEmptyDSN(t *testing.T) {
	if _, err := Connect("   "); err == nil {
		t.Fatalf("empty dsn accepted")
	}
}

func TestSeed(t *testing.T) {
	conn, err := Connect(filepath.Join(t.TempDir(), "seed.db"))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}

	if _, err := Seed(conn, "Admin", "admin@seed.test", "weak"); err == nil {
		t.Fatalf("weak bootstrap password accepted")
	}

	user, err := Seed(conn, "Admin", "admin@seed.test", "Str0ng#Pass")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if user.Department != models.DepartmentGestion {
		t.Fatalf("department = %s, want GESTION", user.Department)
	}
	if user.EmployeeNumber == "" {
		t.Fatalf("no employee number assigned")
	}

	// Seeding is one-shot.
	if _, err := Seed(conn, "Again", "again@seed.test", "Str0ng#Pass"); !errors.Is(err, ErrAlreadySeeded) {
		t.Fatalf("second seed: %v, want ErrAlreadySeeded", err)
	}
}
