package services_test

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/epicevents/crm/internal/auth"
	"github.com/epicevents/crm/internal/models"
)

// testPasswordHash is shared by every seeded user; it is the bcrypt hash of
// "Secret#123", computed once because hashing dominates test runtime.
var testPasswordHash string

func init() {
	hash, err := auth.HashPassword("Secret#123")
	if err != nil {
		panic(err)
	}
	testPasswordHash = hash
}

var employeeSeq atomic.Uint64

// setupTestDB opens a named shared-cache in-memory database. Each test uses
// its own name so state never leaks between tests.
func setupTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}, &models.Client{}, &models.Contract{}, &models.Event{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func seedUser(t *testing.T, conn *gorm.DB, fullName, email string, dept models.Department) *models.User {
	t.Helper()
	user := models.User{
		EmployeeNumber: fmt.Sprintf("EE%06d", employeeSeq.Add(1)),
		FullName:       fullName,
		Email:          email,
		Department:     dept,
		PasswordHash:   testPasswordHash,
	}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return &user
}

func seedClient(t *testing.T, conn *gorm.DB, commercialID uint, email string) *models.Client {
	t.Helper()
	client := models.Client{
		FullName:            "Test Contact",
		Email:               email,
		Company:             "Test Co",
		CommercialContactID: commercialID,
	}
	if err := conn.Create(&client).Error; err != nil {
		t.Fatalf("seed client %s: %v", email, err)
	}
	return &client
}

func seedContract(t *testing.T, conn *gorm.DB, client *models.Client, total, due float64, status models.ContractStatus) *models.Contract {
	t.Helper()
	contract := models.Contract{
		ClientID:            client.ID,
		CommercialContactID: client.CommercialContactID,
		TotalAmount:         total,
		AmountDue:           due,
		Status:              status,
	}
	if err := conn.Create(&contract).Error; err != nil {
		t.Fatalf("seed contract: %v", err)
	}
	return &contract
}
