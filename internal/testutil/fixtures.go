package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"ledger/internal/models"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// StrPtr returns a pointer to s.
func StrPtr(s string) *string { return &s }

// FloatPtr returns a pointer to f.
func FloatPtr(f float64) *float64 { return &f }

// ValidFields returns a complete, valid payload with a unique name.
func ValidFields(txType string, amount float64) models.TransactionFields {
	return models.TransactionFields{
		Type:     StrPtr(txType),
		Name:     StrPtr(fmt.Sprintf("Test Transaction %d", nextID())),
		Amount:   FloatPtr(amount),
		Category: StrPtr("General"),
		Date:     StrPtr("2024-01-05"),
	}
}

// CreateTestTransaction inserts a transaction of the given type and amount.
func CreateTestTransaction(t *testing.T, db *gorm.DB, txType string, amount float64) *models.Transaction {
	t.Helper()
	return CreateTestTransactionInCategory(t, db, txType, amount, "General")
}

// CreateTestTransactionInCategory inserts a transaction in the given category.
func CreateTestTransactionInCategory(t *testing.T, db *gorm.DB, txType string, amount float64, category string) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		Type:     txType,
		Name:     fmt.Sprintf("Test Transaction %d", nextID()),
		Amount:   amount,
		Category: category,
		Date:     "2024-01-05",
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CountTransactions returns the number of stored transactions.
func CountTransactions(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var n int64
	if err := db.Model(&models.Transaction{}).Count(&n).Error; err != nil {
		t.Fatalf("failed to count transactions: %v", err)
	}
	return n
}
