package services

import (
	"context"

	"ledger/internal/models"
)

// TransactionServicer defines the contract for transaction-related business logic.
// Every error it returns is an *errors.AppError.
type TransactionServicer interface {
	CreateTransaction(ctx context.Context, fields models.TransactionFields) (*models.Transaction, error)
	ListTransactions(ctx context.Context) ([]models.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, id string, fields models.TransactionFields) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
	ListByCategory(ctx context.Context, category string) ([]models.Transaction, error)
	ListByType(ctx context.Context, variant string) ([]models.Transaction, error)
	Balance(ctx context.Context) (float64, error)
	Vocabulary() models.TypeVocabulary
	// Health reports whether the backing store is reachable.
	Health(ctx context.Context) error
}
