// Package repository persists transactions. Every implementation enforces the
// record constraints from the models package at write time.
package repository

import (
	"context"
	"errors"

	"ledger/internal/models"
)

var (
	// ErrNotFound is returned when no record has the requested identifier.
	ErrNotFound = errors.New("transaction not found")
	// ErrUnavailable is returned by a store that could not be opened.
	ErrUnavailable = errors.New("transaction store unavailable")
)

// Store is the persistence contract consumed by the transaction service.
// Identifiers passed in are expected to be well formed.
type Store interface {
	Create(ctx context.Context, fields models.TransactionFields) (*models.Transaction, error)
	List(ctx context.Context) ([]models.Transaction, error)
	FindByID(ctx context.Context, id string) (*models.Transaction, error)
	Update(ctx context.Context, id string, fields models.TransactionFields) (*models.Transaction, error)
	Delete(ctx context.Context, id string) error
	FindByCategory(ctx context.Context, category string) ([]models.Transaction, error)
	// FindByTypeContaining matches variant as a case-insensitive substring of type.
	FindByTypeContaining(ctx context.Context, variant string) ([]models.Transaction, error)
	Ping(ctx context.Context) error
}

// unavailableStore fails every call. It stands in for a store whose
// connection could not be established at startup.
type unavailableStore struct {
	cause error
}

// Unavailable returns a Store whose every operation fails with ErrUnavailable
// wrapping cause.
func Unavailable(cause error) Store {
	return &unavailableStore{cause: cause}
}

func (s *unavailableStore) err() error {
	if s.cause == nil {
		return ErrUnavailable
	}
	return errors.Join(ErrUnavailable, s.cause)
}

func (s *unavailableStore) Create(context.Context, models.TransactionFields) (*models.Transaction, error) {
	return nil, s.err()
}

func (s *unavailableStore) List(context.Context) ([]models.Transaction, error) {
	return nil, s.err()
}

func (s *unavailableStore) FindByID(context.Context, string) (*models.Transaction, error) {
	return nil, s.err()
}

func (s *unavailableStore) Update(context.Context, string, models.TransactionFields) (*models.Transaction, error) {
	return nil, s.err()
}

func (s *unavailableStore) Delete(context.Context, string) error {
	return s.err()
}

func (s *unavailableStore) FindByCategory(context.Context, string) ([]models.Transaction, error) {
	return nil, s.err()
}

func (s *unavailableStore) FindByTypeContaining(context.Context, string) ([]models.Transaction, error) {
	return nil, s.err()
}

func (s *unavailableStore) Ping(context.Context) error {
	return s.err()
}
