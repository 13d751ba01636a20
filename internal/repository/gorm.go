package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"ledger/internal/models"
)

// likeEscaper escapes LIKE wildcards so a variant is matched literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// GormStore keeps transactions in a SQL database through GORM. It backs the
// postgres and sqlite drivers.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a GormStore over db. The transactions table must
// already exist.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Create validates fields and inserts a new record.
func (s *GormStore) Create(ctx context.Context, fields models.TransactionFields) (*models.Transaction, error) {
	tx, err := models.NewTransaction(fields)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(tx).Error; err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}
	return tx, nil
}

// List returns every record in identifier (creation) order.
func (s *GormStore) List(ctx context.Context) ([]models.Transaction, error) {
	var txs []models.Transaction
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return nonNil(txs), nil
}

// FindByID returns the record with the given identifier.
func (s *GormStore) FindByID(ctx context.Context, id string) (*models.Transaction, error) {
	var tx models.Transaction
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&tx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find transaction: %w", err)
	}
	return &tx, nil
}

// Update validates the fields present and merges them into the stored record.
func (s *GormStore) Update(ctx context.Context, id string, fields models.TransactionFields) (*models.Transaction, error) {
	fields = fields.Normalize()
	if err := fields.Validate(false); err != nil {
		return nil, err
	}
	if fields.IsEmpty() {
		return s.FindByID(ctx, id)
	}

	var updated models.Transaction
	err := s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		result := db.Model(&models.Transaction{}).Where("id = ?", id).Updates(fields.Columns())
		if result.Error != nil {
			return fmt.Errorf("update transaction: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := db.Where("id = ?", id).First(&updated).Error; err != nil {
			return fmt.Errorf("reload transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the record with the given identifier.
func (s *GormStore) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Transaction{})
	if result.Error != nil {
		return fmt.Errorf("delete transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FindByCategory returns records whose category equals category exactly.
func (s *GormStore) FindByCategory(ctx context.Context, category string) ([]models.Transaction, error) {
	var txs []models.Transaction
	if err := s.db.WithContext(ctx).Where("category = ?", category).Order("id ASC").Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("filter by category: %w", err)
	}
	return nonNil(txs), nil
}

// FindByTypeContaining returns records whose type contains variant, ignoring
// case. Only postgres folds non-ASCII letters in LOWER, so other dialects
// filter in Go.
func (s *GormStore) FindByTypeContaining(ctx context.Context, variant string) ([]models.Transaction, error) {
	if s.db.Dialector.Name() != "postgres" {
		return s.filterTypeInMemory(ctx, variant)
	}

	pattern := "%" + likeEscaper.Replace(strings.ToLower(variant)) + "%"

	var txs []models.Transaction
	if err := s.db.WithContext(ctx).
		Where(`LOWER(type) LIKE ? ESCAPE '\'`, pattern).
		Order("id ASC").
		Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("filter by type: %w", err)
	}
	return nonNil(txs), nil
}

func (s *GormStore) filterTypeInMemory(ctx context.Context, variant string) ([]models.Transaction, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("filter by type: %w", err)
	}
	needle := strings.ToLower(variant)
	matches := make([]models.Transaction, 0, len(all))
	for _, tx := range all {
		if strings.Contains(strings.ToLower(tx.Type), needle) {
			matches = append(matches, tx)
		}
	}
	return matches, nil
}

// Ping checks the underlying connection.
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get underlying DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func nonNil(txs []models.Transaction) []models.Transaction {
	if txs == nil {
		return []models.Transaction{}
	}
	return txs
}
