package services

import (
	"context"
	"errors"

	apperrors "ledger/internal/errors"
	"ledger/internal/events"
	"ledger/internal/identifier"
	"ledger/internal/logger"
	"ledger/internal/models"
	"ledger/internal/repository"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	store     repository.Store
	vocab     models.TypeVocabulary
	publisher events.Publisher
}

// NewTransactionService creates a new TransactionServicer. A nil publisher
// disables change events.
func NewTransactionService(store repository.Store, vocab models.TypeVocabulary, publisher events.Publisher) TransactionServicer {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &transactionService{
		store:     store,
		vocab:     vocab,
		publisher: publisher,
	}
}

// CreateTransaction validates and stores a new transaction.
func (s *transactionService) CreateTransaction(ctx context.Context, fields models.TransactionFields) (*models.Transaction, error) {
	tx, err := s.store.Create(ctx, fields)
	if err != nil {
		return nil, s.mapError(err, "create")
	}
	s.publish(ctx, events.NewEvent(events.ActionCreated, tx.ID, tx))
	return tx, nil
}

// ListTransactions returns every stored transaction in storage order.
func (s *transactionService) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	txs, err := s.store.List(ctx)
	if err != nil {
		return nil, s.mapError(err, "list")
	}
	return txs, nil
}

// GetTransaction retrieves a single transaction by ID.
func (s *transactionService) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	if !identifier.IsValid(id) {
		return nil, apperrors.ErrInvalidID
	}
	tx, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapError(err, "get")
	}
	return tx, nil
}

// UpdateTransaction merges the fields present into the stored transaction
// and returns the result.
func (s *transactionService) UpdateTransaction(ctx context.Context, id string, fields models.TransactionFields) (*models.Transaction, error) {
	if !identifier.IsValid(id) {
		return nil, apperrors.ErrInvalidID
	}
	tx, err := s.store.Update(ctx, id, fields)
	if err != nil {
		return nil, s.mapError(err, "update")
	}
	s.publish(ctx, events.NewEvent(events.ActionUpdated, tx.ID, tx))
	return tx, nil
}

// DeleteTransaction removes a transaction permanently.
func (s *transactionService) DeleteTransaction(ctx context.Context, id string) error {
	if !identifier.IsValid(id) {
		return apperrors.ErrInvalidID
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return s.mapError(err, "delete")
	}
	s.publish(ctx, events.NewEvent(events.ActionDeleted, id, nil))
	return nil
}

// ListByCategory returns transactions whose category matches exactly.
func (s *transactionService) ListByCategory(ctx context.Context, category string) ([]models.Transaction, error) {
	txs, err := s.store.FindByCategory(ctx, category)
	if err != nil {
		return nil, s.mapError(err, "filter by category")
	}
	return txs, nil
}

// ListByType returns transactions whose type contains variant, ignoring case.
func (s *transactionService) ListByType(ctx context.Context, variant string) ([]models.Transaction, error) {
	txs, err := s.store.FindByTypeContaining(ctx, variant)
	if err != nil {
		return nil, s.mapError(err, "filter by type")
	}
	return txs, nil
}

// Balance sums income minus expense over every stored transaction.
func (s *transactionService) Balance(ctx context.Context) (float64, error) {
	txs, err := s.store.List(ctx)
	if err != nil {
		return 0, s.mapError(err, "balance")
	}
	return ComputeBalance(txs, s.vocab), nil
}

// Vocabulary returns the configured type vocabulary.
func (s *transactionService) Vocabulary() models.TypeVocabulary {
	return s.vocab
}

// Health pings the store.
func (s *transactionService) Health(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return apperrors.Expose(apperrors.ErrStoreFailure, err)
	}
	return nil
}

// ComputeBalance adds income amounts and subtracts expense amounts. Types
// matching neither variant contribute nothing.
func ComputeBalance(txs []models.Transaction, vocab models.TypeVocabulary) float64 {
	var balance float64
	for _, tx := range txs {
		switch {
		case vocab.IsIncome(tx.Type):
			balance += tx.Amount
		case vocab.IsExpense(tx.Type):
			balance -= tx.Amount
		}
	}
	return balance
}

func (s *transactionService) mapError(err error, op string) error {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		return apperrors.WithMessage(apperrors.ErrValidation, verr.Error())
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.ErrTransactionNotFound
	default:
		logger.Get().Errorw("transaction store failure", "op", op, "error", err)
		return apperrors.Expose(apperrors.ErrStoreFailure, err)
	}
}

// publish sends event and logs a failure. Callers never see publish errors.
func (s *transactionService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Get().Warnw("failed to publish transaction event",
			"error", err,
			"action", event.Action,
			"transaction_id", event.TransactionID,
		)
	}
}
