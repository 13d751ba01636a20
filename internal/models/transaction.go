package models

import (
	"strings"

	"gorm.io/gorm"

	"ledger/internal/identifier"
)

// Transaction represents a single income or expense entry in the ledger.
type Transaction struct {
	ID       string  `gorm:"primaryKey;size:24" json:"id"`
	Type     string  `gorm:"not null" json:"type"`
	Name     string  `gorm:"not null" json:"name"`
	Amount   float64 `gorm:"not null" json:"amount"`
	Category string  `gorm:"not null;index" json:"category"`
	Date     string  `gorm:"not null" json:"date"`
}

// TableName pins the table name used by the SQL backends.
func (Transaction) TableName() string {
	return "transactions"
}

// BeforeCreate hook assigns an identifier to new records.
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = identifier.New()
	}
	return nil
}

// TransactionFields is the write payload for a transaction. A nil field is
// absent: create requires every field, update only touches the ones set.
type TransactionFields struct {
	Type     *string  `json:"type,omitempty"`
	Name     *string  `json:"name,omitempty"`
	Amount   *float64 `json:"amount,omitempty"`
	Category *string  `json:"category,omitempty"`
	Date     *string  `json:"date,omitempty"`
}

// Normalize returns a copy with type, name and category trimmed.
func (f TransactionFields) Normalize() TransactionFields {
	out := f
	out.Type = trimmed(f.Type)
	out.Name = trimmed(f.Name)
	out.Category = trimmed(f.Category)
	return out
}

// IsEmpty reports whether no field is set.
func (f TransactionFields) IsEmpty() bool {
	return f.Type == nil && f.Name == nil && f.Amount == nil && f.Category == nil && f.Date == nil
}

// ApplyTo copies every set field onto t.
func (f TransactionFields) ApplyTo(t *Transaction) {
	if f.Type != nil {
		t.Type = *f.Type
	}
	if f.Name != nil {
		t.Name = *f.Name
	}
	if f.Amount != nil {
		t.Amount = *f.Amount
	}
	if f.Category != nil {
		t.Category = *f.Category
	}
	if f.Date != nil {
		t.Date = *f.Date
	}
}

// Columns returns the set fields keyed by their stored column name.
func (f TransactionFields) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if f.Type != nil {
		cols["type"] = *f.Type
	}
	if f.Name != nil {
		cols["name"] = *f.Name
	}
	if f.Amount != nil {
		cols["amount"] = *f.Amount
	}
	if f.Category != nil {
		cols["category"] = *f.Category
	}
	if f.Date != nil {
		cols["date"] = *f.Date
	}
	return cols
}

// NewTransaction normalizes and validates f as a complete record. The
// returned transaction has no ID yet.
func NewTransaction(f TransactionFields) (*Transaction, error) {
	f = f.Normalize()
	if err := f.Validate(true); err != nil {
		return nil, err
	}
	t := &Transaction{}
	f.ApplyTo(t)
	return t, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
