// Package tui implements the terminal view of the ledger: a controller that
// owns the list, form and filter state, and a bubbletea model that renders it.
package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"ledger/internal/models"
)

const requestTimeout = 15 * time.Second

// ErrIncompleteForm is stored in the error slot when Save is called with a
// blank required field.
var ErrIncompleteForm = errors.New("type, name, category and date are required")

// Facade is the data access the controller needs. *client.Client satisfies it.
type Facade interface {
	List(ctx context.Context) ([]models.Transaction, error)
	Create(ctx context.Context, fields models.TransactionFields) (*models.Transaction, error)
	Update(ctx context.Context, id string, fields models.TransactionFields) (*models.Transaction, error)
	Delete(ctx context.Context, id string) error
}

// Form holds the values being entered for a new or edited transaction.
type Form struct {
	Type     string
	Name     string
	Amount   float64
	Category string
	Date     string
}

func (f Form) complete() bool {
	return strings.TrimSpace(f.Type) != "" &&
		strings.TrimSpace(f.Name) != "" &&
		strings.TrimSpace(f.Category) != "" &&
		strings.TrimSpace(f.Date) != ""
}

func (f Form) fields() models.TransactionFields {
	amount := f.Amount
	return models.TransactionFields{
		Type:     &f.Type,
		Name:     &f.Name,
		Amount:   &amount,
		Category: &f.Category,
		Date:     &f.Date,
	}
}

// Filters narrow the visible list. Category is a case-insensitive substring
// match, Type an exact match. Empty values match everything.
type Filters struct {
	Category string
	Type     string
}

// LoadedMsg is produced when a list fetch settles.
type LoadedMsg struct {
	Transactions []models.Transaction
	Err          error
}

// SavedMsg is produced when a create or update settles.
type SavedMsg struct {
	Transaction *models.Transaction
	Err         error
}

// DeletedMsg is produced when a delete settles.
type DeletedMsg struct {
	ID  string
	Err error
}

// Controller holds the view state. It is not safe for concurrent use; the
// bubbletea update loop is its only caller.
type Controller struct {
	facade Facade
	vocab  models.TypeVocabulary

	all     []models.Transaction
	visible []models.Transaction

	Balance   float64
	Loading   bool
	Saving    bool
	Err       string
	Form      Form
	EditingID string
	Filters   Filters
}

// NewController creates a controller backed by facade. vocab decides which
// type counts as income in the displayed balance.
func NewController(facade Facade, vocab models.TypeVocabulary) *Controller {
	return &Controller{facade: facade, vocab: vocab}
}

// Transactions returns the visible list.
func (c *Controller) Transactions() []models.Transaction {
	return c.visible
}

// All returns the last fetched list, unfiltered.
func (c *Controller) All() []models.Transaction {
	return c.all
}

// Load starts a list fetch.
func (c *Controller) Load() tea.Cmd {
	c.Err = ""
	c.Loading = true
	facade := c.facade
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		txs, err := facade.List(ctx)
		return LoadedMsg{Transactions: txs, Err: err}
	}
}

// Save creates a transaction from the form, or updates the one being edited.
// A form with a blank required field sets Err and issues no request.
func (c *Controller) Save() tea.Cmd {
	c.Err = ""
	if !c.Form.complete() {
		c.Err = ErrIncompleteForm.Error()
		return nil
	}

	c.Saving = true
	facade, id, fields := c.facade, c.EditingID, c.Form.fields()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		var (
			tx  *models.Transaction
			err error
		)
		if id != "" {
			tx, err = facade.Update(ctx, id, fields)
		} else {
			tx, err = facade.Create(ctx, fields)
		}
		return SavedMsg{Transaction: tx, Err: err}
	}
}

// Delete removes the transaction with id. An empty id is ignored.
func (c *Controller) Delete(id string) tea.Cmd {
	if id == "" {
		return nil
	}
	c.Err = ""
	c.Loading = true
	facade := c.facade
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		return DeletedMsg{ID: id, Err: facade.Delete(ctx, id)}
	}
}

// BeginEdit copies tx into the form and switches Save to update mode.
func (c *Controller) BeginEdit(tx models.Transaction) {
	c.EditingID = tx.ID
	c.Form = Form{
		Type:     tx.Type,
		Name:     tx.Name,
		Amount:   tx.Amount,
		Category: tx.Category,
		Date:     tx.Date,
	}
}

// CancelEdit clears the form and leaves edit mode.
func (c *Controller) CancelEdit() {
	c.EditingID = ""
	c.Form = Form{}
}

// SetFilters replaces the active filters and recomputes the visible list
// from the last fetched list.
func (c *Controller) SetFilters(f Filters) {
	c.Filters = f
	c.recompute()
}

// Handle applies a settled result and returns any follow-up command. Messages
// it does not know are ignored.
func (c *Controller) Handle(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case LoadedMsg:
		c.Loading = false
		if msg.Err != nil {
			c.Err = msg.Err.Error()
			return nil
		}
		c.all = msg.Transactions
		c.recompute()
		return nil

	case SavedMsg:
		c.Saving = false
		if msg.Err != nil {
			c.Err = msg.Err.Error()
			return nil
		}
		c.CancelEdit()
		return c.Load()

	case DeletedMsg:
		c.Loading = false
		if msg.Err != nil {
			c.Err = msg.Err.Error()
			return nil
		}
		if c.EditingID == msg.ID {
			c.CancelEdit()
		}
		return c.Load()
	}
	return nil
}

func (c *Controller) recompute() {
	category := strings.ToLower(c.Filters.Category)

	visible := make([]models.Transaction, 0, len(c.all))
	var balance float64
	for _, tx := range c.all {
		if c.vocab.IsIncome(tx.Type) {
			balance += tx.Amount
		} else {
			balance -= tx.Amount
		}

		if category != "" && !strings.Contains(strings.ToLower(tx.Category), category) {
			continue
		}
		if c.Filters.Type != "" && tx.Type != c.Filters.Type {
			continue
		}
		visible = append(visible, tx)
	}

	c.visible = visible
	c.Balance = balance
}

// Drive runs cmd and every command it leads to, feeding each message back
// through Handle. It is how non-interactive callers use the controller.
func Drive(c *Controller, cmd tea.Cmd) {
	for cmd != nil {
		cmd = c.Handle(cmd())
	}
}
