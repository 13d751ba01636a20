package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "ledger/internal/errors"
	"ledger/internal/models"
	"ledger/internal/services"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// TransactionRequest is the write payload. On update every field is optional.
type TransactionRequest struct {
	Type     *string  `json:"type" example:"Receita"`
	Name     *string  `json:"name" example:"Salário"`
	Amount   *float64 `json:"amount" example:"5000"`
	Category *string  `json:"category" example:"Trabalho"`
	Date     *string  `json:"date" example:"2024-01-05"`

	// nulls lists the fields sent as an explicit JSON null.
	nulls []string
}

var requestFields = []string{"type", "name", "amount", "category", "date"}

// UnmarshalJSON decodes the payload and records fields set to null, which
// the pointer fields alone cannot tell apart from absent ones.
func (r *TransactionRequest) UnmarshalJSON(data []byte) error {
	type plain TransactionRequest
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, name := range requestFields {
		if v, ok := raw[name]; ok && string(v) == "null" {
			decoded.nulls = append(decoded.nulls, name)
		}
	}

	*r = TransactionRequest(decoded)
	return nil
}

// nullError reports every field cleared with null as a validation failure.
func (r TransactionRequest) nullError() error {
	if len(r.nulls) == 0 {
		return nil
	}
	verr := &models.ValidationError{}
	for _, name := range r.nulls {
		verr.Fields = append(verr.Fields, models.FieldError{Field: name, Message: "must not be null"})
	}
	return apperrors.WithMessage(apperrors.ErrValidation, verr.Error())
}

func (r TransactionRequest) fields() models.TransactionFields {
	return models.TransactionFields{
		Type:     r.Type,
		Name:     r.Name,
		Amount:   r.Amount,
		Category: r.Category,
		Date:     r.Date,
	}
}

// DeleteResponse acknowledges a deletion.
type DeleteResponse struct {
	OK      bool   `json:"ok" example:"true"`
	Message string `json:"message" example:"Transaction deleted"`
}

// BalanceResponse carries the computed balance.
type BalanceResponse struct {
	Balance float64 `json:"balance" example:"4970"`
}

// CreateTransaction handles the creation of a new transaction
// @Summary     Create a transaction
// @Description Create a transaction; every field is required
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       request body TransactionRequest true "Transaction details"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Store failure"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	tx, err := h.transactionService.CreateTransaction(c.Request.Context(), req.fields())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, tx)
}

// ListTransactions returns every transaction
// @Summary     List transactions
// @Description List all transactions in storage order
// @Tags        transactions
// @Produce     json
// @Success     200 {array}  models.Transaction
// @Failure     500 {object} ErrorResponse "Store failure"
// @Router      /transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	txs, err := h.transactionService.ListTransactions(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, txs)
}

// GetTransaction returns a single transaction
// @Summary     Get a transaction
// @Tags        transactions
// @Produce     json
// @Param       id  path     string true "Transaction ID"
// @Success     200 {object} models.Transaction
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Store failure"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	id, err := bindTransactionID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tx, err := h.transactionService.GetTransaction(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}

// UpdateTransaction merges the supplied fields into a transaction
// @Summary     Update a transaction
// @Description Partial update; omitted fields keep their stored values
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       id      path string             true "Transaction ID"
// @Param       request body TransactionRequest true "Fields to change"
// @Success     200 {object} models.Transaction "Updated transaction"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Store failure"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	id, err := bindTransactionID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	if err := req.nullError(); err != nil {
		respondWithError(c, err)
		return
	}

	tx, err := h.transactionService.UpdateTransaction(c.Request.Context(), id, req.fields())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}

// DeleteTransaction removes a transaction
// @Summary     Delete a transaction
// @Tags        transactions
// @Produce     json
// @Param       id  path     string true "Transaction ID"
// @Success     200 {object} DeleteResponse
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Store failure"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	id, err := bindTransactionID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, DeleteResponse{OK: true, Message: "Transaction deleted"})
}

// ListByCategory returns transactions in a category
// @Summary     Filter by category
// @Description Exact, case-sensitive category match
// @Tags        transactions
// @Produce     json
// @Param       category path    string true "Category"
// @Success     200 {array}  models.Transaction
// @Failure     500 {object} ErrorResponse "Store failure"
// @Router      /transactions/category/{category} [get]
func (h *TransactionHandler) ListByCategory(c *gin.Context) {
	txs, err := h.transactionService.ListByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, txs)
}

// ListByType returns a handler serving transactions whose type contains
// variant, ignoring case. One route is mounted per configured variant.
func (h *TransactionHandler) ListByType(variant string) gin.HandlerFunc {
	return func(c *gin.Context) {
		txs, err := h.transactionService.ListByType(c.Request.Context(), variant)
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, txs)
	}
}

// GetBalance returns income minus expense over every transaction
// @Summary     Get balance
// @Description Income variant adds, expense variant subtracts, other types count zero
// @Tags        balance
// @Produce     json
// @Success     200 {object} BalanceResponse
// @Failure     500 {object} ErrorResponse "Store failure"
// @Router      /balance [get]
func (h *TransactionHandler) GetBalance(c *gin.Context) {
	balance, err := h.transactionService.Balance(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, BalanceResponse{Balance: balance})
}
