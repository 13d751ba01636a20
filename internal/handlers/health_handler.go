package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "ledger/internal/errors"
	"ledger/internal/services"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	transactionService services.TransactionServicer
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(transactionService services.TransactionServicer) *HealthHandler {
	return &HealthHandler{transactionService: transactionService}
}

// MessageResponse carries a plain status message.
type MessageResponse struct {
	Message string `json:"message" example:"API running"`
}

// HealthResponse reports store reachability.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Store  string `json:"store" example:"ok"`
}

// Root reports that the API process is up
// @Summary     API status
// @Tags        health
// @Produce     json
// @Success     200 {object} MessageResponse
// @Router      / [get]
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, MessageResponse{Message: "API running"})
}

// Health pings the transaction store
// @Summary     Health check
// @Description Reports whether the transaction store is reachable
// @Tags        health
// @Produce     json
// @Success     200 {object} HealthResponse
// @Failure     503 {object} HealthResponse
// @Router      /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	if err := h.transactionService.Health(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "degraded", Store: err.Error()})
		return
	}
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Store: "ok"})
}

// NotFound answers requests that match no route.
func NotFound(c *gin.Context) {
	respondWithError(c, apperrors.ErrNotFound)
}
