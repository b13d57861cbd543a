package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Myphz/wwwallet-be/internal/dto"
	"github.com/Myphz/wwwallet-be/internal/middleware"
	"github.com/Myphz/wwwallet-be/internal/monitoring"
	"github.com/Myphz/wwwallet-be/internal/services"
	apperrors "github.com/Myphz/wwwallet-be/pkg/errors"
	"github.com/Myphz/wwwallet-be/pkg/utils"
)

// TransactionController exposes the per-user ledger. Every handler resolves
// the owner from the session, so a transaction id from another account is
// simply not found.
type TransactionController struct {
	transactionService services.TransactionService
	metrics            monitoring.MetricsService
}

func NewTransactionController(transactionService services.TransactionService, metrics monitoring.MetricsService) *TransactionController {
	return &TransactionController{
		transactionService: transactionService,
		metrics:            metrics,
	}
}

// ListTransactions returns the full ledger grouped by crypto symbol.
func (tc *TransactionController) ListTransactions(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	ledger, err := tc.transactionService.ListTransactions(c.Request.Context(), userID)
	if err != nil {
		utils.SendError(c, err)
		return
	}

	utils.SendSuccessResponse(c, http.StatusOK, "Transactions retrieved successfully", ledger)
}

// CreateTransaction validates the new entry against the balance history and
// returns its id when accepted.
func (tc *TransactionController) CreateTransaction(c *gin.Context) {
	var req dto.TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err)
		return
	}

	userID := middleware.MustGetUserID(c)

	start := time.Now()
	id, err := tc.transactionService.CreateTransaction(c.Request.Context(), userID, &req)
	tc.record("create", err, time.Since(start))
	if err != nil {
		utils.SendError(c, err)
		return
	}

	utils.SendSuccessResponse(c, http.StatusCreated, "Transaction created successfully", dto.TransactionIDResponse{ID: id})
}

// UpdateTransaction replaces every field of an existing entry, revalidating
// the affected symbol buckets.
func (tc *TransactionController) UpdateTransaction(c *gin.Context) {
	var req dto.TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err)
		return
	}

	userID := middleware.MustGetUserID(c)

	start := time.Now()
	id, err := tc.transactionService.UpdateTransaction(c.Request.Context(), userID, c.Param("id"), &req)
	tc.record("update", err, time.Since(start))
	if err != nil {
		utils.SendError(c, err)
		return
	}

	utils.SendSuccessResponse(c, http.StatusOK, "Transaction updated successfully", dto.TransactionIDResponse{ID: id})
}

// DeleteTransaction removes an entry unless later sells would be left
// uncovered.
func (tc *TransactionController) DeleteTransaction(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	start := time.Now()
	err := tc.transactionService.DeleteTransaction(c.Request.Context(), userID, c.Param("id"))
	tc.record("delete", err, time.Since(start))
	if err != nil {
		utils.SendError(c, err)
		return
	}

	utils.SendSuccessResponse(c, http.StatusOK, "Transaction deleted successfully", nil)
}

// ClearTransactions wipes the whole ledger.
func (tc *TransactionController) ClearTransactions(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	start := time.Now()
	err := tc.transactionService.ClearTransactions(c.Request.Context(), userID)
	tc.record("clear", err, time.Since(start))
	if err != nil {
		utils.SendError(c, err)
		return
	}

	utils.SendSuccessResponse(c, http.StatusOK, "Transactions cleared successfully", nil)
}

func (tc *TransactionController) record(operation string, err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
		if errors.Is(err, apperrors.ErrBalanceNegative) {
			tc.metrics.IncrementBalanceRejections(operation)
		}
	}
	tc.metrics.RecordLedgerOperation(operation, status, duration)
}
