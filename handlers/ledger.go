package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fintrack/fintrack-api/middleware"
	"github.com/fintrack/fintrack-api/models"
	"github.com/fintrack/fintrack-api/services"
)

type LedgerHandler struct {
	Ledger *services.LedgerService
	WS     *WSHandler
}

func NewLedgerHandler(ledger *services.LedgerService, ws *WSHandler) *LedgerHandler {
	return &LedgerHandler{Ledger: ledger, WS: ws}
}

// Index lists the user's transactions, newest first, with the category list
// the edit form needs.
func (h *LedgerHandler) Index(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	transactions, err := h.Ledger.ListForUser(c.Request.Context(), userID, nil, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
		return
	}

	categories, err := h.Ledger.Categories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": transactions,
		"categories":   categories,
	})
}

// AddOrEditForm returns a blank form model for id 0 and the stored
// transaction otherwise.
func (h *LedgerHandler) AddOrEditForm(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id := 0
	if raw := c.Query("id"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction id"})
			return
		}
		id = parsed
	}

	categories, err := h.Ledger.Categories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}

	if id == 0 {
		c.JSON(http.StatusOK, gin.H{
			"transaction": models.Transaction{},
			"categories":  categories,
		})
		return
	}

	transaction, err := h.Ledger.Get(c.Request.Context(), userID, id)
	if errors.Is(err, services.ErrNotOwned) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transaction": transaction,
		"categories":  categories,
	})
}

// AddOrEdit upserts a transaction: id 0 inserts, any other id updates the
// caller's own row.
func (h *LedgerHandler) AddOrEdit(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transaction, err := h.Ledger.Upsert(c.Request.Context(), userID, req)
	switch {
	case errors.Is(err, services.ErrUnknownCategory):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please choose a valid category"})
		return
	case errors.Is(err, services.ErrNotOwned):
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save transaction"})
		return
	}

	h.WS.BroadcastUpdate(userID, "transaction_saved")

	c.JSON(http.StatusOK, gin.H{
		"transaction": transaction,
		"redirect_to": "/Transaction/Index",
	})
}

// Delete removes the transaction. Deleting a row that is already gone still
// succeeds.
func (h *LedgerHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction id"})
		return
	}

	if err := h.Ledger.Delete(c.Request.Context(), userID, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete transaction"})
		return
	}

	h.WS.BroadcastUpdate(userID, "transaction_deleted")

	c.JSON(http.StatusOK, gin.H{"redirect_to": "/Transaction/Index"})
}
