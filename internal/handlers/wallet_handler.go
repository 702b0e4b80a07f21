package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/playdigits/lotto-backend/internal/middleware"
	"github.com/playdigits/lotto-backend/internal/services"
)

// WalletHandler handles wallet HTTP requests
type WalletHandler struct {
	walletService *services.WalletService
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(walletService *services.WalletService) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

// MyTransactions handles GET /me/transactions
func (h *WalletHandler) MyTransactions(c *gin.Context) {
	page, limit := pagination(c)
	txns, err := h.walletService.Transactions(c.Request.Context(), middleware.UserID(c), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "transactions": txns, "page": page, "limit": limit})
}

type depositRequest struct {
	Amount      float64 `json:"amount" binding:"required"`
	Description string  `json:"description"`
}

// Deposit handles POST /me/deposit
func (h *WalletHandler) Deposit(c *gin.Context) {
	var req depositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if req.Description == "" {
		req.Description = "wallet deposit"
	}

	txn, err := h.walletService.Deposit(c.Request.Context(), middleware.UserID(c), req.Amount, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "transaction": txn})
}
