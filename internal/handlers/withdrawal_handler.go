package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/playdigits/lotto-backend/internal/middleware"
	"github.com/playdigits/lotto-backend/internal/models"
	"github.com/playdigits/lotto-backend/internal/services"
)

// WithdrawalHandler handles withdrawal HTTP requests
type WithdrawalHandler struct {
	withdrawalService *services.WithdrawalService
}

// NewWithdrawalHandler creates a new WithdrawalHandler
func NewWithdrawalHandler(withdrawalService *services.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawalService: withdrawalService}
}

type withdrawalRequest struct {
	Amount  float64 `json:"amount" binding:"required"`
	Account string  `json:"account" binding:"required"`
}

// Request handles POST /withdrawals
func (h *WithdrawalHandler) Request(c *gin.Context) {
	var req withdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	withdrawal, err := h.withdrawalService.Request(c.Request.Context(), middleware.UserID(c), req.Amount, req.Account)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "withdrawal": withdrawal})
}

// MyWithdrawals handles GET /me/withdrawals
func (h *WithdrawalHandler) MyWithdrawals(c *gin.Context) {
	page, limit := pagination(c)
	withdrawals, err := h.withdrawalService.ForUser(c.Request.Context(), middleware.UserID(c), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "withdrawals": withdrawals, "page": page, "limit": limit})
}

// ListByStatus handles GET /admin/withdrawals
func (h *WithdrawalHandler) ListByStatus(c *gin.Context) {
	status := models.WithdrawalStatus(c.DefaultQuery("status", string(models.WithdrawalStatusPending)))
	switch status {
	case models.WithdrawalStatusPending, models.WithdrawalStatusApproved, models.WithdrawalStatusRejected:
	default:
		respondBadRequest(c, "status must be PENDING, APPROVED or REJECTED")
		return
	}

	page, limit := pagination(c)
	withdrawals, err := h.withdrawalService.ByStatus(c.Request.Context(), status, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "withdrawals": withdrawals, "page": page, "limit": limit})
}

type decideRequest struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note"`
}

// Decide handles POST /admin/withdrawals/:id/decide
func (h *WithdrawalHandler) Decide(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "invalid withdrawal ID")
		return
	}
	var req decideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	withdrawal, err := h.withdrawalService.Decide(c.Request.Context(), middleware.UserID(c), id, req.Approve, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "withdrawal": withdrawal})
}
