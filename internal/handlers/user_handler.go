package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/playdigits/lotto-backend/internal/middleware"
	"github.com/playdigits/lotto-backend/internal/models"
	"github.com/playdigits/lotto-backend/internal/services"
)

// UserHandler handles account HTTP requests
type UserHandler struct {
	userService   *services.UserService
	walletService *services.WalletService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *services.UserService, walletService *services.WalletService) *UserHandler {
	return &UserHandler{userService: userService, walletService: walletService}
}

// GetMe handles GET /me
func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.userService.Get(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// GetAllUsers handles GET /admin/users
func (h *UserHandler) GetAllUsers(c *gin.Context) {
	page, limit := pagination(c)
	users, err := h.userService.List(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	total, err := h.userService.Count(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "users": users, "total": total, "page": page, "limit": limit})
}

// GetUserCount handles GET /admin/users/count
func (h *UserHandler) GetUserCount(c *gin.Context) {
	total, err := h.userService.Count(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": total})
}

// GetUserByID handles GET /admin/users/:id
func (h *UserHandler) GetUserByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "invalid user ID")
		return
	}
	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

type blockRequest struct {
	Blocked bool `json:"blocked"`
}

// SetBlocked handles PUT /admin/users/:id/block
func (h *UserHandler) SetBlocked(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "invalid user ID")
		return
	}
	var req blockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	user, err := h.userService.SetBlocked(c.Request.Context(), id, req.Blocked)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

type walletAdjustRequest struct {
	Type   models.TransactionType `json:"type" binding:"required"`
	Amount float64                `json:"amount" binding:"required"`
	Note   string                 `json:"note"`
}

// AdjustWallet handles POST /admin/users/:id/wallet
func (h *UserHandler) AdjustWallet(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "invalid user ID")
		return
	}
	var req walletAdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if req.Type != models.TransactionCredit && req.Type != models.TransactionDebit {
		respondBadRequest(c, "type must be CREDIT or DEBIT")
		return
	}

	txn, err := h.walletService.AdminAdjust(c.Request.Context(), middleware.UserID(c), id, req.Type, req.Amount, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "transaction": txn})
}
