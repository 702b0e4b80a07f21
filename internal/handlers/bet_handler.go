package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/playdigits/lotto-backend/internal/middleware"
	"github.com/playdigits/lotto-backend/internal/services"
)

// BetHandler handles selection placement HTTP requests
type BetHandler struct {
	betService *services.BetService
}

// NewBetHandler creates a new BetHandler
func NewBetHandler(betService *services.BetService) *BetHandler {
	return &BetHandler{betService: betService}
}

type placeBatchRequest struct {
	Selections []services.PlaceSelectionInput `json:"selections" binding:"required"`
}

// PlaceBatch handles POST /bets. Accepts either a batch envelope or a bare
// array of selections.
func (h *BetHandler) PlaceBatch(c *gin.Context) {
	var items []services.PlaceSelectionInput
	var req placeBatchRequest
	if err := c.ShouldBindBodyWithJSON(&req); err == nil && len(req.Selections) > 0 {
		items = req.Selections
	} else if err := c.ShouldBindBodyWithJSON(&items); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	result, err := h.betService.PlaceBatch(c.Request.Context(), middleware.UserID(c), items)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusCreated
	if len(result.Selections) == 0 {
		// Every item failed validation or funding.
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{
		"success":       len(result.Selections) > 0,
		"roundId":       result.RoundID,
		"items":         result.Items,
		"selections":    result.Selections,
		"walletBalance": result.WalletBalance,
	})
}

// Cancel handles POST /bets/:id/cancel
func (h *BetHandler) Cancel(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "invalid selection ID")
		return
	}

	selection, err := h.betService.Cancel(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "selection": selection})
}

// MySelections handles GET /me/bets
func (h *BetHandler) MySelections(c *gin.Context) {
	page, limit := pagination(c)
	selections, err := h.betService.SelectionsForUser(c.Request.Context(), middleware.UserID(c), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "selections": selections, "page": page, "limit": limit})
}
