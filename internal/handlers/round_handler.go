package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/playdigits/lotto-backend/internal/services"
)

// RoundHandler handles round HTTP requests
type RoundHandler struct {
	roundService *services.RoundService
}

// NewRoundHandler creates a new RoundHandler
func NewRoundHandler(roundService *services.RoundService) *RoundHandler {
	return &RoundHandler{roundService: roundService}
}

// GetCurrent handles GET /rounds/current
func (h *RoundHandler) GetCurrent(c *gin.Context) {
	round, err := h.roundService.Current(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "round": round})
}

// GetByID handles GET /rounds/:id
func (h *RoundHandler) GetByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "invalid round ID")
		return
	}
	round, err := h.roundService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "round": round})
}

// List handles GET /rounds
func (h *RoundHandler) List(c *gin.Context) {
	page, limit := pagination(c)
	rounds, err := h.roundService.List(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "rounds": rounds, "page": page, "limit": limit})
}

type openRoundRequest struct {
	StartTime time.Time `json:"startTime" binding:"required"`
	EndTime   time.Time `json:"endTime" binding:"required"`
}

// Open handles POST /admin/rounds
func (h *RoundHandler) Open(c *gin.Context) {
	var req openRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	round, err := h.roundService.Open(c.Request.Context(), req.StartTime, req.EndTime)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "round": round})
}

// SetResults handles POST /admin/rounds/:id/results
func (h *RoundHandler) SetResults(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "invalid round ID")
		return
	}
	var input services.ResultInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	summary, err := h.roundService.SetWinningNumbers(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "result": summary})
}

// ForceComplete handles POST /admin/rounds/:id/complete
func (h *RoundHandler) ForceComplete(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "invalid round ID")
		return
	}
	round, err := h.roundService.ForceComplete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "round": round})
}
