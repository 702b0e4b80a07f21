package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/playdigits/lotto-backend/internal/game"
	"github.com/playdigits/lotto-backend/internal/repositories"
	"github.com/playdigits/lotto-backend/internal/services"
)

// respondError maps domain errors to HTTP statuses. Anything unrecognised
// is logged and reported as a generic 500 so internals never leak to the
// client.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "not found"})
	case errors.Is(err, repositories.ErrInsufficientBalance),
		errors.Is(err, repositories.ErrDuplicateSelection),
		errors.Is(err, game.ErrUnknownClass),
		errors.Is(err, game.ErrInvalidNumber),
		errors.Is(err, game.ErrClassMismatch),
		errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrStakeOutOfRange),
		errors.Is(err, services.ErrEmptyBatch),
		errors.Is(err, services.ErrNoActiveRound),
		errors.Is(err, services.ErrWindowLocked),
		errors.Is(err, services.ErrCancelWindowClosed),
		errors.Is(err, services.ErrNotCancellable),
		errors.Is(err, services.ErrRoundCompleted),
		errors.Is(err, services.ErrRoundOverlap),
		errors.Is(err, services.ErrInvalidWindow),
		errors.Is(err, services.ErrAlreadyDecided),
		errors.Is(err, services.ErrAccountBlocked):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, services.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": err.Error()})
	default:
		requestID, _ := c.Get("RequestID")
		slog.Error("request handling failed",
			"error", err,
			"path", c.Request.URL.Path,
			"requestId", requestID,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal server error"})
	}
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": message})
}

// pagination parses the standard page/limit query parameters
func pagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
