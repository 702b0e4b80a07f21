package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/playdigits/lotto-backend/internal/config"
	"github.com/playdigits/lotto-backend/internal/handlers"
	"github.com/playdigits/lotto-backend/internal/middleware"
)

// HandlerDependencies carries the constructed handlers into the router
type HandlerDependencies struct {
	Auth       *handlers.AuthHandler
	User       *handlers.UserHandler
	Bet        *handlers.BetHandler
	Round      *handlers.RoundHandler
	Wallet     *handlers.WalletHandler
	Withdrawal *handlers.WithdrawalHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		auth := public.Group("/auth")
		{
			auth.POST("/register", deps.Auth.Register)
			auth.POST("/login", deps.Auth.Login)
		}

		rounds := public.Group("/rounds")
		{
			rounds.GET("", deps.Round.List)
			rounds.GET("/current", deps.Round.GetCurrent)
			rounds.GET("/:id", deps.Round.GetByID)
		}
	}

	// Authenticated routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(cfg))
	{
		me := protected.Group("/me")
		{
			me.GET("", deps.User.GetMe)
			me.GET("/selections", deps.Bet.MySelections)
			me.GET("/transactions", deps.Wallet.MyTransactions)
			me.GET("/withdrawals", deps.Withdrawal.MyWithdrawals)
			me.POST("/deposit", deps.Wallet.Deposit)
		}

		bets := protected.Group("/bets")
		{
			bets.POST("", deps.Bet.PlaceBatch)
			bets.POST("/:id/cancel", deps.Bet.Cancel)
		}

		protected.POST("/withdrawals", deps.Withdrawal.Request)
	}

	// Admin routes
	admin := router.Group("/api/v1/admin")
	admin.Use(middleware.JWTAuthMiddleware(cfg), middleware.RequireAdmin())
	{
		rounds := admin.Group("/rounds")
		{
			rounds.POST("", deps.Round.Open)
			rounds.POST("/:id/results", deps.Round.SetResults)
			rounds.POST("/:id/complete", deps.Round.ForceComplete)
		}

		users := admin.Group("/users")
		{
			users.GET("", deps.User.GetAllUsers)
			users.GET("/count", deps.User.GetUserCount)
			users.GET("/:id", deps.User.GetUserByID)
			users.POST("/:id/block", deps.User.SetBlocked)
			users.POST("/:id/wallet", deps.User.AdjustWallet)
		}

		withdrawals := admin.Group("/withdrawals")
		{
			withdrawals.GET("", deps.Withdrawal.ListByStatus)
			withdrawals.POST("/:id/decide", deps.Withdrawal.Decide)
		}
	}

	return router
}
