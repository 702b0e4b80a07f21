package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/playdigits/lotto-backend/api/routes"
	"github.com/playdigits/lotto-backend/internal/config"
	"github.com/playdigits/lotto-backend/internal/events"
	"github.com/playdigits/lotto-backend/internal/game"
	"github.com/playdigits/lotto-backend/internal/handlers"
	"github.com/playdigits/lotto-backend/internal/repositories"
	mongorepo "github.com/playdigits/lotto-backend/internal/repositories/mongodb"
	"github.com/playdigits/lotto-backend/internal/services"
	"github.com/playdigits/lotto-backend/pkg/mongodb"
)

func main() {
	// .env is optional; real deployments set environment variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	setupLogger(cfg.LogLevel)

	if cfg.JWT.Secret == "" {
		log.Fatal("JWT secret is not configured")
	}

	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			slog.Error("error disconnecting from MongoDB", "error", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}

	var userRepo repositories.UserRepository = mongorepo.NewUserRepository(db)
	var roundRepo repositories.RoundRepository = mongorepo.NewRoundRepository(db)
	var selectionRepo repositories.SelectionRepository = mongorepo.NewSelectionRepository(db)
	var txnRepo repositories.WalletTransactionRepository = mongorepo.NewWalletTransactionRepository(db)
	var withdrawalRepo repositories.WithdrawalRepository = mongorepo.NewWithdrawalRepository(db)

	multipliers := game.Multipliers{
		ClassA: cfg.Game.ClassAMultiplier,
		ClassB: cfg.Game.ClassBMultiplier,
		ClassC: cfg.Game.ClassCMultiplier,
		ClassD: cfg.Game.ClassDMultiplier,
	}
	publisher := events.NewLogPublisher()

	walletService := services.NewWalletService(userRepo, txnRepo, mongoClient)
	authService := services.NewAuthService(userRepo, cfg.JWT)
	userService := services.NewUserService(userRepo)
	betService := services.NewBetService(roundRepo, selectionRepo, userRepo, walletService, cfg.Game)
	roundService := services.NewRoundService(roundRepo, selectionRepo, userRepo, walletService, multipliers, publisher)
	withdrawalService := services.NewWithdrawalService(withdrawalRepo, userRepo, walletService)

	if err := authService.EnsureAdmin(ctx, cfg.Admin); err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	}

	scheduler, err := services.NewSchedulerService(roundRepo, roundService, cfg.Game)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Shutdown(); err != nil {
			slog.Error("error shutting down scheduler", "error", err)
		}
	}()

	handlerDeps := routes.HandlerDependencies{
		Auth:       handlers.NewAuthHandler(authService),
		User:       handlers.NewUserHandler(userService, walletService),
		Bet:        handlers.NewBetHandler(betService),
		Round:      handlers.NewRoundHandler(roundService),
		Wallet:     handlers.NewWalletHandler(walletService),
		Withdrawal: handlers.NewWithdrawalHandler(withdrawalService),
	}
	router := routes.SetupRouter(cfg, handlerDeps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	slog.Info("server exited")
}

func setupLogger(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})))
}
