package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/playdigits/lotto-backend/internal/game"
	"github.com/playdigits/lotto-backend/internal/models"
)

// Sentinel errors shared by all repository implementations. Services match
// on these instead of driver-specific errors.
var (
	ErrNotFound            = errors.New("not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrDuplicateSelection  = errors.New("selection already exists for this number")
)

// TxnRunner runs a function inside a database transaction where the
// deployment supports one. pkg/mongodb.Client implements it.
type TxnRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	FindAll(ctx context.Context, page, limit int) ([]*models.User, error)
	Count(ctx context.Context) (int64, error)
	CountByRole(ctx context.Context, role string) (int64, error)
	SetBlocked(ctx context.Context, id primitive.ObjectID, blocked bool) error
	// AdjustBalance atomically applies delta to walletBalance, refusing to
	// take the balance below zero. Returns the balance before and after the
	// adjustment. ErrInsufficientBalance when the guard rejects the delta.
	AdjustBalance(ctx context.Context, id primitive.ObjectID, delta float64) (before, after float64, err error)
	// RecordGameOutcome increments the cumulative winnings/losses counters
	// and gamesPlayed for a settled selection.
	RecordGameOutcome(ctx context.Context, id primitive.ObjectID, winnings, losses float64) error
}

// RoundRepository defines the interface for round data operations
type RoundRepository interface {
	Create(ctx context.Context, round *models.Round) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Round, error)
	// FindCurrent returns the active round whose betting window contains or
	// follows now (earliest endTime first).
	FindCurrent(ctx context.Context, now time.Time) (*models.Round, error)
	FindAll(ctx context.Context, page, limit int) ([]*models.Round, error)
	FindActiveOverlapping(ctx context.Context, start, end time.Time) ([]*models.Round, error)
	FindExpiredActive(ctx context.Context, now time.Time) ([]*models.Round, error)
	// SetWinningNumber atomically records the winning number for a class and
	// flips its settled flag. Returns false without writing when the class is
	// already settled or the round is completed — the settlement idempotency
	// guard.
	SetWinningNumber(ctx context.Context, id primitive.ObjectID, class game.Class, number string) (bool, error)
	// AccumulateClassStats adds per-class aggregates after a settlement pass
	AccumulateClassStats(ctx context.Context, id primitive.ObjectID, class game.Class, bets int, amount, winnings float64, winners int) error
	// Complete transitions ACTIVE -> COMPLETED and writes round totals.
	// Returns false when the round was already completed.
	Complete(ctx context.Context, id primitive.ObjectID, participants int, revenue, payout float64, winners int) (bool, error)
}

// SelectionRepository defines the interface for bet data operations
type SelectionRepository interface {
	// Create inserts a selection; ErrDuplicateSelection when the
	// (userId, roundId, classType, number) tuple already exists.
	Create(ctx context.Context, selection *models.Selection) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Selection, error)
	FindByUserID(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.Selection, error)
	FindPendingByRoundAndClass(ctx context.Context, roundID primitive.ObjectID, class game.Class) ([]*models.Selection, error)
	FindPendingByRound(ctx context.Context, roundID primitive.ObjectID) ([]*models.Selection, error)
	// TransitionStatus moves a selection from one status to another,
	// recording the payout. Returns false when the selection is no longer in
	// the from status (someone else settled or cancelled it first).
	TransitionStatus(ctx context.Context, id primitive.ObjectID, from, to models.SelectionStatus, payout float64) (bool, error)
	CountDistinctUsers(ctx context.Context, roundID primitive.ObjectID) (int64, error)
}

// WalletTransactionRepository defines the interface for ledger operations.
// The ledger is append-only: there is deliberately no update or delete.
type WalletTransactionRepository interface {
	Create(ctx context.Context, txn *models.WalletTransaction) error
	FindByUserID(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.WalletTransaction, error)
}

// WithdrawalRepository defines the interface for withdrawal data operations
type WithdrawalRepository interface {
	Create(ctx context.Context, withdrawal *models.Withdrawal) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Withdrawal, error)
	FindByUserID(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.Withdrawal, error)
	FindByStatus(ctx context.Context, status models.WithdrawalStatus, page, limit int) ([]*models.Withdrawal, error)
	// Decide transitions PENDING -> APPROVED|REJECTED. Returns false when the
	// withdrawal was already decided.
	Decide(ctx context.Context, id primitive.ObjectID, status models.WithdrawalStatus, adminID primitive.ObjectID, note string) (bool, error)
}
