package services

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/playdigits/lotto-backend/internal/models"
	"github.com/playdigits/lotto-backend/internal/repositories"
)

// WalletService is the wallet ledger: every balance change goes through
// Apply, which pairs the atomic balance adjustment with an append-only
// WalletTransaction row inside one database transaction.
type WalletService struct {
	userRepo  repositories.UserRepository
	txnRepo   repositories.WalletTransactionRepository
	txnRunner repositories.TxnRunner
}

// NewWalletService creates a new WalletService
func NewWalletService(
	userRepo repositories.UserRepository,
	txnRepo repositories.WalletTransactionRepository,
	txnRunner repositories.TxnRunner,
) *WalletService {
	return &WalletService{
		userRepo:  userRepo,
		txnRepo:   txnRepo,
		txnRunner: txnRunner,
	}
}

// ApplyInput describes a single wallet movement
type ApplyInput struct {
	UserID      primitive.ObjectID
	Type        models.TransactionType
	Amount      float64
	Source      string
	Description string
	RoundID     primitive.ObjectID
	SelectionID primitive.ObjectID
	AdminID     primitive.ObjectID
}

// Apply adjusts the user's balance and appends the matching ledger row.
// Debits are rejected with ErrInsufficientBalance when the balance would go
// negative; the check and the decrement are one conditional update, so
// concurrent debits cannot overdraw.
func (s *WalletService) Apply(ctx context.Context, in ApplyInput) (*models.WalletTransaction, error) {
	if in.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	delta := in.Amount
	if in.Type == models.TransactionDebit {
		delta = -in.Amount
	}

	var record *models.WalletTransaction
	err := s.txnRunner.WithTransaction(ctx, func(ctx context.Context) error {
		before, after, err := s.userRepo.AdjustBalance(ctx, in.UserID, delta)
		if err != nil {
			return err
		}
		record = &models.WalletTransaction{
			UserID:        in.UserID,
			Type:          in.Type,
			Amount:        in.Amount,
			Source:        in.Source,
			Description:   in.Description,
			BalanceBefore: before,
			BalanceAfter:  after,
			RoundID:       in.RoundID,
			SelectionID:   in.SelectionID,
			AdminID:       in.AdminID,
		}
		return s.txnRepo.Create(ctx, record)
	})
	if err != nil {
		return nil, fmt.Errorf("apply wallet transaction: %w", err)
	}

	slog.Info("wallet transaction applied",
		"userId", in.UserID.Hex(),
		"type", record.Type,
		"amount", record.Amount,
		"source", record.Source,
		"balanceAfter", record.BalanceAfter,
	)
	return record, nil
}

// Deposit credits funds into a user's wallet
func (s *WalletService) Deposit(ctx context.Context, userID primitive.ObjectID, amount float64, description string) (*models.WalletTransaction, error) {
	return s.Apply(ctx, ApplyInput{
		UserID:      userID,
		Type:        models.TransactionCredit,
		Amount:      amount,
		Source:      models.SourceDeposit,
		Description: description,
	})
}

// AdminAdjust credits or debits a user's wallet on behalf of an admin,
// recording the acting admin on the ledger row.
func (s *WalletService) AdminAdjust(ctx context.Context, adminID, userID primitive.ObjectID, txnType models.TransactionType, amount float64, note string) (*models.WalletTransaction, error) {
	source := models.SourceAdminCredit
	if txnType == models.TransactionDebit {
		source = models.SourceAdminDebit
	}
	return s.Apply(ctx, ApplyInput{
		UserID:      userID,
		Type:        txnType,
		Amount:      amount,
		Source:      source,
		Description: note,
		AdminID:     adminID,
	})
}

// Transactions returns a user's ledger history
func (s *WalletService) Transactions(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.WalletTransaction, error) {
	return s.txnRepo.FindByUserID(ctx, userID, page, limit)
}
