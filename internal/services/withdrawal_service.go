package services

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/playdigits/lotto-backend/internal/models"
	"github.com/playdigits/lotto-backend/internal/repositories"
)

// WithdrawalService handles payout requests. Funds leave the wallet when
// the request is made, so a pending withdrawal can never be double-spent;
// a rejection puts the money back through the ledger.
type WithdrawalService struct {
	withdrawalRepo repositories.WithdrawalRepository
	userRepo       repositories.UserRepository
	wallet         *WalletService
}

// NewWithdrawalService creates a new WithdrawalService
func NewWithdrawalService(
	withdrawalRepo repositories.WithdrawalRepository,
	userRepo repositories.UserRepository,
	wallet *WalletService,
) *WithdrawalService {
	return &WithdrawalService{
		withdrawalRepo: withdrawalRepo,
		userRepo:       userRepo,
		wallet:         wallet,
	}
}

// Request debits the amount and records a pending withdrawal
func (s *WithdrawalService) Request(ctx context.Context, userID primitive.ObjectID, amount float64, account string) (*models.Withdrawal, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsBlocked {
		return nil, ErrAccountBlocked
	}

	if _, err := s.wallet.Apply(ctx, ApplyInput{
		UserID:      userID,
		Type:        models.TransactionDebit,
		Amount:      amount,
		Source:      models.SourceWithdrawal,
		Description: fmt.Sprintf("withdrawal to %s", account),
	}); err != nil {
		return nil, err
	}

	withdrawal := &models.Withdrawal{
		UserID:  userID,
		Amount:  amount,
		Account: account,
		Status:  models.WithdrawalStatusPending,
	}
	if err := s.withdrawalRepo.Create(ctx, withdrawal); err != nil {
		// Withdrawal row failed after the debit: put the money back.
		if _, refundErr := s.wallet.Apply(ctx, ApplyInput{
			UserID:      userID,
			Type:        models.TransactionCredit,
			Amount:      amount,
			Source:      models.SourceWithdrawalRefund,
			Description: "reversal of unrecorded withdrawal",
		}); refundErr != nil {
			slog.Error("failed to reverse withdrawal debit", "error", refundErr, "userId", userID.Hex())
		}
		return nil, fmt.Errorf("create withdrawal: %w", err)
	}

	slog.Info("withdrawal requested", "userId", userID.Hex(), "withdrawalId", withdrawal.ID.Hex(), "amount", amount)
	return withdrawal, nil
}

// Decide approves or rejects a pending withdrawal. Approval only flips the
// status (the funds already left the wallet at request time); rejection
// refunds the amount. The status transition is conditional, so deciding
// twice fails with ErrAlreadyDecided instead of refunding twice.
func (s *WithdrawalService) Decide(ctx context.Context, adminID, withdrawalID primitive.ObjectID, approve bool, note string) (*models.Withdrawal, error) {
	withdrawal, err := s.withdrawalRepo.FindByID(ctx, withdrawalID)
	if err != nil {
		return nil, err
	}

	status := models.WithdrawalStatusApproved
	if !approve {
		status = models.WithdrawalStatusRejected
	}

	ok, err := s.withdrawalRepo.Decide(ctx, withdrawalID, status, adminID, note)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAlreadyDecided
	}

	if !approve {
		if _, err := s.wallet.Apply(ctx, ApplyInput{
			UserID:      withdrawal.UserID,
			Type:        models.TransactionCredit,
			Amount:      withdrawal.Amount,
			Source:      models.SourceWithdrawalRefund,
			Description: fmt.Sprintf("rejected withdrawal %s", withdrawalID.Hex()),
			AdminID:     adminID,
		}); err != nil {
			return nil, fmt.Errorf("refund rejected withdrawal: %w", err)
		}
	}

	slog.Info("withdrawal decided",
		"withdrawalId", withdrawalID.Hex(),
		"adminId", adminID.Hex(),
		"status", status,
	)
	return s.withdrawalRepo.FindByID(ctx, withdrawalID)
}

// ForUser returns a user's withdrawal history
func (s *WithdrawalService) ForUser(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.Withdrawal, error) {
	return s.withdrawalRepo.FindByUserID(ctx, userID, page, limit)
}

// ByStatus lists withdrawals in a given state for the admin review queue
func (s *WithdrawalService) ByStatus(ctx context.Context, status models.WithdrawalStatus, page, limit int) ([]*models.Withdrawal, error) {
	return s.withdrawalRepo.FindByStatus(ctx, status, page, limit)
}
