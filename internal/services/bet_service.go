package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/playdigits/lotto-backend/internal/config"
	"github.com/playdigits/lotto-backend/internal/game"
	"github.com/playdigits/lotto-backend/internal/models"
	"github.com/playdigits/lotto-backend/internal/repositories"
)

// BetService handles selection placement and cancellation
type BetService struct {
	roundRepo     repositories.RoundRepository
	selectionRepo repositories.SelectionRepository
	userRepo      repositories.UserRepository
	wallet        *WalletService
	rules         config.GameConfig
	locks         *userLockMap
}

// NewBetService creates a new BetService
func NewBetService(
	roundRepo repositories.RoundRepository,
	selectionRepo repositories.SelectionRepository,
	userRepo repositories.UserRepository,
	wallet *WalletService,
	rules config.GameConfig,
) *BetService {
	return &BetService{
		roundRepo:     roundRepo,
		selectionRepo: selectionRepo,
		userRepo:      userRepo,
		wallet:        wallet,
		rules:         rules,
		locks:         newUserLockMap(),
	}
}

// PlaceSelectionInput is one bet in a batch request
type PlaceSelectionInput struct {
	ClassType string  `json:"classType" binding:"required"`
	Number    string  `json:"number" binding:"required"`
	Amount    float64 `json:"amount" binding:"required"`
}

// PlacedItem reports the outcome of one batch item
type PlacedItem struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message,omitempty"`
	Selection *models.Selection `json:"selection,omitempty"`
}

// BatchPlaceResult is the response for a batch placement: per-item outcomes
// plus the selections that were created and the resulting balance.
type BatchPlaceResult struct {
	RoundID       primitive.ObjectID  `json:"roundId"`
	Items         []PlacedItem        `json:"items"`
	Selections    []*models.Selection `json:"selections"`
	WalletBalance float64             `json:"walletBalance"`
}

// PlaceBatch places a batch of selections against the current round. Items
// are validated independently and partial success is allowed: a failed item
// never aborts the rest of the batch. The whole request is rejected only
// when there is no open betting window at all.
func (s *BetService) PlaceBatch(ctx context.Context, userID primitive.ObjectID, items []PlaceSelectionInput) (*BatchPlaceResult, error) {
	if len(items) == 0 {
		return nil, ErrEmptyBatch
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsBlocked {
		return nil, ErrAccountBlocked
	}

	now := time.Now()
	round, err := s.roundRepo.FindCurrent(ctx, now)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNoActiveRound
		}
		return nil, err
	}
	if !round.AcceptsBetsAt(now, s.rules.LockWindow) {
		return nil, ErrWindowLocked
	}

	// Serialise this user's batches; cross-process races are handled by the
	// conditional debit and the unique selection index.
	lock := s.locks.forKey(userID.Hex())
	lock.Lock()
	defer lock.Unlock()

	result := &BatchPlaceResult{RoundID: round.ID, Items: make([]PlacedItem, 0, len(items))}
	for _, item := range items {
		selection, err := s.placeOne(ctx, userID, round, item)
		if err != nil {
			result.Items = append(result.Items, PlacedItem{Success: false, Message: err.Error()})
			continue
		}
		result.Items = append(result.Items, PlacedItem{Success: true, Selection: selection})
		result.Selections = append(result.Selections, selection)
	}

	user, err = s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	result.WalletBalance = user.WalletBalance

	slog.Info("batch placement processed",
		"userId", userID.Hex(),
		"roundId", round.ID.Hex(),
		"requested", len(items),
		"placed", len(result.Selections),
	)
	return result, nil
}

// placeOne validates and funds a single selection. The stake is debited
// before the insert; a duplicate-tuple insert reverses the debit through
// the ledger so the money trail stays complete.
func (s *BetService) placeOne(ctx context.Context, userID primitive.ObjectID, round *models.Round, item PlaceSelectionInput) (*models.Selection, error) {
	class, err := game.ParseClass(item.ClassType)
	if err != nil {
		return nil, err
	}
	if err := game.ValidateForClass(class, item.Number); err != nil {
		return nil, err
	}
	if item.Amount < s.rules.MinStake || item.Amount > s.rules.MaxStake {
		return nil, fmt.Errorf("%w: %.2f (allowed %.2f-%.2f)", ErrStakeOutOfRange, item.Amount, s.rules.MinStake, s.rules.MaxStake)
	}

	_, err = s.wallet.Apply(ctx, ApplyInput{
		UserID:      userID,
		Type:        models.TransactionDebit,
		Amount:      item.Amount,
		Source:      models.SourceGamePlay,
		Description: fmt.Sprintf("stake on class %s number %s", class, item.Number),
		RoundID:     round.ID,
	})
	if err != nil {
		return nil, err
	}

	selection := &models.Selection{
		UserID:    userID,
		RoundID:   round.ID,
		ClassType: class,
		Number:    item.Number,
		Amount:    item.Amount,
		Status:    models.SelectionStatusPending,
	}
	if err := s.selectionRepo.Create(ctx, selection); err != nil {
		// Reverse the stake we already took for this item.
		if _, refundErr := s.wallet.Apply(ctx, ApplyInput{
			UserID:      userID,
			Type:        models.TransactionCredit,
			Amount:      item.Amount,
			Source:      models.SourceRefund,
			Description: "reversal of unplaceable selection",
			RoundID:     round.ID,
		}); refundErr != nil {
			slog.Error("failed to reverse stake for rejected selection",
				"error", refundErr, "userId", userID.Hex(), "roundId", round.ID.Hex())
		}
		return nil, err
	}
	return selection, nil
}

// Cancel refunds a pending selection while the round still allows it
func (s *BetService) Cancel(ctx context.Context, userID, selectionID primitive.ObjectID) (*models.Selection, error) {
	selection, err := s.selectionRepo.FindByID(ctx, selectionID)
	if err != nil {
		return nil, err
	}
	if selection.UserID != userID {
		return nil, repositories.ErrNotFound
	}

	round, err := s.roundRepo.FindByID(ctx, selection.RoundID)
	if err != nil {
		return nil, err
	}
	if !round.AllowsCancelAt(time.Now(), s.rules.LockWindow, s.rules.CancelGrace) {
		return nil, ErrCancelWindowClosed
	}

	ok, err := s.selectionRepo.TransitionStatus(ctx, selection.ID, models.SelectionStatusPending, models.SelectionStatusCancelled, 0)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotCancellable
	}

	if _, err := s.wallet.Apply(ctx, ApplyInput{
		UserID:      userID,
		Type:        models.TransactionCredit,
		Amount:      selection.Amount,
		Source:      models.SourceRefund,
		Description: fmt.Sprintf("cancelled selection %s", selection.ID.Hex()),
		RoundID:     selection.RoundID,
		SelectionID: selection.ID,
	}); err != nil {
		return nil, err
	}

	selection.Status = models.SelectionStatusCancelled
	slog.Info("selection cancelled", "userId", userID.Hex(), "selectionId", selection.ID.Hex())
	return selection, nil
}

// SelectionsForUser returns a user's bet history
func (s *BetService) SelectionsForUser(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.Selection, error) {
	return s.selectionRepo.FindByUserID(ctx, userID, page, limit)
}
