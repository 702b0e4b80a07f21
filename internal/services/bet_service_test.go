package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/playdigits/lotto-backend/internal/config"
	"github.com/playdigits/lotto-backend/internal/models"
	"github.com/playdigits/lotto-backend/internal/repositories"
)

func testRules() config.GameConfig {
	return config.GameConfig{
		MinStake:    10,
		MaxStake:    10000,
		LockWindow:  10 * time.Minute,
		CancelGrace: 30 * time.Second,
	}
}

type betFixture struct {
	bets      *BetService
	userRepo  *fakeUserRepo
	roundRepo *fakeRoundRepo
	selRepo   *fakeSelectionRepo
	txnRepo   *fakeTxnRepo
	round     *models.Round
	user      *models.User
}

func newBetFixture(t *testing.T) *betFixture {
	t.Helper()
	userRepo := newFakeUserRepo()
	roundRepo := newFakeRoundRepo()
	selRepo := newFakeSelectionRepo()
	txnRepo := newFakeTxnRepo()
	wallet := NewWalletService(userRepo, txnRepo, noopTxnRunner{})

	now := time.Now()
	round := roundRepo.add(&models.Round{
		StartTime: now.Add(-time.Hour),
		EndTime:   now.Add(24 * time.Hour),
		Status:    models.RoundStatusActive,
	})
	user := userRepo.add(&models.User{WalletBalance: 100})

	return &betFixture{
		bets:      NewBetService(roundRepo, selRepo, userRepo, wallet, testRules()),
		userRepo:  userRepo,
		roundRepo: roundRepo,
		selRepo:   selRepo,
		txnRepo:   txnRepo,
		round:     round,
		user:      user,
	}
}

func TestPlaceBatchSingleSelection(t *testing.T) {
	f := newBetFixture(t)

	result, err := f.bets.PlaceBatch(context.Background(), f.user.ID, []PlaceSelectionInput{
		{ClassType: "A", Number: "222", Amount: 50},
	})
	if err != nil {
		t.Fatalf("PlaceBatch: %v", err)
	}
	if len(result.Selections) != 1 {
		t.Fatalf("placed %d selections, want 1", len(result.Selections))
	}
	if result.WalletBalance != 50 {
		t.Errorf("walletBalance = %v, want 50", result.WalletBalance)
	}

	selection := result.Selections[0]
	if selection.Status != models.SelectionStatusPending {
		t.Errorf("status = %v, want PENDING", selection.Status)
	}
	if selection.RoundID != f.round.ID {
		t.Errorf("roundId = %v, want %v", selection.RoundID, f.round.ID)
	}

	debits := f.txnRepo.bySource(f.user.ID, models.SourceGamePlay)
	if len(debits) != 1 {
		t.Fatalf("got %d game-play debits, want 1", len(debits))
	}
	if debits[0].BalanceBefore != 100 || debits[0].BalanceAfter != 50 {
		t.Errorf("debit snapshots = %v/%v, want 100/50", debits[0].BalanceBefore, debits[0].BalanceAfter)
	}
}

func TestPlaceBatchPartialSuccess(t *testing.T) {
	f := newBetFixture(t)

	// Pre-place "222" so the batch's duplicate fails.
	if _, err := f.bets.PlaceBatch(context.Background(), f.user.ID, []PlaceSelectionInput{
		{ClassType: "A", Number: "222", Amount: 20},
	}); err != nil {
		t.Fatalf("setup placement: %v", err)
	}

	result, err := f.bets.PlaceBatch(context.Background(), f.user.ID, []PlaceSelectionInput{
		{ClassType: "C", Number: "123", Amount: 30}, // ok
		{ClassType: "A", Number: "123", Amount: 10}, // class mismatch
		{ClassType: "A", Number: "222", Amount: 20}, // duplicate
		{ClassType: "B", Number: "272", Amount: 5},  // below min stake
		{ClassType: "A", Number: "333", Amount: 99}, // insufficient after earlier debits
	})
	if err != nil {
		t.Fatalf("PlaceBatch: %v", err)
	}
	if len(result.Items) != 5 {
		t.Fatalf("got %d items, want 5", len(result.Items))
	}
	if len(result.Selections) != 1 {
		t.Fatalf("placed %d selections, want 1", len(result.Selections))
	}

	wantSuccess := []bool{true, false, false, false, false}
	for i, item := range result.Items {
		if item.Success != wantSuccess[i] {
			t.Errorf("item %d success = %v (%s), want %v", i, item.Success, item.Message, wantSuccess[i])
		}
	}

	// 100 - 20 (setup) - 30 (item 0). The duplicate's debit was reversed.
	if result.WalletBalance != 50 {
		t.Errorf("walletBalance = %v, want 50", result.WalletBalance)
	}
	refunds := f.txnRepo.bySource(f.user.ID, models.SourceRefund)
	if len(refunds) != 1 {
		t.Errorf("got %d refund rows, want 1 (duplicate reversal)", len(refunds))
	}
}

func TestPlaceBatchRejectsEmptyBatch(t *testing.T) {
	f := newBetFixture(t)
	if _, err := f.bets.PlaceBatch(context.Background(), f.user.ID, nil); !errors.Is(err, ErrEmptyBatch) {
		t.Errorf("err = %v, want ErrEmptyBatch", err)
	}
}

func TestPlaceBatchRejectsBlockedUser(t *testing.T) {
	f := newBetFixture(t)
	_ = f.userRepo.SetBlocked(context.Background(), f.user.ID, true)

	_, err := f.bets.PlaceBatch(context.Background(), f.user.ID, []PlaceSelectionInput{
		{ClassType: "A", Number: "222", Amount: 50},
	})
	if !errors.Is(err, ErrAccountBlocked) {
		t.Errorf("err = %v, want ErrAccountBlocked", err)
	}
}

func TestPlaceBatchRejectsLockedWindow(t *testing.T) {
	f := newBetFixture(t)
	// Shrink the round so now is inside the lock window.
	f.round.EndTime = time.Now().Add(5 * time.Minute)

	_, err := f.bets.PlaceBatch(context.Background(), f.user.ID, []PlaceSelectionInput{
		{ClassType: "A", Number: "222", Amount: 50},
	})
	if !errors.Is(err, ErrWindowLocked) {
		t.Errorf("err = %v, want ErrWindowLocked", err)
	}
}

func TestPlaceBatchNoActiveRound(t *testing.T) {
	f := newBetFixture(t)
	f.round.Status = models.RoundStatusCompleted

	_, err := f.bets.PlaceBatch(context.Background(), f.user.ID, []PlaceSelectionInput{
		{ClassType: "A", Number: "222", Amount: 50},
	})
	if !errors.Is(err, ErrNoActiveRound) {
		t.Errorf("err = %v, want ErrNoActiveRound", err)
	}
}

func TestCancelRefundsStake(t *testing.T) {
	f := newBetFixture(t)

	result, err := f.bets.PlaceBatch(context.Background(), f.user.ID, []PlaceSelectionInput{
		{ClassType: "A", Number: "222", Amount: 50},
	})
	if err != nil {
		t.Fatalf("PlaceBatch: %v", err)
	}
	placed := result.Selections[0]

	cancelled, err := f.bets.Cancel(context.Background(), f.user.ID, placed.ID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if cancelled.Status != models.SelectionStatusCancelled {
		t.Errorf("status = %v, want CANCELLED", cancelled.Status)
	}

	user, _ := f.userRepo.FindByID(context.Background(), f.user.ID)
	if user.WalletBalance != 100 {
		t.Errorf("balance = %v, want 100 after refund", user.WalletBalance)
	}

	// Cancelling again must fail and not refund twice.
	if _, err := f.bets.Cancel(context.Background(), f.user.ID, placed.ID); !errors.Is(err, ErrNotCancellable) {
		t.Errorf("second cancel err = %v, want ErrNotCancellable", err)
	}
	user, _ = f.userRepo.FindByID(context.Background(), f.user.ID)
	if user.WalletBalance != 100 {
		t.Errorf("balance = %v after double cancel, want 100", user.WalletBalance)
	}
}

func TestCancelRejectedAfterGraceDeadline(t *testing.T) {
	f := newBetFixture(t)

	result, err := f.bets.PlaceBatch(context.Background(), f.user.ID, []PlaceSelectionInput{
		{ClassType: "A", Number: "222", Amount: 50},
	})
	if err != nil {
		t.Fatalf("PlaceBatch: %v", err)
	}

	// Move the round so now is past the cancel deadline but the bet window
	// technicality does not matter for cancels.
	f.round.EndTime = time.Now().Add(10*time.Minute + 20*time.Second)

	_, err = f.bets.Cancel(context.Background(), f.user.ID, result.Selections[0].ID)
	if !errors.Is(err, ErrCancelWindowClosed) {
		t.Errorf("err = %v, want ErrCancelWindowClosed", err)
	}
}

func TestCancelOtherUsersSelectionIsNotFound(t *testing.T) {
	f := newBetFixture(t)
	other := f.userRepo.add(&models.User{WalletBalance: 100})

	result, err := f.bets.PlaceBatch(context.Background(), f.user.ID, []PlaceSelectionInput{
		{ClassType: "A", Number: "222", Amount: 50},
	})
	if err != nil {
		t.Fatalf("PlaceBatch: %v", err)
	}

	_, err = f.bets.Cancel(context.Background(), other.ID, result.Selections[0].ID)
	if !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
