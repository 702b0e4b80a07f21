package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/playdigits/lotto-backend/internal/events"
	"github.com/playdigits/lotto-backend/internal/game"
	"github.com/playdigits/lotto-backend/internal/models"
	"github.com/playdigits/lotto-backend/internal/repositories"
)

// In-memory repository fakes. They reproduce the conditional-update
// semantics of the real implementations (balance guard, settled flag,
// status transitions) so the service tests exercise the same race rules.

type noopTxnRunner struct{}

func (noopTxnRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type capturePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *capturePublisher) Publish(_ context.Context, e events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *capturePublisher) byType(eventType string) []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []events.Event
	for _, e := range p.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// fakeUserRepo

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

var _ repositories.UserRepository = (*fakeUserRepo)(nil)

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (r *fakeUserRepo) add(user *models.User) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	r.users[user.ID] = user
	return user
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return errors.New("duplicate key error: email")
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.CreatedAt = time.Now()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) FindAll(_ context.Context, _, _ int) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.User, 0, len(r.users))
	for _, user := range r.users {
		copied := *user
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeUserRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func (r *fakeUserRepo) CountByRole(_ context.Context, role string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, user := range r.users {
		if user.Role == role {
			n++
		}
	}
	return n, nil
}

func (r *fakeUserRepo) SetBlocked(_ context.Context, id primitive.ObjectID, blocked bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	user.IsBlocked = blocked
	return nil
}

func (r *fakeUserRepo) AdjustBalance(_ context.Context, id primitive.ObjectID, delta float64) (float64, float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return 0, 0, repositories.ErrNotFound
	}
	if user.WalletBalance+delta < 0 {
		return 0, 0, repositories.ErrInsufficientBalance
	}
	before := user.WalletBalance
	user.WalletBalance += delta
	return before, user.WalletBalance, nil
}

func (r *fakeUserRepo) RecordGameOutcome(_ context.Context, id primitive.ObjectID, winnings, losses float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	user.TotalWinnings += winnings
	user.TotalLosses += losses
	user.GamesPlayed++
	return nil
}

// fakeRoundRepo

type fakeRoundRepo struct {
	mu     sync.Mutex
	rounds map[primitive.ObjectID]*models.Round
}

var _ repositories.RoundRepository = (*fakeRoundRepo)(nil)

func newFakeRoundRepo() *fakeRoundRepo {
	return &fakeRoundRepo{rounds: make(map[primitive.ObjectID]*models.Round)}
}

func (r *fakeRoundRepo) add(round *models.Round) *models.Round {
	r.mu.Lock()
	defer r.mu.Unlock()
	if round.ID.IsZero() {
		round.ID = primitive.NewObjectID()
	}
	r.rounds[round.ID] = round
	return round
}

func (r *fakeRoundRepo) Create(_ context.Context, round *models.Round) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	round.ID = primitive.NewObjectID()
	round.CreatedAt = time.Now()
	r.rounds[round.ID] = round
	return nil
}

func (r *fakeRoundRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Round, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	round, ok := r.rounds[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *round
	return &copied, nil
}

func (r *fakeRoundRepo) FindCurrent(_ context.Context, now time.Time) (*models.Round, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var best *models.Round
	for _, round := range r.rounds {
		if round.Status != models.RoundStatusActive || !now.Before(round.EndTime) {
			continue
		}
		if best == nil || round.EndTime.Before(best.EndTime) {
			best = round
		}
	}
	if best == nil {
		return nil, repositories.ErrNotFound
	}
	copied := *best
	return &copied, nil
}

func (r *fakeRoundRepo) FindAll(_ context.Context, _, _ int) ([]*models.Round, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Round, 0, len(r.rounds))
	for _, round := range r.rounds {
		copied := *round
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeRoundRepo) FindActiveOverlapping(_ context.Context, start, end time.Time) ([]*models.Round, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Round
	for _, round := range r.rounds {
		if round.Status != models.RoundStatusActive {
			continue
		}
		if round.StartTime.Before(end) && start.Before(round.EndTime) {
			copied := *round
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeRoundRepo) FindExpiredActive(_ context.Context, now time.Time) ([]*models.Round, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Round
	for _, round := range r.rounds {
		if round.Status == models.RoundStatusActive && !now.Before(round.EndTime) {
			copied := *round
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeRoundRepo) SetWinningNumber(_ context.Context, id primitive.ObjectID, class game.Class, number string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	round, ok := r.rounds[id]
	if !ok {
		return false, repositories.ErrNotFound
	}
	if round.Status != models.RoundStatusActive {
		return false, nil
	}
	result := round.ClassResult(class)
	if result == nil || result.Settled {
		return false, nil
	}
	result.WinningNumber = number
	result.Settled = true
	result.SettledAt = time.Now()
	return true, nil
}

func (r *fakeRoundRepo) AccumulateClassStats(_ context.Context, id primitive.ObjectID, class game.Class, bets int, amount, winnings float64, winners int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	round, ok := r.rounds[id]
	if !ok {
		return repositories.ErrNotFound
	}
	result := round.ClassResult(class)
	result.TotalBets += bets
	result.TotalAmount += amount
	result.TotalWinnings += winnings
	result.WinnersCount += winners
	return nil
}

func (r *fakeRoundRepo) Complete(_ context.Context, id primitive.ObjectID, participants int, revenue, payout float64, winners int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	round, ok := r.rounds[id]
	if !ok {
		return false, repositories.ErrNotFound
	}
	if round.Status != models.RoundStatusActive {
		return false, nil
	}
	round.Status = models.RoundStatusCompleted
	round.TotalParticipants = participants
	round.TotalRevenue = revenue
	round.TotalPayout = payout
	round.HouseProfit = revenue - payout
	round.WinnersCount = winners
	round.CompletedAt = time.Now()
	return true, nil
}

// fakeSelectionRepo

type fakeSelectionRepo struct {
	mu         sync.Mutex
	selections map[primitive.ObjectID]*models.Selection
}

var _ repositories.SelectionRepository = (*fakeSelectionRepo)(nil)

func newFakeSelectionRepo() *fakeSelectionRepo {
	return &fakeSelectionRepo{selections: make(map[primitive.ObjectID]*models.Selection)}
}

func (r *fakeSelectionRepo) Create(_ context.Context, selection *models.Selection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.selections {
		if existing.UserID == selection.UserID &&
			existing.RoundID == selection.RoundID &&
			existing.ClassType == selection.ClassType &&
			existing.Number == selection.Number {
			return repositories.ErrDuplicateSelection
		}
	}
	selection.ID = primitive.NewObjectID()
	selection.CreatedAt = time.Now()
	r.selections[selection.ID] = selection
	return nil
}

func (r *fakeSelectionRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Selection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	selection, ok := r.selections[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *selection
	return &copied, nil
}

func (r *fakeSelectionRepo) FindByUserID(_ context.Context, userID primitive.ObjectID, _, _ int) ([]*models.Selection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Selection
	for _, selection := range r.selections {
		if selection.UserID == userID {
			copied := *selection
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeSelectionRepo) FindPendingByRoundAndClass(_ context.Context, roundID primitive.ObjectID, class game.Class) ([]*models.Selection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Selection
	for _, selection := range r.selections {
		if selection.RoundID == roundID && selection.ClassType == class && selection.Status == models.SelectionStatusPending {
			copied := *selection
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeSelectionRepo) FindPendingByRound(_ context.Context, roundID primitive.ObjectID) ([]*models.Selection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Selection
	for _, selection := range r.selections {
		if selection.RoundID == roundID && selection.Status == models.SelectionStatusPending {
			copied := *selection
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeSelectionRepo) TransitionStatus(_ context.Context, id primitive.ObjectID, from, to models.SelectionStatus, payout float64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	selection, ok := r.selections[id]
	if !ok {
		return false, repositories.ErrNotFound
	}
	if selection.Status != from {
		return false, nil
	}
	selection.Status = to
	selection.PayoutAmount = payout
	selection.SettledAt = time.Now()
	return true, nil
}

func (r *fakeSelectionRepo) CountDistinctUsers(_ context.Context, roundID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[primitive.ObjectID]bool)
	for _, selection := range r.selections {
		if selection.RoundID == roundID {
			seen[selection.UserID] = true
		}
	}
	return int64(len(seen)), nil
}

// fakeTxnRepo

type fakeTxnRepo struct {
	mu   sync.Mutex
	txns []*models.WalletTransaction
}

var _ repositories.WalletTransactionRepository = (*fakeTxnRepo)(nil)

func newFakeTxnRepo() *fakeTxnRepo {
	return &fakeTxnRepo{}
}

func (r *fakeTxnRepo) Create(_ context.Context, txn *models.WalletTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	txn.ID = primitive.NewObjectID()
	txn.CreatedAt = time.Now()
	copied := *txn
	r.txns = append(r.txns, &copied)
	return nil
}

func (r *fakeTxnRepo) FindByUserID(_ context.Context, userID primitive.ObjectID, _, _ int) ([]*models.WalletTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.WalletTransaction
	for _, txn := range r.txns {
		if txn.UserID == userID {
			copied := *txn
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeTxnRepo) bySource(userID primitive.ObjectID, source string) []*models.WalletTransaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.WalletTransaction
	for _, txn := range r.txns {
		if txn.UserID == userID && txn.Source == source {
			copied := *txn
			out = append(out, &copied)
		}
	}
	return out
}

// fakeWithdrawalRepo

type fakeWithdrawalRepo struct {
	mu          sync.Mutex
	withdrawals map[primitive.ObjectID]*models.Withdrawal
}

var _ repositories.WithdrawalRepository = (*fakeWithdrawalRepo)(nil)

func newFakeWithdrawalRepo() *fakeWithdrawalRepo {
	return &fakeWithdrawalRepo{withdrawals: make(map[primitive.ObjectID]*models.Withdrawal)}
}

func (r *fakeWithdrawalRepo) Create(_ context.Context, withdrawal *models.Withdrawal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	withdrawal.ID = primitive.NewObjectID()
	withdrawal.CreatedAt = time.Now()
	r.withdrawals[withdrawal.ID] = withdrawal
	return nil
}

func (r *fakeWithdrawalRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Withdrawal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	withdrawal, ok := r.withdrawals[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *withdrawal
	return &copied, nil
}

func (r *fakeWithdrawalRepo) FindByUserID(_ context.Context, userID primitive.ObjectID, _, _ int) ([]*models.Withdrawal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Withdrawal
	for _, withdrawal := range r.withdrawals {
		if withdrawal.UserID == userID {
			copied := *withdrawal
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeWithdrawalRepo) FindByStatus(_ context.Context, status models.WithdrawalStatus, _, _ int) ([]*models.Withdrawal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Withdrawal
	for _, withdrawal := range r.withdrawals {
		if withdrawal.Status == status {
			copied := *withdrawal
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeWithdrawalRepo) Decide(_ context.Context, id primitive.ObjectID, status models.WithdrawalStatus, adminID primitive.ObjectID, note string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	withdrawal, ok := r.withdrawals[id]
	if !ok {
		return false, repositories.ErrNotFound
	}
	if withdrawal.Status != models.WithdrawalStatusPending {
		return false, nil
	}
	withdrawal.Status = status
	withdrawal.DecidedBy = adminID
	withdrawal.DecisionNote = note
	withdrawal.DecidedAt = time.Now()
	return true, nil
}
