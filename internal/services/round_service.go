package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/playdigits/lotto-backend/internal/events"
	"github.com/playdigits/lotto-backend/internal/game"
	"github.com/playdigits/lotto-backend/internal/models"
	"github.com/playdigits/lotto-backend/internal/repositories"
)

// RoundService owns the round lifecycle and the settlement flow
type RoundService struct {
	roundRepo     repositories.RoundRepository
	selectionRepo repositories.SelectionRepository
	userRepo      repositories.UserRepository
	wallet        *WalletService
	multipliers   game.Multipliers
	publisher     events.Publisher
}

// NewRoundService creates a new RoundService
func NewRoundService(
	roundRepo repositories.RoundRepository,
	selectionRepo repositories.SelectionRepository,
	userRepo repositories.UserRepository,
	wallet *WalletService,
	multipliers game.Multipliers,
	publisher events.Publisher,
) *RoundService {
	return &RoundService{
		roundRepo:     roundRepo,
		selectionRepo: selectionRepo,
		userRepo:      userRepo,
		wallet:        wallet,
		multipliers:   multipliers,
		publisher:     publisher,
	}
}

// Open creates a new active round for [start, end)
func (s *RoundService) Open(ctx context.Context, start, end time.Time) (*models.Round, error) {
	if !end.After(start) {
		return nil, ErrInvalidWindow
	}
	overlapping, err := s.roundRepo.FindActiveOverlapping(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("check overlapping rounds: %w", err)
	}
	if len(overlapping) > 0 {
		return nil, ErrRoundOverlap
	}

	round := &models.Round{
		StartTime: start,
		EndTime:   end,
		Status:    models.RoundStatusActive,
	}
	if err := s.roundRepo.Create(ctx, round); err != nil {
		return nil, fmt.Errorf("create round: %w", err)
	}
	slog.Info("round opened", "roundId", round.ID.Hex(), "start", start, "end", end)
	return round, nil
}

// Get returns a round by ID
func (s *RoundService) Get(ctx context.Context, id primitive.ObjectID) (*models.Round, error) {
	return s.roundRepo.FindByID(ctx, id)
}

// Current returns the round currently accepting or awaiting settlement
func (s *RoundService) Current(ctx context.Context) (*models.Round, error) {
	round, err := s.roundRepo.FindCurrent(ctx, time.Now())
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNoActiveRound
		}
		return nil, err
	}
	return round, nil
}

// List returns rounds, newest first
func (s *RoundService) List(ctx context.Context, page, limit int) ([]*models.Round, error) {
	return s.roundRepo.FindAll(ctx, page, limit)
}

// ResultInput carries the admin-supplied winning numbers; empty fields are
// classes not being settled in this call.
type ResultInput struct {
	ClassA string `json:"classA"`
	ClassB string `json:"classB"`
	ClassC string `json:"classC"`
	ClassD string `json:"classD"`
}

func (in ResultInput) number(class game.Class) string {
	switch class {
	case game.ClassA:
		return in.ClassA
	case game.ClassB:
		return in.ClassB
	case game.ClassC:
		return in.ClassC
	default:
		return in.ClassD
	}
}

// RoundStatistics are the aggregate figures reported after settlement
type RoundStatistics struct {
	TotalParticipants int     `json:"totalParticipants"`
	TotalRevenue      float64 `json:"totalRevenue"`
	TotalPayout       float64 `json:"totalPayout"`
	HouseProfit       float64 `json:"houseProfit"`
	WinnersCount      int     `json:"winnersCount"`
}

// ResultSummary is returned to the admin after posting winning numbers
type ResultSummary struct {
	Round          *models.Round         `json:"round"`
	WinningNumbers map[game.Class]string `json:"winningNumbers"`
	Statistics     RoundStatistics       `json:"statistics"`
	SkippedClasses []game.Class          `json:"skippedClasses,omitempty"`
}

// SetWinningNumbers records winning numbers for the supplied classes and
// settles each of them. Settlement per class is guarded by an atomic
// settled-flag transition, so re-posting a class is a no-op (reported in
// SkippedClasses) rather than a double payout. When the last class settles
// the round completes and round totals are computed.
func (s *RoundService) SetWinningNumbers(ctx context.Context, roundID primitive.ObjectID, input ResultInput) (*ResultSummary, error) {
	round, err := s.roundRepo.FindByID(ctx, roundID)
	if err != nil {
		return nil, err
	}
	if round.Status == models.RoundStatusCompleted {
		return nil, ErrRoundCompleted
	}

	// Validate every supplied number before settling anything: a malformed
	// number rejects the whole request instead of leaving a half-settled
	// result post.
	supplied := make(map[game.Class]string)
	for _, class := range game.AllClasses {
		number := input.number(class)
		if number == "" {
			continue
		}
		if err := game.ValidateForClass(class, number); err != nil {
			return nil, err
		}
		supplied[class] = number
	}
	if len(supplied) == 0 {
		return nil, fmt.Errorf("%w: no winning numbers supplied", game.ErrInvalidNumber)
	}

	summary := &ResultSummary{WinningNumbers: make(map[game.Class]string)}
	for _, class := range game.AllClasses {
		number, ok := supplied[class]
		if !ok {
			continue
		}
		claimed, err := s.roundRepo.SetWinningNumber(ctx, roundID, class, number)
		if err != nil {
			return nil, fmt.Errorf("mark class %s settled: %w", class, err)
		}
		if !claimed {
			slog.Warn("class already settled, skipping", "roundId", roundID.Hex(), "class", class)
			summary.SkippedClasses = append(summary.SkippedClasses, class)
			continue
		}
		if err := s.settleClass(ctx, roundID, class, number); err != nil {
			return nil, err
		}
		summary.WinningNumbers[class] = number
	}

	round, err = s.finishIfSettled(ctx, roundID)
	if err != nil {
		return nil, err
	}

	summary.Round = round
	summary.Statistics = statisticsOf(round)
	s.publisher.Publish(ctx, events.Event{
		Type: events.TypeResultPosted,
		Payload: map[string]any{
			"roundId":        roundID.Hex(),
			"winningNumbers": summary.WinningNumbers,
			"statistics":     summary.Statistics,
		},
	})
	return summary, nil
}

// settleClass walks the pending selections of one class and marks each
// win or loss. Every mutation is conditional on the selection still being
// pending, so a concurrent or resumed settlement pass cannot pay a
// selection twice.
func (s *RoundService) settleClass(ctx context.Context, roundID primitive.ObjectID, class game.Class, winningNumber string) error {
	selections, err := s.selectionRepo.FindPendingByRoundAndClass(ctx, roundID, class)
	if err != nil {
		return fmt.Errorf("fetch pending selections: %w", err)
	}

	var bets, winners int
	var amount, winnings float64
	for _, selection := range selections {
		if selection.Number == winningNumber {
			payout, err := s.multipliers.Payout(class, selection.Amount)
			if err != nil {
				return err
			}
			moved, err := s.selectionRepo.TransitionStatus(ctx, selection.ID, models.SelectionStatusPending, models.SelectionStatusWin, payout)
			if err != nil {
				return fmt.Errorf("mark selection win: %w", err)
			}
			if !moved {
				continue
			}
			if _, err := s.wallet.Apply(ctx, ApplyInput{
				UserID:      selection.UserID,
				Type:        models.TransactionCredit,
				Amount:      payout,
				Source:      models.SourceGameWin,
				Description: fmt.Sprintf("win on class %s number %s", class, selection.Number),
				RoundID:     roundID,
				SelectionID: selection.ID,
			}); err != nil {
				return fmt.Errorf("credit winner: %w", err)
			}
			if err := s.userRepo.RecordGameOutcome(ctx, selection.UserID, payout, 0); err != nil {
				slog.Error("failed to record win outcome", "error", err, "userId", selection.UserID.Hex())
			}
			bets++
			winners++
			amount += selection.Amount
			winnings += payout
		} else {
			moved, err := s.selectionRepo.TransitionStatus(ctx, selection.ID, models.SelectionStatusPending, models.SelectionStatusLoss, 0)
			if err != nil {
				return fmt.Errorf("mark selection loss: %w", err)
			}
			if !moved {
				continue
			}
			// Stake was debited at placement; a loss moves no money.
			if err := s.userRepo.RecordGameOutcome(ctx, selection.UserID, 0, selection.Amount); err != nil {
				slog.Error("failed to record loss outcome", "error", err, "userId", selection.UserID.Hex())
			}
			bets++
			amount += selection.Amount
		}
	}

	if err := s.roundRepo.AccumulateClassStats(ctx, roundID, class, bets, amount, winnings, winners); err != nil {
		return fmt.Errorf("accumulate class stats: %w", err)
	}
	slog.Info("class settled",
		"roundId", roundID.Hex(),
		"class", class,
		"winningNumber", winningNumber,
		"bets", bets,
		"winners", winners,
		"payout", winnings,
	)
	return nil
}

// ForceComplete closes a round even if classes are still unsettled: their
// pending selections are refunded and the round transitions to COMPLETED.
// On a fully settled round it only performs the completion, which makes it
// the recovery path for a crash between last settlement and completion.
func (s *RoundService) ForceComplete(ctx context.Context, roundID primitive.ObjectID) (*models.Round, error) {
	round, err := s.roundRepo.FindByID(ctx, roundID)
	if err != nil {
		return nil, err
	}
	if round.Status == models.RoundStatusCompleted {
		return nil, ErrRoundCompleted
	}

	for _, class := range game.AllClasses {
		if round.ClassResult(class).Settled {
			continue
		}
		claimed, err := s.roundRepo.SetWinningNumber(ctx, roundID, class, "")
		if err != nil {
			return nil, err
		}
		if !claimed {
			continue
		}
		if err := s.refundClass(ctx, roundID, class); err != nil {
			return nil, err
		}
	}

	return s.complete(ctx, roundID)
}

// refundClass cancels and refunds the pending selections of a class that is
// being closed without a winning number.
func (s *RoundService) refundClass(ctx context.Context, roundID primitive.ObjectID, class game.Class) error {
	selections, err := s.selectionRepo.FindPendingByRoundAndClass(ctx, roundID, class)
	if err != nil {
		return err
	}
	for _, selection := range selections {
		moved, err := s.selectionRepo.TransitionStatus(ctx, selection.ID, models.SelectionStatusPending, models.SelectionStatusCancelled, 0)
		if err != nil {
			return err
		}
		if !moved {
			continue
		}
		if _, err := s.wallet.Apply(ctx, ApplyInput{
			UserID:      selection.UserID,
			Type:        models.TransactionCredit,
			Amount:      selection.Amount,
			Source:      models.SourceRefund,
			Description: fmt.Sprintf("round closed without class %s result", class),
			RoundID:     roundID,
			SelectionID: selection.ID,
		}); err != nil {
			return err
		}
	}
	if len(selections) > 0 {
		slog.Info("unsettled class refunded", "roundId", roundID.Hex(), "class", class, "refunds", len(selections))
	}
	return nil
}

// finishIfSettled completes the round when every class is settled and
// returns the freshest copy either way.
func (s *RoundService) finishIfSettled(ctx context.Context, roundID primitive.ObjectID) (*models.Round, error) {
	round, err := s.roundRepo.FindByID(ctx, roundID)
	if err != nil {
		return nil, err
	}
	if round.Status == models.RoundStatusCompleted || !round.AllSettled() {
		return round, nil
	}
	return s.complete(ctx, roundID)
}

// complete writes the round totals and flips the status
func (s *RoundService) complete(ctx context.Context, roundID primitive.ObjectID) (*models.Round, error) {
	round, err := s.roundRepo.FindByID(ctx, roundID)
	if err != nil {
		return nil, err
	}

	participants, err := s.selectionRepo.CountDistinctUsers(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("count participants: %w", err)
	}
	var revenue, payout float64
	var winners int
	for _, class := range game.AllClasses {
		result := round.ClassResult(class)
		revenue += result.TotalAmount
		payout += result.TotalWinnings
		winners += result.WinnersCount
	}

	completed, err := s.roundRepo.Complete(ctx, roundID, int(participants), revenue, payout, winners)
	if err != nil {
		return nil, fmt.Errorf("complete round: %w", err)
	}
	round, err = s.roundRepo.FindByID(ctx, roundID)
	if err != nil {
		return nil, err
	}
	if completed {
		slog.Info("round completed",
			"roundId", roundID.Hex(),
			"participants", participants,
			"revenue", revenue,
			"payout", payout,
			"houseProfit", revenue-payout,
		)
		s.publisher.Publish(ctx, events.Event{
			Type: events.TypeRoundCompleted,
			Payload: map[string]any{
				"roundId":    roundID.Hex(),
				"statistics": statisticsOf(round),
			},
		})
	}
	return round, nil
}

// statisticsOf builds the reporting figures from a round document
func statisticsOf(round *models.Round) RoundStatistics {
	stats := RoundStatistics{
		TotalParticipants: round.TotalParticipants,
		TotalRevenue:      round.TotalRevenue,
		TotalPayout:       round.TotalPayout,
		HouseProfit:       round.HouseProfit,
		WinnersCount:      round.WinnersCount,
	}
	if round.Status != models.RoundStatusCompleted {
		// Totals are only written at completion; report the running sums.
		for _, class := range game.AllClasses {
			result := round.ClassResult(class)
			stats.TotalRevenue += result.TotalAmount
			stats.TotalPayout += result.TotalWinnings
			stats.WinnersCount += result.WinnersCount
		}
		stats.HouseProfit = stats.TotalRevenue - stats.TotalPayout
	}
	return stats
}
