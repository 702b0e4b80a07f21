package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/playdigits/lotto-backend/internal/config"
	"github.com/playdigits/lotto-backend/internal/repositories"
)

// SchedulerService drives the round lifecycle on a timer: it opens a fresh
// round when none is accepting bets and closes out rounds whose window has
// expired and whose classes are all settled.
type SchedulerService struct {
	scheduler gocron.Scheduler
	roundRepo repositories.RoundRepository
	rounds    *RoundService
	rules     config.GameConfig
}

// NewSchedulerService creates the scheduler with a minutely lifecycle job
func NewSchedulerService(
	roundRepo repositories.RoundRepository,
	rounds *RoundService,
	rules config.GameConfig,
) (*SchedulerService, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	s := &SchedulerService{
		scheduler: scheduler,
		roundRepo: roundRepo,
		rounds:    rounds,
		rules:     rules,
	}
	if _, err := scheduler.NewJob(
		gocron.DurationJob(time.Minute),
		gocron.NewTask(s.tick),
	); err != nil {
		return nil, err
	}
	return s, nil
}

// Start begins the scheduled jobs
func (s *SchedulerService) Start() {
	s.scheduler.Start()
	slog.Info("round scheduler started", "interval", time.Minute)
}

// Shutdown stops the scheduler and waits for running jobs
func (s *SchedulerService) Shutdown() error {
	return s.scheduler.Shutdown()
}

// tick runs one lifecycle pass. Each concern tolerates failure of the
// other: a close-out error never stops round opening and vice versa.
func (s *SchedulerService) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.closeExpiredRounds(ctx)
	if s.rules.AutoOpenRounds {
		s.openRoundIfNeeded(ctx)
	}
}

// closeExpiredRounds completes active rounds whose window has passed. Fully
// settled rounds are simply completed; rounds with unsettled classes are
// left for the operator and flagged in the log, since completing them would
// refund bets that may still have a result coming.
func (s *SchedulerService) closeExpiredRounds(ctx context.Context) {
	expired, err := s.roundRepo.FindExpiredActive(ctx, time.Now())
	if err != nil {
		slog.Error("failed to list expired rounds", "error", err)
		return
	}
	for _, round := range expired {
		if !round.AllSettled() {
			slog.Warn("expired round awaiting results", "roundId", round.ID.Hex(), "endTime", round.EndTime)
			continue
		}
		if _, err := s.rounds.ForceComplete(ctx, round.ID); err != nil {
			slog.Error("failed to complete expired round", "error", err, "roundId", round.ID.Hex())
		}
	}
}

// openRoundIfNeeded opens the next round when no active round is accepting
// or will accept bets.
func (s *SchedulerService) openRoundIfNeeded(ctx context.Context) {
	now := time.Now()
	if _, err := s.roundRepo.FindCurrent(ctx, now); err == nil {
		return
	} else if !errors.Is(err, repositories.ErrNotFound) {
		slog.Error("failed to check current round", "error", err)
		return
	}

	start := now.Truncate(time.Minute)
	round, err := s.rounds.Open(ctx, start, start.Add(s.rules.RoundDuration))
	if err != nil {
		// Overlap means another instance won the race; not an error.
		if !errors.Is(err, ErrRoundOverlap) {
			slog.Error("failed to auto-open round", "error", err)
		}
		return
	}
	slog.Info("round auto-opened", "roundId", round.ID.Hex(), "endTime", round.EndTime)
}
