package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/playdigits/lotto-backend/internal/game"
)

// RoundStatus represents the status of a betting round
type RoundStatus string

const (
	RoundStatusActive    RoundStatus = "ACTIVE"
	RoundStatusCompleted RoundStatus = "COMPLETED"
)

// ClassResult holds the winning number and aggregate statistics for one
// class within a round. Settled flips exactly once; it is the idempotency
// guard for settlement.
type ClassResult struct {
	WinningNumber string    `bson:"winningNumber,omitempty" json:"winningNumber,omitempty"`
	Settled       bool      `bson:"settled" json:"settled"`
	SettledAt     time.Time `bson:"settledAt,omitempty" json:"settledAt,omitempty"`
	TotalBets     int       `bson:"totalBets" json:"totalBets"`
	TotalAmount   float64   `bson:"totalAmount" json:"totalAmount"`
	TotalWinnings float64   `bson:"totalWinnings" json:"totalWinnings"`
	WinnersCount  int       `bson:"winnersCount" json:"winnersCount"`
}

// Round represents a time-boxed betting window with one winning number per
// class. A round is ACTIVE until every class is settled (or an admin forces
// completion), then COMPLETED and immutable.
type Round struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	StartTime time.Time          `bson:"startTime" json:"startTime"`
	EndTime   time.Time          `bson:"endTime" json:"endTime"`
	Status    RoundStatus        `bson:"status" json:"status"`

	ClassA ClassResult `bson:"classA" json:"classA"`
	ClassB ClassResult `bson:"classB" json:"classB"`
	ClassC ClassResult `bson:"classC" json:"classC"`
	ClassD ClassResult `bson:"classD" json:"classD"`

	TotalParticipants int       `bson:"totalParticipants" json:"totalParticipants"`
	TotalRevenue      float64   `bson:"totalRevenue" json:"totalRevenue"`
	TotalPayout       float64   `bson:"totalPayout" json:"totalPayout"`
	HouseProfit       float64   `bson:"houseProfit" json:"houseProfit"`
	WinnersCount      int       `bson:"winnersCount" json:"winnersCount"`
	CompletedAt       time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ClassResult returns the result slot for a class
func (r *Round) ClassResult(class game.Class) *ClassResult {
	switch class {
	case game.ClassA:
		return &r.ClassA
	case game.ClassB:
		return &r.ClassB
	case game.ClassC:
		return &r.ClassC
	case game.ClassD:
		return &r.ClassD
	default:
		return nil
	}
}

// AllSettled reports whether every class has been settled
func (r *Round) AllSettled() bool {
	for _, class := range game.AllClasses {
		if !r.ClassResult(class).Settled {
			return false
		}
	}
	return true
}

// LockTime is the instant after which no new bets are accepted
func (r *Round) LockTime(lockWindow time.Duration) time.Time {
	return r.EndTime.Add(-lockWindow)
}

// AcceptsBetsAt reports whether new selections may be placed at the given
// instant: the round is active and now falls in [startTime, endTime-lockWindow).
func (r *Round) AcceptsBetsAt(now time.Time, lockWindow time.Duration) bool {
	return r.Status == RoundStatusActive &&
		!now.Before(r.StartTime) &&
		now.Before(r.LockTime(lockWindow))
}

// AllowsCancelAt reports whether an existing selection may still be
// cancelled: cancels are accepted down to the grace window before lock.
func (r *Round) AllowsCancelAt(now time.Time, lockWindow, grace time.Duration) bool {
	return r.Status == RoundStatusActive &&
		now.Before(r.LockTime(lockWindow).Add(-grace))
}
