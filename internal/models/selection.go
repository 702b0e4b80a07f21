package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/playdigits/lotto-backend/internal/game"
)

// SelectionStatus represents the lifecycle state of a bet
type SelectionStatus string

const (
	SelectionStatusPending   SelectionStatus = "PENDING"
	SelectionStatusWin       SelectionStatus = "WIN"
	SelectionStatusLoss      SelectionStatus = "LOSS"
	SelectionStatusCancelled SelectionStatus = "CANCELLED"
)

// Selection is a single user bet (class + number + stake) for a specific
// round. Immutable after creation except for the status transition
// PENDING -> WIN | LOSS | CANCELLED and the payout written on a win.
// Uniqueness on (userId, roundId, classType, number) is enforced by an index.
type Selection struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	RoundID      primitive.ObjectID `bson:"roundId" json:"roundId"`
	ClassType    game.Class         `bson:"classType" json:"classType"`
	Number       string             `bson:"number" json:"number"`
	Amount       float64            `bson:"amount" json:"amount"`
	PayoutAmount float64            `bson:"payoutAmount" json:"payoutAmount"`
	Status       SelectionStatus    `bson:"status" json:"status"`
	SettledAt    time.Time          `bson:"settledAt,omitempty" json:"settledAt,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
