package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WithdrawalStatus represents the status of a withdrawal request
type WithdrawalStatus string

const (
	WithdrawalStatusPending  WithdrawalStatus = "PENDING"
	WithdrawalStatusApproved WithdrawalStatus = "APPROVED"
	WithdrawalStatusRejected WithdrawalStatus = "REJECTED"
)

// Withdrawal is a user request to move wallet funds out. The amount is
// debited at request time; a rejection refunds it through the ledger.
type Withdrawal struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	Amount       float64            `bson:"amount" json:"amount"`
	Account      string             `bson:"account" json:"account"` // payout account details, opaque to the backend
	Status       WithdrawalStatus   `bson:"status" json:"status"`
	DecidedBy    primitive.ObjectID `bson:"decidedBy,omitempty" json:"decidedBy,omitempty"`
	DecisionNote string             `bson:"decisionNote,omitempty" json:"decisionNote,omitempty"`
	DecidedAt    time.Time          `bson:"decidedAt,omitempty" json:"decidedAt,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
