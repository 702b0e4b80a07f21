package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TransactionType is the direction of a wallet movement
type TransactionType string

const (
	TransactionCredit TransactionType = "CREDIT"
	TransactionDebit  TransactionType = "DEBIT"
)

// Wallet transaction sources
const (
	SourceGamePlay         = "game-play"
	SourceGameWin          = "game-win"
	SourceRefund           = "refund"
	SourceDeposit          = "deposit"
	SourceWithdrawal       = "withdrawal"
	SourceWithdrawalRefund = "withdrawal-refund"
	SourceAdminCredit      = "admin-credit"
	SourceAdminDebit       = "admin-debit"
)

// WalletTransaction is the append-only audit record of every balance change.
// BalanceBefore/BalanceAfter snapshot the wallet around the movement; rows
// are never mutated after creation.
type WalletTransaction struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	Type          TransactionType    `bson:"type" json:"type"`
	Amount        float64            `bson:"amount" json:"amount"`
	Source        string             `bson:"source" json:"source"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	BalanceBefore float64            `bson:"balanceBefore" json:"balanceBefore"`
	BalanceAfter  float64            `bson:"balanceAfter" json:"balanceAfter"`
	RoundID       primitive.ObjectID `bson:"roundId,omitempty" json:"roundId,omitempty"`
	SelectionID   primitive.ObjectID `bson:"selectionId,omitempty" json:"selectionId,omitempty"`
	AdminID       primitive.ObjectID `bson:"adminId,omitempty" json:"adminId,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
