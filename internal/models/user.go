package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a player or admin account. WalletBalance is the single
// canonical balance field; every change to it must have a matching
// WalletTransaction row.
type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email         string             `bson:"email" json:"email"`
	Password      string             `bson:"password" json:"-"`
	Name          string             `bson:"name" json:"name"`
	Phone         string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Role          string             `bson:"role" json:"role"` // "user" or "admin"
	WalletBalance float64            `bson:"walletBalance" json:"walletBalance"`
	TotalWinnings float64            `bson:"totalWinnings" json:"totalWinnings"`
	TotalLosses   float64            `bson:"totalLosses" json:"totalLosses"`
	GamesPlayed   int                `bson:"gamesPlayed" json:"gamesPlayed"`
	IsBlocked     bool               `bson:"isBlocked" json:"isBlocked"`
	LastActivity  time.Time          `bson:"lastActivity,omitempty" json:"lastActivity,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
