package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/playdigits/lotto-backend/internal/models"
	"github.com/playdigits/lotto-backend/internal/repositories"
)

// Compile-time check to ensure WalletTransactionRepository implements the interface
var _ repositories.WalletTransactionRepository = (*WalletTransactionRepository)(nil)

// WalletTransactionRepository handles MongoDB operations for the wallet
// ledger. Rows are append-only; the type exposes no update or delete.
type WalletTransactionRepository struct {
	collection *mongo.Collection
}

// NewWalletTransactionRepository creates a new WalletTransactionRepository
func NewWalletTransactionRepository(db *mongo.Database) *WalletTransactionRepository {
	return &WalletTransactionRepository{
		collection: db.Collection("wallet_transactions"),
	}
}

// Create appends a ledger row
func (r *WalletTransactionRepository) Create(ctx context.Context, txn *models.WalletTransaction) error {
	txn.ID = primitive.NewObjectID()
	txn.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, txn)
	return err
}

// FindByUserID retrieves a user's ledger rows, newest first
func (r *WalletTransactionRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.WalletTransaction, error) {
	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var txns []*models.WalletTransaction
	if err := cursor.All(ctx, &txns); err != nil {
		return nil, err
	}
	if txns == nil {
		txns = []*models.WalletTransaction{}
	}
	return txns, nil
}
