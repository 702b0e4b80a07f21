package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/playdigits/lotto-backend/internal/models"
	"github.com/playdigits/lotto-backend/internal/repositories"
)

// Compile-time check to ensure WithdrawalRepository implements the interface
var _ repositories.WithdrawalRepository = (*WithdrawalRepository)(nil)

// WithdrawalRepository handles MongoDB operations for Withdrawal
type WithdrawalRepository struct {
	collection *mongo.Collection
}

// NewWithdrawalRepository creates a new WithdrawalRepository
func NewWithdrawalRepository(db *mongo.Database) *WithdrawalRepository {
	return &WithdrawalRepository{
		collection: db.Collection("withdrawals"),
	}
}

// Create inserts a withdrawal request
func (r *WithdrawalRepository) Create(ctx context.Context, withdrawal *models.Withdrawal) error {
	withdrawal.ID = primitive.NewObjectID()
	withdrawal.CreatedAt = time.Now()
	withdrawal.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, withdrawal)
	return err
}

// FindByID finds a withdrawal by ID
func (r *WithdrawalRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Withdrawal, error) {
	var withdrawal models.Withdrawal
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&withdrawal)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &withdrawal, nil
}

// FindByUserID retrieves a user's withdrawals, newest first
func (r *WithdrawalRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.Withdrawal, error) {
	return r.find(ctx, bson.M{"userId": userID}, page, limit)
}

// FindByStatus retrieves withdrawals by status, newest first
func (r *WithdrawalRepository) FindByStatus(ctx context.Context, status models.WithdrawalStatus, page, limit int) ([]*models.Withdrawal, error) {
	return r.find(ctx, bson.M{"status": status}, page, limit)
}

func (r *WithdrawalRepository) find(ctx context.Context, filter bson.M, page, limit int) ([]*models.Withdrawal, error) {
	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var withdrawals []*models.Withdrawal
	if err := cursor.All(ctx, &withdrawals); err != nil {
		return nil, err
	}
	if withdrawals == nil {
		withdrawals = []*models.Withdrawal{}
	}
	return withdrawals, nil
}

// Decide transitions PENDING -> APPROVED|REJECTED with a conditional update
// so a withdrawal can only be decided once.
func (r *WithdrawalRepository) Decide(ctx context.Context, id primitive.ObjectID, status models.WithdrawalStatus, adminID primitive.ObjectID, note string) (bool, error) {
	filter := bson.M{"_id": id, "status": models.WithdrawalStatusPending}
	update := bson.M{
		"$set": bson.M{
			"status":       status,
			"decidedBy":    adminID,
			"decisionNote": note,
			"decidedAt":    time.Now(),
			"updatedAt":    time.Now(),
		},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}
