package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/playdigits/lotto-backend/internal/game"
	"github.com/playdigits/lotto-backend/internal/models"
	"github.com/playdigits/lotto-backend/internal/repositories"
)

// Compile-time check to ensure SelectionRepository implements the interface
var _ repositories.SelectionRepository = (*SelectionRepository)(nil)

// SelectionRepository handles MongoDB operations for Selection
type SelectionRepository struct {
	collection *mongo.Collection
}

// NewSelectionRepository creates a new SelectionRepository
func NewSelectionRepository(db *mongo.Database) *SelectionRepository {
	return &SelectionRepository{
		collection: db.Collection("selections"),
	}
}

// Create inserts a selection. The unique compound index on
// (userId, roundId, classType, number) turns the racy existence check of the
// legacy code into a hard constraint.
func (r *SelectionRepository) Create(ctx context.Context, selection *models.Selection) error {
	selection.ID = primitive.NewObjectID()
	selection.CreatedAt = time.Now()
	selection.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, selection)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repositories.ErrDuplicateSelection
		}
		return err
	}
	return nil
}

// FindByID finds a selection by ID
func (r *SelectionRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Selection, error) {
	var selection models.Selection
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&selection)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &selection, nil
}

// FindByUserID retrieves a user's selections, newest first
func (r *SelectionRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.Selection, error) {
	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	return r.find(ctx, bson.M{"userId": userID}, opts)
}

// FindPendingByRoundAndClass retrieves the selections awaiting settlement
// for one class of a round
func (r *SelectionRepository) FindPendingByRoundAndClass(ctx context.Context, roundID primitive.ObjectID, class game.Class) ([]*models.Selection, error) {
	filter := bson.M{
		"roundId":   roundID,
		"classType": class,
		"status":    models.SelectionStatusPending,
	}
	return r.find(ctx, filter, nil)
}

// FindPendingByRound retrieves all pending selections of a round
func (r *SelectionRepository) FindPendingByRound(ctx context.Context, roundID primitive.ObjectID) ([]*models.Selection, error) {
	filter := bson.M{
		"roundId": roundID,
		"status":  models.SelectionStatusPending,
	}
	return r.find(ctx, filter, nil)
}

func (r *SelectionRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.Selection, error) {
	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = r.collection.Find(ctx, filter, opts)
	} else {
		cursor, err = r.collection.Find(ctx, filter)
	}
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var selections []*models.Selection
	if err := cursor.All(ctx, &selections); err != nil {
		return nil, err
	}
	if selections == nil {
		selections = []*models.Selection{}
	}
	return selections, nil
}

// TransitionStatus moves a selection between statuses with a conditional
// update. A settlement or cancellation that lost the race matches nothing
// and reports false instead of double-applying.
func (r *SelectionRepository) TransitionStatus(ctx context.Context, id primitive.ObjectID, from, to models.SelectionStatus, payout float64) (bool, error) {
	filter := bson.M{"_id": id, "status": from}
	set := bson.M{
		"status":    to,
		"updatedAt": time.Now(),
	}
	if to == models.SelectionStatusWin || to == models.SelectionStatusLoss {
		set["payoutAmount"] = payout
		set["settledAt"] = time.Now()
	}
	res, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// CountDistinctUsers counts the distinct bettors of a round
func (r *SelectionRepository) CountDistinctUsers(ctx context.Context, roundID primitive.ObjectID) (int64, error) {
	values, err := r.collection.Distinct(ctx, "userId", bson.M{"roundId": roundID})
	if err != nil {
		return 0, err
	}
	return int64(len(values)), nil
}
