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

// Compile-time check to ensure RoundRepository implements the interface
var _ repositories.RoundRepository = (*RoundRepository)(nil)

// RoundRepository handles MongoDB operations for Round
type RoundRepository struct {
	collection *mongo.Collection
}

// NewRoundRepository creates a new RoundRepository
func NewRoundRepository(db *mongo.Database) *RoundRepository {
	return &RoundRepository{
		collection: db.Collection("rounds"),
	}
}

// classField maps a class to its document field name
func classField(class game.Class) string {
	switch class {
	case game.ClassA:
		return "classA"
	case game.ClassB:
		return "classB"
	case game.ClassC:
		return "classC"
	default:
		return "classD"
	}
}

// Create inserts a new round
func (r *RoundRepository) Create(ctx context.Context, round *models.Round) error {
	round.CreatedAt = time.Now()
	round.UpdatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, round)
	if err != nil {
		return err
	}
	round.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds a round by ID
func (r *RoundRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Round, error) {
	var round models.Round
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&round)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &round, nil
}

// FindCurrent returns the active round whose window has not ended yet
func (r *RoundRepository) FindCurrent(ctx context.Context, now time.Time) (*models.Round, error) {
	filter := bson.M{
		"status":  models.RoundStatusActive,
		"endTime": bson.M{"$gt": now},
	}
	opts := options.FindOne().SetSort(bson.M{"endTime": 1})

	var round models.Round
	err := r.collection.FindOne(ctx, filter, opts).Decode(&round)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &round, nil
}

// FindAll retrieves rounds with pagination, newest first
func (r *RoundRepository) FindAll(ctx context.Context, page, limit int) ([]*models.Round, error) {
	opts := options.Find().
		SetSort(bson.M{"startTime": -1}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rounds []*models.Round
	if err := cursor.All(ctx, &rounds); err != nil {
		return nil, err
	}
	if rounds == nil {
		rounds = []*models.Round{}
	}
	return rounds, nil
}

// FindActiveOverlapping finds active rounds overlapping [start, end)
func (r *RoundRepository) FindActiveOverlapping(ctx context.Context, start, end time.Time) ([]*models.Round, error) {
	filter := bson.M{
		"status":    models.RoundStatusActive,
		"startTime": bson.M{"$lt": end},
		"endTime":   bson.M{"$gt": start},
	}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rounds []*models.Round
	if err := cursor.All(ctx, &rounds); err != nil {
		return nil, err
	}
	if rounds == nil {
		rounds = []*models.Round{}
	}
	return rounds, nil
}

// FindExpiredActive finds active rounds whose window has already closed
func (r *RoundRepository) FindExpiredActive(ctx context.Context, now time.Time) ([]*models.Round, error) {
	filter := bson.M{
		"status":  models.RoundStatusActive,
		"endTime": bson.M{"$lte": now},
	}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rounds []*models.Round
	if err := cursor.All(ctx, &rounds); err != nil {
		return nil, err
	}
	if rounds == nil {
		rounds = []*models.Round{}
	}
	return rounds, nil
}

// SetWinningNumber records the winning number and flips the settled flag for
// a class in a single conditional update. The filter rejects the write when
// the class is already settled or the round completed, which makes repeated
// settlement triggers no-ops.
func (r *RoundRepository) SetWinningNumber(ctx context.Context, id primitive.ObjectID, class game.Class, number string) (bool, error) {
	field := classField(class)
	filter := bson.M{
		"_id":              id,
		"status":           models.RoundStatusActive,
		field + ".settled": bson.M{"$ne": true},
	}
	update := bson.M{
		"$set": bson.M{
			field + ".winningNumber": number,
			field + ".settled":       true,
			field + ".settledAt":     time.Now(),
			"updatedAt":              time.Now(),
		},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// AccumulateClassStats adds aggregates for a settled class
func (r *RoundRepository) AccumulateClassStats(ctx context.Context, id primitive.ObjectID, class game.Class, bets int, amount, winnings float64, winners int) error {
	field := classField(class)
	update := bson.M{
		"$inc": bson.M{
			field + ".totalBets":     bets,
			field + ".totalAmount":   amount,
			field + ".totalWinnings": winnings,
			field + ".winnersCount":  winners,
		},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// Complete transitions the round to COMPLETED and writes the totals
func (r *RoundRepository) Complete(ctx context.Context, id primitive.ObjectID, participants int, revenue, payout float64, winners int) (bool, error) {
	filter := bson.M{"_id": id, "status": models.RoundStatusActive}
	update := bson.M{
		"$set": bson.M{
			"status":            models.RoundStatusCompleted,
			"totalParticipants": participants,
			"totalRevenue":      revenue,
			"totalPayout":       payout,
			"houseProfit":       revenue - payout,
			"winnersCount":      winners,
			"completedAt":       time.Now(),
			"updatedAt":         time.Now(),
		},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}
