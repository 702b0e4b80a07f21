package services

import (
	"context"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/playdigits/lotto-backend/internal/models"
	"github.com/playdigits/lotto-backend/internal/repositories"
)

// UserService handles account queries and admin account management
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Get returns a user by ID
func (s *UserService) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

// List returns users with pagination, newest first
func (s *UserService) List(ctx context.Context, page, limit int) ([]*models.User, error) {
	return s.userRepo.FindAll(ctx, page, limit)
}

// Count returns the total number of accounts
func (s *UserService) Count(ctx context.Context) (int64, error) {
	return s.userRepo.Count(ctx)
}

// SetBlocked blocks or unblocks an account. Blocked users keep their
// balance and history but cannot log in, bet or withdraw.
func (s *UserService) SetBlocked(ctx context.Context, id primitive.ObjectID, blocked bool) (*models.User, error) {
	if err := s.userRepo.SetBlocked(ctx, id, blocked); err != nil {
		return nil, err
	}
	slog.Info("user block status changed", "userId", id.Hex(), "blocked", blocked)
	return s.userRepo.FindByID(ctx, id)
}
