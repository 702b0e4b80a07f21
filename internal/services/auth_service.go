package services

import (
	"context"
	"errors"
	"log/slog"

	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/playdigits/lotto-backend/internal/config"
	"github.com/playdigits/lotto-backend/internal/models"
	"github.com/playdigits/lotto-backend/internal/repositories"
	"github.com/playdigits/lotto-backend/internal/utils"
)

// AuthService handles registration, login and the bootstrap admin account
type AuthService struct {
	userRepo repositories.UserRepository
	jwtCfg   config.JWTConfig
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repositories.UserRepository, jwtCfg config.JWTConfig) *AuthService {
	return &AuthService{userRepo: userRepo, jwtCfg: jwtCfg}
}

// Register creates a new player account with a hashed password
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:    req.Email,
		Password: string(hashed),
		Name:     req.Name,
		Phone:    req.Phone,
		Role:     models.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// The unique email index closes the check-then-create race.
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	slog.Info("user registered", "userId", user.ID.Hex(), "email", user.Email)
	return user, nil
}

// Login verifies the credentials and issues a signed token
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.IsBlocked {
		return nil, ErrAccountBlocked
	}

	token, err := utils.GenerateJWT(user, s.jwtCfg)
	if err != nil {
		return nil, err
	}
	return &models.LoginResponse{Token: token, User: user}, nil
}

// EnsureAdmin seeds the bootstrap admin account on first start. It does
// nothing when any admin already exists or when no bootstrap credentials
// are configured.
func (s *AuthService) EnsureAdmin(ctx context.Context, admin config.AdminConfig) error {
	if admin.Email == "" || admin.Password == "" {
		return nil
	}
	count, err := s.userRepo.CountByRole(ctx, models.RoleAdmin)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user := &models.User{
		Email:    admin.Email,
		Password: string(hashed),
		Name:     "Administrator",
		Role:     models.RoleAdmin,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return err
	}
	slog.Info("bootstrap admin created", "email", admin.Email)
	return nil
}
