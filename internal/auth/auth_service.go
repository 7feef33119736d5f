package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"picfolio/db"
	"picfolio/internal/logger"
	"picfolio/models"
)

var (
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmptyUsername      = errors.New("username must not be empty")
	ErrPasswordTooLong    = errors.New("password is too long")
)

// bcrypt only hashes the first 72 bytes of a password.
const maxPasswordBytes = 72

// AuthService is the credential store: it registers users and checks passwords.
type AuthService struct {
	repo      db.UserRepository
	dbManager *db.DBManager
	cost      int
}

func NewAuthService(repo db.UserRepository, dbManager *db.DBManager) *AuthService {
	return &AuthService{
		repo:      repo,
		dbManager: dbManager,
		cost:      bcrypt.DefaultCost,
	}
}

// WithCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (s *AuthService) WithCost(cost int) *AuthService {
	s.cost = cost
	return s
}

// Register stores a new user with a salted bcrypt hash of password.
func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" {
		return nil, ErrEmptyUsername
	}
	if len(password) > maxPasswordBytes {
		return nil, ErrPasswordTooLong
	}

	_, err := s.repo.FindByUsername(ctx, username)
	if err == nil {
		return nil, ErrDuplicateUsername
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, ErrPasswordTooLong
	}
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &models.User{
		ID:           db.GenerateID(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if err := s.dbManager.CreateUser(ctx, s.repo, user); err != nil {
		// Lost a race with a concurrent registration of the same name.
		if errors.Is(err, db.ErrDuplicate) {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}

	logger.Info("user registered", zap.String("username", username))
	return user, nil
}

// Authenticate returns the user when password matches the stored hash.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
