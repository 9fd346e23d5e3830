// Package services contains server-side business logic. This file implements
// UserService, which handles registration, credential checks and
// issuing/verifying session tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/snapfeed/internal/common"
	"github.com/dmitrijs2005/snapfeed/internal/server/auth"
	"github.com/dmitrijs2005/snapfeed/internal/server/config"
	"github.com/dmitrijs2005/snapfeed/internal/server/models"
	"github.com/dmitrijs2005/snapfeed/internal/server/repositories/repomanager"
)

// UserService provides identity operations:
// - Register: create users with a hashed password
// - Login: verify credentials and mint a session token
// - Verify: validate a presented token against the identity store
type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// Register creates a new user. The email must not be registered yet;
// a duplicate yields common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, name string, email string, password string) (*models.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, common.ErrorValidation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{Name: name, Email: email, PasswordHash: string(hash)}
	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %v", err)
	}
	return u, nil
}

// Login verifies the email/password pair and, on success, returns a signed
// session token. Unknown emails and wrong passwords are indistinguishable
// to the caller.
func (s *UserService) Login(ctx context.Context, email string, password string) (string, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", common.ErrorInternal
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, user.Email, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return "", common.ErrorInternal
	}

	return token, nil
}

// Verify parses the token and confirms the embedded identity still matches
// the stored record. A token whose email diverges from the stored user
// yields common.ErrorForbidden.
func (s *UserService) Verify(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	if user.Email != claims.Email {
		return nil, common.ErrorForbidden
	}

	return claims, nil
}

// ParseToken validates a raw token string without touching the store.
// The HTTP middleware uses it to resolve the acting user.
func (s *UserService) ParseToken(token string) (*auth.Claims, error) {
	return auth.ParseToken(token, s.jwtSecret)
}
