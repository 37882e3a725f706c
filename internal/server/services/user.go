// Package services contains server-side business logic. This file implements
// UserService, which handles registration, credential verification, session
// token minting, and the current-user view.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/pkalnins/gallery/internal/common"
	"github.com/pkalnins/gallery/internal/server/auth"
	"github.com/pkalnins/gallery/internal/server/config"
	"github.com/pkalnins/gallery/internal/server/models"
	"github.com/pkalnins/gallery/internal/server/repositories/repomanager"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// UserService provides authentication-related operations:
// - Register: validate input and create users
// - Login: verify credentials and mint a session token
// - CurrentUser: resolve a user identity plus their gallery
type UserService struct {
	db                      *sql.DB
	repomanager             repomanager.RepositoryManager
	jwtSecret               []byte
	sessionValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                      db,
		repomanager:             m,
		jwtSecret:               []byte(cfg.SecretKey),
		sessionValidityDuration: cfg.SessionValidityDuration,
	}
}

// Register creates a new user. The bounds mirror the original signup form:
// name 2-30 characters, password 6-20 characters, plausible email.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	if err := validateRegistration(name, email, password); err != nil {
		return nil, err
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
			return nil, fmt.Errorf("%w: email already registered", common.ErrorAlreadyExists)
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return u, nil
}

// Login verifies the password against the stored hash and, on success,
// returns the user together with a fresh session token.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", common.ErrorUnauthorized
		}
		return nil, "", common.ErrorInternal
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.sessionValidityDuration)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	return user, token, nil
}

// CurrentUser loads the user behind a resolved session plus their posts in
// owner-list order (most recent first).
func (s *UserService) CurrentUser(ctx context.Context, userID string) (*models.User, []*models.Post, error) {
	userRepo := s.repomanager.Users(s.db)

	user, err := userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// a valid token for a vanished user is still unauthorized
			return nil, nil, common.ErrorUnauthorized
		}
		return nil, nil, common.ErrorInternal
	}

	postRepo := s.repomanager.Posts(s.db)
	posts, err := postRepo.ListByIDs(ctx, user.PostIDs)
	if err != nil {
		return nil, nil, common.ErrorInternal
	}

	return user, posts, nil
}

func validateRegistration(name, email, password string) error {
	if len(name) < 2 || len(name) > 30 {
		return fmt.Errorf("%w: name must be 2-30 characters", common.ErrorValidation)
	}
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("%w: invalid email", common.ErrorValidation)
	}
	if len(password) < 6 || len(password) > 20 {
		return fmt.Errorf("%w: password must be 6-20 characters", common.ErrorValidation)
	}
	return nil
}
