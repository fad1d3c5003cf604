package auth

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/jwalitptl/care-sync/internal/model"
	"github.com/jwalitptl/care-sync/internal/repository"
	"github.com/jwalitptl/care-sync/pkg/auth"
	"github.com/jwalitptl/care-sync/pkg/errors"
	"github.com/jwalitptl/care-sync/pkg/logger"
	"github.com/jwalitptl/care-sync/pkg/security"
)

var ErrInvalidCredentials = stderrors.New("invalid credentials")

type Service struct {
	userRepo repository.UserRepository
	jwt      *auth.JWTManager
	hasher   security.PasswordHasher
	log      *logger.Logger
}

func NewService(userRepo repository.UserRepository, jwt *auth.JWTManager, hasher security.PasswordHasher, log *logger.Logger) *Service {
	return &Service{
		userRepo: userRepo,
		jwt:      jwt,
		hasher:   hasher,
		log:      log,
	}
}

// Register creates a profile for the role together with its login and
// returns a token for it.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.TokenResponse, error) {
	hash, err := s.hasher.Hash(req.Password)
	if stderrors.Is(err, security.ErrPasswordTooShort) {
		return nil, errors.BadRequest(err.Error(), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	profile := &model.Profile{
		Role:  req.Role,
		Name:  req.Name,
		Email: req.Email,
	}
	user := &model.User{
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
	}
	if err := s.userRepo.CreateWithProfile(ctx, user, profile); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.log.Info("user registered", "profile_id", user.ProfileID.String(), "role", user.Role)
	return s.token(user)
}

// Login checks the password and issues a bearer token.
func (s *Service) Login(ctx context.Context, email, password string) (*model.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.Unauthorized(ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		s.log.Warn("failed login attempt", "email", user.Email)
		return nil, errors.Unauthorized(ErrInvalidCredentials)
	}

	return s.token(user)
}

func (s *Service) token(user *model.User) (*model.TokenResponse, error) {
	token, expires, err := s.jwt.Issue(user.ProfileID.String(), user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &model.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(time.Until(expires).Seconds()),
		ProfileID:   user.ProfileID,
		Role:        user.Role,
	}, nil
}
