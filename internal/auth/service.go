package auth

import (
	"log/slog"

	"github.com/danuandrean/pettycash/internal"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	repo   RepositoryAPI
	tokens *TokenManager
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, tokens *TokenManager, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
		logger: logger,
	}
}

func (s *Service) Authenticate(dto LoginDTO) (*TokenResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	passwordHash, userID, err := s.repo.GetPasswordForEmail(dto.Email)
	if err != nil {
		s.logger.Warn("login failed: user lookup", "email", dto.Email)
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(dto.Password)); err != nil {
		s.logger.Warn("login failed: password mismatch", "email", dto.Email)
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetUser(userID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	token, expiresAt, err := s.tokens.Generate(user)
	if err != nil {
		s.logger.Error("failed to sign access token", "error", err, "user_id", user.ID)
		return nil, err
	}

	s.logger.Info("user authenticated", "user_id", user.ID, "role", user.Role)

	return &TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokens.Validate(tokenString)
}

func (s *Service) GetUser(userID int64) (*User, error) {
	return s.repo.GetUser(userID)
}
