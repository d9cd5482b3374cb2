package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"dealdesk_backend/internal/auth/password"
	"dealdesk_backend/internal/auth/repository"
	"dealdesk_backend/internal/auth/transport"
	"dealdesk_backend/internal/config"
	"dealdesk_backend/platform/apperr"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Service struct {
	repo *repository.Repository
	cfg  *config.Config
}

func New(repo *repository.Repository, cfg *config.Config) *Service {
	return &Service{repo: repo, cfg: cfg}
}

func (s *Service) Register(ctx context.Context, req transport.RegisterRequest) (transport.UserResponse, error) {
	hash, err := password.Hash(req.Password)
	if err != nil {
		return transport.UserResponse{}, err
	}

	user, err := s.repo.CreateUser(ctx, normalizeEmail(req.Email), hash, req.DisplayName)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return transport.UserResponse{}, apperr.Conflict("email already registered")
		}
		return transport.UserResponse{}, err
	}
	return toUserResponse(user), nil
}

func (s *Service) Login(ctx context.Context, req transport.LoginRequest) (transport.LoginResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LoginResponse{}, apperr.Unauthorized("invalid credentials")
		}
		return transport.LoginResponse{}, err
	}

	if !password.Verify(user.PasswordHash, req.Password) {
		return transport.LoginResponse{}, apperr.Unauthorized("invalid credentials")
	}

	expiresAt := time.Now().Add(s.cfg.AccessTokenTTL)
	token, err := s.issueAccessToken(user.ID, expiresAt)
	if err != nil {
		return transport.LoginResponse{}, err
	}

	return transport.LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        toUserResponse(user),
	}, nil
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (transport.UserResponse, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.UserResponse{}, apperr.NotFound("user not found")
		}
		return transport.UserResponse{}, err
	}
	return toUserResponse(user), nil
}

func (s *Service) issueAccessToken(userID uuid.UUID, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID.String(),
		"typ": "access",
		"iat": time.Now().Unix(),
		"exp": expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTAccessSecret))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserResponse(u repository.User) transport.UserResponse {
	return transport.UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}
