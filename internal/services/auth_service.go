package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/fathima-sithara/visa-service/internal/models"
	"github.com/fathima-sithara/visa-service/internal/repository"
	"github.com/fathima-sithara/visa-service/internal/utils"
	"go.uber.org/zap"
)

const tokenTypeBearer = "bearer"

type authService struct {
	users    repository.UserRepository
	jwt      *utils.JWTManager
	hashCost int
	logger   *zap.Logger
}

func NewAuthService(users repository.UserRepository, jwt *utils.JWTManager, hashCost int, logger *zap.Logger) AuthService {
	return &authService{users: users, jwt: jwt, hashCost: hashCost, logger: logger}
}

// Register creates an unverified user. Email comparison is exact, so
// "Alice@x.com" and "alice@x.com" are distinct accounts.
func (s *authService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthTokens, error) {
	_, err := s.users.FindByEmail(ctx, req.Email)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup user by email: %w", err)
	}

	hash, err := utils.HashPassword(req.Password, s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{
		FullName:        req.FullName,
		Email:           req.Email,
		PasswordHash:    hash,
		Phone:           req.Phone,
		Citizenship:     req.Citizenship,
		IsEmailVerified: false,
		Role:            models.RoleUser,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", zap.String("user_id", u.ID.Hex()))
	return s.issue(u)
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.AuthTokens, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user by email: %w", err)
	}
	if !utils.CheckPassword(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(u)
}

func (s *authService) Profile(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate) error {
	if err := s.users.UpdateProfile(ctx, userID, upd); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *authService) Authenticate(token string) (*Identity, error) {
	claims, err := s.jwt.Parse(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	role := models.UserRole(claims.Role)
	if role == "" {
		role = models.RoleUser
	}
	return &Identity{UserID: claims.Subject, Role: role}, nil
}

func (s *authService) issue(u *models.User) (*models.AuthTokens, error) {
	token, _, err := s.jwt.Generate(u.ID.Hex(), string(u.Role))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &models.AuthTokens{
		AccessToken: token,
		TokenType:   tokenTypeBearer,
		UserID:      u.ID.Hex(),
	}, nil
}
