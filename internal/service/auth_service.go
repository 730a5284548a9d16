package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"quiz-ai/internal/config"
	"quiz-ai/internal/domain"
	"quiz-ai/internal/dto"
	"quiz-ai/internal/logger"
	"quiz-ai/internal/util"
)

const (
	DefaultTokenTTL   = 24 * time.Hour
	MinPasswordLen    = 8
	DefaultBcryptCost = 12
)

var ErrInvalidJWTToken = errors.New("invalid jwt token")

// AuthService defines the interface for authentication operations.
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*domain.User, string, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*domain.User, string, error)
	GetMe(ctx context.Context, userID string) (*domain.User, error)
	ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
	CreateJWT(ctx context.Context, user *domain.User) (string, error)
}

type authServiceImpl struct {
	userRepo   domain.UserRepository
	secret     []byte
	ttl        time.Duration
	bcryptCost int
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(userRepo domain.UserRepository, jwtCfg config.JWTConfig) (AuthService, error) {
	return newAuthService(userRepo, jwtCfg, DefaultBcryptCost)
}

func newAuthService(userRepo domain.UserRepository, jwtCfg config.JWTConfig, cost int) (*authServiceImpl, error) {
	if jwtCfg.SecretKey == "" {
		return nil, errors.New("jwt secret key is not configured")
	}
	ttl := jwtCfg.TTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &authServiceImpl{
		userRepo:   userRepo,
		secret:     []byte(jwtCfg.SecretKey),
		ttl:        ttl,
		bcryptCost: cost,
	}, nil
}

func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*domain.User, string, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" || email == "" || req.Password == "" {
		return nil, "", domain.NewInvalidInputError("username, email and password are required")
	}
	if len(req.Password) < MinPasswordLen {
		return nil, "", domain.NewInvalidInputError(fmt.Sprintf("password must be at least %d characters", MinPasswordLen))
	}

	existing, err := s.userRepo.GetUserByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, "", domain.NewInternalError("Failed to look up user", err)
	}
	if existing != nil {
		return nil, "", domain.NewConflictError("Username or email is already in use")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, "", domain.NewInternalError("Failed to hash password", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           util.NewULID(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, "", domain.NewInternalError("Failed to create user", err)
	}

	token, err := s.CreateJWT(ctx, user)
	if err != nil {
		return nil, "", domain.NewInternalError("Failed to create token", err)
	}

	logger.Get().Info("User registered", zap.String("userID", user.ID), zap.String("username", user.Username))
	return user, token, nil
}

func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*domain.User, string, error) {
	identifier := strings.TrimSpace(req.Username)
	if identifier == "" || req.Password == "" {
		return nil, "", domain.NewInvalidInputError("username and password are required")
	}

	user, err := s.userRepo.GetUserByUsernameOrEmail(ctx, identifier, identifier)
	if err != nil {
		return nil, "", domain.NewInternalError("Failed to look up user", err)
	}
	if user == nil {
		return nil, "", domain.NewUnauthorizedError("Invalid username or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", domain.NewUnauthorizedError("Invalid username or password")
	}

	token, err := s.CreateJWT(ctx, user)
	if err != nil {
		return nil, "", domain.NewInternalError("Failed to create token", err)
	}

	logger.Get().Info("User logged in", zap.String("userID", user.ID))
	return user, token, nil
}

func (s *authServiceImpl) GetMe(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get user", err)
	}
	if user == nil {
		return nil, domain.NewUnauthorizedError("User not found")
	}
	return user, nil
}

func (s *authServiceImpl) CreateJWT(ctx context.Context, user *domain.User) (string, error) {
	now := time.Now()
	claims := dto.AuthClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   user.ID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *authServiceImpl) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &dto.AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			logger.Get().Debug("JWT token expired", zap.Error(err))
		} else {
			logger.Get().Debug("JWT validation failed", zap.Error(err))
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidJWTToken, err)
	}

	if claims, ok := token.Claims.(*dto.AuthClaims); ok && token.Valid && claims.UserID != "" {
		return claims, nil
	}
	return nil, ErrInvalidJWTToken
}
