package services

import (
	"context"
	"strings"
	"time"

	"foodgo/internal/caching"
	"foodgo/internal/common"
	"foodgo/internal/models"
	"foodgo/internal/repositories"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const (
	loginAttemptLimit  = 10
	loginAttemptWindow = 15 * time.Minute
)

// AuthService issues and verifies bearer tokens and manages credentials.
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.TokenResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.TokenResponse, error)
	Me(ctx context.Context, identity common.Identity) (*models.User, error)
	GenerateToken(user *models.User) (string, error)
	ParseToken(token string) (common.Identity, error)
}

// TokenClaims represents JWT claims
type TokenClaims struct {
	Role models.Role `json:"role"`
	Name string      `json:"name,omitempty"`
	jwt.RegisteredClaims
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
	Issuer    string
	// JWKSURL enables verification of asymmetric tokens from an external identity provider.
	JWKSURL string
}

type authService struct {
	users    repositories.UserRepository
	cacheSvc caching.CacheService
	cfg      AuthConfig
	secret   []byte
	jwks     *keyfunc.JWKS
	now      func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(users repositories.UserRepository, cacheSvc caching.CacheService, cfg AuthConfig) (AuthService, error) {
	s := &authService{
		users:    users,
		cacheSvc: cacheSvc,
		cfg:      cfg,
		secret:   []byte(cfg.JWTSecret),
		now:      time.Now,
	}
	if cfg.JWKSURL != "" {
		jwks, err := keyfunc.Get(cfg.JWKSURL, keyfunc.Options{
			RefreshInterval:   time.Hour,
			RefreshUnknownKID: true,
			RefreshErrorHandler: func(err error) {
				log.Warn().Err(err).Msg("jwks refresh failed")
			},
		})
		if err != nil {
			return nil, errors.Wrap(err, "load jwks")
		}
		s.jwks = jwks
	}
	return s, nil
}

func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.TokenResponse, error) {
	role := req.Role
	if role == "" {
		role = models.RoleCustomer
	}
	if !role.Valid() || role == models.RoleAdmin {
		return nil, common.NewValidationError("role %s cannot be self-registered", role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	var name *string
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		trimmed := strings.TrimSpace(*req.Name)
		name = &trimmed
	}
	user := &models.User{
		ID:           uuid.New(),
		Phone:        strings.TrimSpace(req.Phone),
		Name:         name,
		Role:         role,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, &common.ConflictError{Message: "phone already used"}
		}
		return nil, err
	}

	return s.respond(user)
}

func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.TokenResponse, error) {
	phone := strings.TrimSpace(req.Phone)
	limited, err := s.cacheSvc.IsRateLimited(ctx, "login:"+phone, loginAttemptLimit, loginAttemptWindow)
	if err != nil {
		log.Warn().Err(err).Msg("login rate limit check failed")
	} else if limited {
		return nil, &common.RateLimitError{Message: "too many login attempts, try again later"}
	}

	user, err := s.users.GetByPhone(ctx, phone)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, common.NewAuthenticationError("invalid credentials")
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, common.NewAuthenticationError("invalid credentials")
	}

	if err := s.cacheSvc.ResetRateLimit(ctx, "login:"+phone); err != nil {
		log.Debug().Err(err).Msg("failed to reset login rate limit")
	}
	return s.respond(user)
}

func (s *authService) Me(ctx context.Context, identity common.Identity) (*models.User, error) {
	user, err := s.users.GetByID(ctx, identity.ID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, common.NewNotFoundError("user")
	}
	return user, err
}

func (s *authService) respond(user *models.User) (*models.TokenResponse, error) {
	token, err := s.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &models.TokenResponse{Token: token, User: user}, nil
}

func (s *authService) GenerateToken(user *models.User) (string, error) {
	now := s.now()
	claims := TokenClaims{
		Role: user.Role,
		Name: user.DisplayName(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return signed, nil
}

// ParseToken validates an HS256 token, or an asymmetric one against the JWKS when configured.
func (s *authService) ParseToken(token string) (common.Identity, error) {
	parsed, err := jwt.ParseWithClaims(token, &TokenClaims{}, s.keyFunc)
	if err != nil || !parsed.Valid {
		return common.Identity{}, common.NewAuthenticationError("invalid token")
	}

	claims, ok := parsed.Claims.(*TokenClaims)
	if !ok {
		return common.Identity{}, common.NewAuthenticationError("invalid token claims")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return common.Identity{}, common.NewAuthenticationError("invalid token subject")
	}
	if !claims.Role.Valid() {
		return common.Identity{}, common.NewAuthenticationError("invalid token role")
	}
	return common.Identity{ID: userID, Role: claims.Role, Name: claims.Name}, nil
}

func (s *authService) keyFunc(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); ok {
		return s.secret, nil
	}
	if s.jwks != nil {
		return s.jwks.Keyfunc(token)
	}
	return nil, errors.Errorf("unexpected signing method %v", token.Header["alg"])
}
