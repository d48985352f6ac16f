package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskmaster/taskhub/internal/domain/entities"
	"github.com/taskmaster/taskhub/internal/infrastructure/config"
	"github.com/taskmaster/taskhub/internal/infrastructure/logger"
	"github.com/taskmaster/taskhub/internal/ports"
)

// Claims represents the JWT claims
type Claims struct {
	Email  string                 `json:"email"`
	UserID string                 `json:"userId"`
	Type   entities.PrincipalType `json:"type"`
	jwt.RegisteredClaims
}

// AuthService handles registration, login and token validation for users
// and admins.
type AuthService struct {
	userRepo   ports.UserRepository
	adminRepo  ports.AdminRepository
	jwtConfig  config.JWTConfig
	bcryptCost int
	logger     *logger.Logger
	now        func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo ports.UserRepository, adminRepo ports.AdminRepository, jwtConfig config.JWTConfig, bcryptCost int, logger *logger.Logger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		adminRepo:  adminRepo,
		jwtConfig:  jwtConfig,
		bcryptCost: bcryptCost,
		logger:     logger.WithComponent("auth"),
		now:        time.Now,
	}
}

// Register creates a new user account
func (s *AuthService) Register(ctx context.Context, req ports.RegisterRequest) (*entities.User, error) {
	_, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err == nil {
		return nil, entities.ErrEmailExists
	}
	if !errors.Is(err, entities.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		ID:           uuid.New(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, entities.ErrEmailExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Infow("User registered successfully", "user_id", user.ID, "email", user.Email)

	return user, nil
}

// Login checks credentials and issues a user token. Unknown email and
// wrong password fail the same way.
func (s *AuthService) Login(ctx context.Context, req ports.LoginRequest) (*ports.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			s.logger.Warnw("Login attempt with non-existent email", "email", req.Email)
			return nil, entities.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warnw("Login attempt with invalid password", "user_id", user.ID)
		return nil, entities.ErrInvalidCredentials
	}

	token, err := s.generateAccessToken(user.ID, user.Email, entities.PrincipalUser)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("User logged in successfully", "user_id", user.ID)

	return &ports.TokenResponse{AccessToken: token}, nil
}

// RegisterAdmin creates an admin account. Role defaults to Admin.
func (s *AuthService) RegisterAdmin(ctx context.Context, req ports.CreateAdminRequest) (*entities.Admin, error) {
	_, err := s.adminRepo.GetByEmail(ctx, req.Email)
	if err == nil {
		return nil, entities.ErrEmailExists
	}
	if !errors.Is(err, entities.ErrAdminNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	role := entities.AdminRoleAdmin
	if req.Role != nil {
		if !req.Role.IsValid() {
			return nil, fmt.Errorf("%w: invalid admin role %q", entities.ErrValidation, *req.Role)
		}
		role = *req.Role
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	admin := &entities.Admin{
		ID:           uuid.New(),
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
	}

	if err := s.adminRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, entities.ErrEmailExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	s.logger.Infow("Admin registered successfully", "admin_id", admin.ID, "role", admin.Role)

	return admin, nil
}

func (s *AuthService) LoginAdmin(ctx context.Context, req ports.LoginRequest) (*ports.TokenResponse, error) {
	admin, err := s.adminRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, entities.ErrAdminNotFound) {
			s.logger.Warnw("Admin login attempt with non-existent email", "email", req.Email)
			return nil, entities.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warnw("Admin login attempt with invalid password", "admin_id", admin.ID)
		return nil, entities.ErrInvalidCredentials
	}

	token, err := s.generateAccessToken(admin.ID, admin.Email, entities.PrincipalAdmin)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Admin logged in successfully", "admin_id", admin.ID)

	return &ports.TokenResponse{AccessToken: token}, nil
}

// CreateAdmin lets a Super-Admin create another admin. The caller's role is
// read from the store, not from the token.
func (s *AuthService) CreateAdmin(ctx context.Context, actorID uuid.UUID, req ports.CreateAdminRequest) (*entities.Admin, error) {
	actor, err := s.adminRepo.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, entities.ErrAdminNotFound) {
			return nil, entities.ErrNotSuperAdmin
		}
		return nil, fmt.Errorf("failed to load admin: %w", err)
	}

	if !actor.IsSuperAdmin() {
		s.logger.LogSecurityEvent("admin_create_denied", actorID.String(), "", map[string]interface{}{
			"role": actor.Role,
		})
		return nil, entities.ErrNotSuperAdmin
	}

	admin, err := s.RegisterAdmin(ctx, req)
	if err != nil {
		return nil, err
	}

	s.logger.LogUserAction(actorID.String(), "admin_created", map[string]interface{}{
		"admin_id": admin.ID,
	})

	return admin, nil
}

// ValidateToken verifies signature, expiry and issuer and returns the
// principal the token was issued to.
func (s *AuthService) ValidateToken(_ context.Context, tokenString string) (*entities.Principal, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if s.jwtConfig.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.jwtConfig.Issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.jwtConfig.Secret), nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid token: %v", entities.ErrUnauthorized, err)
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid token subject", entities.ErrUnauthorized)
	}

	if claims.Type != entities.PrincipalUser && claims.Type != entities.PrincipalAdmin {
		return nil, fmt.Errorf("%w: invalid principal type", entities.ErrUnauthorized)
	}

	return &entities.Principal{
		ID:    id,
		Email: claims.Email,
		Type:  claims.Type,
	}, nil
}

func (s *AuthService) generateAccessToken(id uuid.UUID, email string, principalType entities.PrincipalType) (string, error) {
	now := s.now()
	claims := &Claims{
		Email:  email,
		UserID: id.String(),
		Type:   principalType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtConfig.ExpiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.jwtConfig.Issuer,
			Subject:   id.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtConfig.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

func (s *AuthService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
