// File: internal/services/user_services/auth_service.go
package user_services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tmsanders/go-preceptor/internal/auth"
	"github.com/tmsanders/go-preceptor/internal/domain"
	"github.com/tmsanders/go-preceptor/internal/repository/user"
)

type AuthService struct {
	userRepo  user.UserRepository
	denylist  TokenDenylist
	secretKey []byte
	logger    Logger
}

func NewAuthService(userRepo user.UserRepository, denylist TokenDenylist, jwtSecretKey string, logger Logger) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		denylist:  denylist,
		secretKey: []byte(jwtSecretKey),
		logger:    logger,
	}
}

// SignUp registers a new account and signs it in. Emails are stored
// lowercased; the role defaults to teacher since teachers are the ones
// building assistants.
func (s *AuthService) SignUp(ctx context.Context, email, password, fullName, role string, schoolID *string) (*Identity, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		s.logger.Warn("signup attempt with empty credentials",
			"has_email", email != "",
			"has_password", password != "")
		return nil, "", errors.New("email and password are required")
	}
	if role == "" {
		role = domain.RoleTeacher
	}

	s.logger.Info("user signup attempt",
		"email", email[:min(4, len(email))]+"****")

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		s.logger.Error("signup existence check failed", "error", err)
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		s.logger.Warn("signup failed - email already registered",
			"email", email[:min(4, len(email))]+"****")
		return nil, "", errors.New("user with this email already exists")
	}

	newUser := &domain.User{
		ID:        uuid.NewString(),
		Email:     email,
		FullName:  strings.TrimSpace(fullName),
		SchoolID:  schoolID,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if err := newUser.HashPassword(password); err != nil {
		return nil, "", fmt.Errorf("validation failed: %w", err)
	}
	if err := newUser.IsValid(); err != nil {
		return nil, "", fmt.Errorf("validation failed: %w", err)
	}

	created, err := s.userRepo.Create(ctx, newUser)
	if err != nil {
		s.logger.Error("user creation failed",
			"error", err,
			"email", email[:min(4, len(email))]+"****")
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := auth.GenerateJWT(created.ID, created.Email, s.secretKey)
	if err != nil {
		s.logger.Error("token generation failed", "error", err, "user_id", created.ID)
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("user registered successfully",
		"user_id", created.ID,
		"role", created.Role)
	return identityOf(created), token, nil
}

// SignIn authenticates a user and returns their identity with a fresh
// session token.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*Identity, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		s.logger.Warn("login attempt with empty credentials",
			"has_email", email != "",
			"has_password", password != "")
		return nil, "", errors.New("email and password are required")
	}

	s.logger.Info("user login attempt",
		"email", email[:min(4, len(email))]+"****")

	account, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		s.logger.Warn("login failed - user not found",
			"email", email[:min(4, len(email))]+"****")
		return nil, "", errors.New("invalid credentials")
	}

	if err := account.ValidatePassword(password); err != nil {
		s.logger.Warn("login failed - invalid password",
			"email", email[:min(4, len(email))]+"****",
			"user_id", account.ID)
		return nil, "", errors.New("invalid credentials")
	}

	token, err := auth.GenerateJWT(account.ID, account.Email, s.secretKey)
	if err != nil {
		s.logger.Error("token generation failed", "error", err, "user_id", account.ID)
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	if err := s.userRepo.TouchLastLogin(ctx, account.ID); err != nil {
		s.logger.Warn("last-login bump failed", "user_id", account.ID, "error", err)
	}

	s.logger.Info("login successful", "user_id", account.ID, "role", account.Role)
	return identityOf(account), token, nil
}

// SignOut denylists the token for its remaining lifetime. An invalid or
// already-expired token is a no-op, so sign-out never fails a user who
// is effectively signed out already.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	claims, err := auth.ValidateToken(token, s.secretKey)
	if err != nil {
		s.logger.Debug("signout of invalid token ignored", "error", err)
		return nil
	}

	remaining := time.Until(claims.ExpiresAt)
	if err := s.denylist.Deny(ctx, token, remaining); err != nil {
		s.logger.Error("token denylist write failed", "user_id", claims.UserID, "error", err)
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	s.logger.Info("user signed out", "user_id", claims.UserID)
	return nil
}

// ValidateSession checks the token's signature, expiry and denylist
// status and returns the authenticated user ID.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", errors.New("empty token")
	}

	claims, err := auth.ValidateToken(token, s.secretKey)
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	denied, err := s.denylist.IsDenied(ctx, token)
	if err != nil {
		s.logger.Error("token denylist check failed", "error", err)
		return "", fmt.Errorf("failed to check token: %w", err)
	}
	if denied {
		s.logger.Warn("denylisted token presented", "user_id", claims.UserID)
		return "", errors.New("token revoked")
	}

	return claims.UserID, nil
}

// CurrentUser resolves a session token to the account behind it.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*Identity, error) {
	userID, err := s.ValidateSession(ctx, token)
	if err != nil {
		return nil, err
	}

	account, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, errors.New("user not found")
	}
	return identityOf(account), nil
}

func identityOf(u *domain.User) *Identity {
	return &Identity{
		UserID:   u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     u.Role,
	}
}
