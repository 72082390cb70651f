// internal/services/auth_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/catalog-backend/internal/config"
	"github.com/javajoker/catalog-backend/internal/i18n"
	"github.com/javajoker/catalog-backend/internal/models"
	"github.com/javajoker/catalog-backend/internal/repository"
	"github.com/javajoker/catalog-backend/internal/utils"
)

const minPasswordLength = 6

// AuthService owns credentials: password hashing and policy, account
// persistence and bearer tokens.
type AuthService struct {
	users    repository.UserRepository
	tokenTTL time.Duration
	log      *logrus.Entry
}

func NewAuthService(users repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		users:    users,
		tokenTTL: time.Duration(cfg.JWT.AccessTokenTTL) * time.Hour,
		log:      logrus.WithField("component", "auth_service"),
	}
}

// ValidatePassword applies the password policy and reports every rule the
// password breaks.
func (s *AuthService) ValidatePassword(password string) []utils.ValidationError {
	var hasDigit, hasLower, hasUpper, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case !unicode.IsLetter(r) && !unicode.IsNumber(r):
			hasSymbol = true
		}
	}

	var errs []utils.ValidationError
	add := func(tag, message string) {
		errs = append(errs, utils.ValidationError{Field: "password", Tag: tag, Message: message})
	}

	if len([]rune(password)) < minPasswordLength {
		add("PasswordTooShort", fmt.Sprintf("Passwords must be at least %d characters.", minPasswordLength))
	}
	if !hasSymbol {
		add("PasswordRequiresNonAlphanumeric", "Passwords must have at least one non alphanumeric character.")
	}
	if !hasDigit {
		add("PasswordRequiresDigit", "Passwords must have at least one digit ('0'-'9').")
	}
	if !hasLower {
		add("PasswordRequiresLower", "Passwords must have at least one lowercase ('a'-'z').")
	}
	if !hasUpper {
		add("PasswordRequiresUpper", "Passwords must have at least one uppercase ('A'-'Z').")
	}

	return errs
}

// CreateUser checks the password policy, hashes the password and stores
// the user. A blank id is filled with a new UUID.
func (s *AuthService) CreateUser(ctx context.Context, user *models.User, password string) error {
	if policyErrs := s.ValidatePassword(password); len(policyErrs) > 0 {
		return &ServiceError{Kind: ErrBadRequest, Key: i18n.KeyAuthPasswordPolicy, Fields: policyErrs}
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return newError(ErrInternal, i18n.KeyUserCreateFailed, fmt.Errorf("failed to hash password: %w", err))
	}

	stamp, err := utils.GenerateSecurityStamp()
	if err != nil {
		return newError(ErrInternal, i18n.KeyUserCreateFailed, err)
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.PasswordHash = hash
	user.SecurityStamp = stamp

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return newError(ErrConflict, i18n.KeyAuthUserExists, err)
		}
		return newError(ErrInternal, i18n.KeyUserCreateFailed, err)
	}

	s.log.WithField("user_id", user.ID).Info("User created")
	return nil
}

func (s *AuthService) UpdateUser(ctx context.Context, user *models.User) error {
	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newError(ErrNotFound, i18n.KeyUserNotFound, err)
		}
		return newError(ErrBadRequest, i18n.KeyUserUpdateFailed, err)
	}
	return nil
}

func (s *AuthService) DeleteUser(ctx context.Context, user *models.User) error {
	if err := s.users.Delete(ctx, user.ID); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return newError(ErrNotFound, i18n.KeyUserNotFound, err)
		case errors.Is(err, repository.ErrReferenced):
			return newError(ErrBadRequest, i18n.KeyUserHasProducts, err)
		default:
			return newError(ErrInternal, i18n.KeyUserDeleteFailed, err)
		}
	}

	s.log.WithField("user_id", user.ID).Info("User deleted")
	return nil
}

func (s *AuthService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, i18n.KeyAuthUserNotFound, err)
		}
		return nil, newError(ErrInternal, "", err)
	}
	return user, nil
}

func (s *AuthService) FindByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, i18n.KeyUserNotFound, err)
		}
		return nil, newError(ErrInternal, "", err)
	}
	return user, nil
}

// CheckPassword reports whether password matches the stored hash.
func (s *AuthService) CheckPassword(user *models.User, password string) bool {
	ok, err := utils.VerifyPassword(user.PasswordHash, password)
	if err != nil {
		s.log.WithError(err).WithField("user_id", user.ID).Warn("Stored password hash is unreadable")
		return false
	}
	return ok
}

// IssueToken signs a bearer token for user and returns its expiry.
func (s *AuthService) IssueToken(user *models.User) (string, time.Time, error) {
	token, expiresAt, err := utils.GenerateJWT(user.ID, user.UserName, user.Email, s.tokenTTL)
	if err != nil {
		return "", time.Time{}, newError(ErrInternal, "", fmt.Errorf("failed to generate token: %w", err))
	}
	return token, expiresAt, nil
}

func (s *AuthService) ValidateToken(token string) (*utils.JWTClaims, error) {
	claims, err := utils.ValidateJWT(token)
	if err != nil {
		return nil, newError(ErrUnauthorized, i18n.KeyAuthTokenExpired, err)
	}
	return claims, nil
}
