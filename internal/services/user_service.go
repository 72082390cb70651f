// internal/services/user_service.go
package services

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/catalog-backend/internal/config"
	"github.com/javajoker/catalog-backend/internal/i18n"
	"github.com/javajoker/catalog-backend/internal/models"
	"github.com/javajoker/catalog-backend/internal/repository"
)

type UserService struct {
	users      repository.UserRepository
	products   repository.ProductRepository
	auth       *AuthService
	avatarsDir string
	avatarsURL string
	log        *logrus.Entry
}

type UserSummary struct {
	ID       string `json:"id"`
	UserName string `json:"userName"`
	Email    string `json:"email"`
}

type UserDetails struct {
	ID            string  `json:"id"`
	UserName      string  `json:"userName"`
	Email         string  `json:"email"`
	FirstName     string  `json:"firstName"`
	LastName      string  `json:"lastName"`
	Company       *string `json:"company"`
	ContactNumber *int    `json:"contactNumber"`
	CompanySite   *string `json:"companySite"`
	Country       *string `json:"country"`
	Address       *string `json:"address"`
	ImageUrls     *string `json:"imageUrls"`
}

type RegisterRequest struct {
	Email     string `json:"email" form:"email" validate:"required,email,max=256"`
	FirstName string `json:"firstName" form:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" form:"lastName" validate:"required,max=100"`
	Password  string `json:"password" form:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

type LoginResponse struct {
	Token       string      `json:"token"`
	Expiration  time.Time   `json:"expiration"`
	UserDetails UserDetails `json:"userDetails"`
}

// UpdateUserRequest only touches the fields that are set.
type UpdateUserRequest struct {
	FirstName     *string `json:"firstName" form:"firstName" validate:"omitnil,min=1,max=100"`
	LastName      *string `json:"lastName" form:"lastName" validate:"omitnil,min=1,max=100"`
	Company       *string `json:"company" form:"company" validate:"omitnil,max=255"`
	ContactNumber *int    `json:"contactNumber" form:"contactNumber" validate:"omitnil,gte=0"`
	CompanySite   *string `json:"companySite" form:"companySite" validate:"omitnil,max=255"`
	Country       *string `json:"country" form:"country" validate:"omitnil,max=100"`
	Address       *string `json:"address" form:"address" validate:"omitnil,max=255"`
	ImageUrls     *string `json:"imageUrls" form:"imageUrls" validate:"omitnil,max=255"`
}

func NewUserService(users repository.UserRepository, products repository.ProductRepository, auth *AuthService, cfg *config.Config) *UserService {
	return &UserService{
		users:      users,
		products:   products,
		auth:       auth,
		avatarsDir: cfg.Storage.AvatarsDir,
		avatarsURL: strings.TrimSuffix(cfg.Storage.AvatarsURL, "/"),
		log:        logrus.WithField("component", "user_service"),
	}
}

func NewUserDetails(u *models.User) UserDetails {
	return UserDetails{
		ID:            u.ID,
		UserName:      u.UserName,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Company:       u.Company,
		ContactNumber: u.ContactNumber,
		CompanySite:   u.CompanySite,
		Country:       u.Country,
		Address:       u.Address,
		ImageUrls:     u.ImageUrls,
	}
}

func (s *UserService) ListUsers(ctx context.Context) ([]UserSummary, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, newError(ErrInternal, "", err)
	}

	summaries := make([]UserSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, UserSummary{ID: u.ID, UserName: u.UserName, Email: u.Email})
	}
	return summaries, nil
}

func (s *UserService) ListUserDetails(ctx context.Context) ([]UserDetails, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, newError(ErrInternal, "", err)
	}

	details := make([]UserDetails, 0, len(users))
	for i := range users {
		details = append(details, NewUserDetails(&users[i]))
	}
	return details, nil
}

func (s *UserService) GetUserDetails(ctx context.Context, id string) (*UserDetails, error) {
	user, err := s.auth.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	details := NewUserDetails(user)
	return &details, nil
}

// GetProductsByUser lists the products owned by userID. An unknown user
// simply owns nothing.
func (s *UserService) GetProductsByUser(ctx context.Context, userID string) ([]ProductDto, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, newError(ErrNotFound, i18n.KeyUserNotFound, nil)
	}

	products, err := s.products.FindByUser(ctx, userID)
	if err != nil {
		return nil, newError(ErrInternal, "", err)
	}
	return newProductDtos(products), nil
}

func (s *UserService) Register(ctx context.Context, req *RegisterRequest) (*UserDetails, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	email := strings.TrimSpace(req.Email)

	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, newError(ErrConflict, i18n.KeyAuthUserExists, nil)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, newError(ErrInternal, "", err)
	}

	user := &models.User{
		UserName:  email,
		Email:     email,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
	}

	if err := s.auth.CreateUser(ctx, user, req.Password); err != nil {
		return nil, err
	}

	details := NewUserDetails(user)
	return &details, nil
}

func (s *UserService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	user, err := s.auth.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, err
	}

	if !s.auth.CheckPassword(user, req.Password) {
		s.log.WithField("user_id", user.ID).Warn("Login rejected: wrong password")
		return nil, newError(ErrUnauthorized, i18n.KeyAuthInvalidCredentials, nil)
	}

	token, expiresAt, err := s.auth.IssueToken(user)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Token:       token,
		Expiration:  expiresAt.UTC(),
		UserDetails: NewUserDetails(user),
	}, nil
}

// UpdateUser merges the set fields of req into the stored user. A supplied
// avatar file name is stored as "<avatars url>/<file name>"; an empty one
// leaves the avatar as it is.
func (s *UserService) UpdateUser(ctx context.Context, id string, req *UpdateUserRequest) error {
	user, err := s.auth.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := validateRequest(req); err != nil {
		return err
	}

	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Company != nil {
		user.Company = req.Company
	}
	if req.ContactNumber != nil {
		user.ContactNumber = req.ContactNumber
	}
	if req.CompanySite != nil {
		user.CompanySite = req.CompanySite
	}
	if req.Country != nil {
		user.Country = req.Country
	}
	if req.Address != nil {
		user.Address = req.Address
	}
	if req.ImageUrls != nil {
		if avatar := s.avatarURL(*req.ImageUrls); avatar != nil {
			user.ImageUrls = avatar
		}
	}

	if err := s.auth.UpdateUser(ctx, user); err != nil {
		return err
	}

	s.log.WithField("user_id", user.ID).Info("User updated")
	return nil
}

// DeleteUser refuses to remove a user that still owns products.
func (s *UserService) DeleteUser(ctx context.Context, id string) (*UserDetails, error) {
	owned, err := s.products.CountByUser(ctx, id)
	if err != nil {
		return nil, newError(ErrInternal, i18n.KeyUserDeleteFailed, err)
	}
	if owned > 0 {
		return nil, newError(ErrBadRequest, i18n.KeyUserHasProducts, nil)
	}

	user, err := s.auth.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.auth.DeleteUser(ctx, user); err != nil {
		return nil, err
	}

	details := NewUserDetails(user)
	return &details, nil
}

func (s *UserService) ListAvatars(ctx context.Context) ([]string, error) {
	names, err := ListAvatarFiles(s.avatarsDir)
	if err != nil {
		return nil, newError(ErrInternal, i18n.KeyUserAvatarsFailed, err)
	}
	return names, nil
}

func (s *UserService) avatarURL(name string) *string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if name == "" || name == "." || name == "/" || name == ".." {
		return nil
	}
	url := s.avatarsURL + "/" + name
	return &url
}
