package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/javajoker/catalog-backend/internal/config"
	"github.com/javajoker/catalog-backend/internal/i18n"
	"github.com/javajoker/catalog-backend/internal/mocks"
	"github.com/javajoker/catalog-backend/internal/utils"
)

type UserServiceTestSuite struct {
	suite.Suite
	cfg      *config.Config
	db       *mocks.MemoryDB
	users    *UserService
	products *ProductService
	ctx      context.Context
}

func (s *UserServiceTestSuite) SetupTest() {
	s.cfg = testConfig(s.T())
	s.db = mocks.NewMemoryDB()
	s.ctx = context.Background()

	utils.SetJWTSecret(s.cfg.JWT.SecretKey)
	auth := NewAuthService(s.db.Users(), s.cfg)
	s.users = NewUserService(s.db.Users(), s.db.Products(), auth, s.cfg)
	s.products = NewProductService(s.db.Products(), s.db.Users(), mocks.NewMemoryAssetStore())
}

func (s *UserServiceTestSuite) register(email string) *UserDetails {
	details, err := s.users.Register(s.ctx, &RegisterRequest{
		Email:     email,
		FirstName: "Ada",
		LastName:  "Lovelace",
		Password:  "Passw0rd!",
	})
	s.Require().NoError(err)
	return details
}

func (s *UserServiceTestSuite) TestRegister() {
	details := s.register("ada@example.com")

	s.NotEmpty(details.ID)
	s.Equal("ada@example.com", details.UserName)
	s.Equal("ada@example.com", details.Email)
	s.Nil(details.ImageUrls)

	_, err := s.users.Register(s.ctx, &RegisterRequest{
		Email: "ADA@example.com", FirstName: "A", LastName: "L", Password: "Passw0rd!",
	})
	assertServiceError(s.T(), err, ErrConflict, i18n.KeyAuthUserExists)
}

func (s *UserServiceTestSuite) TestRegister_Validation() {
	_, err := s.users.Register(s.ctx, &RegisterRequest{Email: "not-an-email", FirstName: "A", LastName: "L", Password: "Passw0rd!"})
	assertServiceError(s.T(), err, ErrBadRequest, i18n.KeyValidationInvalid)

	_, err = s.users.Register(s.ctx, &RegisterRequest{Email: "weak@example.com", FirstName: "A", LastName: "L", Password: "weak"})
	assertServiceError(s.T(), err, ErrBadRequest, i18n.KeyAuthPasswordPolicy)
}

func (s *UserServiceTestSuite) TestLogin() {
	details := s.register("ada@example.com")

	resp, err := s.users.Login(s.ctx, &LoginRequest{Email: "ada@example.com", Password: "Passw0rd!"})
	s.Require().NoError(err)
	s.Equal(details.ID, resp.UserDetails.ID)
	s.WithinDuration(time.Now().Add(3*time.Hour), resp.Expiration, time.Minute)

	claims, err := utils.ValidateJWT(resp.Token)
	s.Require().NoError(err)
	s.Equal(details.ID, claims.NameID)
	s.Equal("ada@example.com", claims.Subject)
}

func (s *UserServiceTestSuite) TestLogin_Failures() {
	s.register("ada@example.com")

	_, err := s.users.Login(s.ctx, &LoginRequest{Email: "ada@example.com", Password: "Wr0ng!pass"})
	assertServiceError(s.T(), err, ErrUnauthorized, i18n.KeyAuthInvalidCredentials)

	_, err = s.users.Login(s.ctx, &LoginRequest{Email: "nobody@example.com", Password: "Passw0rd!"})
	assertServiceError(s.T(), err, ErrNotFound, i18n.KeyAuthUserNotFound)
}

func (s *UserServiceTestSuite) TestListUsers() {
	s.register("b@example.com")
	s.register("a@example.com")

	summaries, err := s.users.ListUsers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(summaries, 2)
	s.Equal("a@example.com", summaries[0].Email)

	details, err := s.users.ListUserDetails(s.ctx)
	s.Require().NoError(err)
	s.Len(details, 2)
	s.Equal("Ada", details[1].FirstName)
}

func (s *UserServiceTestSuite) TestGetUserDetails() {
	created := s.register("ada@example.com")

	details, err := s.users.GetUserDetails(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("Lovelace", details.LastName)

	_, err = s.users.GetUserDetails(s.ctx, "missing")
	assertServiceError(s.T(), err, ErrNotFound, i18n.KeyUserNotFound)
}

func (s *UserServiceTestSuite) TestGetProductsByUser() {
	owner := s.register("ada@example.com")
	_, err := s.products.CreateProduct(s.ctx, chairRequest(owner.ID), nil)
	s.Require().NoError(err)

	owned, err := s.users.GetProductsByUser(s.ctx, owner.ID)
	s.Require().NoError(err)
	s.Require().Len(owned, 1)
	s.Equal("Chair", owned[0].ProductName)

	none, err := s.users.GetProductsByUser(s.ctx, "someone-else")
	s.Require().NoError(err)
	s.Empty(none)

	_, err = s.users.GetProductsByUser(s.ctx, " ")
	assertServiceError(s.T(), err, ErrNotFound, i18n.KeyUserNotFound)
}

func (s *UserServiceTestSuite) TestUpdateUser() {
	created := s.register("ada@example.com")

	company := "Analytical Engines"
	contact := 5550100
	avatar := `..\..\avatar-3.png`
	err := s.users.UpdateUser(s.ctx, created.ID, &UpdateUserRequest{
		Company:       &company,
		ContactNumber: &contact,
		ImageUrls:     &avatar,
	})
	s.Require().NoError(err)

	details, err := s.users.GetUserDetails(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("Ada", details.FirstName)
	s.Equal(&company, details.Company)
	s.Equal(&contact, details.ContactNumber)
	s.Require().NotNil(details.ImageUrls)
	s.Equal("/Avatars/avatar-3.png", *details.ImageUrls)

	for _, blank := range []string{"", "  "} {
		value := blank
		s.Require().NoError(s.users.UpdateUser(s.ctx, created.ID, &UpdateUserRequest{ImageUrls: &value}))
		details, err = s.users.GetUserDetails(s.ctx, created.ID)
		s.Require().NoError(err)
		s.Require().NotNil(details.ImageUrls)
		s.Equal("/Avatars/avatar-3.png", *details.ImageUrls)
	}
}

func (s *UserServiceTestSuite) TestUpdateUser_Rejections() {
	err := s.users.UpdateUser(s.ctx, "missing", &UpdateUserRequest{})
	assertServiceError(s.T(), err, ErrNotFound, i18n.KeyUserNotFound)

	created := s.register("ada@example.com")
	blank := ""
	err = s.users.UpdateUser(s.ctx, created.ID, &UpdateUserRequest{FirstName: &blank})
	assertServiceError(s.T(), err, ErrBadRequest, i18n.KeyValidationInvalid)
}

func (s *UserServiceTestSuite) TestDeleteUser() {
	owner := s.register("owner@example.com")
	product, err := s.products.CreateProduct(s.ctx, chairRequest(owner.ID), nil)
	s.Require().NoError(err)

	_, err = s.users.DeleteUser(s.ctx, owner.ID)
	assertServiceError(s.T(), err, ErrBadRequest, i18n.KeyUserHasProducts)

	s.Require().NoError(s.products.DeleteProduct(s.ctx, product.ID))

	deleted, err := s.users.DeleteUser(s.ctx, owner.ID)
	s.Require().NoError(err)
	s.Equal(owner.ID, deleted.ID)

	_, err = s.users.DeleteUser(s.ctx, owner.ID)
	assertServiceError(s.T(), err, ErrNotFound, i18n.KeyUserNotFound)
}

func (s *UserServiceTestSuite) TestListAvatars() {
	names, err := s.users.ListAvatars(s.ctx)
	s.Require().NoError(err)
	s.Empty(names)

	dir := s.cfg.Storage.AvatarsDir
	s.Require().NoError(os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	for _, name := range []string{"b.png", "a.png", ".DS_Store", "._a.png"} {
		s.Require().NoError(os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	names, err = s.users.ListAvatars(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"a.png", "b.png"}, names)
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func TestAvatarURL(t *testing.T) {
	svc := NewUserService(nil, nil, nil, &config.Config{Storage: config.StorageConfig{AvatarsURL: "/Avatars/"}})

	for input, want := range map[string]string{
		"avatar.png":          "/Avatars/avatar.png",
		"/Avatars/avatar.png": "/Avatars/avatar.png",
		"../../etc/passwd":    "/Avatars/passwd",
	} {
		got := svc.avatarURL(input)
		require.NotNil(t, got, input)
		assert.Equal(t, want, *got)
	}

	assert.Nil(t, svc.avatarURL("  "))
	assert.Nil(t, svc.avatarURL(".."))
}
