package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/javajoker/catalog-backend/internal/database"
	"github.com/javajoker/catalog-backend/internal/models"
)

type RepositoryTestSuite struct {
	suite.Suite
	ctx       context.Context
	container *tcpostgres.PostgresContainer
	db        *gorm.DB
	products  ProductRepository
	users     UserRepository
}

func (s *RepositoryTestSuite) SetupSuite() {
	if testing.Short() {
		s.T().Skip("skipping integration test in short mode")
	}

	s.ctx = context.Background()

	container, err := tcpostgres.Run(s.ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := gorm.Open(postgres.Open(connStr), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	s.Require().NoError(err)
	s.Require().NoError(database.RunMigrations(db))

	s.db = db
	s.products = NewProductRepo(db)
	s.users = NewUserRepo(db)
}

func (s *RepositoryTestSuite) TearDownSuite() {
	if s.db != nil {
		database.Close(s.db)
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *RepositoryTestSuite) SetupTest() {
	s.Require().NoError(s.db.Exec("TRUNCATE product_users, products, users RESTART IDENTITY CASCADE").Error)
}

func (s *RepositoryTestSuite) createUser(email string) *models.User {
	user := &models.User{
		ID:           uuid.NewString(),
		UserName:     email,
		Email:        email,
		PasswordHash: "hash",
		FirstName:    "Ada",
		LastName:     "Lovelace",
	}
	s.Require().NoError(s.users.Create(s.ctx, user))
	return user
}

func newProduct(id int64, name string) *models.Product {
	return &models.Product{
		ID:              id,
		ProductName:     name,
		ProductPrice:    decimal.RequireFromString("49.99"),
		ProductPublish:  models.ProductPublishPublished,
		ProductCategory: models.ProductCategoryFurniture,
		InStock:         true,
		ImageUrls:       models.ImageList{},
	}
}

func (s *RepositoryTestSuite) TestCreateWithOwner_AndFind() {
	owner := s.createUser("owner@example.com")

	product := newProduct(1, "Chair")
	product.ImageUrls = models.ImageList{"/Resources/Images/a.png", "/Resources/Images/b.png"}
	s.Require().NoError(s.products.CreateWithOwner(s.ctx, product, owner.ID))

	found, err := s.products.FindByID(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal("Chair", found.ProductName)
	s.True(found.ProductPrice.Equal(decimal.RequireFromString("49.99")))
	s.Equal(models.ImageList{"/Resources/Images/a.png", "/Resources/Images/b.png"}, found.ImageUrls)

	all, err := s.products.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 1)

	owned, err := s.products.FindByUser(s.ctx, owner.ID)
	s.Require().NoError(err)
	s.Len(owned, 1)

	count, err := s.products.CountByUser(s.ctx, owner.ID)
	s.Require().NoError(err)
	s.Equal(int64(1), count)
}

func (s *RepositoryTestSuite) TestCreateWithOwner_Duplicate() {
	owner := s.createUser("dup@example.com")
	s.Require().NoError(s.products.CreateWithOwner(s.ctx, newProduct(7, "Lamp"), owner.ID))

	err := s.products.CreateWithOwner(s.ctx, newProduct(7, "Other"), owner.ID)
	s.ErrorIs(err, ErrDuplicate)

	found, err := s.products.FindByID(s.ctx, 7)
	s.Require().NoError(err)
	s.Equal("Lamp", found.ProductName)
}

func (s *RepositoryTestSuite) TestCreateWithOwner_AssignedIDAfterExplicit() {
	owner := s.createUser("seq@example.com")
	s.Require().NoError(s.products.CreateWithOwner(s.ctx, newProduct(10, "Explicit"), owner.ID))

	generated := newProduct(0, "Generated")
	s.Require().NoError(s.products.CreateWithOwner(s.ctx, generated, owner.ID))
	s.Greater(generated.ID, int64(10))
}

func (s *RepositoryTestSuite) TestCreateWithOwner_UnknownUserRollsBack() {
	err := s.products.CreateWithOwner(s.ctx, newProduct(3, "Orphan"), uuid.NewString())
	s.ErrorIs(err, ErrReferenced)

	exists, err := s.products.Exists(s.ctx, 3)
	s.Require().NoError(err)
	s.False(exists)
}

func (s *RepositoryTestSuite) TestUpdate() {
	owner := s.createUser("update@example.com")
	product := newProduct(2, "Desk")
	s.Require().NoError(s.products.CreateWithOwner(s.ctx, product, owner.ID))

	product.ProductName = "Standing Desk"
	product.InStock = false
	product.ImageUrls = models.ImageList{"/Resources/Images/c.png"}
	s.Require().NoError(s.products.Update(s.ctx, product))

	found, err := s.products.FindByID(s.ctx, 2)
	s.Require().NoError(err)
	s.Equal("Standing Desk", found.ProductName)
	s.False(found.InStock)
	s.Equal(models.ImageList{"/Resources/Images/c.png"}, found.ImageUrls)

	s.ErrorIs(s.products.Update(s.ctx, newProduct(99, "Missing")), ErrNotFound)
}

func (s *RepositoryTestSuite) TestDeleteProduct() {
	owner := s.createUser("delete@example.com")
	s.Require().NoError(s.products.CreateWithOwner(s.ctx, newProduct(4, "Stool"), owner.ID))

	s.Require().NoError(s.products.Delete(s.ctx, 4))
	_, err := s.products.FindByID(s.ctx, 4)
	s.ErrorIs(err, ErrNotFound)

	count, err := s.products.CountByUser(s.ctx, owner.ID)
	s.Require().NoError(err)
	s.Zero(count)

	s.ErrorIs(s.products.Delete(s.ctx, 4), ErrNotFound)
}

func (s *RepositoryTestSuite) TestUsers() {
	user := s.createUser("Someone@Example.com")

	found, err := s.users.FindByEmail(s.ctx, "someone@example.com")
	s.Require().NoError(err)
	s.Equal(user.ID, found.ID)

	dup := &models.User{ID: uuid.NewString(), UserName: user.Email, Email: user.Email, PasswordHash: "x", FirstName: "A", LastName: "B"}
	s.ErrorIs(s.users.Create(s.ctx, dup), ErrDuplicate)

	country := "NZ"
	found.Country = &country
	s.Require().NoError(s.users.Update(s.ctx, found))

	reloaded, err := s.users.FindByID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Require().NotNil(reloaded.Country)
	s.Equal("NZ", *reloaded.Country)

	all, err := s.users.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 1)

	_, err = s.users.FindByID(s.ctx, uuid.NewString())
	s.ErrorIs(err, ErrNotFound)
}

func (s *RepositoryTestSuite) TestDeleteUser_Referenced() {
	owner := s.createUser("busy@example.com")
	s.Require().NoError(s.products.CreateWithOwner(s.ctx, newProduct(5, "Shelf"), owner.ID))

	s.ErrorIs(s.users.Delete(s.ctx, owner.ID), ErrReferenced)

	s.Require().NoError(s.products.Delete(s.ctx, 5))
	s.Require().NoError(s.users.Delete(s.ctx, owner.ID))
	s.ErrorIs(s.users.Delete(s.ctx, owner.ID), ErrNotFound)
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}
