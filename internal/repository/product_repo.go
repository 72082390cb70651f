// internal/repository/product_repo.go
package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/javajoker/catalog-backend/internal/database"
	"github.com/javajoker/catalog-backend/internal/models"
)

type ProductRepository interface {
	FindAll(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id int64) (*models.Product, error)
	FindByUser(ctx context.Context, userID string) ([]models.Product, error)
	Exists(ctx context.Context, id int64) (bool, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	CreateWithOwner(ctx context.Context, product *models.Product, userID string) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id int64) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

var productUpdateColumns = []string{
	"product_name",
	"product_price",
	"product_code",
	"product_sku",
	"product_description",
	"product_publish",
	"product_tags",
	"product_category",
	"in_stock",
	"image_urls",
	"updated_at",
}

func (r *productRepo) FindAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, translate(err)
	}
	return products, nil
}

func (r *productRepo) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *productRepo) FindByUser(ctx context.Context, userID string) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Joins("JOIN product_users pu ON pu.product_id = products.id").
		Where("pu.user_id = ?", userID).
		Order("products.id").
		Find(&products).Error
	if err != nil {
		return nil, translate(err)
	}
	return products, nil
}

func (r *productRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

func (r *productRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProductUser{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, translate(err)
	}
	return count, nil
}

// CreateWithOwner inserts the product and its ownership row atomically.
func (r *productRepo) CreateWithOwner(ctx context.Context, product *models.Product, userID string) error {
	explicitID := product.ID != 0

	err := database.WithTransaction(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Omit("ProductUsers").Create(product).Error; err != nil {
			return err
		}

		// Keep the serial ahead of client-chosen ids.
		if explicitID {
			if err := tx.Exec("SELECT setval(pg_get_serial_sequence('products', 'id'), (SELECT MAX(id) FROM products))").Error; err != nil {
				return err
			}
		}

		link := models.ProductUser{ProductID: product.ID, UserID: userID}
		return tx.Create(&link).Error
	})

	return translate(err)
}

func (r *productRepo) Update(ctx context.Context, product *models.Product) error {
	result := r.db.WithContext(ctx).
		Model(&models.Product{ID: product.ID}).
		Select(productUpdateColumns).
		Updates(product)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, id int64) error {
	err := database.WithTransaction(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductUser{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&models.Product{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})

	return translate(err)
}
