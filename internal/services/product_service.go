// internal/services/product_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/catalog-backend/internal/i18n"
	"github.com/javajoker/catalog-backend/internal/models"
	"github.com/javajoker/catalog-backend/internal/repository"
)

type ProductService struct {
	products repository.ProductRepository
	users    repository.UserRepository
	assets   AssetStore
	log      *logrus.Entry
}

type ProductRequest struct {
	ID                 int64                  `json:"id"`
	UserID             string                 `json:"userId"`
	ProductName        string                 `json:"productName" validate:"required,max=255"`
	ProductPrice       decimal.Decimal        `json:"productPrice" validate:"gte=0"`
	ProductCode        int                    `json:"productCode" validate:"gte=0"`
	ProductSKU         int                    `json:"productSKU" validate:"gte=0"`
	ProductDescription string                 `json:"productDescription"`
	ProductPublish     models.ProductPublish  `json:"productPublish" validate:"omitempty,oneof=published draft"`
	ProductTags        models.ProductTags     `json:"productTags" validate:"omitempty,oneof=new sale hot featured limited"`
	ProductCategory    models.ProductCategory `json:"productCategory" validate:"omitempty,oneof=shoes apparel accessories electronics furniture other"`
	InStock            bool                   `json:"inStock"`
	ImageUrls          []string               `json:"imageUrls"`
}

type ProductDto struct {
	ID                 int64                  `json:"id"`
	ProductName        string                 `json:"productName"`
	ProductPrice       decimal.Decimal        `json:"productPrice"`
	ProductCode        int                    `json:"productCode"`
	ProductSKU         int                    `json:"productSKU"`
	ProductDescription string                 `json:"productDescription"`
	ProductPublish     models.ProductPublish  `json:"productPublish"`
	ProductTags        models.ProductTags     `json:"productTags"`
	ProductCategory    models.ProductCategory `json:"productCategory"`
	InStock            bool                   `json:"inStock"`
	ImageUrls          []string               `json:"imageUrls"`
}

func NewProductService(products repository.ProductRepository, users repository.UserRepository, assets AssetStore) *ProductService {
	return &ProductService{
		products: products,
		users:    users,
		assets:   assets,
		log:      logrus.WithField("component", "product_service"),
	}
}

func NewProductDto(p *models.Product) ProductDto {
	urls := make([]string, len(p.ImageUrls))
	copy(urls, p.ImageUrls)

	return ProductDto{
		ID:                 p.ID,
		ProductName:        p.ProductName,
		ProductPrice:       p.ProductPrice,
		ProductCode:        p.ProductCode,
		ProductSKU:         p.ProductSKU,
		ProductDescription: p.ProductDescription,
		ProductPublish:     p.ProductPublish,
		ProductTags:        p.ProductTags,
		ProductCategory:    p.ProductCategory,
		InStock:            p.InStock,
		ImageUrls:          urls,
	}
}

func newProductDtos(products []models.Product) []ProductDto {
	dtos := make([]ProductDto, 0, len(products))
	for i := range products {
		dtos = append(dtos, NewProductDto(&products[i]))
	}
	return dtos
}

// normalize trims the free-text fields so validation sees the stored values.
func (r *ProductRequest) normalize() {
	r.UserID = strings.TrimSpace(r.UserID)
	r.ProductName = strings.TrimSpace(r.ProductName)
}

// applyTo copies the mutable fields onto p. Images are handled separately.
func (r *ProductRequest) applyTo(p *models.Product) {
	p.ProductName = r.ProductName
	p.ProductPrice = r.ProductPrice
	p.ProductCode = r.ProductCode
	p.ProductSKU = r.ProductSKU
	p.ProductDescription = r.ProductDescription
	p.ProductPublish = r.ProductPublish
	p.ProductTags = r.ProductTags
	p.ProductCategory = r.ProductCategory
	p.InStock = r.InStock
	p.RoundPrice()
}

func (s *ProductService) ListProducts(ctx context.Context) ([]ProductDto, error) {
	products, err := s.products.FindAll(ctx)
	if err != nil {
		return nil, newError(ErrInternal, "", err)
	}
	return newProductDtos(products), nil
}

func (s *ProductService) GetProduct(ctx context.Context, id int64) (*ProductDto, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := NewProductDto(product)
	return &dto, nil
}

// CreateProduct stores the uploaded images and inserts the product together
// with its ownership link. An id already in use is a conflict regardless of
// the rest of the request. Files written before a failed insert are removed.
func (s *ProductService) CreateProduct(ctx context.Context, req *ProductRequest, files []*multipart.FileHeader) (*ProductDto, error) {
	if req.ID != 0 {
		exists, err := s.products.Exists(ctx, req.ID)
		if err != nil {
			return nil, newError(ErrInternal, "", err)
		}
		if exists {
			return nil, newError(ErrConflict, i18n.KeyProductExists, nil)
		}
	}

	req.normalize()
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	ownerID := req.UserID
	if ownerID == "" {
		return nil, newError(ErrBadRequest, i18n.KeyProductOwnerMissing, nil)
	}

	if _, err := s.users.FindByID(ctx, ownerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, i18n.KeyUserNotFound, err)
		}
		return nil, newError(ErrInternal, "", err)
	}

	urls, err := s.storeFiles(ctx, files)
	if err != nil {
		return nil, err
	}

	product := &models.Product{ID: req.ID, ImageUrls: models.ImageList(urls)}
	req.applyTo(product)

	if err := s.products.CreateWithOwner(ctx, product, ownerID); err != nil {
		s.discard(ctx, urls)
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, newError(ErrConflict, i18n.KeyProductExists, err)
		case errors.Is(err, repository.ErrReferenced):
			return nil, newError(ErrNotFound, i18n.KeyUserNotFound, err)
		default:
			return nil, newError(ErrInternal, i18n.KeyProductCreateFailed, err)
		}
	}

	s.log.WithFields(logrus.Fields{
		"product_id": product.ID,
		"user_id":    ownerID,
		"images":     len(urls),
	}).Info("Product created")

	dto := NewProductDto(product)
	return &dto, nil
}

// UpdateProduct overwrites the product fields and reconciles its images:
// current URLs missing from req.ImageUrls are dropped, new uploads are
// appended. Dropped files are deleted only after the write succeeds.
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, req *ProductRequest, files []*multipart.FileHeader) (*ProductDto, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ID != id {
		return nil, newError(ErrBadRequest, i18n.KeyProductIDMismatch, nil)
	}

	req.normalize()
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	retained, removed := reconcileImages(product.ImageUrls, req.ImageUrls)

	added, err := s.storeFiles(ctx, files)
	if err != nil {
		return nil, err
	}

	req.applyTo(product)
	product.ImageUrls = append(retained, added...)

	if err := s.products.Update(ctx, product); err != nil {
		s.discard(ctx, added)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, i18n.KeyProductNotFound, err)
		}
		return nil, newError(ErrBadRequest, i18n.KeyProductUpdateFailed, err)
	}

	s.discard(ctx, removed)

	s.log.WithFields(logrus.Fields{
		"product_id": product.ID,
		"added":      len(added),
		"removed":    len(removed),
	}).Info("Product updated")

	dto := NewProductDto(product)
	return &dto, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return err
	}

	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newError(ErrNotFound, i18n.KeyProductNotFound, err)
		}
		return newError(ErrInternal, i18n.KeyProductDeleteFailed, err)
	}

	s.discard(ctx, product.ImageUrls)

	s.log.WithField("product_id", id).Info("Product deleted")
	return nil
}

func (s *ProductService) findProduct(ctx context.Context, id int64) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, i18n.KeyProductNotFound, err)
		}
		return nil, newError(ErrInternal, "", err)
	}
	return product, nil
}

// storeFiles saves every non-empty upload in order. On failure the files
// already written are removed.
func (s *ProductService) storeFiles(ctx context.Context, files []*multipart.FileHeader) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, file := range files {
		if file == nil || file.Size == 0 {
			continue
		}

		url, err := s.assets.Save(ctx, file)
		if err != nil {
			s.discard(ctx, urls)
			switch {
			case errors.Is(err, ErrFileTooLarge):
				return nil, newError(ErrBadRequest, i18n.KeyFileTooLarge, err)
			case errors.Is(err, ErrFileType):
				return nil, newError(ErrBadRequest, i18n.KeyFileInvalidType, err)
			default:
				return nil, newError(ErrInternal, i18n.KeyFileUploadFailed, fmt.Errorf("store %q: %w", file.Filename, err))
			}
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// discard deletes stored files, logging failures.
func (s *ProductService) discard(ctx context.Context, urls []string) {
	for _, url := range urls {
		if err := s.assets.Delete(ctx, url); err != nil {
			s.log.WithError(err).WithField("url", url).Warn("Failed to delete image")
		}
	}
}

// reconcileImages splits current into the URLs kept by requested (in their
// current order) and the ones to remove. Requested URLs the product does
// not have are ignored.
func reconcileImages(current models.ImageList, requested []string) (retained, removed []string) {
	keep := make(map[string]bool, len(requested))
	for _, url := range requested {
		keep[strings.TrimSpace(url)] = true
	}

	retained = make([]string, 0, len(current))
	for _, url := range current {
		if keep[url] {
			retained = append(retained, url)
		} else {
			removed = append(removed, url)
		}
	}
	return retained, removed
}
