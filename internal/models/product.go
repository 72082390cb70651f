// internal/models/product.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

type Product struct {
	ID                 int64           `json:"id" gorm:"primaryKey;autoIncrement"`
	ProductName        string          `json:"productName" gorm:"size:255;not null"`
	ProductPrice       decimal.Decimal `json:"productPrice" gorm:"type:numeric(18,2);not null"`
	ProductCode        int             `json:"productCode"`
	ProductSKU         int             `json:"productSKU" gorm:"column:product_sku"`
	ProductDescription string          `json:"productDescription" gorm:"type:text"`
	ProductPublish     ProductPublish  `json:"productPublish" gorm:"type:varchar(20)"`
	ProductTags        ProductTags     `json:"productTags" gorm:"type:varchar(20)"`
	ProductCategory    ProductCategory `json:"productCategory" gorm:"type:varchar(30)"`
	InStock            bool            `json:"inStock"`
	ImageUrls          ImageList       `json:"imageUrls" gorm:"column:image_urls;type:text;not null;default:''"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`

	ProductUsers []ProductUser `json:"-" gorm:"foreignKey:ProductID"`
}

// RoundPrice normalises the price to the stored scale.
func (p *Product) RoundPrice() {
	p.ProductPrice = p.ProductPrice.Round(2)
}
