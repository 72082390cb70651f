// internal/models/common.go
package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

const imageListSeparator = ";"

// ImageList is an ordered list of image URLs persisted as a single
// semicolon-joined text column.
type ImageList []string

func (l ImageList) Value() (driver.Value, error) {
	return l.String(), nil
}

func (l *ImageList) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*l = ImageList{}
		return nil
	case string:
		*l = ParseImageList(v)
		return nil
	case []byte:
		*l = ParseImageList(string(v))
		return nil
	default:
		return fmt.Errorf("cannot scan %T into ImageList", value)
	}
}

func (l ImageList) String() string {
	return strings.Join(l, imageListSeparator)
}

// ParseImageList splits a stored value, dropping empty segments.
func ParseImageList(raw string) ImageList {
	list := ImageList{}
	for _, part := range strings.Split(raw, imageListSeparator) {
		if part = strings.TrimSpace(part); part != "" {
			list = append(list, part)
		}
	}
	return list
}

// Enums
type ProductPublish string

const (
	ProductPublishPublished ProductPublish = "published"
	ProductPublishDraft     ProductPublish = "draft"
)

type ProductTags string

const (
	ProductTagsNew      ProductTags = "new"
	ProductTagsSale     ProductTags = "sale"
	ProductTagsHot      ProductTags = "hot"
	ProductTagsFeatured ProductTags = "featured"
	ProductTagsLimited  ProductTags = "limited"
)

type ProductCategory string

const (
	ProductCategoryShoes       ProductCategory = "shoes"
	ProductCategoryApparel     ProductCategory = "apparel"
	ProductCategoryAccessories ProductCategory = "accessories"
	ProductCategoryElectronics ProductCategory = "electronics"
	ProductCategoryFurniture   ProductCategory = "furniture"
	ProductCategoryOther       ProductCategory = "other"
)
