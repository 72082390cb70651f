// internal/models/product_user.go
package models

// ProductUser links a product to the user that owns it.
type ProductUser struct {
	ProductID int64  `json:"productId" gorm:"primaryKey;autoIncrement:false"`
	UserID    string `json:"userId" gorm:"primaryKey;size:36"`

	Product *Product `json:"-" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	User    *User    `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
}

func (ProductUser) TableName() string {
	return "product_users"
}
