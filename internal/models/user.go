// internal/models/user.go
package models

import (
	"time"
)

type User struct {
	ID            string    `json:"id" gorm:"primaryKey;size:36"`
	UserName      string    `json:"userName" gorm:"column:user_name;uniqueIndex;size:256;not null"`
	Email         string    `json:"email" gorm:"uniqueIndex;size:256;not null"`
	PasswordHash  string    `json:"-" gorm:"size:255;not null"`
	SecurityStamp string    `json:"-" gorm:"size:64"`
	FirstName     string    `json:"firstName" gorm:"size:100;not null"`
	LastName      string    `json:"lastName" gorm:"size:100;not null"`
	Company       *string   `json:"company" gorm:"size:255"`
	ContactNumber *int      `json:"contactNumber"`
	CompanySite   *string   `json:"companySite" gorm:"size:255"`
	Country       *string   `json:"country" gorm:"size:100"`
	Address       *string   `json:"address" gorm:"size:255"`
	ImageUrls     *string   `json:"imageUrls" gorm:"column:image_urls;size:512"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	ProductUsers []ProductUser `json:"-" gorm:"foreignKey:UserID"`
}
