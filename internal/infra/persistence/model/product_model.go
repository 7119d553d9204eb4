package model

import (
	"time"

	"github.com/google/uuid"
)

// ProductModel mirrors the 'products' table. The CHECK constraints back the
// stock and price invariants at the store level.
type ProductModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name        string    `gorm:"type:varchar(100);not null;index"`
	Category    string    `gorm:"type:varchar(50);not null"`
	Price       float64   `gorm:"type:numeric(12,2);not null;check:price >= 0"`
	Description *string   `gorm:"type:text"`
	Stock       int       `gorm:"not null;default:0;check:stock >= 0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Reviews []ReviewModel `gorm:"foreignKey:ProductID"`
}

// TableName explicitly sets the table name for GORM.
func (ProductModel) TableName() string {
	return "products"
}
