package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey"`
	Name          string        `gorm:"size:15;uniqueIndex"`
	SubCategories []SubCategory `gorm:"constraint:OnDelete:CASCADE"`
}

type SubCategory struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name       string    `gorm:"size:100"`
	CategoryID uuid.UUID `gorm:"type:uuid;index"`
	Category   *Category
	Products   []Product
}

type Color struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"size:60;uniqueIndex"`
}

// Size keeps the {type, size} pair serialized as JSON in the Name column.
// The join table product_sizes links sizes to products; detaching a size
// from a product never deletes the size row itself.
type Size struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name     string    `gorm:"size:120;uniqueIndex"`
	Products []Product `gorm:"many2many:product_sizes"`
}

type Product struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name          string    `gorm:"size:180"`
	Price         int       `gorm:"not null"`
	Quantity      int       `gorm:"not null;default:0"`
	Description   string    `gorm:"type:text"`
	CategoryID    uuid.UUID `gorm:"type:uuid;index"`
	Category      *Category
	SubCategoryID uuid.UUID    `gorm:"type:uuid;index"`
	SubCategory   *SubCategory `gorm:"constraint:OnDelete:RESTRICT"`
	ColorID       uuid.UUID    `gorm:"type:uuid;index"`
	Color         *Color
	Images        []Image
	Sizes         []Size `gorm:"many2many:product_sizes"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Image holds a catalog photo. At most one image per product carries
// IsCover; a partial unique index over (product_id) enforces it.
type Image struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;index"`
	URL       string    `gorm:"size:255"`
	IsCover   bool      `gorm:"not null;default:false"`
	CreatedAt time.Time
}

type sizeName struct {
	Type string `json:"type"`
	Size string `json:"size"`
}

// EncodeSizeName serializes a {type, size} pair the way the sizes table
// stores it. Field order is fixed so equal pairs always encode to the
// same string, which is what the upsert-by-name dedup relies on.
func EncodeSizeName(typ, size string) string {
	b, _ := json.Marshal(sizeName{Type: typ, Size: size})
	return string(b)
}

// DecodeSizeName parses a stored size name. A value that is not valid
// JSON is kept as the size itself with an empty type.
func DecodeSizeName(raw string) (typ, size string) {
	var n sizeName
	if err := json.Unmarshal([]byte(raw), &n); err != nil {
		return "", raw
	}
	return n.Type, n.Size
}
