package domain

import "github.com/google/uuid"

// Transport shapes returned by the catalog service. The SPA consumes
// these as-is, so json names stay camelCase.

type CategoryDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type SubCategoryDTO struct {
	ID         uuid.UUID    `json:"id"`
	Name       string       `json:"name"`
	CategoryID uuid.UUID    `json:"categoryId"`
	Category   *CategoryDTO `json:"category,omitempty"`
}

type ColorDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type SizeDTO struct {
	ID   uuid.UUID `json:"id"`
	Type string    `json:"type"`
	Size string    `json:"size"`
}

type ImageDTO struct {
	ID      uuid.UUID `json:"id"`
	URL     string    `json:"url"`
	Alt     string    `json:"alt"`
	IsCover bool      `json:"isCover"`
}

type ProductDTO struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         int             `json:"price"`
	Quantity      int             `json:"quantity"`
	CoverImageURL string          `json:"coverImageUrl"`
	Category      *CategoryDTO    `json:"category,omitempty"`
	SubCategory   *SubCategoryDTO `json:"subCategory,omitempty"`
	Color         *ColorDTO       `json:"color,omitempty"`
	Images        []ImageDTO      `json:"images"`
	Sizes         []SizeDTO       `json:"sizes"`
}

type ProductSummaryDTO struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Price         int       `json:"price"`
	Quantity      int       `json:"quantity"`
	CoverImageURL string    `json:"coverImageUrl"`
}
