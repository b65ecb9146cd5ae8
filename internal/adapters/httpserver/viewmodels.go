package httpserver

import (
	"github.com/google/uuid"

	"twinsfashion/internal/domain"
)

// adminProductView is the flattened shape the back-office table expects.
type adminProductView struct {
	ID            uuid.UUID        `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Price         int              `json:"price"`
	Quantity      int              `json:"quantity"`
	CategoryID    uuid.UUID        `json:"categoryId"`
	Category      string           `json:"category"`
	SubcategoryID uuid.UUID        `json:"subcategoryId"`
	Subcategory   string           `json:"subcategory"`
	ColorID       uuid.UUID        `json:"colorId"`
	Color         string           `json:"color"`
	CoverImageURL string           `json:"coverImageUrl"`
	Images        []adminImageView `json:"images"`
	Sizes         []string         `json:"sizes"`
	SizeIDs       []uuid.UUID      `json:"sizeIds"`
}

type adminImageView struct {
	ID      uuid.UUID `json:"id"`
	URL     string    `json:"url"`
	IsCover bool      `json:"isCover"`
}

func mapAdminProduct(p domain.ProductDTO) adminProductView {
	v := adminProductView{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		Quantity:      p.Quantity,
		CoverImageURL: p.CoverImageURL,
		Images:        []adminImageView{},
		Sizes:         []string{},
		SizeIDs:       []uuid.UUID{},
	}
	if p.Category != nil {
		v.CategoryID = p.Category.ID
		v.Category = p.Category.Name
	}
	if p.SubCategory != nil {
		v.SubcategoryID = p.SubCategory.ID
		v.Subcategory = p.SubCategory.Name
	}
	if p.Color != nil {
		v.ColorID = p.Color.ID
		v.Color = p.Color.Name
	}
	for _, img := range p.Images {
		v.Images = append(v.Images, adminImageView{ID: img.ID, URL: img.URL, IsCover: img.IsCover})
	}
	seen := map[string]bool{}
	for _, sz := range p.Sizes {
		v.SizeIDs = append(v.SizeIDs, sz.ID)
		if sz.Size != "" && !seen[sz.Size] {
			seen[sz.Size] = true
			v.Sizes = append(v.Sizes, sz.Size)
		}
	}
	return v
}

func mapAdminProducts(products []domain.ProductDTO) []adminProductView {
	out := make([]adminProductView, 0, len(products))
	for _, p := range products {
		out = append(out, mapAdminProduct(p))
	}
	return out
}
