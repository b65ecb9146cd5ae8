// Package mapper translates catalog entities into transport DTOs. All
// functions are pure; collection mappers never return nil slices.
package mapper

import (
	"strings"

	"twinsfashion/internal/domain"
)

const uploadSegment = "/upload/"

// WithAutoFormat rewrites a Cloudinary delivery URL so the CDN picks
// format and quality automatically. Applying it twice leaves the URL
// unchanged; non-Cloudinary URLs pass through as-is.
func WithAutoFormat(url string) string {
	if strings.TrimSpace(url) == "" {
		return ""
	}
	lower := strings.ToLower(url)
	if !strings.Contains(lower, "res.cloudinary.com") || !strings.Contains(lower, uploadSegment) {
		return url
	}
	if strings.Contains(lower, "/upload/f_auto") || strings.Contains(lower, "/upload/q_auto") {
		return url
	}
	idx := strings.Index(lower, uploadSegment)
	return url[:idx] + "/upload/f_auto,q_auto/" + url[idx+len(uploadSegment):]
}

// CoverURL picks the image flagged as cover, else the first image in
// storage order, else the empty string.
func CoverURL(imgs []domain.Image) string {
	for _, img := range imgs {
		if img.IsCover {
			return img.URL
		}
	}
	if len(imgs) > 0 {
		return imgs[0].URL
	}
	return ""
}

func Size(s domain.Size) domain.SizeDTO {
	typ, size := domain.DecodeSizeName(s.Name)
	return domain.SizeDTO{ID: s.ID, Type: typ, Size: size}
}

func Sizes(sizes []domain.Size) []domain.SizeDTO {
	out := make([]domain.SizeDTO, 0, len(sizes))
	for _, s := range sizes {
		if strings.TrimSpace(s.Name) == "" {
			continue
		}
		out = append(out, Size(s))
	}
	return out
}

func Category(c *domain.Category) *domain.CategoryDTO {
	if c == nil {
		return nil
	}
	return &domain.CategoryDTO{ID: c.ID, Name: c.Name}
}

func Categories(cats []domain.Category) []domain.CategoryDTO {
	out := make([]domain.CategoryDTO, 0, len(cats))
	for i := range cats {
		out = append(out, *Category(&cats[i]))
	}
	return out
}

func SubCategory(sc *domain.SubCategory) *domain.SubCategoryDTO {
	if sc == nil {
		return nil
	}
	return &domain.SubCategoryDTO{
		ID:         sc.ID,
		Name:       sc.Name,
		CategoryID: sc.CategoryID,
		Category:   Category(sc.Category),
	}
}

func SubCategories(subs []domain.SubCategory) []domain.SubCategoryDTO {
	out := make([]domain.SubCategoryDTO, 0, len(subs))
	for i := range subs {
		out = append(out, *SubCategory(&subs[i]))
	}
	return out
}

func Color(c *domain.Color) *domain.ColorDTO {
	if c == nil {
		return nil
	}
	return &domain.ColorDTO{ID: c.ID, Name: c.Name}
}

func Colors(colors []domain.Color) []domain.ColorDTO {
	out := make([]domain.ColorDTO, 0, len(colors))
	for i := range colors {
		out = append(out, *Color(&colors[i]))
	}
	return out
}

func Product(p *domain.Product) *domain.ProductDTO {
	if p == nil {
		return nil
	}
	images := make([]domain.ImageDTO, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, domain.ImageDTO{
			ID:      img.ID,
			URL:     WithAutoFormat(img.URL),
			Alt:     p.Name,
			IsCover: img.IsCover,
		})
	}
	return &domain.ProductDTO{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		Quantity:      p.Quantity,
		CoverImageURL: WithAutoFormat(CoverURL(p.Images)),
		Category:      Category(p.Category),
		SubCategory:   SubCategory(p.SubCategory),
		Color:         Color(p.Color),
		Images:        images,
		Sizes:         Sizes(p.Sizes),
	}
}

func Products(products []domain.Product) []domain.ProductDTO {
	out := make([]domain.ProductDTO, 0, len(products))
	for i := range products {
		out = append(out, *Product(&products[i]))
	}
	return out
}

func Summary(p *domain.Product) domain.ProductSummaryDTO {
	return domain.ProductSummaryDTO{
		ID:            p.ID,
		Name:          p.Name,
		Price:         p.Price,
		Quantity:      p.Quantity,
		CoverImageURL: WithAutoFormat(CoverURL(p.Images)),
	}
}

func Summaries(products []domain.Product) []domain.ProductSummaryDTO {
	out := make([]domain.ProductSummaryDTO, 0, len(products))
	for i := range products {
		out = append(out, Summary(&products[i]))
	}
	return out
}
