package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"twinsfashion/internal/domain"
	"twinsfashion/internal/mapper"
)

const (
	minNameLen        = 5
	minDescriptionLen = 10
	maxPrice          = 1000
	maxQuantity       = 1000
	maxImageURLLen    = 255
)

// CatalogUC is the catalog service: read queries return transport DTOs,
// write operations validate referential integrity before touching the
// store.
type CatalogUC struct {
	Catalog domain.CatalogRepo
}

func (uc *CatalogUC) AllProducts(ctx context.Context) ([]domain.ProductDTO, error) {
	products, err := uc.Catalog.AllProducts(ctx)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		zlog.Warn().Msg("no products found in the database")
	}
	return mapper.Products(products), nil
}

func (uc *CatalogUC) ProductSummaries(ctx context.Context) ([]domain.ProductSummaryDTO, error) {
	products, err := uc.Catalog.AllProducts(ctx)
	if err != nil {
		return nil, err
	}
	return mapper.Summaries(products), nil
}

func (uc *CatalogUC) ProductByID(ctx context.Context, id uuid.UUID) (*domain.ProductDTO, error) {
	p, err := uc.Catalog.ProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapper.Product(p), nil
}

func (uc *CatalogUC) ProductsByCategory(ctx context.Context, categoryName string) ([]domain.ProductDTO, error) {
	products, err := uc.Catalog.ProductsByCategory(ctx, categoryName)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		zlog.Warn().Str("category", categoryName).Msg("no products found for category")
	}
	return mapper.Products(products), nil
}

func (uc *CatalogUC) ProductsByColor(ctx context.Context, colorName string) ([]domain.ProductDTO, error) {
	products, err := uc.Catalog.ProductsByColor(ctx, colorName)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		zlog.Warn().Str("color", colorName).Msg("no products found for color")
	}
	return mapper.Products(products), nil
}

func (uc *CatalogUC) Categories(ctx context.Context) ([]domain.CategoryDTO, error) {
	cats, err := uc.Catalog.Categories(ctx)
	if err != nil {
		return nil, err
	}
	return mapper.Categories(cats), nil
}

func (uc *CatalogUC) SubCategories(ctx context.Context) ([]domain.SubCategoryDTO, error) {
	subs, err := uc.Catalog.SubCategories(ctx)
	if err != nil {
		return nil, err
	}
	return mapper.SubCategories(subs), nil
}

func (uc *CatalogUC) Colors(ctx context.Context) ([]domain.ColorDTO, error) {
	colors, err := uc.Catalog.Colors(ctx)
	if err != nil {
		return nil, err
	}
	return mapper.Colors(colors), nil
}

func (uc *CatalogUC) Sizes(ctx context.Context) ([]domain.SizeDTO, error) {
	sizes, err := uc.Catalog.Sizes(ctx)
	if err != nil {
		return nil, err
	}
	return mapper.Sizes(sizes), nil
}

type AddProductInput struct {
	Name          string
	Description   string
	Price         int
	Quantity      int
	CategoryID    uuid.UUID
	SubCategoryID uuid.UUID
	ColorID       uuid.UUID
	ImageURLs     []string
	SizeIDs       []uuid.UUID
}

// AddProduct creates a product together with its images and size links.
// The referenced category, subcategory and color must exist; unmatched
// size ids are logged and skipped rather than failing the write.
func (uc *CatalogUC) AddProduct(ctx context.Context, in AddProductInput) (uuid.UUID, error) {
	if len(strings.TrimSpace(in.Name)) < minNameLen {
		return uuid.Nil, fmt.Errorf("%w: name must be at least %d characters", domain.ErrValidation, minNameLen)
	}
	if len(strings.TrimSpace(in.Description)) < minDescriptionLen {
		return uuid.Nil, fmt.Errorf("%w: description must be at least %d characters", domain.ErrValidation, minDescriptionLen)
	}
	if in.Price < 0 || in.Price > maxPrice {
		return uuid.Nil, fmt.Errorf("%w: price must be between 0 and %d", domain.ErrValidation, maxPrice)
	}
	if in.Quantity < 0 || in.Quantity > maxQuantity {
		return uuid.Nil, fmt.Errorf("%w: quantity must be between 0 and %d", domain.ErrValidation, maxQuantity)
	}

	urls := NormalizeImageURLs(in.ImageURLs)
	for _, u := range urls {
		if len(u) > maxImageURLLen {
			return uuid.Nil, fmt.Errorf("%w: image url exceeds %d characters", domain.ErrValidation, maxImageURLLen)
		}
	}

	category, err := uc.Catalog.CategoryByID(ctx, in.CategoryID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return uuid.Nil, fmt.Errorf("%w: category %s", domain.ErrNotFound, in.CategoryID)
		}
		return uuid.Nil, err
	}
	subCategory, err := uc.Catalog.SubCategoryByID(ctx, in.SubCategoryID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return uuid.Nil, fmt.Errorf("%w: subcategory %s", domain.ErrNotFound, in.SubCategoryID)
		}
		return uuid.Nil, err
	}
	color, err := uc.Catalog.ColorByID(ctx, in.ColorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return uuid.Nil, fmt.Errorf("%w: color %s", domain.ErrNotFound, in.ColorID)
		}
		return uuid.Nil, err
	}

	sizeIDs := dedupeIDs(in.SizeIDs)
	sizes, err := uc.Catalog.SizesByIDs(ctx, sizeIDs)
	if err != nil {
		return uuid.Nil, err
	}
	if len(sizes) != len(sizeIDs) {
		zlog.Warn().
			Strs("missing", missingIDs(sizeIDs, sizes)).
			Msg("some size ids were not found")
	}

	images := make([]domain.Image, 0, len(urls))
	for _, u := range urls {
		images = append(images, domain.Image{ID: uuid.New(), URL: u})
	}

	p := &domain.Product{
		ID:            uuid.New(),
		Name:          strings.TrimSpace(in.Name),
		Description:   strings.TrimSpace(in.Description),
		Price:         in.Price,
		Quantity:      in.Quantity,
		CategoryID:    category.ID,
		SubCategoryID: subCategory.ID,
		ColorID:       color.ID,
		Images:        images,
		Sizes:         sizes,
	}
	if err := uc.Catalog.CreateProduct(ctx, p); err != nil {
		return uuid.Nil, err
	}
	return p.ID, nil
}

type UpdateProductInput struct {
	Name          *string
	Price         *int
	SubCategoryID *uuid.UUID
	SizeIDs       []uuid.UUID
}

// UpdateProduct applies only the provided fields. An unchanged size set
// is a no-op; when nothing changes at all the call succeeds without a
// write.
func (uc *CatalogUC) UpdateProduct(ctx context.Context, id uuid.UUID, in UpdateProductInput) error {
	p, err := uc.Catalog.ProductByID(ctx, id)
	if err != nil {
		return err
	}

	changed := false
	if in.Name != nil && strings.TrimSpace(*in.Name) != "" && *in.Name != p.Name {
		if len(strings.TrimSpace(*in.Name)) < minNameLen {
			return fmt.Errorf("%w: name must be at least %d characters", domain.ErrValidation, minNameLen)
		}
		p.Name = strings.TrimSpace(*in.Name)
		changed = true
	}
	if in.Price != nil && *in.Price != p.Price {
		if *in.Price < 0 || *in.Price > maxPrice {
			return fmt.Errorf("%w: price must be between 0 and %d", domain.ErrValidation, maxPrice)
		}
		p.Price = *in.Price
		changed = true
	}
	if in.SubCategoryID != nil && *in.SubCategoryID != p.SubCategoryID {
		sc, err := uc.Catalog.SubCategoryByID(ctx, *in.SubCategoryID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: subcategory %s", domain.ErrNotFound, *in.SubCategoryID)
			}
			return err
		}
		p.SubCategoryID = sc.ID
		changed = true
	}

	if in.SizeIDs != nil {
		want := dedupeIDs(in.SizeIDs)
		if !sameIDSet(want, p.Sizes) {
			sizes, err := uc.Catalog.SizesByIDs(ctx, want)
			if err != nil {
				return err
			}
			if len(sizes) != len(want) {
				zlog.Warn().
					Strs("missing", missingIDs(want, sizes)).
					Msg("some size ids were not found")
			}
			if err := uc.Catalog.ReplaceProductSizes(ctx, id, sizes); err != nil {
				return err
			}
		}
	}

	if !changed {
		return nil
	}
	return uc.Catalog.UpdateProductColumns(ctx, p)
}

func (uc *CatalogUC) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return uc.Catalog.DeleteProduct(ctx, id)
}

func (uc *CatalogUC) SetCoverImage(ctx context.Context, productID, imageID uuid.UUID) error {
	return uc.Catalog.SetCoverImage(ctx, productID, imageID)
}

// CreateCategory treats an existing name as success: posting the same
// category twice leaves a single row behind.
func (uc *CatalogUC) CreateCategory(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: category name is required", domain.ErrValidation)
	}
	if _, err := uc.Catalog.CategoryByName(ctx, name); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return uc.Catalog.CreateCategory(ctx, &domain.Category{Name: name})
}

func (uc *CatalogUC) CreateColor(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: color name is required", domain.ErrValidation)
	}
	if _, err := uc.Catalog.ColorByName(ctx, name); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return uc.Catalog.CreateColor(ctx, &domain.Color{Name: name})
}

func (uc *CatalogUC) CreateSize(ctx context.Context, typ, size string) error {
	typ = strings.TrimSpace(typ)
	size = strings.TrimSpace(size)
	if typ == "" || size == "" {
		return fmt.Errorf("%w: size type and value are required", domain.ErrValidation)
	}
	name := domain.EncodeSizeName(typ, size)
	if _, err := uc.Catalog.SizeByName(ctx, name); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return uc.Catalog.CreateSize(ctx, &domain.Size{Name: name})
}

func (uc *CatalogUC) CreateSubCategory(ctx context.Context, categoryID uuid.UUID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" || categoryID == uuid.Nil {
		return fmt.Errorf("%w: subcategory name and category are required", domain.ErrValidation)
	}
	if _, err := uc.Catalog.CategoryByID(ctx, categoryID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: category %s", domain.ErrNotFound, categoryID)
		}
		return err
	}
	if _, err := uc.Catalog.SubCategoryByName(ctx, categoryID, name); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return uc.Catalog.CreateSubCategory(ctx, &domain.SubCategory{Name: name, CategoryID: categoryID})
}

// NormalizeImageURLs cleans admin-supplied image paths: backslashes
// become slashes, anything up to a wwwroot/ storage prefix is dropped,
// relative paths get a leading slash. Absolute http(s) URLs pass through
// untouched. Blanks are dropped and duplicates collapse.
func NormalizeImageURLs(urls []string) []string {
	out := make([]string, 0, len(urls))
	seen := map[string]struct{}{}
	for _, raw := range urls {
		u := strings.TrimSpace(strings.ReplaceAll(raw, "\\", "/"))
		if u == "" {
			continue
		}
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			if idx := strings.Index(strings.ToLower(u), "wwwroot/"); idx >= 0 {
				u = u[idx+len("wwwroot"):]
			}
			if !strings.HasPrefix(u, "/") {
				u = "/" + strings.TrimLeft(u, "~/")
			}
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	seen := map[uuid.UUID]struct{}{}
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func missingIDs(want []uuid.UUID, got []domain.Size) []string {
	have := map[uuid.UUID]struct{}{}
	for _, s := range got {
		have[s.ID] = struct{}{}
	}
	missing := []string{}
	for _, id := range want {
		if _, ok := have[id]; !ok {
			missing = append(missing, id.String())
		}
	}
	return missing
}

func sameIDSet(want []uuid.UUID, current []domain.Size) bool {
	if len(want) != len(current) {
		return false
	}
	have := map[uuid.UUID]struct{}{}
	for _, s := range current {
		have[s.ID] = struct{}{}
	}
	for _, id := range want {
		if _, ok := have[id]; !ok {
			return false
		}
	}
	return true
}
