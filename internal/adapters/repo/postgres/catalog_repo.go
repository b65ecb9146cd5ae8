package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"twinsfashion/internal/domain"
)

// featuredSubCategory floats to the top of the storefront listing; the
// rest of the ordering is alphabetical.
const featuredSubCategory = "Кожени якета"

type CatalogRepo struct{ db *gorm.DB }

func NewCatalogRepo(db *gorm.DB) *CatalogRepo { return &CatalogRepo{db: db} }

func (r *CatalogRepo) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Category").
		Preload("SubCategory").
		Preload("Color").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc") }).
		Preload("Sizes")
}

func (r *CatalogRepo) AllProducts(ctx context.Context) ([]domain.Product, error) {
	list := []domain.Product{}
	err := r.preloaded(ctx).
		Joins("LEFT JOIN sub_categories ON sub_categories.id = products.sub_category_id").
		Order(clause.OrderByColumn{Column: clause.Column{
			Raw:  true,
			Name: "CASE WHEN sub_categories.name = '" + featuredSubCategory + "' THEN 0 ELSE 1 END",
		}}).
		Order("sub_categories.name asc").
		Order("products.name asc").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *CatalogRepo) ProductByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	var p domain.Product
	if err := r.preloaded(ctx).First(&p, "products.id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *CatalogRepo) ProductsByCategory(ctx context.Context, categoryName string) ([]domain.Product, error) {
	list := []domain.Product{}
	err := r.preloaded(ctx).
		Joins("JOIN categories ON categories.id = products.category_id").
		Where("categories.name = ?", categoryName).
		Order("products.name asc").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *CatalogRepo) ProductsByColor(ctx context.Context, colorName string) ([]domain.Product, error) {
	list := []domain.Product{}
	err := r.preloaded(ctx).
		Joins("JOIN colors ON colors.id = products.color_id").
		Where("colors.name = ?", colorName).
		Order("products.name asc").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *CatalogRepo) Categories(ctx context.Context) ([]domain.Category, error) {
	list := []domain.Category{}
	if err := r.db.WithContext(ctx).Order("name asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *CatalogRepo) SubCategories(ctx context.Context) ([]domain.SubCategory, error) {
	list := []domain.SubCategory{}
	if err := r.db.WithContext(ctx).Preload("Category").Order("name asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *CatalogRepo) Colors(ctx context.Context) ([]domain.Color, error) {
	list := []domain.Color{}
	if err := r.db.WithContext(ctx).Order("name asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *CatalogRepo) Sizes(ctx context.Context) ([]domain.Size, error) {
	list := []domain.Size{}
	if err := r.db.WithContext(ctx).Order("name asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *CatalogRepo) firstOrNotFound(ctx context.Context, dest any, query string, args ...any) error {
	if err := r.db.WithContext(ctx).First(dest, append([]any{query}, args...)...).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *CatalogRepo) CategoryByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	var c domain.Category
	if err := r.firstOrNotFound(ctx, &c, "id = ?", id); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CatalogRepo) SubCategoryByID(ctx context.Context, id uuid.UUID) (*domain.SubCategory, error) {
	var sc domain.SubCategory
	if err := r.firstOrNotFound(ctx, &sc, "id = ?", id); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (r *CatalogRepo) ColorByID(ctx context.Context, id uuid.UUID) (*domain.Color, error) {
	var c domain.Color
	if err := r.firstOrNotFound(ctx, &c, "id = ?", id); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CatalogRepo) SizesByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Size, error) {
	list := []domain.Size{}
	if len(ids) == 0 {
		return list, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *CatalogRepo) CategoryByName(ctx context.Context, name string) (*domain.Category, error) {
	var c domain.Category
	if err := r.firstOrNotFound(ctx, &c, "name = ?", name); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CatalogRepo) SubCategoryByName(ctx context.Context, categoryID uuid.UUID, name string) (*domain.SubCategory, error) {
	var sc domain.SubCategory
	if err := r.firstOrNotFound(ctx, &sc, "category_id = ? AND name = ?", categoryID, name); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (r *CatalogRepo) ColorByName(ctx context.Context, name string) (*domain.Color, error) {
	var c domain.Color
	if err := r.firstOrNotFound(ctx, &c, "name = ?", name); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CatalogRepo) SizeByName(ctx context.Context, name string) (*domain.Size, error) {
	var s domain.Size
	if err := r.firstOrNotFound(ctx, &s, "name = ?", name); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *CatalogRepo) CreateCategory(ctx context.Context, c *domain.Category) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CatalogRepo) CreateSubCategory(ctx context.Context, sc *domain.SubCategory) error {
	if sc.ID == uuid.Nil {
		sc.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(sc).Error
}

func (r *CatalogRepo) CreateColor(ctx context.Context, c *domain.Color) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CatalogRepo) CreateSize(ctx context.Context, s *domain.Size) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *CatalogRepo) CreateProduct(ctx context.Context, p *domain.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	for i := range p.Images {
		if p.Images[i].ID == uuid.Nil {
			p.Images[i].ID = uuid.New()
		}
		p.Images[i].ProductID = p.ID
		if p.Images[i].CreatedAt.IsZero() {
			p.Images[i].CreatedAt = time.Now()
		}
	}
	return r.db.WithContext(ctx).Create(p).Error
}

// UpdateProductColumns writes the scalar columns only; associations are
// managed through ReplaceProductSizes.
func (r *CatalogRepo) UpdateProductColumns(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"name":            p.Name,
			"price":           p.Price,
			"sub_category_id": p.SubCategoryID,
		}).Error
}

func (r *CatalogRepo) ReplaceProductSizes(ctx context.Context, productID uuid.UUID, sizes []domain.Size) error {
	p := domain.Product{ID: productID}
	return r.db.WithContext(ctx).Model(&p).Association("Sizes").Replace(sizes)
}

// DeleteProduct tears the product down in three explicit steps because
// the size relation must survive the product: detach sizes, delete
// images, delete the row. The whole sequence runs in one transaction.
func (r *CatalogRepo) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p domain.Product
		if err := tx.First(&p, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if err := tx.Model(&p).Association("Sizes").Clear(); err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", productID).Delete(&domain.Image{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Product{}, "id = ?", productID).Error
	})
}

// SetCoverImage clears the current cover and flags the target inside a
// single transaction so there is no window with zero covers.
func (r *CatalogRepo) SetCoverImage(ctx context.Context, productID, imageID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p domain.Product
		if err := tx.First(&p, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		var img domain.Image
		if err := tx.First(&img, "id = ?", imageID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if img.ProductID != productID {
			return fmt.Errorf("%w: image %s does not belong to product %s", domain.ErrValidation, imageID, productID)
		}
		if err := tx.Model(&domain.Image{}).
			Where("product_id = ? AND is_cover = ?", productID, true).
			Update("is_cover", false).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Image{}).
			Where("id = ?", imageID).
			Update("is_cover", true).Error
	})
}
