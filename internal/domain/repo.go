package domain

import (
	"context"
	"io"

	"github.com/google/uuid"
)

type CatalogRepo interface {
	AllProducts(ctx context.Context) ([]Product, error)
	ProductByID(ctx context.Context, id uuid.UUID) (*Product, error)
	ProductsByCategory(ctx context.Context, categoryName string) ([]Product, error)
	ProductsByColor(ctx context.Context, colorName string) ([]Product, error)

	Categories(ctx context.Context) ([]Category, error)
	SubCategories(ctx context.Context) ([]SubCategory, error)
	Colors(ctx context.Context) ([]Color, error)
	Sizes(ctx context.Context) ([]Size, error)

	CategoryByID(ctx context.Context, id uuid.UUID) (*Category, error)
	SubCategoryByID(ctx context.Context, id uuid.UUID) (*SubCategory, error)
	ColorByID(ctx context.Context, id uuid.UUID) (*Color, error)
	SizesByIDs(ctx context.Context, ids []uuid.UUID) ([]Size, error)

	CategoryByName(ctx context.Context, name string) (*Category, error)
	SubCategoryByName(ctx context.Context, categoryID uuid.UUID, name string) (*SubCategory, error)
	ColorByName(ctx context.Context, name string) (*Color, error)
	SizeByName(ctx context.Context, name string) (*Size, error)

	CreateCategory(ctx context.Context, c *Category) error
	CreateSubCategory(ctx context.Context, sc *SubCategory) error
	CreateColor(ctx context.Context, c *Color) error
	CreateSize(ctx context.Context, s *Size) error

	CreateProduct(ctx context.Context, p *Product) error
	UpdateProductColumns(ctx context.Context, p *Product) error
	ReplaceProductSizes(ctx context.Context, productID uuid.UUID, sizes []Size) error
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	SetCoverImage(ctx context.Context, productID, imageID uuid.UUID) error
}

type AdminUserRepo interface {
	ByUsername(ctx context.Context, username string) (*AdminUser, error)
	Create(ctx context.Context, u *AdminUser) error
}

type FileStorage interface {
	Save(name string, r io.Reader) (url string, err error)
}
