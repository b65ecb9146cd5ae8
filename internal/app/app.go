package app

import (
	"context"
	"net/http"
	"os"

	zlog "github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"twinsfashion/internal/adapters/httpserver"
	"twinsfashion/internal/adapters/mailer"
	"twinsfashion/internal/adapters/repo/postgres"
	"twinsfashion/internal/adapters/storage/localfs"
	"twinsfashion/internal/cache"
	"twinsfashion/internal/domain"
	"twinsfashion/internal/usecase"
)

type App struct {
	DB        *gorm.DB
	CatalogUC *usecase.CatalogUC
	AdminUC   *usecase.AdminUC
	Mailer    *mailer.Mailer
	Storage   domain.FileStorage
	Cache     *cache.Catalog
}

func NewApp(db *gorm.DB) (*App, error) {
	storageDir := os.Getenv("STORAGE_DIR")
	if storageDir == "" {
		storageDir = "uploads"
	}
	_ = os.MkdirAll(storageDir, 0755)

	app := &App{
		DB:        db,
		CatalogUC: &usecase.CatalogUC{Catalog: postgres.NewCatalogRepo(db)},
		AdminUC:   &usecase.AdminUC{Admins: postgres.NewAdminUserRepo(db)},
		Mailer:    mailer.FromEnv(),
		Storage:   localfs.New(storageDir),
		Cache:     cache.New(),
	}
	return app, nil
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(a.CatalogUC, a.AdminUC, a.Mailer, a.Storage, a.Cache)
}

func (a *App) MigrateAndSeed() error {
	if err := a.DB.AutoMigrate(
		&domain.Category{}, &domain.SubCategory{}, &domain.Color{}, &domain.Size{},
		&domain.Product{}, &domain.Image{}, &domain.AdminUser{},
	); err != nil {
		return err
	}

	// At most one cover per product, enforced at the database level.
	if err := a.DB.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_images_cover_unique ON images (product_id) WHERE is_cover = true").Error; err != nil {
		return err
	}

	return a.seedAdmin()
}

func (a *App) seedAdmin() error {
	user := os.Getenv("ADMIN_USER")
	pass := os.Getenv("ADMIN_PASS")
	if user == "" || pass == "" {
		zlog.Warn().Msg("ADMIN_USER/ADMIN_PASS not set, skipping admin seed")
		return nil
	}
	if err := a.AdminUC.CreateAdminUser(context.Background(), user, pass); err != nil {
		return err
	}
	return nil
}
