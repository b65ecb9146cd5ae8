package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"twinsfashion/internal/adapters/mailer"
	"twinsfashion/internal/cache"
	"twinsfashion/internal/domain"
	"twinsfashion/internal/usecase"
)

type Server struct {
	mux     *http.ServeMux
	catalog *usecase.CatalogUC
	admins  *usecase.AdminUC
	mail    *mailer.Mailer
	storage domain.FileStorage
	cache   *cache.Catalog

	adminSecret []byte
}

func New(catalog *usecase.CatalogUC, admins *usecase.AdminUC, mail *mailer.Mailer, storage domain.FileStorage, readCache *cache.Catalog) http.Handler {
	s := &Server{
		mux:     http.NewServeMux(),
		catalog: catalog,
		admins:  admins,
		mail:    mail,
		storage: storage,
		cache:   readCache,
	}

	sec := os.Getenv("ADMIN_TOKEN_SECRET")
	if sec == "" {
		sec = os.Getenv("SESSION_KEY")
	}
	if sec == "" {
		sec = "dev-admin-secret"
	}
	s.adminSecret = []byte(sec)

	s.routes()
	return Chain(s.mux,
		RequestID,
		Recovery,
		Logging,
	)
}

func (s *Server) routes() {
	uploadsDir := os.Getenv("STORAGE_DIR")
	if uploadsDir == "" {
		uploadsDir = "uploads"
	}
	s.mux.Handle("/uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadsDir))))

	s.mux.HandleFunc("/api/products/all", s.apiProductsAll)
	s.mux.HandleFunc("/api/products/summary", s.apiProductsSummary)
	s.mux.HandleFunc("/api/products/category/", s.apiProductsByCategory)
	s.mux.HandleFunc("/api/products/color/", s.apiProductsByColor)
	s.mux.HandleFunc("/api/products/", s.apiProductByID)

	s.mux.HandleFunc("/api/categories", s.apiCategories)
	s.mux.HandleFunc("/api/subcategories", s.apiSubCategories)
	s.mux.HandleFunc("/api/colors", s.apiColors)
	s.mux.HandleFunc("/api/sizes", s.apiSizes)

	s.mux.HandleFunc("/api/shoppingbasket/order", s.apiOrder)
	s.mux.HandleFunc("/api/home/contacts", s.apiContacts)

	s.mux.HandleFunc("/api/admin/login", s.handleAdminLogin)
	s.mux.HandleFunc("/api/admin/logout", s.handleAdminLogout)
	s.mux.HandleFunc("/api/admin/check-auth", s.handleAdminCheckAuth)

	s.mux.HandleFunc("/api/admin/dashboard/products", s.handleAdminDashboardProducts)
	s.mux.HandleFunc("/api/admin/categories", s.handleAdminCategories)
	s.mux.HandleFunc("/api/admin/subcategories", s.handleAdminSubCategories)
	s.mux.HandleFunc("/api/admin/colors", s.handleAdminColors)
	s.mux.HandleFunc("/api/admin/sizes", s.handleAdminSizes)

	s.mux.HandleFunc("/api/admin/products", s.handleAdminProducts)
	s.mux.HandleFunc("/api/admin/products/export", s.handleAdminExport)
	s.mux.HandleFunc("/api/admin/products/", s.handleAdminProductByID)
	s.mux.HandleFunc("/api/admin/upload-images", s.handleAdminUpload)
}

func (s *Server) apiProductsAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMessage(w, 405, "method not allowed")
		return
	}
	if v, ok := s.cache.Get(cache.KeyAllProducts); ok {
		if cached, ok := v.([]domain.ProductDTO); ok {
			writeJSON(w, 200, cached)
			return
		}
	}
	products, err := s.catalog.AllProducts(r.Context())
	if err != nil {
		writeMessage(w, 500, "failed to load products")
		return
	}
	s.cache.Set(cache.KeyAllProducts, products, cache.CollectionTTL)
	writeJSON(w, 200, products)
}

func (s *Server) apiProductsSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMessage(w, 405, "method not allowed")
		return
	}
	if v, ok := s.cache.Get(cache.KeySummary); ok {
		if cached, ok := v.([]domain.ProductSummaryDTO); ok {
			writeJSON(w, 200, cached)
			return
		}
	}
	summaries, err := s.catalog.ProductSummaries(r.Context())
	if err != nil {
		writeMessage(w, 500, "failed to load products")
		return
	}
	s.cache.Set(cache.KeySummary, summaries, cache.CollectionTTL)
	writeJSON(w, 200, summaries)
}

func (s *Server) apiProductByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMessage(w, 405, "method not allowed")
		return
	}
	id, err := uuid.Parse(strings.TrimPrefix(r.URL.Path, "/api/products/"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	key := cache.KeyProduct(id)
	if v, ok := s.cache.Get(key); ok {
		if cached, ok := v.(*domain.ProductDTO); ok {
			writeJSON(w, 200, cached)
			return
		}
	}
	product, err := s.catalog.ProductByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		writeMessage(w, 500, "failed to load product")
		return
	}
	s.cache.Set(key, product, cache.ProductTTL)
	writeJSON(w, 200, product)
}

func (s *Server) apiProductsByCategory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMessage(w, 405, "method not allowed")
		return
	}
	name := pathTail(r.URL.Path, "/api/products/category/")
	if name == "" {
		http.NotFound(w, r)
		return
	}
	products, err := s.catalog.ProductsByCategory(r.Context(), name)
	if err != nil {
		writeMessage(w, 500, "failed to load products")
		return
	}
	writeJSON(w, 200, products)
}

func (s *Server) apiProductsByColor(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMessage(w, 405, "method not allowed")
		return
	}
	name := pathTail(r.URL.Path, "/api/products/color/")
	if name == "" {
		http.NotFound(w, r)
		return
	}
	products, err := s.catalog.ProductsByColor(r.Context(), name)
	if err != nil {
		writeMessage(w, 500, "failed to load products")
		return
	}
	writeJSON(w, 200, products)
}

func (s *Server) apiCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMessage(w, 405, "method not allowed")
		return
	}
	cats, err := s.catalog.Categories(r.Context())
	if err != nil {
		writeMessage(w, 500, "failed to load categories")
		return
	}
	writeJSON(w, 200, cats)
}

func (s *Server) apiSubCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMessage(w, 405, "method not allowed")
		return
	}
	subs, err := s.catalog.SubCategories(r.Context())
	if err != nil {
		writeMessage(w, 500, "failed to load subcategories")
		return
	}
	writeJSON(w, 200, subs)
}

func (s *Server) apiColors(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMessage(w, 405, "method not allowed")
		return
	}
	colors, err := s.catalog.Colors(r.Context())
	if err != nil {
		writeMessage(w, 500, "failed to load colors")
		return
	}
	writeJSON(w, 200, colors)
}

func (s *Server) apiSizes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMessage(w, 405, "method not allowed")
		return
	}
	sizes, err := s.catalog.Sizes(r.Context())
	if err != nil {
		writeMessage(w, 500, "failed to load sizes")
		return
	}
	writeJSON(w, 200, sizes)
}

func (s *Server) apiOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMessage(w, 405, "method not allowed")
		return
	}
	var order mailer.Order
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		writeMessage(w, 400, "invalid json")
		return
	}
	if err := order.Validate(); err != nil {
		writeMessage(w, 400, validationMessage(err))
		return
	}
	if err := s.mail.SendOrder(order); err != nil {
		zlog.Error().Err(err).Msg("order email failed")
		writeMessage(w, 500, "Грешка при изпращане на поръчката.")
		return
	}
	writeJSON(w, 200, map[string]string{"message": "success"})
}

func (s *Server) apiContacts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMessage(w, 405, "method not allowed")
		return
	}
	var contact mailer.Contact
	if err := json.NewDecoder(r.Body).Decode(&contact); err != nil {
		writeMessage(w, 400, "invalid json")
		return
	}
	if err := contact.Validate(); err != nil {
		writeMessage(w, 400, validationMessage(err))
		return
	}
	if err := s.mail.SendContact(contact); err != nil {
		zlog.Error().Err(err).Msg("contact email failed")
		writeMessage(w, 500, "Грешка при изпращане на съобщението.")
		return
	}
	writeJSON(w, 200, map[string]string{"message": "success"})
}

func pathTail(path, prefix string) string {
	tail := strings.TrimPrefix(path, prefix)
	if un, err := url.PathUnescape(tail); err == nil {
		tail = un
	}
	return strings.TrimSpace(tail)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"message": msg})
}

// validationMessage strips the sentinel prefix so callers see only the
// human-readable part.
func validationMessage(err error) string {
	msg := err.Error()
	for _, sentinel := range []string{domain.ErrValidation.Error() + ": ", domain.ErrNotFound.Error() + ": "} {
		msg = strings.TrimPrefix(msg, sentinel)
	}
	return msg
}
