package httpserver

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"twinsfashion/internal/domain"
	"twinsfashion/internal/usecase"
)

const (
	adminCookie    = "admin_token"
	adminTokenTTL  = 6 * time.Hour
	maxUploadBytes = 20 << 20
)

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMessage(w, 405, "method not allowed")
		return
	}
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, 400, "invalid json")
		return
	}
	ok, err := s.admins.Authorise(r.Context(), req.Username, req.Password)
	if err != nil {
		writeMessage(w, 500, "login failed")
		return
	}
	if !ok {
		zlog.Warn().Str("username", req.Username).Msg("admin login rejected")
		writeMessage(w, 400, "Невалиден username или парола")
		return
	}
	tok := s.issueAdminToken(req.Username, adminTokenTTL)
	secure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	http.SetCookie(w, &http.Cookie{
		Name:     adminCookie,
		Value:    tok,
		Path:     "/",
		MaxAge:   int(adminTokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
	writeJSON(w, 200, map[string]string{"message": "Login successful", "username": req.Username})
}

func (s *Server) handleAdminLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMessage(w, 405, "method not allowed")
		return
	}
	if !s.requireAdmin(w, r) {
		return
	}
	secure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	http.SetCookie(w, &http.Cookie{Name: adminCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true, Secure: secure, SameSite: http.SameSiteStrictMode})
	writeJSON(w, 200, map[string]string{"message": "Logout successful"})
}

func (s *Server) handleAdminCheckAuth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMessage(w, 405, "method not allowed")
		return
	}
	if username, err := s.verifyAdminToken(s.readAdminToken(r)); err == nil {
		writeJSON(w, 200, map[string]any{"isAuthenticated": true, "username": username})
		return
	}
	writeJSON(w, 200, map[string]any{"isAuthenticated": false})
}

func (s *Server) handleAdminDashboardProducts(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if r.Method != http.MethodGet {
		writeMessage(w, 405, "method not allowed")
		return
	}
	products, err := s.catalog.AllProducts(r.Context())
	if err != nil {
		writeMessage(w, 500, "failed to load products")
		return
	}
	writeJSON(w, 200, mapAdminProducts(products))
}

func (s *Server) handleAdminCategories(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	switch r.Method {
	case http.MethodGet:
		cats, err := s.catalog.Categories(r.Context())
		if err != nil {
			writeMessage(w, 500, "failed to load categories")
			return
		}
		writeJSON(w, 200, cats)
	case http.MethodPost:
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, 400, "invalid json")
			return
		}
		if err := s.catalog.CreateCategory(r.Context(), req.Name); err != nil {
			writeMessage(w, 400, "Failed to add category")
			return
		}
		writeJSON(w, 200, map[string]string{"message": "Category added successfully"})
	default:
		writeMessage(w, 405, "method not allowed")
	}
}

func (s *Server) handleAdminSubCategories(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	switch r.Method {
	case http.MethodGet:
		subs, err := s.catalog.SubCategories(r.Context())
		if err != nil {
			writeMessage(w, 500, "failed to load subcategories")
			return
		}
		writeJSON(w, 200, subs)
	case http.MethodPost:
		var req struct {
			CategoryID uuid.UUID `json:"categoryId"`
			Name       string    `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, 400, "invalid json")
			return
		}
		if err := s.catalog.CreateSubCategory(r.Context(), req.CategoryID, req.Name); err != nil {
			writeMessage(w, 400, "Failed to add subcategory")
			return
		}
		writeJSON(w, 200, map[string]string{"message": "Subcategory added successfully"})
	default:
		writeMessage(w, 405, "method not allowed")
	}
}

func (s *Server) handleAdminColors(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	switch r.Method {
	case http.MethodGet:
		colors, err := s.catalog.Colors(r.Context())
		if err != nil {
			writeMessage(w, 500, "failed to load colors")
			return
		}
		writeJSON(w, 200, colors)
	case http.MethodPost:
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, 400, "invalid json")
			return
		}
		if err := s.catalog.CreateColor(r.Context(), req.Name); err != nil {
			writeMessage(w, 400, "Failed to add color")
			return
		}
		writeJSON(w, 200, map[string]string{"message": "Color added successfully"})
	default:
		writeMessage(w, 405, "method not allowed")
	}
}

func (s *Server) handleAdminSizes(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	switch r.Method {
	case http.MethodGet:
		sizes, err := s.catalog.Sizes(r.Context())
		if err != nil {
			writeMessage(w, 500, "failed to load sizes")
			return
		}
		writeJSON(w, 200, sizes)
	case http.MethodPost:
		var req struct {
			Type string `json:"type"`
			Size string `json:"size"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, 400, "invalid json")
			return
		}
		if err := s.catalog.CreateSize(r.Context(), req.Type, req.Size); err != nil {
			writeMessage(w, 400, "Failed to add size")
			return
		}
		writeJSON(w, 200, map[string]string{"message": "Size added successfully"})
	default:
		writeMessage(w, 405, "method not allowed")
	}
}

type adminAddProductRequest struct {
	Name          string      `json:"name"`
	Description   string      `json:"description"`
	Price         int         `json:"price"`
	Quantity      int         `json:"quantity"`
	CategoryID    uuid.UUID   `json:"categoryId"`
	SubCategoryID uuid.UUID   `json:"subCategoryId"`
	ColorID       uuid.UUID   `json:"colorId"`
	ImageURLs     []string    `json:"imageUrls"`
	SizeIDs       []uuid.UUID `json:"sizeIds"`
}

func (s *Server) handleAdminProducts(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if r.Method != http.MethodPost {
		writeMessage(w, 405, "method not allowed")
		return
	}
	var req adminAddProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, 400, "invalid json")
		return
	}
	id, err := s.catalog.AddProduct(r.Context(), usecase.AddProductInput{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		Quantity:      req.Quantity,
		CategoryID:    req.CategoryID,
		SubCategoryID: req.SubCategoryID,
		ColorID:       req.ColorID,
		ImageURLs:     req.ImageURLs,
		SizeIDs:       req.SizeIDs,
	})
	if err != nil {
		if errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrNotFound) {
			writeMessage(w, 400, validationMessage(err))
			return
		}
		writeMessage(w, 400, "Failed to add product")
		return
	}
	s.cache.Invalidate(id)
	writeJSON(w, 200, map[string]string{"message": "Product added successfully", "id": id.String()})
}

// handleAdminProductByID covers the per-product admin operations:
// PUT /api/admin/products/{id}
// DELETE /api/admin/products/{id}
// POST /api/admin/products/{id}/delete (hosts that block DELETE)
// POST /api/admin/products/{id}/set-cover-image
func (s *Server) handleAdminProductByID(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	tail := strings.TrimPrefix(r.URL.Path, "/api/admin/products/")
	parts := strings.SplitN(tail, "/", 2)
	id, err := uuid.Parse(parts[0])
	if err != nil {
		writeMessage(w, 400, "invalid product id")
		return
	}
	action := ""
	if len(parts) == 2 {
		action = parts[1]
	}

	switch {
	case r.Method == http.MethodPut && action == "":
		s.updateProduct(w, r, id)
	case r.Method == http.MethodDelete && action == "":
		s.deleteProduct(w, r, id)
	case r.Method == http.MethodPost && action == "delete":
		s.deleteProduct(w, r, id)
	case r.Method == http.MethodPost && action == "set-cover-image":
		s.setCoverImage(w, r, id)
	default:
		writeMessage(w, 405, "method not allowed")
	}
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req struct {
		Name          *string     `json:"name"`
		Price         *int        `json:"price"`
		SubCategoryID *uuid.UUID  `json:"subCategoryId"`
		SizeIDs       []uuid.UUID `json:"sizeIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, 400, "invalid json")
		return
	}
	err := s.catalog.UpdateProduct(r.Context(), id, usecase.UpdateProductInput{
		Name:          req.Name,
		Price:         req.Price,
		SubCategoryID: req.SubCategoryID,
		SizeIDs:       req.SizeIDs,
	})
	if err != nil {
		if errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrNotFound) {
			writeMessage(w, 400, validationMessage(err))
			return
		}
		writeMessage(w, 400, "Failed to update product")
		return
	}
	s.cache.Invalidate(id)
	writeJSON(w, 200, map[string]string{"message": "Product updated successfully"})
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := s.catalog.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeMessage(w, 404, "Product not found")
			return
		}
		writeMessage(w, 400, "Failed to delete product")
		return
	}
	s.cache.Invalidate(id)
	writeJSON(w, 200, map[string]string{"message": "Product deleted successfully"})
}

func (s *Server) setCoverImage(w http.ResponseWriter, r *http.Request, productID uuid.UUID) {
	var req struct {
		ImageID uuid.UUID `json:"imageId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, 400, "invalid json")
		return
	}
	if err := s.catalog.SetCoverImage(r.Context(), productID, req.ImageID); err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrValidation) {
			writeMessage(w, 400, "Failed to set cover image. Product or image not found.")
			return
		}
		writeMessage(w, 400, "Failed to set cover image")
		return
	}
	s.cache.Invalidate(productID)
	writeJSON(w, 200, map[string]string{"message": "Cover image set successfully"})
}

func (s *Server) handleAdminUpload(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if r.Method != http.MethodPost {
		writeMessage(w, 405, "method not allowed")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeMessage(w, 400, "Не са предоставени файлове")
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeMessage(w, 400, "Не са предоставени файлове")
		return
	}

	results := []map[string]string{}
	for _, fh := range files {
		if fh.Size == 0 {
			continue
		}
		f, err := fh.Open()
		if err != nil {
			writeMessage(w, 400, fmt.Sprintf("Грешка при качване на %s", fh.Filename))
			return
		}
		url, err := s.storage.Save(fh.Filename, f)
		_ = f.Close()
		if err != nil {
			writeMessage(w, 400, fmt.Sprintf("Грешка при качване на %s", fh.Filename))
			return
		}
		results = append(results, map[string]string{
			"url":      url,
			"publicId": strings.TrimPrefix(url, "/uploads/"),
		})
	}
	if len(results) == 0 {
		writeMessage(w, 400, "Неуспешно качване на снимките")
		return
	}
	writeJSON(w, 200, results)
}

func (s *Server) handleAdminExport(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if r.Method != http.MethodGet {
		writeMessage(w, 405, "method not allowed")
		return
	}
	products, err := s.catalog.AllProducts(r.Context())
	if err != nil {
		writeMessage(w, 500, "failed to load products")
		return
	}

	f := excelize.NewFile()
	const sheet = "Products"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		writeMessage(w, 500, "export failed")
		return
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{"ID", "Name", "Price", "Quantity", "Category", "Subcategory", "Color", "Cover URL"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for row, p := range products {
		values := []any{
			p.ID.String(), p.Name, p.Price, p.Quantity,
			dtoName(p.Category), subName(p.SubCategory), colorName(p.Color), p.CoverImageURL,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="products.xlsx"`)
	if err := f.Write(w); err != nil {
		zlog.Error().Err(err).Msg("xlsx export failed")
	}
}

func dtoName(c *domain.CategoryDTO) string {
	if c == nil {
		return ""
	}
	return c.Name
}

func subName(sc *domain.SubCategoryDTO) string {
	if sc == nil {
		return ""
	}
	return sc.Name
}

func colorName(c *domain.ColorDTO) string {
	if c == nil {
		return ""
	}
	return c.Name
}

// --- admin session token ---

func (s *Server) issueAdminToken(username string, dur time.Duration) string {
	head := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	claims := map[string]any{
		"sub":  username,
		"role": "admin",
		"exp":  time.Now().Add(dur).Unix(),
		"iat":  time.Now().Unix(),
		"iss":  "twinsfashion",
	}
	b, _ := json.Marshal(claims)
	unsigned := head + "." + base64.RawURLEncoding.EncodeToString(b)
	h := hmac.New(sha256.New, s.adminSecret)
	h.Write([]byte(unsigned))
	return unsigned + "." + base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

func (s *Server) verifyAdminToken(tok string) (string, error) {
	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		return "", errors.New("token format")
	}
	unsigned := parts[0] + "." + parts[1]
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return "", errors.New("token signature")
	}
	h := hmac.New(sha256.New, s.adminSecret)
	h.Write([]byte(unsigned))
	if !hmac.Equal(sig, h.Sum(nil)) {
		return "", errors.New("token signature")
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return "", errors.New("token payload")
	}
	var m map[string]any
	if err := json.Unmarshal(payload, &m); err != nil {
		return "", errors.New("token payload")
	}
	role, _ := m["role"].(string)
	sub, _ := m["sub"].(string)
	if role != "admin" || sub == "" {
		return "", errors.New("token claims")
	}
	exp, _ := m["exp"].(float64)
	if time.Now().Unix() > int64(exp) {
		return "", errors.New("token expired")
	}
	return sub, nil
}

func (s *Server) readAdminToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	c, err := r.Cookie(adminCookie)
	if err != nil {
		return ""
	}
	return c.Value
}

// requireAdmin rejects the request with 401 before any handler logic
// runs when the admin cookie (or bearer token) does not verify.
func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if tok := s.readAdminToken(r); tok != "" {
		if _, err := s.verifyAdminToken(tok); err == nil {
			return true
		}
	}
	writeMessage(w, 401, "unauthorized")
	return false
}
