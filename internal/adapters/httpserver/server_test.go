package httpserver_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"twinsfashion/internal/app"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	t.Setenv("ADMIN_USER", "admin")
	t.Setenv("ADMIN_PASS", "correct-horse")
	t.Setenv("ADMIN_TOKEN_SECRET", "test-secret")
	t.Setenv("STORAGE_DIR", t.TempDir())

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	application, err := app.NewApp(db)
	require.NoError(t, err)
	require.NoError(t, application.MigrateAndSeed())
	return application.HTTPHandler()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, h http.Handler) *http.Cookie {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/api/admin/login", map[string]string{
		"username": "admin", "password": "correct-horse",
	}, nil)
	require.Equal(t, 200, rec.Code, rec.Body.String())
	for _, c := range rec.Result().Cookies() {
		if c.Name == "admin_token" && c.Value != "" {
			return c
		}
	}
	t.Fatal("admin_token cookie missing from login response")
	return nil
}

func TestAdminEndpointsRequireAuth(t *testing.T) {
	h := newTestServer(t)
	for _, path := range []string{
		"/api/admin/dashboard/products",
		"/api/admin/categories",
		"/api/admin/products/export",
	} {
		rec := doJSON(t, h, http.MethodGet, path, nil, nil)
		assert.Equal(t, 401, rec.Code, path)
	}
}

func TestAdminLogin(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/admin/login", map[string]string{
		"username": "admin", "password": "wrong",
	}, nil)
	assert.Equal(t, 400, rec.Code)
	assert.Contains(t, rec.Body.String(), "Невалиден username или парола")

	cookie := login(t, h)

	rec = doJSON(t, h, http.MethodGet, "/api/admin/check-auth", nil, cookie)
	require.Equal(t, 200, rec.Code)
	var auth struct {
		IsAuthenticated bool   `json:"isAuthenticated"`
		Username        string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &auth))
	assert.True(t, auth.IsAuthenticated)
	assert.Equal(t, "admin", auth.Username)

	rec = doJSON(t, h, http.MethodGet, "/api/admin/check-auth", nil, nil)
	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `"isAuthenticated":false`)
}

func TestCreateCategoryTwiceKeepsOne(t *testing.T) {
	h := newTestServer(t)
	cookie := login(t, h)

	for i := 0; i < 2; i++ {
		rec := doJSON(t, h, http.MethodPost, "/api/admin/categories", map[string]string{"name": "Якета"}, cookie)
		require.Equal(t, 200, rec.Code, rec.Body.String())
	}

	rec := doJSON(t, h, http.MethodGet, "/api/categories", nil, nil)
	require.Equal(t, 200, rec.Code)
	var cats []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cats))
	assert.Len(t, cats, 1)
}

func TestPublicCatalogEndpoints(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodGet, "/api/products/all", nil, nil)
	require.Equal(t, 200, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))

	rec = doJSON(t, h, http.MethodGet, "/api/products/"+uuid.NewString(), nil, nil)
	assert.Equal(t, 404, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/products/not-a-uuid", nil, nil)
	assert.Equal(t, 404, rec.Code)
}

func TestOrderValidation(t *testing.T) {
	h := newTestServer(t)

	order := map[string]any{
		"customerName":    "Иван Иванов",
		"city":            "София",
		"deliveryPlace":   "Офис на Еконт",
		"deliveryAddress": "ул. Витоша 1",
		"phone":           "0881234567",
		"items": []map[string]any{
			{"productId": uuid.NewString(), "title": "Кожено яке", "price": 100, "quantity": 1, "size": "M"},
		},
		"total": 100,
	}

	// mail transport is not configured in tests, sending degrades to a no-op
	rec := doJSON(t, h, http.MethodPost, "/api/shoppingbasket/order", order, nil)
	assert.Equal(t, 200, rec.Code, rec.Body.String())

	order["phone"] = "12345"
	rec = doJSON(t, h, http.MethodPost, "/api/shoppingbasket/order", order, nil)
	assert.Equal(t, 400, rec.Code)
}

func TestContactValidation(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/home/contacts", map[string]string{
		"emailAddress": "ivan@example.com",
		"description":  "Имате ли това яке в син цвят?",
	}, nil)
	assert.Equal(t, 200, rec.Code, rec.Body.String())

	rec = doJSON(t, h, http.MethodPost, "/api/home/contacts", map[string]string{
		"emailAddress": "not-an-email",
		"description":  "Имате ли това яке в син цвят?",
	}, nil)
	assert.Equal(t, 400, rec.Code)
}

func TestProductLifecycleInvalidatesCache(t *testing.T) {
	h := newTestServer(t)
	cookie := login(t, h)

	for path, body := range map[string]map[string]string{
		"/api/admin/categories": {"name": "Якета"},
		"/api/admin/colors":     {"name": "Черен"},
	} {
		rec := doJSON(t, h, http.MethodPost, path, body, cookie)
		require.Equal(t, 200, rec.Code, rec.Body.String())
	}

	rec := doJSON(t, h, http.MethodGet, "/api/categories", nil, nil)
	var cats []struct {
		ID uuid.UUID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cats))
	require.Len(t, cats, 1)

	rec = doJSON(t, h, http.MethodPost, "/api/admin/subcategories", map[string]any{
		"categoryId": cats[0].ID, "name": "Кожени якета",
	}, cookie)
	require.Equal(t, 200, rec.Code, rec.Body.String())

	rec = doJSON(t, h, http.MethodGet, "/api/subcategories", nil, nil)
	var subs []struct {
		ID uuid.UUID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &subs))
	require.Len(t, subs, 1)

	rec = doJSON(t, h, http.MethodGet, "/api/colors", nil, nil)
	var colors []struct {
		ID uuid.UUID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &colors))
	require.Len(t, colors, 1)

	// warm the collection cache while the catalog is still empty
	rec = doJSON(t, h, http.MethodGet, "/api/products/all", nil, nil)
	require.Equal(t, 200, rec.Code)
	require.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))

	rec = doJSON(t, h, http.MethodPost, "/api/admin/products", map[string]any{
		"name":          "Кожено яке",
		"description":   "Описание на продукта",
		"price":         150,
		"quantity":      2,
		"categoryId":    cats[0].ID,
		"subCategoryId": subs[0].ID,
		"colorId":       colors[0].ID,
		"imageUrls":     []string{"images/jacket.jpg"},
	}, cookie)
	require.Equal(t, 200, rec.Code, rec.Body.String())
	var created struct {
		ID uuid.UUID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	// the write evicted the cached empty listing
	rec = doJSON(t, h, http.MethodGet, "/api/products/all", nil, nil)
	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "Кожено яке")

	rec = doJSON(t, h, http.MethodGet, "/api/products/"+created.ID.String(), nil, nil)
	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "/images/jacket.jpg")

	rec = doJSON(t, h, http.MethodDelete, "/api/admin/products/"+created.ID.String(), nil, cookie)
	require.Equal(t, 200, rec.Code, rec.Body.String())

	rec = doJSON(t, h, http.MethodGet, "/api/products/all", nil, nil)
	require.Equal(t, 200, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))

	rec = doJSON(t, h, http.MethodDelete, "/api/admin/products/"+created.ID.String(), nil, cookie)
	assert.Equal(t, 404, rec.Code)
	assert.Contains(t, rec.Body.String(), "Product not found")
}

func TestUploadImages(t *testing.T) {
	h := newTestServer(t)
	cookie := login(t, h)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("files", "jacket.jpg")
	require.NoError(t, err)
	_, err = fw.Write([]byte("fake image bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/upload-images", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code, rec.Body.String())
	var uploaded []struct {
		URL      string `json:"url"`
		PublicID string `json:"publicId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &uploaded))
	require.Len(t, uploaded, 1)
	assert.True(t, strings.HasPrefix(uploaded[0].URL, "/uploads/"))
	assert.NotEmpty(t, uploaded[0].PublicID)
}

func TestExportProducts(t *testing.T) {
	h := newTestServer(t)
	cookie := login(t, h)

	rec := doJSON(t, h, http.MethodGet, "/api/admin/products/export", nil, cookie)
	require.Equal(t, 200, rec.Code)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rec.Header().Get("Content-Type"))
	assert.NotZero(t, rec.Body.Len())
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/products/all", nil, nil)
	assert.Equal(t, 405, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/shoppingbasket/order", nil, nil)
	assert.Equal(t, 405, rec.Code)
}
