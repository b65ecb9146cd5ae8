package mapper

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"twinsfashion/internal/domain"
)

func TestCoverURLPrefersFlaggedImage(t *testing.T) {
	imgs := []domain.Image{
		{URL: "/images/first.jpg"},
		{URL: "/images/cover.jpg", IsCover: true},
		{URL: "/images/last.jpg"},
	}
	assert.Equal(t, "/images/cover.jpg", CoverURL(imgs))
}

func TestCoverURLFallsBackToFirstImage(t *testing.T) {
	imgs := []domain.Image{
		{URL: "/images/first.jpg"},
		{URL: "/images/second.jpg"},
	}
	assert.Equal(t, "/images/first.jpg", CoverURL(imgs))
}

func TestCoverURLEmptyWithoutImages(t *testing.T) {
	assert.Equal(t, "", CoverURL(nil))
}

func TestWithAutoFormatRewritesCloudinaryURL(t *testing.T) {
	in := "https://res.cloudinary.com/demo/image/upload/v1/shop/jacket.jpg"
	want := "https://res.cloudinary.com/demo/image/upload/f_auto,q_auto/v1/shop/jacket.jpg"
	assert.Equal(t, want, WithAutoFormat(in))
}

func TestWithAutoFormatIsIdempotent(t *testing.T) {
	in := "https://res.cloudinary.com/demo/image/upload/v1/shop/jacket.jpg"
	once := WithAutoFormat(in)
	assert.Equal(t, once, WithAutoFormat(once))
}

func TestWithAutoFormatLeavesOtherURLsAlone(t *testing.T) {
	assert.Equal(t, "/images/pants/local.jpg", WithAutoFormat("/images/pants/local.jpg"))
	assert.Equal(t, "https://example.com/upload/a.jpg", WithAutoFormat("https://example.com/upload/a.jpg"))
	assert.Equal(t, "", WithAutoFormat("  "))
}

func TestSizeDecodesStoredJSON(t *testing.T) {
	s := domain.Size{ID: uuid.New(), Name: `{"type":"Обувки","size":"39"}`}
	dto := Size(s)
	assert.Equal(t, "Обувки", dto.Type)
	assert.Equal(t, "39", dto.Size)
}

func TestSizeKeepsRawValueOnMalformedJSON(t *testing.T) {
	s := domain.Size{ID: uuid.New(), Name: "XL"}
	dto := Size(s)
	assert.Equal(t, "", dto.Type)
	assert.Equal(t, "XL", dto.Size)
}

func TestCollectionMappersNeverReturnNil(t *testing.T) {
	assert.NotNil(t, Products(nil))
	assert.NotNil(t, Summaries(nil))
	assert.NotNil(t, Sizes(nil))
	assert.NotNil(t, Categories(nil))
	assert.NotNil(t, SubCategories(nil))
	assert.NotNil(t, Colors(nil))
	assert.Empty(t, Products([]domain.Product{}))
}

func TestProductMapping(t *testing.T) {
	id := uuid.New()
	catID := uuid.New()
	p := domain.Product{
		ID:       id,
		Name:     "Панталон Елизабета",
		Price:    110,
		Quantity: 10,
		Category: &domain.Category{ID: catID, Name: "Дрехи"},
		Images: []domain.Image{
			{ID: uuid.New(), URL: "/images/a.jpg"},
			{ID: uuid.New(), URL: "/images/b.jpg", IsCover: true},
		},
		Sizes: []domain.Size{{ID: uuid.New(), Name: `{"type":"Панталони","size":"M"}`}},
	}

	dto := Product(&p)
	assert.Equal(t, "/images/b.jpg", dto.CoverImageURL)
	assert.Equal(t, "Дрехи", dto.Category.Name)
	assert.Len(t, dto.Images, 2)
	assert.Equal(t, p.Name, dto.Images[0].Alt)
	assert.Len(t, dto.Sizes, 1)
	assert.Equal(t, "M", dto.Sizes[0].Size)
	assert.Nil(t, dto.SubCategory)
}
