package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	vendorID := uuid.New()

	t.Run("valid product", func(t *testing.T) {
		p, err := NewProduct(vendorID, "Walnut Desk", "walnut-desk", decimal.NewFromInt(45000))
		require.NoError(t, err)
		assert.Equal(t, "Walnut Desk", p.Name)
		assert.Equal(t, "walnut-desk", p.Slug)
		assert.False(t, p.Published)
		assert.NotEqual(t, uuid.Nil, p.ID)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := NewProduct(vendorID, "  ", "walnut-desk", decimal.NewFromInt(100))
		assert.Error(t, err)
	})

	t.Run("invalid slug", func(t *testing.T) {
		_, err := NewProduct(vendorID, "Walnut Desk", "walnut desk!", decimal.NewFromInt(100))
		assert.Error(t, err)
	})

	t.Run("negative price", func(t *testing.T) {
		_, err := NewProduct(vendorID, "Walnut Desk", "walnut-desk", decimal.NewFromInt(-1))
		assert.Error(t, err)
	})

	t.Run("slug lowercased", func(t *testing.T) {
		p, err := NewProduct(vendorID, "Walnut Desk", "Walnut-Desk", decimal.NewFromInt(100))
		require.NoError(t, err)
		assert.Equal(t, "walnut-desk", p.Slug)
	})
}

func TestProductPublish(t *testing.T) {
	newProduct := func() *Product {
		p, err := NewProduct(uuid.New(), "Walnut Desk", "walnut-desk", decimal.NewFromInt(100))
		require.NoError(t, err)
		return p
	}

	t.Run("publish without images fails", func(t *testing.T) {
		p := newProduct()
		assert.Error(t, p.Publish())
	})

	t.Run("publish with image succeeds", func(t *testing.T) {
		p := newProduct()
		p.ReplaceImages([]string{"https://cdn.example.com/desk.jpg"}, nil)
		require.NoError(t, p.Publish())
		assert.True(t, p.Published)
	})

	t.Run("double publish fails", func(t *testing.T) {
		p := newProduct()
		p.ReplaceImages([]string{"https://cdn.example.com/desk.jpg"}, nil)
		require.NoError(t, p.Publish())
		assert.Error(t, p.Publish())
	})

	t.Run("unpublish", func(t *testing.T) {
		p := newProduct()
		p.ReplaceImages([]string{"https://cdn.example.com/desk.jpg"}, nil)
		require.NoError(t, p.Publish())
		require.NoError(t, p.Unpublish())
		assert.False(t, p.Published)
		assert.Error(t, p.Unpublish())
	})
}

func TestProductImages(t *testing.T) {
	p, err := NewProduct(uuid.New(), "Walnut Desk", "walnut-desk", decimal.NewFromInt(100))
	require.NoError(t, err)

	t.Run("no images", func(t *testing.T) {
		assert.Equal(t, "", p.PrimaryImageURL())
	})

	t.Run("primary is lowest sort order", func(t *testing.T) {
		p.ReplaceImages([]string{"https://a.jpg", "https://b.jpg"}, []string{"front", "side"})
		require.Len(t, p.Images, 2)
		assert.Equal(t, "https://a.jpg", p.PrimaryImageURL())
		assert.Equal(t, 1, p.Images[1].SortOrder)
	})
}

func TestProductSpecs(t *testing.T) {
	p, err := NewProduct(uuid.New(), "Walnut Desk", "walnut-desk", decimal.NewFromInt(100))
	require.NoError(t, err)

	p.ReplaceSpecs(map[string]string{"Material": "Walnut", "Width": "140cm"}, []string{"Material", "Width"})
	require.Len(t, p.Specs, 2)
	assert.Equal(t, "Material", p.Specs[0].Name)
	assert.Equal(t, "Walnut", p.Specs[0].Value)
	assert.Equal(t, 1, p.Specs[1].SortOrder)
}

func TestValidateSlug(t *testing.T) {
	assert.NoError(t, ValidateSlug("office-chairs"))
	assert.NoError(t, ValidateSlug("desk2"))
	assert.Error(t, ValidateSlug(""))
	assert.Error(t, ValidateSlug("office chairs"))
	assert.Error(t, ValidateSlug("desk/2"))
}

func TestNewCategory(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		c, err := NewCategory("Office", "office", nil)
		require.NoError(t, err)
		assert.True(t, c.IsTopLevel())
	})

	t.Run("with parent", func(t *testing.T) {
		parent := uuid.New()
		c, err := NewCategory("Chairs", "chairs", &parent)
		require.NoError(t, err)
		assert.False(t, c.IsTopLevel())
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := NewCategory("", "office", nil)
		assert.Error(t, err)
	})
}
