package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/luxemart/storefront/internal/domain/catalog"
	"github.com/luxemart/storefront/internal/domain/shared"
	"github.com/luxemart/storefront/internal/domain/vendor"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindPublished(ctx context.Context, filter shared.Filter) ([]*catalog.Product, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) FindByVendor(ctx context.Context, vendorID uuid.UUID, filter shared.Filter) ([]*catalog.Product, int64, error) {
	args := m.Called(ctx, vendorID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) FindByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) ([]*catalog.Product, int64, error) {
	args := m.Called(ctx, categoryID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) SearchPublished(ctx context.Context, query string, limit int) ([]*catalog.Product, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProductRepository) IncrementSearchHitCount(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProductRepository) ReplaceCategories(ctx context.Context, productID uuid.UUID, categoryIDs []uuid.UUID) error {
	return m.Called(ctx, productID, categoryIDs).Error(0)
}

// MockCategoryRepository is a mock implementation of catalog.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *catalog.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *catalog.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context) ([]*catalog.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindTopLevel(ctx context.Context) ([]*catalog.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) SearchByNameOrSlug(ctx context.Context, query string, limit int) ([]*catalog.Category, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.Category), args.Error(1)
}

// MockVendorRepository is a mock implementation of vendor.Repository
type MockVendorRepository struct {
	mock.Mock
}

func (m *MockVendorRepository) Create(ctx context.Context, v *vendor.Vendor) error {
	return m.Called(ctx, v).Error(0)
}

func (m *MockVendorRepository) Update(ctx context.Context, v *vendor.Vendor) error {
	return m.Called(ctx, v).Error(0)
}

func (m *MockVendorRepository) FindByID(ctx context.Context, id uuid.UUID) (*vendor.Vendor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vendor.Vendor), args.Error(1)
}

func (m *MockVendorRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*vendor.Vendor, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vendor.Vendor), args.Error(1)
}

func (m *MockVendorRepository) FindBySlug(ctx context.Context, slug string) (*vendor.Vendor, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vendor.Vendor), args.Error(1)
}

func (m *MockVendorRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*vendor.Vendor, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*vendor.Vendor), args.Get(1).(int64), args.Error(2)
}

func (m *MockVendorRepository) FindByStatus(ctx context.Context, status vendor.Status, filter shared.Filter) ([]*vendor.Vendor, int64, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*vendor.Vendor), args.Get(1).(int64), args.Error(2)
}

func approvedVendor(t *testing.T) *vendor.Vendor {
	t.Helper()
	v, err := vendor.NewVendor(uuid.New(), "Test Store", "test-store")
	require.NoError(t, err)
	require.NoError(t, v.Approve())
	return v
}

func newProductServiceForTest() (*ProductService, *MockProductRepository, *MockCategoryRepository, *MockVendorRepository) {
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)
	vendorRepo := new(MockVendorRepository)
	return NewProductService(productRepo, categoryRepo, vendorRepo), productRepo, categoryRepo, vendorRepo
}

func TestCreateProduct(t *testing.T) {
	svc, productRepo, _, vendorRepo := newProductServiceForTest()
	v := approvedVendor(t)

	vendorRepo.On("FindByID", mock.Anything, v.ID).Return(v, nil)
	productRepo.On("FindBySlug", mock.Anything, "widget").Return(nil, shared.ErrNotFound)
	productRepo.On("Create", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

	resp, err := svc.Create(context.Background(), v.ID, CreateProductRequest{
		Name:  "Widget",
		Slug:  "widget",
		Price: decimal.NewFromFloat(19.99),
	})

	require.NoError(t, err)
	assert.Equal(t, "widget", resp.Slug)
	assert.False(t, resp.Published)
	productRepo.AssertExpectations(t)
}

func TestCreateProductRequiresApprovedVendor(t *testing.T) {
	svc, _, _, vendorRepo := newProductServiceForTest()
	v, err := vendor.NewVendor(uuid.New(), "Pending Store", "pending-store")
	require.NoError(t, err)

	vendorRepo.On("FindByID", mock.Anything, v.ID).Return(v, nil)

	_, err = svc.Create(context.Background(), v.ID, CreateProductRequest{
		Name:  "Widget",
		Slug:  "widget",
		Price: decimal.NewFromInt(10),
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VENDOR_NOT_APPROVED", domainErr.Code)
}

func TestCreateProductRejectsTakenSlug(t *testing.T) {
	svc, productRepo, _, vendorRepo := newProductServiceForTest()
	v := approvedVendor(t)
	existing, err := catalog.NewProduct(v.ID, "Existing", "widget", decimal.NewFromInt(5))
	require.NoError(t, err)

	vendorRepo.On("FindByID", mock.Anything, v.ID).Return(v, nil)
	productRepo.On("FindBySlug", mock.Anything, "widget").Return(existing, nil)

	_, err = svc.Create(context.Background(), v.ID, CreateProductRequest{
		Name:  "Widget",
		Slug:  "widget",
		Price: decimal.NewFromInt(10),
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
}

func TestGetBySlugCountsView(t *testing.T) {
	svc, productRepo, _, _ := newProductServiceForTest()
	product, err := catalog.NewProduct(uuid.New(), "Widget", "widget", decimal.NewFromInt(5))
	require.NoError(t, err)
	require.NoError(t, product.Publish())

	productRepo.On("FindBySlug", mock.Anything, "widget").Return(product, nil)
	productRepo.On("IncrementViewCount", mock.Anything, product.ID).Return(nil)

	resp, err := svc.GetBySlug(context.Background(), "widget")
	require.NoError(t, err)
	assert.Equal(t, "Widget", resp.Name)
	productRepo.AssertExpectations(t)
}

func TestImportCSVCreatesProducts(t *testing.T) {
	svc, productRepo, _, vendorRepo := newProductServiceForTest()
	v := approvedVendor(t)

	vendorRepo.On("FindByID", mock.Anything, v.ID).Return(v, nil)
	productRepo.On("FindBySlug", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)
	productRepo.On("Create", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

	csv := "name,slug,price,short_description\nWidget,widget,19.99,A widget\nGadget,gadget,5.00,\n"
	result, err := svc.ImportCSV(context.Background(), v.ID, strings.NewReader(csv))

	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 0, result.Failed)
	productRepo.AssertNumberOfCalls(t, "Create", 2)
}

func TestImportCSVReportsBadRowsAndKeepsGoing(t *testing.T) {
	svc, productRepo, _, vendorRepo := newProductServiceForTest()
	v := approvedVendor(t)

	vendorRepo.On("FindByID", mock.Anything, v.ID).Return(v, nil)
	productRepo.On("FindBySlug", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)
	productRepo.On("Create", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

	csv := "name,slug,price\n" +
		"Widget,widget,19.99\n" +
		",missing-name,1.00\n" +
		"Bad Price,bad-price,not-a-number\n" +
		"Duplicate,widget,2.00\n"
	result, err := svc.ImportCSV(context.Background(), v.ID, strings.NewReader(csv))

	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 3, result.Failed)
	require.Len(t, result.Errors, 3)
	assert.Equal(t, "name", result.Errors[0].Column)
	assert.Equal(t, "price", result.Errors[1].Column)
	assert.Equal(t, "slug", result.Errors[2].Column)
}

func TestImportCSVRejectsMissingColumns(t *testing.T) {
	svc, _, _, vendorRepo := newProductServiceForTest()
	v := approvedVendor(t)

	vendorRepo.On("FindByID", mock.Anything, v.ID).Return(v, nil)

	_, err := svc.ImportCSV(context.Background(), v.ID, strings.NewReader("name,price\nWidget,1\n"))

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_IMPORT_FILE", domainErr.Code)
	assert.Contains(t, domainErr.Message, "slug")
}
