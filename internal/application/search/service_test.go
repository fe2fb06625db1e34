package search

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/luxemart/storefront/internal/domain/catalog"
	"github.com/luxemart/storefront/internal/domain/search"
	"github.com/luxemart/storefront/internal/domain/shared"
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

// MockSearchRepository is a mock implementation of search.Repository
type MockSearchRepository struct {
	mock.Mock
}

func (m *MockSearchRepository) ListPopularSearches(ctx context.Context, limit int) ([]*search.PopularSearch, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*search.PopularSearch), args.Error(1)
}

func (m *MockSearchRepository) ListPopularCategories(ctx context.Context, limit int) ([]*search.PopularCategory, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*search.PopularCategory), args.Error(1)
}

func (m *MockSearchRepository) SavePopularSearch(ctx context.Context, term *search.PopularSearch) error {
	return m.Called(ctx, term).Error(0)
}

func (m *MockSearchRepository) SavePopularCategory(ctx context.Context, pinned *search.PopularCategory) error {
	return m.Called(ctx, pinned).Error(0)
}

func (m *MockSearchRepository) RecordSearch(ctx context.Context, term string) error {
	return m.Called(ctx, term).Error(0)
}

func (m *MockSearchRepository) RecordCategoryHit(ctx context.Context, categoryID uuid.UUID) error {
	return m.Called(ctx, categoryID).Error(0)
}

func (m *MockSearchRepository) DeletePopularSearch(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockSearchRepository) DeletePopularCategory(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func newTestService(t *testing.T) (*Service, *MockProductRepository, *MockCategoryRepository, *MockSearchRepository) {
	t.Helper()
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)
	searchRepo := new(MockSearchRepository)
	svc := NewService(productRepo, categoryRepo, searchRepo, zap.NewNop())
	return svc, productRepo, categoryRepo, searchRepo
}

func newPublishedProduct(t *testing.T, name, slug string) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(uuid.New(), name, slug, decimal.NewFromInt(100))
	require.NoError(t, err)
	p.Published = true
	return p
}

func TestSuggestWithQuery(t *testing.T) {
	svc, productRepo, categoryRepo, searchRepo := newTestService(t)

	first := newPublishedProduct(t, "Oak Desk", "oak-desk")
	second := newPublishedProduct(t, "Oak Chair", "oak-chair")
	office, err := catalog.NewCategory("Office", "office", nil)
	require.NoError(t, err)

	productRepo.On("SearchPublished", mock.Anything, "oak", suggestLimit).
		Return([]*catalog.Product{first, second}, nil)
	categoryRepo.On("SearchByNameOrSlug", mock.Anything, "oak", suggestLimit).
		Return([]*catalog.Category{office}, nil)
	productRepo.On("IncrementSearchHitCount", mock.Anything, first.ID).Return(nil)
	searchRepo.On("RecordSearch", mock.Anything, "oak").Return(nil)
	searchRepo.On("RecordCategoryHit", mock.Anything, office.ID).Return(nil)

	resp, err := svc.Suggest(context.Background(), "  oak ")
	require.NoError(t, err)

	assert.Equal(t, "oak", resp.Query)
	require.Len(t, resp.Products, 2)
	assert.Equal(t, "Oak Desk", resp.Products[0].Name)
	require.Len(t, resp.Categories, 1)
	assert.Empty(t, resp.PopularSearches)

	// only the first match gets the hit, and only once
	productRepo.AssertNumberOfCalls(t, "IncrementSearchHitCount", 1)
	searchRepo.AssertNumberOfCalls(t, "RecordCategoryHit", 1)
}

func TestSuggestCategoryOnlyRecordsCategoryAnalytics(t *testing.T) {
	svc, productRepo, categoryRepo, searchRepo := newTestService(t)

	office, err := catalog.NewCategory("Office", "office", nil)
	require.NoError(t, err)

	productRepo.On("SearchPublished", mock.Anything, "office", suggestLimit).
		Return([]*catalog.Product{}, nil)
	categoryRepo.On("SearchByNameOrSlug", mock.Anything, "office", suggestLimit).
		Return([]*catalog.Category{office}, nil)
	searchRepo.On("RecordSearch", mock.Anything, "office").Return(nil)
	searchRepo.On("RecordCategoryHit", mock.Anything, office.ID).Return(nil)

	resp, err := svc.Suggest(context.Background(), "office")
	require.NoError(t, err)
	assert.Empty(t, resp.Products)
	require.Len(t, resp.Categories, 1)

	searchRepo.AssertCalled(t, "RecordCategoryHit", mock.Anything, office.ID)
	productRepo.AssertNotCalled(t, "IncrementSearchHitCount", mock.Anything, mock.Anything)
}

func TestSuggestAnalyticsFailureDoesNotFailSuggest(t *testing.T) {
	svc, productRepo, categoryRepo, searchRepo := newTestService(t)

	first := newPublishedProduct(t, "Oak Desk", "oak-desk")
	productRepo.On("SearchPublished", mock.Anything, "oak", suggestLimit).
		Return([]*catalog.Product{first}, nil)
	categoryRepo.On("SearchByNameOrSlug", mock.Anything, "oak", suggestLimit).
		Return([]*catalog.Category{}, nil)
	productRepo.On("IncrementSearchHitCount", mock.Anything, first.ID).
		Return(shared.NewDomainError("DB_DOWN", "database unavailable"))
	searchRepo.On("RecordSearch", mock.Anything, "oak").
		Return(shared.NewDomainError("DB_DOWN", "database unavailable"))

	resp, err := svc.Suggest(context.Background(), "oak")
	require.NoError(t, err)
	assert.Len(t, resp.Products, 1)
}

func TestSuggestNoMatchesRecordsNothing(t *testing.T) {
	svc, productRepo, categoryRepo, searchRepo := newTestService(t)

	productRepo.On("SearchPublished", mock.Anything, "zzz", suggestLimit).
		Return([]*catalog.Product{}, nil)
	categoryRepo.On("SearchByNameOrSlug", mock.Anything, "zzz", suggestLimit).
		Return([]*catalog.Category{}, nil)

	resp, err := svc.Suggest(context.Background(), "zzz")
	require.NoError(t, err)
	assert.Empty(t, resp.Products)
	productRepo.AssertNotCalled(t, "IncrementSearchHitCount", mock.Anything, mock.Anything)
	searchRepo.AssertNotCalled(t, "RecordSearch", mock.Anything, mock.Anything)
}

func TestSuggestEmptyQueryReturnsCuratedPanel(t *testing.T) {
	svc, productRepo, categoryRepo, searchRepo := newTestService(t)

	office, err := catalog.NewCategory("Office", "office", nil)
	require.NoError(t, err)
	term, err := search.NewPopularSearch("standing desk", 0)
	require.NoError(t, err)

	searchRepo.On("ListPopularSearches", mock.Anything, popularLimit).
		Return([]*search.PopularSearch{term}, nil)
	searchRepo.On("ListPopularCategories", mock.Anything, popularLimit).
		Return([]*search.PopularCategory{search.NewPopularCategory(office.ID, 0)}, nil)
	categoryRepo.On("FindByID", mock.Anything, office.ID).Return(office, nil)

	resp, err := svc.Suggest(context.Background(), "   ")
	require.NoError(t, err)

	assert.Equal(t, []string{"standing desk"}, resp.PopularSearches)
	require.Len(t, resp.PopularCategories, 1)
	assert.Equal(t, "office", resp.PopularCategories[0].Slug)
	productRepo.AssertNotCalled(t, "SearchPublished", mock.Anything, mock.Anything, mock.Anything)
}

// stubProvider lets tests control when each Suggest call returns
type stubProvider struct {
	calls   chan string
	release chan struct{}
}

func (p *stubProvider) Suggest(ctx context.Context, query string) (*SuggestionsResponse, error) {
	p.calls <- query
	if p.release != nil {
		select {
		case <-p.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return &SuggestionsResponse{Query: query}, nil
}

func TestSuggesterDebouncesRapidUpdates(t *testing.T) {
	provider := &stubProvider{calls: make(chan string, 10)}
	s := NewSuggesterWithDelay(provider, 40*time.Millisecond)
	defer s.Close()

	// keystrokes arriving faster than the debounce window
	s.Update("o")
	time.Sleep(5 * time.Millisecond)
	s.Update("oa")
	time.Sleep(5 * time.Millisecond)
	s.Update("oak")

	select {
	case r := <-s.Results():
		require.NoError(t, r.Err)
		assert.Equal(t, "oak", r.Query)
	case <-time.After(time.Second):
		t.Fatal("no result delivered")
	}

	// only the settled query reached the provider
	assert.Equal(t, "oak", <-provider.calls)
	select {
	case q := <-provider.calls:
		t.Fatalf("unexpected extra lookup for %q", q)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSuggesterDiscardsStaleResult(t *testing.T) {
	provider := &stubProvider{calls: make(chan string, 10), release: make(chan struct{})}
	s := NewSuggesterWithDelay(provider, 10*time.Millisecond)
	defer s.Close()

	s.Update("oak")
	// wait until the slow lookup for "oak" is in flight
	require.Equal(t, "oak", <-provider.calls)

	// a newer query settles while "oak" is still pending
	s.Update("oak desk")
	require.Equal(t, "oak desk", <-provider.calls)

	// let both lookups finish; the stale one must be discarded
	close(provider.release)

	select {
	case r := <-s.Results():
		require.NoError(t, r.Err)
		assert.Equal(t, "oak desk", r.Query)
	case <-time.After(time.Second):
		t.Fatal("no result delivered")
	}

	select {
	case r := <-s.Results():
		t.Fatalf("stale result delivered for %q", r.Query)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSuggesterCloseStopsPendingLookup(t *testing.T) {
	provider := &stubProvider{calls: make(chan string, 10)}
	s := NewSuggesterWithDelay(provider, 20*time.Millisecond)

	s.Update("oak")
	s.Close()

	select {
	case _, ok := <-s.Results():
		assert.False(t, ok, "channel should be closed without results")
	case <-time.After(time.Second):
		t.Fatal("result channel not closed")
	}

	// Update after Close is a no-op
	s.Update("pine")
	select {
	case q := <-provider.calls:
		t.Fatalf("lookup ran after close: %q", q)
	case <-time.After(100 * time.Millisecond):
	}
}
