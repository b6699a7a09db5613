package services_test

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/services"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) All() ([]models.Product, error) {
	args := m.Called()
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) FindByID(id uint) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) FindByName(name string) (*repositories.Cursor, error) {
	args := m.Called(name)
	return args.Get(0).(*repositories.Cursor), args.Error(1)
}

func (m *MockProductRepository) FindByCategory(category models.Category) (*repositories.Cursor, error) {
	args := m.Called(category)
	return args.Get(0).(*repositories.Cursor), args.Error(1)
}

func (m *MockProductRepository) FindByAvailability(available bool) (*repositories.Cursor, error) {
	args := m.Called(available)
	return args.Get(0).(*repositories.Cursor), args.Error(1)
}

func (m *MockProductRepository) FindByPrice(price decimal.Decimal) (*repositories.Cursor, error) {
	args := m.Called(price)
	return args.Get(0).(*repositories.Cursor), args.Error(1)
}

// MockEventPublisher is a mock implementation of services.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishProductEvent(name string, product map[string]any) error {
	args := m.Called(name, product)
	return args.Error(0)
}

func priceMatcher(want string) any {
	expected := decimal.RequireFromString(want)
	return mock.MatchedBy(func(price decimal.Decimal) bool {
		return price.Equal(expected)
	})
}

func TestProductService_ListProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	expectedProducts := []models.Product{
		{ID: 1, Name: "Hat", Price: decimal.RequireFromString("59.95"), Available: true, Category: models.Cloths},
		{ID: 2, Name: "Apple", Price: decimal.RequireFromString("12.50"), Available: true, Category: models.Food},
	}

	mockRepo.On("All").Return(expectedProducts, nil).Once()

	products, err := service.ListProducts()

	assert.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, expectedProducts, products)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	expectedProduct := &models.Product{ID: 1, Name: "Hat", Category: models.Cloths}

	// Test successful retrieval
	mockRepo.On("FindByID", uint(1)).Return(expectedProduct, nil).Once()
	product, err := service.GetProduct(1)
	assert.NoError(t, err)
	assert.Equal(t, expectedProduct, product)
	mockRepo.AssertExpectations(t)

	// Test absent product: nil result, no error
	mockRepo.On("FindByID", uint(99)).Return(nil, nil).Once()
	product, err = service.GetProduct(99)
	assert.NoError(t, err)
	assert.Nil(t, product)
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	newProduct := &models.Product{Name: "Wrench", Price: decimal.RequireFromString("15.25"), Category: models.Tools}

	// Test successful creation
	mockRepo.On("Create", newProduct).Return(nil).Once()
	err := service.CreateProduct(newProduct)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// Test creation failure (e.g., database error)
	mockRepo.On("Create", newProduct).Return(fmt.Errorf("database error")).Once()
	err = service.CreateProduct(newProduct)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database error")
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProductPublishesEvent(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockPublisher := new(MockEventPublisher)
	service := services.NewProductService(mockRepo, mockPublisher)

	product := &models.Product{ID: 3, Name: "Wrench", Price: decimal.RequireFromString("15.25"), Category: models.Tools}

	mockRepo.On("Create", product).Return(nil).Once()
	mockPublisher.On("PublishProductEvent", services.EventProductCreated, product.Serialize()).Return(nil).Once()

	require.NoError(t, service.CreateProduct(product))
	mockRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestProductService_CreateProductSurvivesPublishFailure(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockPublisher := new(MockEventPublisher)
	service := services.NewProductService(mockRepo, mockPublisher)

	product := &models.Product{ID: 3, Name: "Wrench", Category: models.Tools}

	mockRepo.On("Create", product).Return(nil).Once()
	mockPublisher.On("PublishProductEvent", services.EventProductCreated, mock.Anything).Return(fmt.Errorf("broker down")).Once()

	assert.NoError(t, service.CreateProduct(product), "publish failures never fail the write")
	mockPublisher.AssertExpectations(t)
}

func TestProductService_UpdateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	updatedProduct := &models.Product{ID: 1, Name: "Hat", Description: "Updated", Category: models.Cloths}

	// Test successful update
	mockRepo.On("Update", updatedProduct).Return(nil).Once()
	err := service.UpdateProduct(updatedProduct)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// An identity-less update is caller misuse and surfaces as a
	// validation error, never as a store error.
	unsaved := &models.Product{Name: "Nameless"}
	mockRepo.On("Update", unsaved).Return(fmt.Errorf("%w: cannot update a product without an id", models.ErrValidation)).Once()
	err = service.UpdateProduct(unsaved)
	assert.ErrorIs(t, err, models.ErrValidation)
	mockRepo.AssertExpectations(t)
}

func TestProductService_DeleteProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockPublisher := new(MockEventPublisher)
	service := services.NewProductService(mockRepo, mockPublisher)

	product := &models.Product{ID: 1, Name: "Hat", Category: models.Cloths}

	mockRepo.On("Delete", product).Return(nil).Once()
	mockPublisher.On("PublishProductEvent", services.EventProductDeleted, product.Serialize()).Return(nil).Once()

	err := service.DeleteProduct(product)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestProductService_FindByPriceToken(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	matches := repositories.NewCursor([]models.Product{
		{ID: 5, Name: "Ford", Price: decimal.RequireFromString("99.99"), Category: models.Automotive},
	})

	// A quoted, whitespace-padded token behaves exactly like the decimal.
	for _, token := range []string{"99.99", ` "99.99" `, "'99.99'"} {
		mockRepo.On("FindByPrice", priceMatcher("99.99")).Return(matches, nil).Once()

		cursor, err := service.FindByPriceToken(token)
		require.NoError(t, err, "token %q", token)
		assert.Equal(t, 1, cursor.Count())
		for product := range cursor.All() {
			assert.True(t, product.Price.Equal(decimal.RequireFromString("99.99")))
		}
	}
	mockRepo.AssertExpectations(t)
}

func TestProductService_FindByPriceTokenInvalid(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	cursor, err := service.FindByPriceToken(` "not-a-price" `)

	assert.ErrorIs(t, err, models.ErrValidation, "parse failure is a validation error, not an empty result")
	assert.Nil(t, cursor)
	mockRepo.AssertNotCalled(t, "FindByPrice", mock.Anything)
}

func TestProductService_FindByFilters(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	hats := repositories.NewCursor([]models.Product{{ID: 1, Name: "Hat", Category: models.Cloths}})

	mockRepo.On("FindByName", "Hat").Return(hats, nil).Once()
	cursor, err := service.FindByName("Hat")
	assert.NoError(t, err)
	assert.Equal(t, 1, cursor.Count())

	mockRepo.On("FindByCategory", models.Cloths).Return(hats, nil).Once()
	cursor, err = service.FindByCategory(models.Cloths)
	assert.NoError(t, err)
	assert.Equal(t, 1, cursor.Count())

	mockRepo.On("FindByAvailability", true).Return(hats, nil).Once()
	cursor, err = service.FindByAvailability(true)
	assert.NoError(t, err)
	assert.Equal(t, 1, cursor.Count())

	mockRepo.AssertExpectations(t)
}
