package repositories

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"catalog/internal/models"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
// It mimics the store's identity assignment with a local sequence.
type MockProductRepository struct {
	mu       sync.RWMutex
	products map[uint]models.Product
	nextID   uint
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[uint]models.Product),
	}
}

// All returns all products.
func (r *MockProductRepository) All() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, product := range r.products {
		productList = append(productList, product)
	}
	return productList, nil
}

// FindByID returns a product by its ID, or (nil, nil) when absent.
func (r *MockProductRepository) FindByID(id uint) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	return &product, nil
}

// Create adds a new product, assigning the next id in the sequence.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	product.ID = r.nextID
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *MockProductRepository) Update(product *models.Product) error {
	if product.ID == 0 {
		return fmt.Errorf("%w: cannot update a product without an id", models.ErrValidation)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return fmt.Errorf("product with ID %d not found for update", product.ID)
	}
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by its ID. Absent ids are a no-op.
func (r *MockProductRepository) Delete(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.products, product.ID)
	return nil
}

// FindByName returns all products with an exact name match.
func (r *MockProductRepository) FindByName(name string) (*Cursor, error) {
	return r.filter(func(p models.Product) bool { return p.Name == name }), nil
}

// FindByCategory returns all products in the given category.
func (r *MockProductRepository) FindByCategory(category models.Category) (*Cursor, error) {
	return r.filter(func(p models.Product) bool { return p.Category == category }), nil
}

// FindByAvailability returns all products with the given availability flag.
func (r *MockProductRepository) FindByAvailability(available bool) (*Cursor, error) {
	return r.filter(func(p models.Product) bool { return p.Available == available }), nil
}

// FindByPrice returns all products whose price equals the given decimal.
func (r *MockProductRepository) FindByPrice(price decimal.Decimal) (*Cursor, error) {
	return r.filter(func(p models.Product) bool { return p.Price.Equal(price) }), nil
}

func (r *MockProductRepository) filter(match func(models.Product) bool) *Cursor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := make([]models.Product, 0)
	for _, product := range r.products {
		if match(product) {
			matches = append(matches, product)
		}
	}
	return NewCursor(matches)
}
