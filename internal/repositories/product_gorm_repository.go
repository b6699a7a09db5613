package repositories

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"catalog/internal/models"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// All retrieves every product from the database. An empty store yields an
// empty slice, not nil.
func (r *GORMProductRepository) All() ([]models.Product, error) {
	products := make([]models.Product, 0)
	if err := r.db.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// FindByID retrieves a single product by its ID. A well-formed id with no
// matching row returns (nil, nil).
func (r *GORMProductRepository) FindByID(id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find product %d: %w", id, err)
	}
	return &product, nil
}

// Create inserts the product as a new row. Any caller-set id is discarded;
// the store assigns the identity and it is written back to the product.
func (r *GORMProductRepository) Create(product *models.Product) error {
	product.ID = 0
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update persists all current field values of the product, keyed by its
// existing id. Calling Update on a product that was never created is caller
// misuse and fails before reaching the store.
func (r *GORMProductRepository) Update(product *models.Product) error {
	if product.ID == 0 {
		return fmt.Errorf("%w: cannot update a product without an id", models.ErrValidation)
	}
	if err := r.db.Save(product).Error; err != nil {
		return fmt.Errorf("failed to update product %d: %w", product.ID, err)
	}
	return nil
}

// Delete removes the row matching the product's id. Deleting a row that is
// already gone succeeds silently; the store reports zero rows affected
// without an error.
func (r *GORMProductRepository) Delete(product *models.Product) error {
	if err := r.db.Delete(&models.Product{}, product.ID).Error; err != nil {
		return fmt.Errorf("failed to delete product %d: %w", product.ID, err)
	}
	return nil
}

// FindByName returns all products with an exact, case-sensitive name match.
func (r *GORMProductRepository) FindByName(name string) (*Cursor, error) {
	return r.findWhere("name = ?", name)
}

// FindByCategory returns all products in the given category.
func (r *GORMProductRepository) FindByCategory(category models.Category) (*Cursor, error) {
	return r.findWhere("category = ?", string(category))
}

// FindByAvailability returns all products with the given availability flag.
func (r *GORMProductRepository) FindByAvailability(available bool) (*Cursor, error) {
	return r.findWhere("available = ?", available)
}

// FindByPrice returns all products whose price equals the given exact
// decimal.
func (r *GORMProductRepository) FindByPrice(price decimal.Decimal) (*Cursor, error) {
	return r.findWhere("price = ?", price)
}

func (r *GORMProductRepository) findWhere(condition string, value any) (*Cursor, error) {
	var products []models.Product
	if err := r.db.Where(condition, value).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("product query %q failed: %w", condition, err)
	}
	return NewCursor(products), nil
}
