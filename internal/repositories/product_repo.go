package repositories

import (
	"iter"

	"github.com/shopspring/decimal"

	"catalog/internal/models"
)

// ProductRepository defines the interface for product data access.
//
// FindByID reports an absent row as (nil, nil); only store failures produce
// an error. Delete of an id that no longer exists is a silent no-op.
type ProductRepository interface {
	All() ([]models.Product, error)
	FindByID(id uint) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(product *models.Product) error
	FindByName(name string) (*Cursor, error)
	FindByCategory(category models.Category) (*Cursor, error)
	FindByAvailability(available bool) (*Cursor, error)
	FindByPrice(price decimal.Decimal) (*Cursor, error)
}

// Cursor holds the result of a filtered product query. The query executes
// once; Count and All read the same snapshot.
type Cursor struct {
	products []models.Product
}

// NewCursor wraps an already-executed query result.
func NewCursor(products []models.Product) *Cursor {
	return &Cursor{products: products}
}

// Count returns the number of matching products.
func (c *Cursor) Count() int {
	return len(c.products)
}

// All iterates over the matching products.
func (c *Cursor) All() iter.Seq[models.Product] {
	return func(yield func(models.Product) bool) {
		for _, product := range c.products {
			if !yield(product) {
				return
			}
		}
	}
}

// Products returns the matches as a slice.
func (c *Cursor) Products() []models.Product {
	return c.products
}
