package services

import (
	"log"

	"github.com/shopspring/decimal"

	"catalog/internal/models"
	"catalog/internal/repositories"
)

// Event names published after successful write operations.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
)

// EventPublisher publishes product lifecycle events. The RabbitMQ client in
// pkg/rabbitmq implements it.
type EventPublisher interface {
	PublishProductEvent(name string, product map[string]any) error
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher EventPublisher
}

// NewProductService creates a new ProductService. The publisher may be nil,
// in which case no events are emitted.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
	}
}

// ListProducts retrieves all products.
func (s *ProductService) ListProducts() ([]models.Product, error) {
	return s.repo.All()
}

// GetProduct retrieves a single product by its ID. An absent id yields
// (nil, nil).
func (s *ProductService) GetProduct(id uint) (*models.Product, error) {
	return s.repo.FindByID(id)
}

// CreateProduct creates a new product and publishes a created event.
func (s *ProductService) CreateProduct(product *models.Product) error {
	if err := s.repo.Create(product); err != nil {
		return err
	}
	s.publish(EventProductCreated, product)
	return nil
}

// UpdateProduct updates an existing product and publishes an updated event.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	if err := s.repo.Update(product); err != nil {
		return err
	}
	s.publish(EventProductUpdated, product)
	return nil
}

// DeleteProduct deletes a product and publishes a deleted event.
func (s *ProductService) DeleteProduct(product *models.Product) error {
	if err := s.repo.Delete(product); err != nil {
		return err
	}
	s.publish(EventProductDeleted, product)
	return nil
}

// FindByName retrieves all products with an exact name match.
func (s *ProductService) FindByName(name string) (*repositories.Cursor, error) {
	return s.repo.FindByName(name)
}

// FindByCategory retrieves all products in the given category.
func (s *ProductService) FindByCategory(category models.Category) (*repositories.Cursor, error) {
	return s.repo.FindByCategory(category)
}

// FindByAvailability retrieves all products with the given availability.
func (s *ProductService) FindByAvailability(available bool) (*repositories.Cursor, error) {
	return s.repo.FindByAvailability(available)
}

// FindByPrice retrieves all products whose price equals the given decimal.
func (s *ProductService) FindByPrice(price decimal.Decimal) (*repositories.Cursor, error) {
	return s.repo.FindByPrice(price)
}

// FindByPriceToken retrieves all products matching a price supplied as
// text. The token may be padded with whitespace and wrapped in one layer of
// quotes; a token that does not normalize to a decimal is a validation
// failure, not an empty result.
func (s *ProductService) FindByPriceToken(token string) (*repositories.Cursor, error) {
	price, err := models.ParsePrice(token)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByPrice(price)
}

// publish emits a product event. Publish failures are logged and never fail
// the operation that triggered them.
func (s *ProductService) publish(name string, product *models.Product) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishProductEvent(name, product.Serialize()); err != nil {
		log.Printf("Failed to publish %s event for product %d: %v", name, product.ID, err)
	}
}
