package handlers

import (
	"errors"
	"log"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/services"
)

// ProductHandler handles HTTP requests for products. Request bodies flow
// through Product.Deserialize and responses through Product.Serialize, so
// the wire shape is exactly the interchange mapping.
type ProductHandler struct {
	productService *services.ProductService
	validate       *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Post("/", h.HandleCreate)
	productRoutes.Get("/", h.HandleList)
	productRoutes.Get("/:id", h.HandleGet)
	productRoutes.Put("/:id", h.HandleUpdate)
	productRoutes.Delete("/:id", h.HandleDelete)
}

// HandleCreate creates a new product from an interchange mapping.
func (h *ProductHandler) HandleCreate(c *fiber.Ctx) error {
	var payload map[string]any
	if err := c.BodyParser(&payload); err != nil {
		log.Printf("Error parsing create product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	product := &models.Product{}
	if err := product.Deserialize(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product data",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Product validation failed",
			"error":   err.Error(),
		})
	}

	if err := h.productService.CreateProduct(product); err != nil {
		log.Printf("Error creating product: %v", err)
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"message": "Failed to create product",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(product.Serialize())
}

// HandleList lists products, optionally filtered by name, category,
// availability or price. Filters are mutually exclusive; the first one
// present wins.
func (h *ProductHandler) HandleList(c *fiber.Ctx) error {
	switch {
	case c.Query("name") != "":
		cursor, err := h.productService.FindByName(c.Query("name"))
		return h.respondCursor(c, cursor, err)
	case c.Query("category") != "":
		category, err := models.ParseCategory(c.Query("category"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid category filter",
				"error":   err.Error(),
			})
		}
		cursor, err := h.productService.FindByCategory(category)
		return h.respondCursor(c, cursor, err)
	case c.Query("available") != "":
		available, err := strconv.ParseBool(c.Query("available"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid availability filter",
				"error":   err.Error(),
			})
		}
		cursor, err := h.productService.FindByAvailability(available)
		return h.respondCursor(c, cursor, err)
	case c.Query("price") != "":
		cursor, err := h.productService.FindByPriceToken(c.Query("price"))
		return h.respondCursor(c, cursor, err)
	}

	products, err := h.productService.ListProducts()
	if err != nil {
		log.Printf("Error listing products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to list products",
			"error":   err.Error(),
		})
	}
	return c.JSON(serializeAll(products))
}

// HandleGet returns a single product by id.
func (h *ProductHandler) HandleGet(c *fiber.Ctx) error {
	id, ok := h.parseID(c)
	if !ok {
		return nil
	}

	product, err := h.productService.GetProduct(id)
	if err != nil {
		log.Printf("Error fetching product %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to fetch product",
			"error":   err.Error(),
		})
	}
	if product == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Product not found",
		})
	}
	return c.JSON(product.Serialize())
}

// HandleUpdate replaces the fields of an existing product.
func (h *ProductHandler) HandleUpdate(c *fiber.Ctx) error {
	id, ok := h.parseID(c)
	if !ok {
		return nil
	}

	product, err := h.productService.GetProduct(id)
	if err != nil {
		log.Printf("Error fetching product %d for update: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to fetch product",
			"error":   err.Error(),
		})
	}
	if product == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Product not found",
		})
	}

	var payload map[string]any
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := product.Deserialize(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product data",
			"error":   err.Error(),
		})
	}
	// The path is authoritative for identity; payload ids are ignored.
	product.ID = id

	if err := h.validate.Struct(product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Product validation failed",
			"error":   err.Error(),
		})
	}

	if err := h.productService.UpdateProduct(product); err != nil {
		log.Printf("Error updating product %d: %v", id, err)
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"message": "Failed to update product",
			"error":   err.Error(),
		})
	}
	return c.JSON(product.Serialize())
}

// HandleDelete removes a product. Deleting an id that is already gone still
// returns 204.
func (h *ProductHandler) HandleDelete(c *fiber.Ctx) error {
	id, ok := h.parseID(c)
	if !ok {
		return nil
	}

	if err := h.productService.DeleteProduct(&models.Product{ID: id}); err != nil {
		log.Printf("Error deleting product %d: %v", id, err)
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"message": "Failed to delete product",
			"error":   err.Error(),
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// parseID reads the :id path parameter. On failure it writes the 400
// response itself and reports false.
func (h *ProductHandler) parseID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product id",
			"error":   err.Error(),
		})
		return 0, false
	}
	return uint(id), true
}

func (h *ProductHandler) respondCursor(c *fiber.Ctx, cursor *repositories.Cursor, err error) error {
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid filter value",
				"error":   err.Error(),
			})
		}
		log.Printf("Error filtering products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to filter products",
			"error":   err.Error(),
		})
	}
	return c.JSON(serializeAll(cursor.Products()))
}

func serializeAll(products []models.Product) []map[string]any {
	serialized := make([]map[string]any, 0, len(products))
	for i := range products {
		serialized = append(serialized, products[i].Serialize())
	}
	return serialized
}

func statusForError(err error) int {
	if errors.Is(err, models.ErrValidation) {
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}
