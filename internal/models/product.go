package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrValidation marks caller or data errors: malformed payloads, unknown
// categories, unparseable prices, updates without an identity. Store errors
// are never wrapped with it.
var ErrValidation = errors.New("invalid product data")

// Category is a closed enumeration. Anything outside the member set is a
// validation failure, never a default.
type Category string

const (
	Cloths     Category = "CLOTHS"
	Food       Category = "FOOD"
	Housewares Category = "HOUSEWARES"
	Automotive Category = "AUTOMOTIVE"
	Tools      Category = "TOOLS"
)

var categories = map[string]Category{
	"CLOTHS":     Cloths,
	"FOOD":       Food,
	"HOUSEWARES": Housewares,
	"AUTOMOTIVE": Automotive,
	"TOOLS":      Tools,
}

// ParseCategory resolves a member name to its Category. The match is exact
// and case-sensitive.
func ParseCategory(name string) (Category, error) {
	category, ok := categories[name]
	if !ok {
		return "", fmt.Errorf("%w: unknown category %q", ErrValidation, name)
	}
	return category, nil
}

// Product represents a product in the store. An ID of zero means the
// product has not been persisted yet; the store assigns identities.
type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string          `json:"name" gorm:"size:100;not null" validate:"required,max=100"`
	Description string          `json:"description" gorm:"size:250;not null" validate:"required,max=250"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Available   bool            `json:"available" gorm:"not null"`
	Category    Category        `json:"category" gorm:"type:varchar(20);not null"`
}

// String renders the product for diagnostics only; it is not a
// serialization format.
func (p *Product) String() string {
	return fmt.Sprintf("<Product %s id=[%d]>", p.Name, p.ID)
}

// Serialize converts the product into the interchange mapping. Price is
// rendered as decimal text so cent-level precision survives transport;
// category is rendered by member name. An unassigned id becomes nil.
func (p *Product) Serialize() map[string]any {
	var id any
	if p.ID != 0 {
		id = p.ID
	}
	return map[string]any{
		"id":          id,
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price.StringFixed(2),
		"available":   p.Available,
		"category":    string(p.Category),
	}
}

// Deserialize populates the product from an interchange mapping. All fields
// except id are required. On failure the product may be partially mutated;
// callers must discard it.
func (p *Product) Deserialize(data any) error {
	fields, ok := data.(map[string]any)
	if !ok {
		return fmt.Errorf("%w: expected a mapping of product fields, got %T", ErrValidation, data)
	}

	name, ok := fields["name"].(string)
	if !ok {
		return fmt.Errorf("%w: missing or invalid field name", ErrValidation)
	}
	p.Name = name

	description, ok := fields["description"].(string)
	if !ok {
		return fmt.Errorf("%w: missing or invalid field description", ErrValidation)
	}
	p.Description = description

	price, err := coercePrice(fields["price"])
	if err != nil {
		return err
	}
	p.Price = price

	available, ok := fields["available"].(bool)
	if !ok {
		return fmt.Errorf("%w: missing or invalid field available", ErrValidation)
	}
	p.Available = available

	categoryName, ok := fields["category"].(string)
	if !ok {
		return fmt.Errorf("%w: missing or invalid field category", ErrValidation)
	}
	category, err := ParseCategory(categoryName)
	if err != nil {
		return err
	}
	p.Category = category

	// id is optional; leaving it out keeps whatever the product already has.
	if raw, present := fields["id"]; present {
		id, err := coerceID(raw)
		if err != nil {
			return err
		}
		if id != 0 {
			p.ID = id
		}
	}
	return nil
}

// ParsePrice parses a price token into an exact decimal. The token may be
// padded with whitespace and wrapped in one layer of quote characters, as
// query values arriving over text transports often are.
func ParsePrice(token string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(token)
	if len(cleaned) >= 2 && (cleaned[0] == '"' || cleaned[0] == '\'') && cleaned[len(cleaned)-1] == cleaned[0] {
		cleaned = strings.TrimSpace(cleaned[1 : len(cleaned)-1])
	}
	price, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: cannot parse price %q", ErrValidation, token)
	}
	return price, nil
}

func coercePrice(raw any) (decimal.Decimal, error) {
	switch value := raw.(type) {
	case string:
		return ParsePrice(value)
	case float64:
		return decimal.NewFromFloat(value), nil
	case int:
		return decimal.NewFromInt(int64(value)), nil
	case decimal.Decimal:
		return value, nil
	default:
		return decimal.Decimal{}, fmt.Errorf("%w: missing or invalid field price", ErrValidation)
	}
}

func coerceID(raw any) (uint, error) {
	switch value := raw.(type) {
	case nil:
		return 0, nil
	case float64:
		// JSON numbers decode as float64.
		if value < 0 {
			return 0, fmt.Errorf("%w: invalid field id", ErrValidation)
		}
		return uint(value), nil
	case int:
		if value < 0 {
			return 0, fmt.Errorf("%w: invalid field id", ErrValidation)
		}
		return uint(value), nil
	case uint:
		return value, nil
	default:
		return 0, fmt.Errorf("%w: invalid field id", ErrValidation)
	}
}
