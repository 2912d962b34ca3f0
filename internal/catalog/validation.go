package catalog

import "strings"

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateMenuItem validates a menu item before create or update.
func ValidateMenuItem(item *MenuItem) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(item.Name) == "" {
		errors = append(errors, ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if strings.TrimSpace(item.CategoryKey) == "" {
		errors = append(errors, ValidationError{
			Field:   "category",
			Message: "category is required",
		})
	}

	if item.SalePrice <= 0 {
		errors = append(errors, ValidationError{
			Field:   "sale_price",
			Message: "sale_price must be positive",
		})
	}

	if item.CostPrice < 0 {
		errors = append(errors, ValidationError{
			Field:   "cost_price",
			Message: "cost_price cannot be negative",
		})
	}

	if item.Stock < 0 {
		errors = append(errors, ValidationError{
			Field:   "stock",
			Message: "stock cannot be negative",
		})
	}

	if item.MinStock < 0 {
		errors = append(errors, ValidationError{
			Field:   "min_stock",
			Message: "min_stock cannot be negative",
		})
	}

	return errors
}

// ValidateCategory validates a category before upsert.
func ValidateCategory(c *Category) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(c.Key) == "" {
		errors = append(errors, ValidationError{
			Field:   "key",
			Message: "key is required",
		})
	}

	if strings.TrimSpace(c.Label) == "" {
		errors = append(errors, ValidationError{
			Field:   "label",
			Message: "label is required",
		})
	}

	return errors
}
