package products

// CreateProductRequest is the payload for POST /api/products.
type CreateProductRequest struct {
	Name        string   `json:"name" validate:"required,min=1,max=200"`
	SKU         string   `json:"sku" validate:"required,min=1,max=100"`
	Description string   `json:"description" validate:"max=3000"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Stock       int      `json:"stock" validate:"gte=0"`
	IsActive    *bool    `json:"isActive,omitempty"`
}

// UpdateProductRequest is the payload for PUT /api/products/{id}. Every
// field is optional; absent fields keep their stored value.
type UpdateProductRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	SKU         *string  `json:"sku,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=3000"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Stock       *int     `json:"stock,omitempty" validate:"omitempty,gte=0"`
	IsActive    *bool    `json:"isActive,omitempty"`
}
