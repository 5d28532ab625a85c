package models

import "time"

type ProductStatus string

const (
	ProductStatusAvailable   ProductStatus = "available"
	ProductStatusUnavailable ProductStatus = "unavailable"
)

type Product struct {
	ID          string        `json:"_id" db:"id"`
	Name        string        `json:"name" db:"name"`
	Description string        `json:"description" db:"description"`
	Status      ProductStatus `json:"status" db:"status"`
	Category    string        `json:"category" db:"category"`
	State       string        `json:"state" db:"state"`
	Price       float64       `json:"price" db:"price"`
	Discount    float64       `json:"discount" db:"discount"`
	ImageURL    string        `json:"imageUrl,omitempty" db:"image_url"`
	ImageKey    string        `json:"-" db:"image_key"`
	CreatedAt   time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time     `json:"updatedAt" db:"updated_at"`
}

// ProductUpdate lists the fields a write touches. A nil field is left alone.
type ProductUpdate struct {
	Name        *string
	Description *string
	Status      *ProductStatus
	Category    *string
	State       *string
	Price       *float64
	Discount    *float64
	ImageURL    *string
	ImageKey    *string
}

type CreateProductRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Status      string   `json:"status" validate:"required,oneof=available unavailable"`
	Category    string   `json:"category" validate:"required"`
	State       string   `json:"state" validate:"required"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Discount    *float64 `json:"discount,omitempty" validate:"omitempty,gte=0"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=1"`
	Description *string  `json:"description,omitempty" validate:"omitempty,min=1"`
	Status      *string  `json:"status,omitempty" validate:"omitempty,oneof=available unavailable"`
	Category    *string  `json:"category,omitempty" validate:"omitempty,min=1"`
	State       *string  `json:"state,omitempty" validate:"omitempty,min=1"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Discount    *float64 `json:"discount,omitempty" validate:"omitempty,gte=0"`
}

// ImageUpload is an image file received alongside a product write.
type ImageUpload struct {
	Filename string
	Data     []byte
}
