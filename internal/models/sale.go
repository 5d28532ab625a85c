package models

import "time"

type SaleStatus string

const (
	SaleStatusCancel SaleStatus = "cancel"
	SaleStatusFinish SaleStatus = "finish"
	SaleStatusStay   SaleStatus = "stay"
)

type Sale struct {
	ID        string     `json:"_id" db:"id"`
	ClientID  string     `json:"clientId" db:"client_id"`
	ProductID string     `json:"productId" db:"product_id"`
	Status    SaleStatus `json:"status" db:"status"`
	SaleDate  time.Time  `json:"saleDate" db:"sale_date"`
}

// SaleUpdate lists the fields a write touches. A nil field is left alone.
type SaleUpdate struct {
	ClientID  *string
	ProductID *string
	Status    *SaleStatus
	SaleDate  *time.Time
}

type ClientSummary struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ProductSummary struct {
	ID    string  `json:"_id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// SaleDetails is a sale with its client and product resolved. Either side is
// nil when the referenced record no longer exists.
type SaleDetails struct {
	Sale
	Client  *ClientSummary  `json:"client"`
	Product *ProductSummary `json:"product"`
}

type CreateSaleRequest struct {
	ClientID  string `json:"clientId" validate:"required"`
	ProductID string `json:"productId" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=cancel finish stay"`
}

type UpdateSaleRequest struct {
	ClientID  *string    `json:"clientId,omitempty"`
	ProductID *string    `json:"productId,omitempty"`
	Status    *string    `json:"status,omitempty" validate:"omitempty,oneof=cancel finish stay"`
	SaleDate  *time.Time `json:"saleDate,omitempty"`
}
