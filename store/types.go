// Package store is a sample storefront data model described with proxy tags.
// It is loaded by the analyzer tests and by the CLI examples.
package store

import (
	"time"
)

// Entity is the common root of every store entity.
type Entity struct {
	ID      int64 `json:"id" proxy:"key"`
	Version int64 `json:"-"` // concurrency token, never sent to clients
}

// Auditable adds bookkeeping columns. It is not exposed to clients on its
// own, so its members are lifted into the exposed types below it.
type Auditable struct {
	Entity

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Product represents an individual item available for sale.
// Prices are stored in cents to avoid floating-point errors.
type Product struct {
	Auditable

	SKU        string        `json:"sku" validate:"required"`
	Name       string        `json:"name"`
	PriceCents int64         `json:"price_cents"`
	Status     ProductStatus `json:"status"`

	Lines []*OrderLine `json:"-" proxy:"assoc=Product_Lines,this=ID,other=ProductID"`
}

// Customer represents the user placing orders.
type Customer struct {
	Auditable

	Email    string  `json:"email" validate:"email"`
	FullName string  `json:"full_name"`
	Address  *string `json:"address"`

	Orders []*Order `json:"orders" proxy:"assoc=Customer_Orders,this=ID,other=CustomerID"`
}

// Order represents a transaction made by a customer.
type Order struct {
	Auditable

	CustomerID     int64        `json:"customer_id"`
	Status         OrderStatus  `json:"status"`
	PreviousStatus *OrderStatus `json:"previous_status,omitempty"`
	OrderedAt      time.Time    `json:"ordered_at"`

	Customer *Customer   `json:"customer" proxy:"assoc=Customer_Orders,this=CustomerID,other=ID,fk"`
	Lines    []OrderLine `json:"lines" proxy:"assoc=Order_Lines,this=ID,other=OrderID"`

	internalNote string
}

// OrderLine is a product line within an order. It snapshots the price at the
// time of purchase.
type OrderLine struct {
	Entity

	OrderID   int64 `json:"order_id"`
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
	UnitPrice int64 `json:"unit_price"`

	Order   *Order   `json:"-" proxy:"assoc=Order_Lines,this=OrderID,other=ID,fk"`
	Product *Product `json:"product" proxy:"assoc=Product_Lines,this=ProductID,other=ID,fk"`
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// ProductStatus is the catalog state of a product.
type ProductStatus int

const (
	ProductDraft ProductStatus = iota
	ProductListed
	ProductRetired
)
