package domain

import "github.com/shopspring/decimal"

type Product struct {
	ID          string          `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Description string          `db:"description" json:"description"`
	Price       decimal.Decimal `db:"price" json:"price"`
	ImageURL    string          `db:"image_url" json:"imageUrl"`
	Category    string          `db:"category" json:"category"`
	Stock       int             `db:"stock" json:"stock"`
	Brand       string          `db:"brand" json:"brand,omitempty"`
	Rating      float64         `db:"rating" json:"rating"`
	NumReviews  int             `db:"num_reviews" json:"numOfReviews"`
	CreatedAt   string          `db:"created_at" json:"createdAt"`
	UpdatedAt   string          `db:"updated_at" json:"updatedAt,omitempty"`
}

// CartItem is the stored (product reference, quantity) pair; a cart holds
// at most one line per distinct product.
type CartItem struct {
	ProductID string `db:"product_id" json:"productId"`
	Qty       int    `db:"qty" json:"quantity"`
}

type ShippingAddress struct {
	FullName   string `json:"fullName"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// OrderItem embeds a copy of the product's name/price/image taken at
// order time, so the order's record survives later product edits or
// deletion.
type OrderItem struct {
	ProductID string          `db:"product_id" json:"productId"`
	Name      string          `db:"name" json:"name"`
	Qty       int             `db:"qty" json:"quantity"`
	Price     decimal.Decimal `db:"price" json:"price"`
	ImageURL  string          `db:"image_url" json:"imageUrl"`
}

type Order struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	Items       []OrderItem     `json:"orderItems"`
	Shipping    ShippingAddress `json:"shippingAddress"`
	Total       decimal.Decimal `json:"totalAmount"`
	Status      string          `json:"orderStatus"`
	IsPaid      bool            `json:"isPaid"`
	PaidAt      *string         `json:"paidAt,omitempty"`
	IsDelivered bool            `json:"isDelivered"`
	DeliveredAt *string         `json:"deliveredAt,omitempty"`
	CreatedAt   string          `json:"createdAt"`
}

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)
