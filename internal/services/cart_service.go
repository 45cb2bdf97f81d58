package services

import (
	"database/sql"
	"errors"

	"marketbay/internal/repos"

	"github.com/shopspring/decimal"
)

type CartService struct {
	Carts *repos.CartRepo
	Prods *repos.ProductRepo
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo) *CartService {
	return &CartService{Carts: carts, Prods: prods}
}

type CartView struct {
	Items []repos.CartLine `json:"items"`
	Total decimal.Decimal  `json:"total"`
}

// Add merges qty into the user's cart, guarding against exceeding the
// product's stock including what is already in the cart.
func (s *CartService) Add(userID, productID string, qty int) (CartView, error) {
	if qty < 1 {
		return CartView{}, &ValidationError{Fields: []string{"quantity"}}
	}
	p, err := s.Prods.Get(productID)
	if errors.Is(err, sql.ErrNoRows) {
		return CartView{}, &NotFoundError{Resource: "product", ID: productID}
	}
	if err != nil {
		return CartView{}, err
	}

	cartID, err := s.Carts.EnsureCart(userID)
	if err != nil {
		return CartView{}, err
	}
	inCart, err := s.Carts.ItemQty(cartID, productID)
	if err != nil {
		return CartView{}, err
	}
	if p.Stock < inCart+qty {
		return CartView{}, &StockExceededError{
			ProductID: p.ID, Name: p.Name, Available: p.Stock, Requested: inCart + qty,
		}
	}
	if err := s.Carts.UpsertItem(cartID, productID, qty); err != nil {
		return CartView{}, err
	}
	return s.View(userID)
}

// UpdateQty replaces a line's quantity. Quantities below 1 are rejected
// rather than treated as removal; removal has its own operation.
func (s *CartService) UpdateQty(userID, productID string, qty int) (CartView, error) {
	if qty < 1 {
		return CartView{}, &ValidationError{Fields: []string{"quantity"}}
	}
	cartID, err := s.Carts.IDForUser(userID)
	if errors.Is(err, sql.ErrNoRows) {
		return CartView{}, &NotFoundError{Resource: "cart"}
	}
	if err != nil {
		return CartView{}, err
	}
	p, err := s.Prods.Get(productID)
	if errors.Is(err, sql.ErrNoRows) {
		return CartView{}, &NotFoundError{Resource: "product", ID: productID}
	}
	if err != nil {
		return CartView{}, err
	}
	if p.Stock < qty {
		return CartView{}, &StockExceededError{
			ProductID: p.ID, Name: p.Name, Available: p.Stock, Requested: qty,
		}
	}
	ok, err := s.Carts.SetQty(cartID, productID, qty)
	if err != nil {
		return CartView{}, err
	}
	if !ok {
		return CartView{}, &NotFoundError{Resource: "cart item", ID: productID}
	}
	return s.View(userID)
}

// Remove deletes a line if present; a missing line is a no-op.
func (s *CartService) Remove(userID, productID string) (CartView, error) {
	cartID, err := s.Carts.IDForUser(userID)
	if errors.Is(err, sql.ErrNoRows) {
		return CartView{}, &NotFoundError{Resource: "cart"}
	}
	if err != nil {
		return CartView{}, err
	}
	if err := s.Carts.RemoveItem(cartID, productID); err != nil {
		return CartView{}, err
	}
	return s.View(userID)
}

func (s *CartService) Clear(userID string) error {
	cartID, err := s.Carts.IDForUser(userID)
	if errors.Is(err, sql.ErrNoRows) {
		return &NotFoundError{Resource: "cart"}
	}
	if err != nil {
		return err
	}
	return s.Carts.Clear(cartID)
}

// View never fails on an absent cart: a user who has added nothing sees
// an empty item list.
func (s *CartService) View(userID string) (CartView, error) {
	cartID, err := s.Carts.IDForUser(userID)
	if errors.Is(err, sql.ErrNoRows) {
		return CartView{Items: []repos.CartLine{}, Total: decimal.Zero}, nil
	}
	if err != nil {
		return CartView{}, err
	}
	lines, err := s.Carts.Lines(cartID)
	if err != nil {
		return CartView{}, err
	}
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Qty))))
	}
	return CartView{Items: lines, Total: total.Round(2)}, nil
}
