package services

import (
	"database/sql"
	"errors"
	"time"

	"marketbay/internal/domain"
	"marketbay/internal/repos"
	"marketbay/internal/validate"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type OrderService struct {
	db     *sqlx.DB
	Carts  *repos.CartRepo
	Prods  *repos.ProductRepo
	Orders *repos.OrderRepo
}

func NewOrderService(db *sqlx.DB, carts *repos.CartRepo, prods *repos.ProductRepo, orders *repos.OrderRepo) *OrderService {
	return &OrderService{db: db, Carts: carts, Prods: prods, Orders: orders}
}

// Place turns the user's cart into an order. The whole workflow runs in
// one transaction: snapshot prices, conditionally decrement stock, write
// the order, clear the cart. Any failure rolls everything back, so a
// rejected order never moves stock and never loses the cart.
//
// Line prices are the products' current prices, not prices cached at
// add-to-cart time. The total is the sum of price*qty rounded half-up to
// 2 decimal places.
func (s *OrderService) Place(userID string, addr domain.ShippingAddress) (*domain.Order, error) {
	if missing := validate.Address(addr); len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	cartID, err := s.Carts.IDForUserTx(tx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCartEmpty
	}
	if err != nil {
		return nil, err
	}
	items, err := s.Carts.ItemsTx(tx, cartID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrCartEmpty
	}

	order := &domain.Order{
		ID:        uuid.NewString(),
		UserID:    userID,
		Shipping:  addr,
		Status:    domain.StatusPending,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	total := decimal.Zero
	for _, it := range items {
		p, err := s.Prods.GetTx(tx, it.ProductID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Resource: "product", ID: it.ProductID}
		}
		if err != nil {
			return nil, err
		}

		// Check-and-decrement is one conditional UPDATE, so two
		// concurrent checkouts cannot both spend the same units.
		ok, err := s.Prods.DecrementStock(tx, p.ID, it.Qty)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &InsufficientStockError{
				ProductID: p.ID, Name: p.Name, Available: p.Stock, Requested: it.Qty,
			}
		}

		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(it.Qty))))
		order.Items = append(order.Items, domain.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Qty:       it.Qty,
			Price:     p.Price,
			ImageURL:  p.ImageURL,
		})
	}
	order.Total = total.Round(2)

	if err := s.Orders.Insert(tx, order); err != nil {
		return nil, err
	}
	for _, it := range order.Items {
		if err := s.Orders.InsertItem(tx, order.ID, it); err != nil {
			return nil, err
		}
	}

	// Clearing inside the same transaction means the cart survives any
	// failed placement and empties exactly when the order is durable.
	if err := s.Carts.ClearTx(tx, cartID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return order, nil
}

// Get returns an order by id; callers enforce ownership.
func (s *OrderService) Get(orderID string) (domain.Order, error) {
	o, err := s.Orders.Get(orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, &NotFoundError{Resource: "order", ID: orderID}
	}
	return o, err
}

func (s *OrderService) History(userID string) ([]domain.Order, error) {
	return s.Orders.ListByUser(userID)
}

// UpdateStatus moves an order through the fulfillment states; only the
// enumerated statuses are accepted.
func (s *OrderService) UpdateStatus(orderID, status string) (domain.Order, error) {
	switch status {
	case domain.StatusPending, domain.StatusProcessing, domain.StatusShipped,
		domain.StatusDelivered, domain.StatusCancelled:
	default:
		return domain.Order{}, &ValidationError{Fields: []string{"status"}}
	}
	ok, err := s.Orders.UpdateStatus(orderID, status)
	if err != nil {
		return domain.Order{}, err
	}
	if !ok {
		return domain.Order{}, &NotFoundError{Resource: "order", ID: orderID}
	}
	return s.Get(orderID)
}
