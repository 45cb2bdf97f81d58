package repos

import (
	"marketbay/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// orderRow is the flat column layout; it is folded back into the nested
// domain.Order shape the API returns.
type orderRow struct {
	ID             string          `db:"id"`
	UserID         string          `db:"user_id"`
	ShipFullName   string          `db:"ship_full_name"`
	ShipAddress    string          `db:"ship_address"`
	ShipCity       string          `db:"ship_city"`
	ShipPostalCode string          `db:"ship_postal_code"`
	ShipCountry    string          `db:"ship_country"`
	Total          decimal.Decimal `db:"total"`
	Status         string          `db:"status"`
	IsPaid         bool            `db:"is_paid"`
	PaidAt         *string         `db:"paid_at"`
	IsDelivered    bool            `db:"is_delivered"`
	DeliveredAt    *string         `db:"delivered_at"`
	CreatedAt      string          `db:"created_at"`
}

func (r orderRow) toDomain() domain.Order {
	return domain.Order{
		ID:     r.ID,
		UserID: r.UserID,
		Shipping: domain.ShippingAddress{
			FullName:   r.ShipFullName,
			Address:    r.ShipAddress,
			City:       r.ShipCity,
			PostalCode: r.ShipPostalCode,
			Country:    r.ShipCountry,
		},
		Total:       r.Total,
		Status:      r.Status,
		IsPaid:      r.IsPaid,
		PaidAt:      r.PaidAt,
		IsDelivered: r.IsDelivered,
		DeliveredAt: r.DeliveredAt,
		CreatedAt:   r.CreatedAt,
	}
}

const orderCols = `
  id, user_id, ship_full_name, ship_address, ship_city, ship_postal_code,
  ship_country, total, status, is_paid, paid_at, is_delivered, delivered_at,
  created_at`

// Insert writes the order header on the caller's transaction.
func (r *OrderRepo) Insert(e sqlx.Ext, o *domain.Order) error {
	_, err := e.Exec(`
	  INSERT INTO orders
	    (id, user_id, ship_full_name, ship_address, ship_city, ship_postal_code,
	     ship_country, total, status, is_paid, is_delivered, created_at)
	  VALUES (?,?,?,?,?,?,?,?,?,0,0,?)
	`, o.ID, o.UserID, o.Shipping.FullName, o.Shipping.Address, o.Shipping.City,
		o.Shipping.PostalCode, o.Shipping.Country, o.Total, o.Status, o.CreatedAt)
	return err
}

// InsertItem writes one snapshot line on the caller's transaction.
func (r *OrderRepo) InsertItem(e sqlx.Ext, orderID string, it domain.OrderItem) error {
	_, err := e.Exec(`
	  INSERT INTO order_items(order_id, product_id, name, qty, price, image_url)
	  VALUES(?,?,?,?,?,?)
	`, orderID, it.ProductID, it.Name, it.Qty, it.Price, it.ImageURL)
	return err
}

func (r *OrderRepo) Get(orderID string) (domain.Order, error) {
	var row orderRow
	if err := r.db.Get(&row, `SELECT `+orderCols+` FROM orders WHERE id = ?`, orderID); err != nil {
		return domain.Order{}, err
	}
	o := row.toDomain()

	items := []domain.OrderItem{}
	if err := r.db.Select(&items, `
		SELECT product_id, name, qty, price, image_url
		FROM order_items WHERE order_id = ?
		ORDER BY name, product_id
	`, orderID); err != nil {
		return domain.Order{}, err
	}
	o.Items = items
	return o, nil
}

// ListByUser returns order headers, newest first; line items are loaded
// on demand through Get.
func (r *OrderRepo) ListByUser(userID string) ([]domain.Order, error) {
	var rows []orderRow
	err := r.db.Select(&rows, `
		SELECT `+orderCols+`
		FROM orders WHERE user_id = ?
		ORDER BY datetime(created_at) DESC, id
	`, userID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *OrderRepo) UpdateStatus(id, status string) (bool, error) {
	res, err := r.db.Exec(`UPDATE orders SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
