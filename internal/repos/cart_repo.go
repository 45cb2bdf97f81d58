package repos

import (
	"database/sql"
	"errors"

	"marketbay/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

// CartLine is a cart item joined with the live product fields the
// storefront renders next to it.
type CartLine struct {
	ProductID string          `db:"product_id" json:"productId"`
	Qty       int             `db:"qty" json:"quantity"`
	Name      string          `db:"name" json:"name"`
	Price     decimal.Decimal `db:"price" json:"price"`
	ImageURL  string          `db:"image_url" json:"imageUrl"`
	Stock     int             `db:"stock" json:"stock"`
}

// EnsureCart returns the user's cart id, creating the cart lazily.
func (r *CartRepo) EnsureCart(userID string) (string, error) {
	_, err := r.db.Exec(`
		INSERT INTO carts(id,user_id) VALUES(?,?)
		ON CONFLICT(user_id) DO NOTHING
	`, uuid.NewString(), userID)
	if err != nil {
		return "", err
	}
	var cartID string
	err = r.db.Get(&cartID, `SELECT id FROM carts WHERE user_id = ?`, userID)
	return cartID, err
}

// IDForUser looks up the cart without creating one. sql.ErrNoRows means
// the user has never added anything.
func (r *CartRepo) IDForUser(userID string) (string, error) {
	return r.idForUser(r.db, userID)
}

// IDForUserTx is IDForUser on the caller's transaction.
func (r *CartRepo) IDForUserTx(e sqlx.Ext, userID string) (string, error) {
	return r.idForUser(e, userID)
}

func (r *CartRepo) idForUser(e sqlx.Queryer, userID string) (string, error) {
	var cartID string
	err := sqlx.Get(e, &cartID, `SELECT id FROM carts WHERE user_id = ?`, userID)
	return cartID, err
}

func (r *CartRepo) ItemQty(cartID, productID string) (int, error) {
	var qty int
	err := r.db.Get(&qty, `SELECT qty FROM cart_items WHERE cart_id=? AND product_id=?`, cartID, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return qty, err
}

// UpsertItem merges quantity into an existing line or appends a new one.
func (r *CartRepo) UpsertItem(cartID, productID string, qty int) error {
	_, err := r.db.Exec(`
		INSERT INTO cart_items(cart_id,product_id,qty,created_at)
		VALUES(?,?,?,CURRENT_TIMESTAMP)
		ON CONFLICT(cart_id,product_id) DO UPDATE
		SET qty = cart_items.qty + excluded.qty, updated_at = CURRENT_TIMESTAMP
	`, cartID, productID, qty)
	return err
}

// SetQty replaces a line's quantity; reports false if the line is absent.
func (r *CartRepo) SetQty(cartID, productID string, qty int) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE cart_items SET qty = ?, updated_at = CURRENT_TIMESTAMP
		WHERE cart_id = ? AND product_id = ?
	`, qty, cartID, productID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// RemoveItem deletes a matching line; a missing line is a no-op.
func (r *CartRepo) RemoveItem(cartID, productID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id=? AND product_id=?`, cartID, productID)
	return err
}

// ItemsTx returns the raw (product, qty) pairs in insertion order, on
// the caller's transaction.
func (r *CartRepo) ItemsTx(e sqlx.Ext, cartID string) ([]domain.CartItem, error) {
	out := []domain.CartItem{}
	err := sqlx.Select(e, &out, `
	  SELECT product_id, qty FROM cart_items
	  WHERE cart_id = ? ORDER BY created_at, product_id
	`, cartID)
	return out, err
}

// Lines returns items with their product populated, for cart views.
// A line whose product has been deleted is still returned (with blank
// product fields) so the customer can see and remove it.
func (r *CartRepo) Lines(cartID string) ([]CartLine, error) {
	out := []CartLine{}
	err := r.db.Select(&out, `
	  SELECT ci.product_id, ci.qty,
	         COALESCE(p.name,'')  AS name,
	         COALESCE(p.price,0)  AS price,
	         COALESCE(p.image_url,'') AS image_url,
	         COALESCE(p.stock,0)  AS stock
	  FROM cart_items ci LEFT JOIN products p ON p.id = ci.product_id
	  WHERE ci.cart_id = ?
	  ORDER BY ci.created_at, ci.product_id
	`, cartID)
	return out, err
}

// Clear empties the cart's line items; the cart row itself stays.
func (r *CartRepo) Clear(cartID string) error {
	return r.clear(r.db, cartID)
}

// ClearTx is Clear on the caller's transaction.
func (r *CartRepo) ClearTx(e sqlx.Ext, cartID string) error {
	return r.clear(e, cartID)
}

func (r *CartRepo) clear(e sqlx.Execer, cartID string) error {
	_, err := e.Exec(`DELETE FROM cart_items WHERE cart_id = ?`, cartID)
	return err
}
