package repos

import (
	"marketbay/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
  id, name, description, price, image_url, category, stock, brand,
  rating, num_reviews, created_at, COALESCE(updated_at,'') AS updated_at`

func (r *ProductRepo) List(category string) ([]domain.Product, error) {
	out := []domain.Product{}
	if category != "" {
		err := r.db.Select(&out, `
		  SELECT `+productCols+`
		  FROM products WHERE category = ?
		  ORDER BY created_at DESC, id
		`, category)
		return out, err
	}
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products
	  ORDER BY created_at DESC, id
	`)
	return out, err
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	return p, err
}

// GetTx resolves a product inside the caller's transaction; the order
// workflow uses it so snapshots and decrements see the same row.
func (r *ProductRepo) GetTx(e sqlx.Ext, id string) (domain.Product, error) {
	var p domain.Product
	err := sqlx.Get(e, &p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	return p, err
}

// NameExists reports whether another product already uses the name
// (case-insensitive). excludeID skips the product being updated.
func (r *ProductRepo) NameExists(name, excludeID string) (bool, error) {
	var n int
	err := r.db.Get(&n, `
		SELECT COUNT(*) FROM products
		WHERE LOWER(name) = LOWER(?) AND id != ?
	`, name, excludeID)
	return n > 0, err
}

func (r *ProductRepo) Insert(p *domain.Product) error {
	_, err := r.db.Exec(`
		INSERT INTO products(id,name,description,price,image_url,category,stock,brand,rating,num_reviews,created_at)
		VALUES(?,?,?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, p.ID, p.Name, p.Description, p.Price, p.ImageURL, p.Category, p.Stock, p.Brand, p.Rating, p.NumReviews)
	return err
}

func (r *ProductRepo) Update(p *domain.Product) error {
	_, err := r.db.Exec(`
		UPDATE products
		SET name=?, description=?, price=?, image_url=?, category=?, stock=?, brand=?, updated_at=CURRENT_TIMESTAMP
		WHERE id=?
	`, p.Name, p.Description, p.Price, p.ImageURL, p.Category, p.Stock, p.Brand, p.ID)
	return err
}

// Delete removes a product; returns the number of rows removed so the
// caller can distinguish a missing id.
func (r *ProductRepo) Delete(id string) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM products WHERE id=?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DecrementStock subtracts "by" units only if enough stock exists, as a
// single conditional update. It reports false when the guard failed, in
// which case nothing changed.
func (r *ProductRepo) DecrementStock(e sqlx.Ext, id string, by int) (bool, error) {
	res, err := e.Exec(`
		UPDATE products
		SET stock = stock - ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND stock >= ?
	`, by, id, by)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
