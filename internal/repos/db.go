package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// SQLite allows a single writer; one pooled connection avoids
	// SQLITE_BUSY under concurrent checkouts and keeps ":memory:"
	// databases coherent across goroutines.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed baseline catalog if the DB is empty (idempotent).
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	// Ensure demo accounts exist (idempotent; safe to run every start).
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'customer' CHECK (role IN ('customer','admin')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_nocase ON users(LOWER(email));

-- Products
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL,
  price NUMERIC NOT NULL CHECK (price >= 0),
  image_url TEXT NOT NULL,
  category TEXT NOT NULL,
  stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
  brand TEXT NOT NULL DEFAULT '',
  rating NUMERIC NOT NULL DEFAULT 0,
  num_reviews INTEGER NOT NULL DEFAULT 0,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_products_name_nocase ON products(LOWER(name));
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);

-- Carts (one per user)
CREATE TABLE IF NOT EXISTS carts(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);

-- cart_items.product_id intentionally carries no foreign key: a product
-- may be deleted while sitting in a cart, and checkout must then fail
-- with product-not-found rather than being blocked at delete time.
CREATE TABLE IF NOT EXISTS cart_items(
  cart_id TEXT NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL,
  qty INTEGER NOT NULL CHECK (qty >= 1),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT,
  PRIMARY KEY (cart_id, product_id)
);

-- Orders
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id),
  ship_full_name TEXT NOT NULL,
  ship_address TEXT NOT NULL,
  ship_city TEXT NOT NULL,
  ship_postal_code TEXT NOT NULL,
  ship_country TEXT NOT NULL,
  total NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending'
    CHECK (status IN ('pending','processing','shipped','delivered','cancelled')),
  is_paid INTEGER NOT NULL DEFAULT 0,
  paid_at TEXT,
  is_delivered INTEGER NOT NULL DEFAULT 0,
  delivered_at TEXT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_orders_user       ON orders(user_id);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

-- Order line items are snapshots; product_id is a plain reference so the
-- row outlives product deletion.
CREATE TABLE IF NOT EXISTS order_items(
  order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL,
  name TEXT NOT NULL,
  qty INTEGER NOT NULL,
  price NUMERIC NOT NULL,
  image_url TEXT NOT NULL,
  PRIMARY KEY (order_id, product_id)
);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo products")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO products(id,name,description,price,image_url,category,stock,brand) VALUES
	  ('prod-tee-001','Classic Logo Tee','Soft cotton tee with the original logo print.',19.99,'/images/tee-001.jpg','fashion',40,'MarketBay'),
	  ('prod-mug-001','Stoneware Mug','350ml stoneware mug, dishwasher safe.',12.50,'/images/mug-001.jpg','home-living',25,''),
	  ('prod-lamp-001','Desk Lamp','Adjustable LED desk lamp with warm light.',34.00,'/images/lamp-001.jpg','home-living',10,'Lumo'),
	  ('prod-cap-001','Corduroy Cap','Six-panel corduroy cap, one size.',24.00,'/images/cap-001.jpg','fashion',0,'MarketBay')`)
	return tx.Commit()
}

// seedUsers ensures one customer and one admin exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Role, Hash string
	}
	mk := func(id, email, role, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
		return u{ID: id, Email: email, Role: role, Hash: string(h)}
	}

	users := []u{
		mk("u-demo", "demo@marketbay.test", "customer", "Passw0rd!"),
		mk("u-admin", "admin@marketbay.test", "admin", "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,password_hash,role)
			VALUES(?,?,?,?)
			ON CONFLICT DO NOTHING
		`, x.ID, x.Email, x.Hash, x.Role); err != nil {
			return err
		}
	}

	return tx.Commit()
}
