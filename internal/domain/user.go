package domain

type User struct {
	ID        string `db:"id" json:"id"`
	Email     string `db:"email" json:"email"`
	Hash      string `db:"password_hash" json:"-"`
	Role      string `db:"role" json:"role"`
	CreatedAt string `db:"created_at" json:"createdAt"`
}

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)
