package repos

import (
	"marketbay/internal/domain"

	"github.com/jmoiron/sqlx"
)

type UserRepo struct{ db *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(u *domain.User) error {
	_, err := r.db.Exec(`
		INSERT INTO users(id,email,password_hash,role,created_at)
		VALUES(?,?,?,?,CURRENT_TIMESTAMP)
	`, u.ID, u.Email, u.Hash, u.Role)
	return err
}

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.db.Get(&u, `
		SELECT id,email,password_hash,role,created_at
		FROM users WHERE LOWER(email)=LOWER(?)
	`, email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.db.Get(&u, `
		SELECT id,email,password_hash,role,created_at
		FROM users WHERE id=?
	`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
