package repos

import (
	"bookswap/internal/domain"

	"github.com/jmoiron/sqlx"
)

type UserRepo struct{ db *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

const userCols = `id,username,email,password_hash,ship_name,ship_street,ship_city,ship_state,ship_zip,created_at`

func (r *UserRepo) Create(u domain.User) error {
	_, err := r.db.Exec(`
	  INSERT INTO users(id,username,email,password_hash,created_at)
	  VALUES(?,?,?,?,CURRENT_TIMESTAMP)
	`, u.ID, u.Username, u.Email, u.Hash)
	return err
}

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	var u domain.User
	if err := r.db.Get(&u, `SELECT `+userCols+` FROM users WHERE id=?`, id); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	if err := r.db.Get(&u, `SELECT `+userCols+` FROM users WHERE LOWER(email)=LOWER(?)`, email); err != nil {
		return nil, err
	}
	return &u, nil
}

// ByIDs resolves a batch of users in a single query. The feed uses this to
// avoid one lookup per book.
func (r *UserRepo) ByIDs(ids []string) ([]domain.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT `+userCols+` FROM users WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	var out []domain.User
	err = r.db.Select(&out, query, args...)
	return out, err
}

func (r *UserRepo) UpdateProfile(u domain.User) error {
	_, err := r.db.Exec(`
	  UPDATE users
	  SET username=?, ship_name=?, ship_street=?, ship_city=?, ship_state=?, ship_zip=?
	  WHERE id=?
	`, u.Username, u.ShipName, u.Street, u.City, u.State, u.Zip, u.ID)
	return err
}
