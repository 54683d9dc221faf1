package repos

import (
	"bookswap/internal/domain"

	"github.com/jmoiron/sqlx"
)

type BookRepo struct{ db *sqlx.DB }

func NewBookRepo(db *sqlx.DB) *BookRepo { return &BookRepo{db: db} }

const bookCols = `id,user_id,title,author,description,condition,image_url,status,created_at,COALESCE(updated_at,'') AS updated_at`

func (r *BookRepo) Create(b domain.Book) error {
	_, err := r.db.Exec(`
	  INSERT INTO books(id,user_id,title,author,description,condition,image_url,status,created_at)
	  VALUES(?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, b.ID, b.UserID, b.Title, b.Author, b.Description, b.Condition, b.ImageURL, b.Status)
	return err
}

func (r *BookRepo) Get(id string) (*domain.Book, error) {
	var b domain.Book
	if err := r.db.Get(&b, `SELECT `+bookCols+` FROM books WHERE id=?`, id); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookRepo) ByIDs(ids []string) ([]domain.Book, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT `+bookCols+` FROM books WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	var out []domain.Book
	err = r.db.Select(&out, query, args...)
	return out, err
}

func (r *BookRepo) ListByUser(userID string) ([]domain.Book, error) {
	var out []domain.Book
	err := r.db.Select(&out, `
	  SELECT `+bookCols+` FROM books WHERE user_id=? ORDER BY created_at DESC
	`, userID)
	return out, err
}

func (r *BookRepo) ListAll() ([]domain.Book, error) {
	var out []domain.Book
	err := r.db.Select(&out, `SELECT `+bookCols+` FROM books ORDER BY created_at DESC`)
	return out, err
}

// CountCurrent returns how many current listings a user holds.
func (r *BookRepo) CountCurrent(userID string) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM books WHERE user_id=? AND status='current'`, userID)
	return n, err
}

func (r *BookRepo) Update(b domain.Book) error {
	_, err := r.db.Exec(`
	  UPDATE books
	  SET title=?, author=?, description=?, condition=?, image_url=?, updated_at=CURRENT_TIMESTAMP
	  WHERE id=?
	`, b.Title, b.Author, b.Description, b.Condition, b.ImageURL, b.ID)
	return err
}

func (r *BookRepo) SetStatus(id string, status domain.BookStatus) error {
	_, err := r.db.Exec(`UPDATE books SET status=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, status, id)
	return err
}

// Relist flips a previously-traded book back to current under its new
// holder. Guarded on status so a double relist affects no rows.
func (r *BookRepo) Relist(id, newOwnerID string) (bool, error) {
	res, err := r.db.Exec(`
	  UPDATE books
	  SET user_id=?, status='current', updated_at=CURRENT_TIMESTAMP
	  WHERE id=? AND status='previous'
	`, newOwnerID, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *BookRepo) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM books WHERE id=?`, id)
	return err
}
