package repos

import (
	"database/sql"
	"errors"

	"bookswap/internal/domain"

	"github.com/jmoiron/sqlx"
)

type TradeRepo struct{ db *sqlx.DB }

func NewTradeRepo(db *sqlx.DB) *TradeRepo { return &TradeRepo{db: db} }

const tradeCols = `id,from_user_id,to_user_id,from_book_id,to_book_id,message,status,
  from_user_mailed,to_user_mailed,from_user_received,to_user_received,
  created_at,COALESCE(accepted_at,'') AS accepted_at`

func (r *TradeRepo) Create(t domain.Trade) error {
	_, err := r.db.Exec(`
	  INSERT INTO trades(id,from_user_id,to_user_id,from_book_id,to_book_id,message,status,created_at)
	  VALUES(?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, t.ID, t.FromUserID, t.ToUserID, t.FromBookID, t.ToBookID, t.Message, t.Status)
	return err
}

func (r *TradeRepo) Get(id string) (*domain.Trade, error) {
	var t domain.Trade
	if err := r.db.Get(&t, `SELECT `+tradeCols+` FROM trades WHERE id=?`, id); err != nil {
		return nil, err
	}
	return &t, nil
}

// HasPendingDuplicate reports whether a pending trade with the exact same
// (fromUser, toUser, fromBook, toBook) tuple already exists. "IS ?" makes
// the comparison NULL-safe for any-book offers.
func (r *TradeRepo) HasPendingDuplicate(fromUserID, toUserID string, fromBookID *string, toBookID string) (bool, error) {
	var n int
	err := r.db.Get(&n, `
	  SELECT COUNT(*) FROM trades
	  WHERE from_user_id=? AND to_user_id=? AND from_book_id IS ? AND to_book_id=? AND status='pending'
	`, fromUserID, toUserID, fromBookID, toBookID)
	return n > 0, err
}

// ListByUser returns trades where the user is sender or receiver.
func (r *TradeRepo) ListByUser(userID string) ([]domain.Trade, error) {
	var out []domain.Trade
	err := r.db.Select(&out, `
	  SELECT `+tradeCols+` FROM trades
	  WHERE from_user_id=? OR to_user_id=?
	  ORDER BY datetime(created_at) DESC
	`, userID, userID)
	return out, err
}

// ListActive returns pending, accepted and completed trades; the feed uses
// these to annotate books in one pass instead of a query per user.
func (r *TradeRepo) ListActive() ([]domain.Trade, error) {
	var out []domain.Trade
	err := r.db.Select(&out, `
	  SELECT `+tradeCols+` FROM trades
	  WHERE status IN ('pending','accepted','completed')
	  ORDER BY datetime(created_at) DESC
	`)
	return out, err
}

// ListCompletedByUser returns completed trades involving the user, for
// shelf history and provenance queries.
func (r *TradeRepo) ListCompletedByUser(userID string) ([]domain.Trade, error) {
	var out []domain.Trade
	err := r.db.Select(&out, `
	  SELECT `+tradeCols+` FROM trades
	  WHERE status='completed' AND (from_user_id=? OR to_user_id=?)
	  ORDER BY datetime(created_at) DESC
	`, userID, userID)
	return out, err
}

// Every status-changing write below is guarded on the expected pre-state;
// zero rows affected means another request moved the trade first.

// Accept transitions pending -> accepted, resolving the offered book when
// the proposal was an any-book offer.
func (r *TradeRepo) Accept(id string, fromBookID *string) (bool, error) {
	res, err := r.db.Exec(`
	  UPDATE trades
	  SET status='accepted', accepted_at=CURRENT_TIMESTAMP,
	      from_book_id=COALESCE(from_book_id, ?)
	  WHERE id=? AND status='pending'
	`, fromBookID, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *TradeRepo) SetStatus(id string, from, to domain.TradeStatus) (bool, error) {
	res, err := r.db.Exec(`UPDATE trades SET status=? WHERE id=? AND status=?`, to, id, from)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// SetMailed flips the sender's or receiver's mailed flag on an accepted trade.
func (r *TradeRepo) SetMailed(id string, sender bool) (bool, error) {
	col := "to_user_mailed"
	if sender {
		col = "from_user_mailed"
	}
	res, err := r.db.Exec(`UPDATE trades SET `+col+`=1 WHERE id=? AND status='accepted'`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// SetReceived flips the caller's received flag, gated on the counterparty's
// mailed flag being already set.
func (r *TradeRepo) SetReceived(id string, sender bool) (bool, error) {
	col, gate := "to_user_received", "from_user_mailed"
	if sender {
		col, gate = "from_user_received", "to_user_mailed"
	}
	res, err := r.db.Exec(`
	  UPDATE trades SET `+col+`=1 WHERE id=? AND status='accepted' AND `+gate+`=1
	`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Complete transitions accepted -> completed, only once both received flags
// are set.
func (r *TradeRepo) Complete(id string) (bool, error) {
	res, err := r.db.Exec(`
	  UPDATE trades SET status='completed'
	  WHERE id=? AND status='accepted' AND from_user_received=1 AND to_user_received=1
	`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// IsNotFound reports whether a repo read failed because the row is missing.
func IsNotFound(err error) bool { return errors.Is(err, sql.ErrNoRows) }
