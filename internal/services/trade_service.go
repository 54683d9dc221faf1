package services

import (
	"fmt"

	"github.com/google/uuid"

	"bookswap/internal/domain"
	applog "bookswap/internal/log"
	"bookswap/internal/repos"
)

// TradeService owns every trade status transition and its side effects.
// Transitions are written with a guard on the expected pre-state, so two
// racing requests on the same trade cannot both succeed; the loser sees
// ErrInvalidState.
type TradeService struct {
	Trades *repos.TradeRepo
	Books  *repos.BookRepo
	Users  *repos.UserRepo
}

func NewTradeService(trades *repos.TradeRepo, books *repos.BookRepo, users *repos.UserRepo) *TradeService {
	return &TradeService{Trades: trades, Books: books, Users: users}
}

// Create proposes a trade for the receiver's book. A nil fromBookID means
// "any of my current books"; the receiver picks one at accept time.
func (s *TradeService) Create(fromUserID, toUserID string, fromBookID *string, toBookID, message string) (*domain.Trade, error) {
	if _, err := s.Users.ByID(fromUserID); err != nil {
		return nil, s.wrapRead(err, "sender")
	}
	if _, err := s.Users.ByID(toUserID); err != nil {
		return nil, s.wrapRead(err, "receiver")
	}
	if _, err := s.Books.Get(toBookID); err != nil {
		return nil, s.wrapRead(err, "requested book")
	}
	if fromBookID != nil {
		if _, err := s.Books.Get(*fromBookID); err != nil {
			return nil, s.wrapRead(err, "offered book")
		}
	}

	dup, err := s.Trades.HasPendingDuplicate(fromUserID, toUserID, fromBookID, toBookID)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, fmt.Errorf("%w: a pending trade offer already exists for these books", domain.ErrConflict)
	}

	t := domain.Trade{
		ID:         uuid.NewString(),
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		FromBookID: fromBookID,
		ToBookID:   toBookID,
		Message:    message,
		Status:     domain.TradePending,
	}
	if err := s.Trades.Create(t); err != nil {
		return nil, err
	}
	return s.Trades.Get(t.ID)
}

func (s *TradeService) Get(tradeID string) (*domain.Trade, error) {
	t, err := s.Trades.Get(tradeID)
	if err != nil {
		return nil, s.wrapRead(err, "trade")
	}
	return t, nil
}

func (s *TradeService) ListForUser(userID string) ([]domain.Trade, error) {
	return s.Trades.ListByUser(userID)
}

func (s *TradeService) ListActive() ([]domain.Trade, error) {
	return s.Trades.ListActive()
}

// Accept moves a pending trade to accepted. Only the receiver may accept.
// For any-book offers the receiver must name the book they want, which
// becomes the trade's offered book.
func (s *TradeService) Accept(tradeID, callerID string, selectedFromBookID *string) (*domain.Trade, error) {
	t, err := s.Get(tradeID)
	if err != nil {
		return nil, err
	}
	if !t.IsReceiver(callerID) {
		return nil, fmt.Errorf("%w: only the receiver can accept a trade", domain.ErrForbidden)
	}
	if t.Status != domain.TradePending {
		return nil, fmt.Errorf("%w: trade is %s, not pending", domain.ErrInvalidState, t.Status)
	}
	var resolve *string
	if t.FromBookID == nil {
		if selectedFromBookID == nil {
			return nil, fmt.Errorf("%w: select which book you want from the other user", domain.ErrInvalidRequest)
		}
		b, err := s.Books.Get(*selectedFromBookID)
		if err != nil {
			return nil, s.wrapRead(err, "selected book")
		}
		if b.UserID != t.FromUserID || b.Status != domain.BookCurrent {
			return nil, fmt.Errorf("%w: selected book is not a current listing of the sender", domain.ErrInvalidRequest)
		}
		resolve = selectedFromBookID
	}

	ok, err := s.Trades.Accept(tradeID, resolve)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: trade is no longer pending", domain.ErrInvalidState)
	}
	return s.Trades.Get(tradeID)
}

// Decline rejects a pending trade. Only the receiver may decline; books are
// untouched.
func (s *TradeService) Decline(tradeID, callerID string) (*domain.Trade, error) {
	t, err := s.Get(tradeID)
	if err != nil {
		return nil, err
	}
	if !t.IsReceiver(callerID) {
		return nil, fmt.Errorf("%w: only the receiver can decline a trade", domain.ErrForbidden)
	}
	if t.Status != domain.TradePending {
		return nil, fmt.Errorf("%w: trade is %s, not pending", domain.ErrInvalidState, t.Status)
	}
	ok, err := s.Trades.SetStatus(tradeID, domain.TradePending, domain.TradeDeclined)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: trade is no longer pending", domain.ErrInvalidState)
	}
	return s.Trades.Get(tradeID)
}

// Cancel retracts a pending trade. Only the original sender may cancel.
func (s *TradeService) Cancel(tradeID, callerID string) (*domain.Trade, error) {
	t, err := s.Get(tradeID)
	if err != nil {
		return nil, err
	}
	if !t.IsSender(callerID) {
		return nil, fmt.Errorf("%w: only the sender can cancel a trade", domain.ErrForbidden)
	}
	if t.Status != domain.TradePending {
		return nil, fmt.Errorf("%w: trade is %s, not pending", domain.ErrInvalidState, t.Status)
	}
	ok, err := s.Trades.SetStatus(tradeID, domain.TradePending, domain.TradeCancelled)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: trade is no longer pending", domain.ErrInvalidState)
	}
	return s.Trades.Get(tradeID)
}

// MarkMailed records that the caller shipped their book. Each participant
// only ever sets their own flag.
func (s *TradeService) MarkMailed(tradeID, callerID string) (*domain.Trade, error) {
	t, err := s.Get(tradeID)
	if err != nil {
		return nil, err
	}
	if !t.IsParticipant(callerID) {
		return nil, fmt.Errorf("%w: you are not part of this trade", domain.ErrForbidden)
	}
	if t.Status != domain.TradeAccepted {
		return nil, fmt.Errorf("%w: trade must be accepted before marking as mailed", domain.ErrInvalidState)
	}
	ok, err := s.Trades.SetMailed(tradeID, t.IsSender(callerID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: trade is no longer accepted", domain.ErrInvalidState)
	}
	return s.Trades.Get(tradeID)
}

// MarkReceived records that the caller got the counterparty's book, gated on
// the counterparty having mailed. When both parties have received, the trade
// completes and both books flip to previous. Calling again after completion
// is a no-op.
func (s *TradeService) MarkReceived(tradeID, callerID string) (*domain.Trade, error) {
	t, err := s.Get(tradeID)
	if err != nil {
		return nil, err
	}
	if !t.IsParticipant(callerID) {
		return nil, fmt.Errorf("%w: you are not part of this trade", domain.ErrForbidden)
	}
	if t.Status == domain.TradeCompleted && t.Received(callerID) {
		return t, nil
	}
	if t.Status != domain.TradeAccepted {
		return nil, fmt.Errorf("%w: trade must be accepted before marking as received", domain.ErrInvalidState)
	}
	if !t.CounterpartyMailed(callerID) {
		return nil, fmt.Errorf("%w: other user has not mailed their book yet", domain.ErrInvalidState)
	}

	ok, err := s.Trades.SetReceived(tradeID, t.IsSender(callerID))
	if err != nil {
		return nil, err
	}
	if !ok {
		// Re-read: a concurrent call may have completed the trade already.
		if t2, err2 := s.Trades.Get(tradeID); err2 == nil &&
			t2.Status == domain.TradeCompleted && t2.Received(callerID) {
			return t2, nil
		}
		return nil, fmt.Errorf("%w: trade state changed, try again", domain.ErrInvalidState)
	}

	t, err = s.Trades.Get(tradeID)
	if err != nil {
		return nil, err
	}
	if t.FromUserReceived && t.ToUserReceived && t.Status == domain.TradeAccepted {
		done, err := s.Trades.Complete(tradeID)
		if err != nil {
			return nil, err
		}
		if done {
			s.markBooksPrevious(t)
		}
		return s.Trades.Get(tradeID)
	}
	return t, nil
}

// markBooksPrevious is the completion side effect. It is best-effort: the
// trade's completion is authoritative even if a book write fails, so
// failures are logged as recoverable inconsistencies rather than rolled
// back. The feed recomputes in-progress state from trade history, which
// papers over a lagging book row.
func (s *TradeService) markBooksPrevious(t *domain.Trade) {
	ids := []string{t.ToBookID}
	if t.FromBookID != nil {
		ids = append(ids, *t.FromBookID)
	}
	for _, id := range ids {
		if err := s.Books.SetStatus(id, domain.BookPrevious); err != nil {
			applog.Error(nil, "trade.complete.book_status", err,
				map[string]any{"trade_id": t.ID, "book_id": id})
		}
	}
}

// Relist puts the book the caller received back into circulation as a
// current listing under the caller. The trade record is untouched, so
// provenance queries still find it.
func (s *TradeService) Relist(tradeID, callerID string) (*domain.Book, error) {
	t, err := s.Get(tradeID)
	if err != nil {
		return nil, err
	}
	if !t.IsParticipant(callerID) {
		return nil, fmt.Errorf("%w: you are not part of this trade", domain.ErrForbidden)
	}
	if t.Status != domain.TradeCompleted {
		return nil, fmt.Errorf("%w: trade is %s, not completed", domain.ErrInvalidState, t.Status)
	}
	bookID := t.ReceivedBookID(callerID)
	if bookID == "" {
		return nil, fmt.Errorf("%w: trade has no resolved book for this participant", domain.ErrInvalidState)
	}
	ok, err := s.Books.Relist(bookID, callerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: book is already listed", domain.ErrInvalidState)
	}
	return s.Books.Get(bookID)
}

func (s *TradeService) wrapRead(err error, what string) error {
	if repos.IsNotFound(err) {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, what)
	}
	return err
}
