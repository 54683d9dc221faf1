package domain

type TradeStatus string

const (
	TradePending   TradeStatus = "pending"
	TradeAccepted  TradeStatus = "accepted"
	TradeDeclined  TradeStatus = "declined"
	TradeCancelled TradeStatus = "cancelled"
	TradeCompleted TradeStatus = "completed"
)

// Trade is a proposed or in-progress exchange of one book for another.
// FromBookID is nil while the proposal offers "any of my current books";
// it is resolved to a concrete book when the receiver accepts.
type Trade struct {
	ID               string      `db:"id" json:"id"`
	FromUserID       string      `db:"from_user_id" json:"fromUserId"`
	ToUserID         string      `db:"to_user_id" json:"toUserId"`
	FromBookID       *string     `db:"from_book_id" json:"fromBookId"`
	ToBookID         string      `db:"to_book_id" json:"toBookId"`
	Message          string      `db:"message" json:"message"`
	Status           TradeStatus `db:"status" json:"status"`
	FromUserMailed   bool        `db:"from_user_mailed" json:"fromUserMailed"`
	ToUserMailed     bool        `db:"to_user_mailed" json:"toUserMailed"`
	FromUserReceived bool        `db:"from_user_received" json:"fromUserReceived"`
	ToUserReceived   bool        `db:"to_user_received" json:"toUserReceived"`
	CreatedAt        string      `db:"created_at" json:"createdAt"`
	AcceptedAt       string      `db:"accepted_at" json:"acceptedAt,omitempty"`
}

func (t Trade) IsSender(userID string) bool   { return t.FromUserID == userID }
func (t Trade) IsReceiver(userID string) bool { return t.ToUserID == userID }
func (t Trade) IsParticipant(userID string) bool {
	return t.IsSender(userID) || t.IsReceiver(userID)
}

// CounterpartyMailed reports whether the other party has mailed their book.
// Receiving is gated on this flag, never on the caller's own.
func (t Trade) CounterpartyMailed(userID string) bool {
	if t.IsSender(userID) {
		return t.ToUserMailed
	}
	return t.FromUserMailed
}

func (t Trade) Mailed(userID string) bool {
	if t.IsSender(userID) {
		return t.FromUserMailed
	}
	return t.ToUserMailed
}

func (t Trade) Received(userID string) bool {
	if t.IsSender(userID) {
		return t.FromUserReceived
	}
	return t.ToUserReceived
}

// ReceivedBookID is the book the given participant holds after completion:
// the sender ends up with the receiver's book and vice versa.
func (t Trade) ReceivedBookID(userID string) string {
	if t.IsSender(userID) {
		return t.ToBookID
	}
	if t.FromBookID != nil {
		return *t.FromBookID
	}
	return ""
}

// GivenBookID is the book the given participant sent away.
func (t Trade) GivenBookID(userID string) string {
	if t.IsReceiver(userID) {
		return t.ToBookID
	}
	if t.FromBookID != nil {
		return *t.FromBookID
	}
	return ""
}

// InProgress reports whether both parties have shipped on a live trade.
func (t Trade) InProgress() bool {
	return (t.Status == TradeAccepted || t.Status == TradeCompleted) &&
		t.FromUserMailed && t.ToUserMailed
}

// References reports whether the trade involves the given book on either side.
func (t Trade) References(bookID string) bool {
	if t.ToBookID == bookID {
		return true
	}
	return t.FromBookID != nil && *t.FromBookID == bookID
}
