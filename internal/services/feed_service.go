package services

import (
	"bookswap/internal/domain"
	"bookswap/internal/repos"
)

// FeedBook is a listing annotated for display: the owner's username plus
// the viewer-relative trade flags.
type FeedBook struct {
	domain.Book
	UserName        string `json:"userName"`
	HasPendingTrade bool   `json:"hasPendingTrade"`
	TradeInProgress bool   `json:"tradeInProgress"`
}

// FeedService is the read side: it joins books, users and trade state for
// the general feed and per-user shelves. It never mutates anything.
type FeedService struct {
	Books  *repos.BookRepo
	Users  *repos.UserRepo
	Trades *repos.TradeRepo
}

func NewFeedService(books *repos.BookRepo, users *repos.UserRepo, trades *repos.TradeRepo) *FeedService {
	return &FeedService{Books: books, Users: users, Trades: trades}
}

// Feed returns every listing with owner names resolved in one batched
// lookup. viewerID may be empty for anonymous browsing; the pending-trade
// flag is viewer-relative and stays false without a viewer.
func (s *FeedService) Feed(viewerID string) ([]FeedBook, error) {
	books, err := s.Books.ListAll()
	if err != nil {
		return nil, err
	}
	trades, err := s.Trades.ListActive()
	if err != nil {
		return nil, err
	}
	names, err := s.ownerNames(books)
	if err != nil {
		return nil, err
	}
	return annotate(books, names, trades, viewerID), nil
}

// Shelf returns a user's books, filterable by status. "previous" also pulls
// in books the user no longer owns but gave away in completed trades, so the
// shelf shows full trading history.
func (s *FeedService) Shelf(userID, status string) ([]FeedBook, error) {
	books, err := s.Books.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	if status == "" || status == string(domain.BookPrevious) {
		extra, err := s.formerlyHeld(userID, books)
		if err != nil {
			return nil, err
		}
		books = append(books, extra...)
	}

	if status != "" {
		filtered := books[:0]
		for _, b := range books {
			if string(b.Status) == status {
				filtered = append(filtered, b)
			}
		}
		books = filtered
	}

	trades, err := s.Trades.ListActive()
	if err != nil {
		return nil, err
	}
	names, err := s.ownerNames(books)
	if err != nil {
		return nil, err
	}
	return annotate(books, names, trades, userID), nil
}

// formerlyHeld resolves books the user traded away, minus anything they
// still own (a relisted book can come back).
func (s *FeedService) formerlyHeld(userID string, owned []domain.Book) ([]domain.Book, error) {
	completed, err := s.Trades.ListCompletedByUser(userID)
	if err != nil {
		return nil, err
	}
	have := make(map[string]bool, len(owned))
	for _, b := range owned {
		have[b.ID] = true
	}
	var ids []string
	seen := map[string]bool{}
	for _, t := range completed {
		id := t.GivenBookID(userID)
		if id == "" || have[id] || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	extra, err := s.Books.ByIDs(ids)
	if err != nil {
		return nil, err
	}
	for i := range extra {
		// The row may say current (relisted by its new holder); on this
		// user's shelf it is history.
		extra[i].Status = domain.BookPrevious
	}
	return extra, nil
}

// ownerNames batch-resolves usernames for the distinct owner set; one query
// regardless of feed size.
func (s *FeedService) ownerNames(books []domain.Book) (map[string]string, error) {
	seen := map[string]bool{}
	var ids []string
	for _, b := range books {
		if !seen[b.UserID] {
			seen[b.UserID] = true
			ids = append(ids, b.UserID)
		}
	}
	users, err := s.Users.ByIDs(ids)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Username
	}
	return names, nil
}

func annotate(books []domain.Book, names map[string]string, trades []domain.Trade, viewerID string) []FeedBook {
	out := make([]FeedBook, 0, len(books))
	for _, b := range books {
		fb := FeedBook{Book: b, UserName: names[b.UserID]}
		if fb.UserName == "" {
			fb.UserName = "Unknown"
		}
		fb.TradeInProgress = b.Status == domain.BookPrevious
		for _, t := range trades {
			if viewerID != "" && t.Status == domain.TradePending &&
				t.FromUserID == viewerID && t.ToBookID == b.ID {
				fb.HasPendingTrade = true
			}
			if t.InProgress() && t.References(b.ID) {
				fb.TradeInProgress = true
			}
		}
		out = append(out, fb)
	}
	return out
}
