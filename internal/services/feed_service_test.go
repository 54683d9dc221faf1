package services_test

import (
	"testing"

	"bookswap/internal/domain"
	"bookswap/internal/repos"
	"bookswap/internal/services"
)

func newFeedService(t *testing.T) (*services.FeedService, *services.TradeService) {
	t.Helper()
	tradeSvc, db := newTradeService(t)
	feedSvc := services.NewFeedService(repos.NewBookRepo(db), repos.NewUserRepo(db), repos.NewTradeRepo(db))
	return feedSvc, tradeSvc
}

func findBook(t *testing.T, books []services.FeedBook, id string) services.FeedBook {
	t.Helper()
	for _, b := range books {
		if b.ID == id {
			return b
		}
	}
	t.Fatalf("book %s not in result", id)
	return services.FeedBook{}
}

func TestFeed_OwnerNamesResolved(t *testing.T) {
	feed, _ := newFeedService(t)

	books, err := feed.Feed("")
	if err != nil {
		t.Fatal(err)
	}
	if len(books) != 4 {
		t.Fatalf("want 4 books, got %d", len(books))
	}
	if got := findBook(t, books, "a1").UserName; got != "Alice" {
		t.Fatalf("a1 owner name = %q", got)
	}
	if got := findBook(t, books, "b1").UserName; got != "Bob" {
		t.Fatalf("b1 owner name = %q", got)
	}
}

func TestFeed_PendingTradeFlagIsViewerRelative(t *testing.T) {
	feed, trades := newFeedService(t)

	if _, err := trades.Create("alice", "bob", str("a1"), "b1", ""); err != nil {
		t.Fatal(err)
	}

	books, err := feed.Feed("alice")
	if err != nil {
		t.Fatal(err)
	}
	if !findBook(t, books, "b1").HasPendingTrade {
		t.Fatal("alice has a pending offer on b1")
	}
	if findBook(t, books, "b2").HasPendingTrade {
		t.Fatal("b2 has no pending offer")
	}

	// Bob (and anonymous viewers) sent no offer on b1.
	books, err = feed.Feed("bob")
	if err != nil {
		t.Fatal(err)
	}
	if findBook(t, books, "b1").HasPendingTrade {
		t.Fatal("pending flag must be relative to the viewer")
	}
	books, err = feed.Feed("")
	if err != nil {
		t.Fatal(err)
	}
	if findBook(t, books, "b1").HasPendingTrade {
		t.Fatal("anonymous viewer has no pending offers")
	}
}

func TestFeed_TradeInProgressFlag(t *testing.T) {
	feed, trades := newFeedService(t)

	tr, err := trades.Create("alice", "bob", str("a1"), "b1", "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := trades.Accept(tr.ID, "bob", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := trades.MarkMailed(tr.ID, "alice"); err != nil {
		t.Fatal(err)
	}

	// One shipment is not "in progress" yet.
	books, err := feed.Feed("")
	if err != nil {
		t.Fatal(err)
	}
	if findBook(t, books, "a1").TradeInProgress {
		t.Fatal("one-sided shipment flagged as in progress")
	}

	if _, err := trades.MarkMailed(tr.ID, "bob"); err != nil {
		t.Fatal(err)
	}
	books, err = feed.Feed("")
	if err != nil {
		t.Fatal(err)
	}
	if !findBook(t, books, "a1").TradeInProgress || !findBook(t, books, "b1").TradeInProgress {
		t.Fatal("both mailed: referenced books should be in progress")
	}
	if findBook(t, books, "a2").TradeInProgress {
		t.Fatal("uninvolved book flagged")
	}
}

func TestShelf_PreviousIncludesTradedAwayBooks(t *testing.T) {
	feed, trades := newFeedService(t)

	tr := completeTrade(t, trades, "a1", "b1")

	// Bob relists the book he received; it now lives on bob's shelf as
	// current, but stays in alice's history as previous.
	if _, err := trades.Relist(tr.ID, "bob"); err != nil {
		t.Fatal(err)
	}

	aliceShelf, err := feed.Shelf("alice", "previous")
	if err != nil {
		t.Fatal(err)
	}
	prev := findBook(t, aliceShelf, "a1")
	if prev.Status != domain.BookPrevious {
		t.Fatalf("a1 on alice's previous shelf = %+v", prev)
	}

	bobShelf, err := feed.Shelf("bob", "current")
	if err != nil {
		t.Fatal(err)
	}
	cur := findBook(t, bobShelf, "a1")
	if cur.UserID != "bob" || cur.Status != domain.BookCurrent {
		t.Fatalf("a1 on bob's current shelf = %+v", cur)
	}

	// Current filter excludes history.
	aliceCurrent, err := feed.Shelf("alice", "current")
	if err != nil {
		t.Fatal(err)
	}
	for _, b := range aliceCurrent {
		if b.ID == "a1" || b.ID == "b1" {
			t.Fatalf("traded book %s on alice's current shelf", b.ID)
		}
	}
}
