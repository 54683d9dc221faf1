package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"bookswap/internal/blob"
	"bookswap/internal/domain"
	"bookswap/internal/repos"
	"bookswap/internal/services"
)

func newBookService(t *testing.T) *services.BookService {
	t.Helper()
	db := memdb(t)
	seedUser(t, db, "alice", "Alice")
	seedUser(t, db, "bob", "Bob")
	blobs, err := blob.NewDiskStore(t.TempDir(), "/media")
	if err != nil {
		t.Fatal(err)
	}
	return services.NewBookService(repos.NewBookRepo(db), repos.NewUserRepo(db), blobs)
}

func TestAddBook_CapsCurrentListings(t *testing.T) {
	svc := newBookService(t)

	for i := 0; i < domain.MaxCurrentBooks; i++ {
		if _, err := svc.Add("alice", services.BookInput{Title: fmt.Sprintf("Book %d", i), Condition: "used"}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := svc.Add("alice", services.BookInput{Title: "One Too Many", Condition: "used"}); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("sixth current book: want InvalidRequest, got %v", err)
	}
	// A previous book frees a slot.
	shelf := svc.Books
	var any domain.Book
	books, err := shelf.ListByUser("alice")
	if err != nil {
		t.Fatal(err)
	}
	any = books[0]
	if err := shelf.SetStatus(any.ID, domain.BookPrevious); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Add("alice", services.BookInput{Title: "Fits Again", Condition: "used"}); err != nil {
		t.Fatalf("previous books must not count against the cap: %v", err)
	}
}

func TestAddBook_PlaceholderImage(t *testing.T) {
	svc := newBookService(t)

	b, err := svc.Add("alice", services.BookInput{Title: "No Cover", Condition: "good"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(b.ImageURL, "data:image/svg+xml") {
		t.Fatalf("want placeholder image, got %q", b.ImageURL)
	}
	if b.Status != domain.BookCurrent {
		t.Fatalf("new listing status = %s", b.Status)
	}
}

func TestAddBook_UploadsImage(t *testing.T) {
	svc := newBookService(t)

	b, err := svc.Add("alice", services.BookInput{
		Title: "With Cover", Condition: "good",
		Image: []byte("fake-jpeg"), ImageName: "cover.jpg", ImageMIME: "image/jpeg",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(b.ImageURL, "/media/book-covers/") {
		t.Fatalf("want /media URL, got %q", b.ImageURL)
	}
}

func TestUpdateBook_OwnerOnly(t *testing.T) {
	svc := newBookService(t)

	b, err := svc.Add("alice", services.BookInput{Title: "Dune", Condition: "used"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Update(b.ID, "bob", services.BookInput{Title: "Hijacked"}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("non-owner edit: want Forbidden, got %v", err)
	}
	got, err := svc.Update(b.ID, "alice", services.BookInput{Title: "Dune Messiah", Description: "sequel"})
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Dune Messiah" || got.Description != "sequel" {
		t.Fatalf("update not applied: %+v", got)
	}
	if got.Status != domain.BookCurrent {
		t.Fatalf("edit must preserve status, got %s", got.Status)
	}
}

func TestDeleteBook_OwnerOnly(t *testing.T) {
	svc := newBookService(t)

	b, err := svc.Add("alice", services.BookInput{Title: "Dune", Condition: "used"})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(b.ID, "bob"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("non-owner delete: want Forbidden, got %v", err)
	}
	if err := svc.Delete(b.ID, "alice"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Get(b.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want NotFound after delete, got %v", err)
	}
}
