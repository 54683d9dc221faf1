package services

import (
	"fmt"

	"github.com/google/uuid"

	"bookswap/internal/blob"
	"bookswap/internal/domain"
	applog "bookswap/internal/log"
	"bookswap/internal/repos"
)

// placeholderImage is the inline cover shown when no image was uploaded.
const placeholderImage = `data:image/svg+xml,%3Csvg xmlns=%22http://www.w3.org/2000/svg%22 width=%22200%22 height=%22280%22%3E%3Crect fill=%22%23D2D2D7%22 width=%22200%22 height=%22280%22/%3E%3Ctext x=%2250%25%22 y=%2250%25%22 text-anchor=%22middle%22 dy=%22.3em%22 fill=%22%2386868B%22 font-family=%22system-ui%22 font-size=%2214%22%3ENo Image%3C/text%3E%3C/svg%3E`

type BookInput struct {
	Title       string
	Author      string
	Description string
	Condition   string
	Image       []byte
	ImageName   string
	ImageMIME   string
}

type BookService struct {
	Books *repos.BookRepo
	Users *repos.UserRepo
	Blobs blob.Store
}

func NewBookService(books *repos.BookRepo, users *repos.UserRepo, blobs blob.Store) *BookService {
	return &BookService{Books: books, Users: users, Blobs: blobs}
}

func (s *BookService) Get(bookID string) (*domain.Book, error) {
	b, err := s.Books.Get(bookID)
	if err != nil {
		if repos.IsNotFound(err) {
			return nil, fmt.Errorf("%w: book", domain.ErrNotFound)
		}
		return nil, err
	}
	return b, nil
}

// Add creates a listing for the user, capped at MaxCurrentBooks concurrent
// current listings. Previous books don't count against the cap.
func (s *BookService) Add(userID string, in BookInput) (*domain.Book, error) {
	if _, err := s.Users.ByID(userID); err != nil {
		if repos.IsNotFound(err) {
			return nil, fmt.Errorf("%w: user", domain.ErrNotFound)
		}
		return nil, err
	}
	n, err := s.Books.CountCurrent(userID)
	if err != nil {
		return nil, err
	}
	if n >= domain.MaxCurrentBooks {
		return nil, fmt.Errorf("%w: maximum of %d books allowed per user", domain.ErrInvalidRequest, domain.MaxCurrentBooks)
	}

	imageURL := placeholderImage
	if len(in.Image) > 0 {
		url, err := s.Blobs.Upload(in.Image, in.ImageName, in.ImageMIME)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
		}
		imageURL = url
	}

	b := domain.Book{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       in.Title,
		Author:      in.Author,
		Description: in.Description,
		Condition:   in.Condition,
		ImageURL:    imageURL,
		Status:      domain.BookCurrent,
	}
	if err := s.Books.Create(b); err != nil {
		return nil, err
	}
	return s.Books.Get(b.ID)
}

// Update edits a listing. Only the owner may edit; status is preserved. A
// replacement image retires the old blob.
func (s *BookService) Update(bookID, callerID string, in BookInput) (*domain.Book, error) {
	b, err := s.Get(bookID)
	if err != nil {
		return nil, err
	}
	if b.UserID != callerID {
		return nil, fmt.Errorf("%w: you can only edit your own books", domain.ErrForbidden)
	}

	if in.Title != "" {
		b.Title = in.Title
	}
	if in.Author != "" {
		b.Author = in.Author
	}
	b.Description = in.Description
	if in.Condition != "" {
		b.Condition = in.Condition
	}
	if len(in.Image) > 0 {
		url, err := s.Blobs.Upload(in.Image, in.ImageName, in.ImageMIME)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
		}
		if err := s.Blobs.Delete(b.ImageURL); err != nil {
			applog.Error(nil, "book.image.delete", err, map[string]any{"book_id": b.ID})
		}
		b.ImageURL = url
	}

	if err := s.Books.Update(*b); err != nil {
		return nil, err
	}
	return s.Books.Get(bookID)
}

// Delete removes a listing and its stored image. Only the owner may delete.
func (s *BookService) Delete(bookID, callerID string) error {
	b, err := s.Get(bookID)
	if err != nil {
		return err
	}
	if b.UserID != callerID {
		return fmt.Errorf("%w: you can only delete your own books", domain.ErrForbidden)
	}
	if err := s.Blobs.Delete(b.ImageURL); err != nil {
		applog.Error(nil, "book.image.delete", err, map[string]any{"book_id": b.ID})
	}
	return s.Books.Delete(bookID)
}
