package domain

type BookStatus string

const (
	BookCurrent  BookStatus = "current"  // listed and available for trade
	BookPrevious BookStatus = "previous" // traded away, or received and not yet relisted
)

// MaxCurrentBooks caps how many current listings a user may hold at once.
const MaxCurrentBooks = 5

type Book struct {
	ID          string     `db:"id" json:"id"`
	UserID      string     `db:"user_id" json:"userId"`
	Title       string     `db:"title" json:"title"`
	Author      string     `db:"author" json:"author"`
	Description string     `db:"description" json:"description"`
	Condition   string     `db:"condition" json:"condition"`
	ImageURL    string     `db:"image_url" json:"imageUrl"`
	Status      BookStatus `db:"status" json:"status"`
	CreatedAt   string     `db:"created_at" json:"createdAt"`
	UpdatedAt   string     `db:"updated_at" json:"updatedAt,omitempty"`
}
