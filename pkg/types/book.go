package types

import "time"

// Book field names accepted by Table.Patch on the Books table.
const (
	BookFieldTitle        = "title"
	BookFieldDescription  = "description"
	BookFieldStock        = "stock"
	BookFieldPrice        = "price"
	BookFieldCurrencyCode = "currency_code"
)

// Currency identifies the currency a book is priced in.
type Currency struct {
	Code string `json:"code"` // ISO 4217 code, upper-case.
}

// Book is the detail entity, owned by exactly one Author.
type Book struct {
	BookID      string    `json:"book_id"`     // UUID v7, generated on creation.
	AuthorID    string    `json:"author_id"`   // Owning author (required).
	Title       string    `json:"title"`       // Required, non-empty.
	Description string    `json:"description"` // Free-form description.
	Stock       int       `json:"stock"`       // Units on hand.
	Price       string    `json:"price"`       // Decimal kept as text to preserve precision.
	Currency    Currency  `json:"currency"`    // Pricing currency.
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

var _ Entity = (*Book)(nil)

// EntityID returns the book's identity.
func (b *Book) EntityID() string { return b.BookID }

// Field returns the value of a mutable book field.
func (b *Book) Field(name string) (any, error) {
	switch name {
	case BookFieldTitle:
		return b.Title, nil
	case BookFieldDescription:
		return b.Description, nil
	case BookFieldStock:
		return b.Stock, nil
	case BookFieldPrice:
		return b.Price, nil
	case BookFieldCurrencyCode:
		return b.Currency.Code, nil
	default:
		return nil, ErrInvalidField
	}
}

// SetField assigns a mutable book field and bumps UpdatedAt.
func (b *Book) SetField(name string, value any) error {
	switch name {
	case BookFieldTitle:
		s, err := asString(value)
		if err != nil {
			return err
		}
		if s == "" {
			return ErrInvalidName
		}
		b.Title = s
	case BookFieldDescription:
		s, err := asString(value)
		if err != nil {
			return err
		}
		b.Description = s
	case BookFieldStock:
		n, err := asInt(value)
		if err != nil {
			return err
		}
		b.Stock = n
	case BookFieldPrice:
		s, err := asString(value)
		if err != nil {
			return err
		}
		b.Price = s
	case BookFieldCurrencyCode:
		s, err := asString(value)
		if err != nil {
			return err
		}
		b.Currency.Code = s
	default:
		return ErrInvalidField
	}
	b.UpdatedAt = time.Now().UTC()
	return nil
}
