package controller

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/catalog/pkg/types"
)

var currencyCode = regexp.MustCompile(`^[A-Z]{3}$`)

// AuthorPayload is the normalised input of the Add and Edit Author dialogs.
type AuthorPayload struct {
	Name string
	Bio  string
}

func readAuthorPayload(d Dialog) AuthorPayload {
	return AuthorPayload{
		Name: strings.TrimSpace(d.Field(FieldName)),
		Bio:  strings.TrimSpace(d.Field(FieldBio)),
	}
}

func (p AuthorPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name,
			validation.Required.Error("name is required"),
			validation.RuneLength(1, 255),
		),
		validation.Field(&p.Bio, validation.RuneLength(0, 5000)),
	)
}

// Author builds the entity sent on create.
func (p AuthorPayload) Author() *types.Author {
	return &types.Author{Name: p.Name, Bio: p.Bio}
}

// BookInput is the trimmed, still textual input of the Add Book dialog.
type BookInput struct {
	Title       string
	Description string
	Stock       string
	Price       string
	Currency    string
}

func readBookInput(d Dialog) BookInput {
	return BookInput{
		Title:       strings.TrimSpace(d.Field(FieldTitle)),
		Description: strings.TrimSpace(d.Field(FieldDescription)),
		Stock:       strings.TrimSpace(d.Field(FieldStock)),
		Price:       strings.TrimSpace(d.Field(FieldPrice)),
		Currency:    strings.ToUpper(strings.TrimSpace(d.Field(FieldCurrency))),
	}
}

func (in BookInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title,
			validation.Required.Error("title is required"),
			validation.RuneLength(1, 255),
		),
		validation.Field(&in.Stock,
			validation.Required.Error("stock is required"),
			validation.By(nonNegativeInt),
		),
		validation.Field(&in.Price,
			validation.Required.Error("price is required"),
			validation.By(nonNegativeDecimal),
		),
		validation.Field(&in.Currency,
			validation.Required.Error("currency is required"),
			validation.Match(currencyCode).Error("currency must be a three-letter code"),
		),
	)
}

// BookPayload is the create payload for a book owned by AuthorID.
type BookPayload struct {
	AuthorID    string
	Title       string
	Description string
	Stock       int
	Price       string
	Currency    types.Currency
}

// Payload validates the input and converts it for authorID. Price keeps its
// textual form so the store sees the exact decimal the user typed.
func (in BookInput) Payload(authorID string) (BookPayload, error) {
	if err := in.Validate(); err != nil {
		return BookPayload{}, err
	}
	stock, err := strconv.Atoi(in.Stock)
	if err != nil {
		return BookPayload{}, err
	}
	return BookPayload{
		AuthorID:    authorID,
		Title:       in.Title,
		Description: in.Description,
		Stock:       stock,
		Price:       in.Price,
		Currency:    types.Currency{Code: in.Currency},
	}, nil
}

// Book builds the entity sent on create.
func (p BookPayload) Book() *types.Book {
	return &types.Book{
		AuthorID:    p.AuthorID,
		Title:       p.Title,
		Description: p.Description,
		Stock:       p.Stock,
		Price:       p.Price,
		Currency:    p.Currency,
	}
}

func nonNegativeInt(value any) error {
	s, _ := value.(string)
	n, err := strconv.Atoi(s)
	if err != nil {
		return errors.New("must be a whole number")
	}
	if n < 0 {
		return errors.New("must not be negative")
	}
	return nil
}

func nonNegativeDecimal(value any) error {
	s, _ := value.(string)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return errors.New("must be a decimal number")
	}
	if d.IsNegative() {
		return errors.New("must not be negative")
	}
	return nil
}
