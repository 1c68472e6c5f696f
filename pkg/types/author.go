package types

import "time"

// Author field names accepted by Table.Patch on the Authors table.
const (
	AuthorFieldName    = "name"
	AuthorFieldBio     = "bio"
	AuthorFieldDeleted = "deleted"
)

// Author is the master entity of the catalog.
type Author struct {
	AuthorID  string    `json:"author_id"`  // UUID v7, generated on creation.
	Name      string    `json:"name"`       // Display name (required, non-empty).
	Bio       string    `json:"bio"`        // Free-form biography.
	Deleted   bool      `json:"deleted"`    // Soft-delete flag; the row is retained.
	CreatedAt time.Time `json:"created_at"` // Timestamp of creation.
	UpdatedAt time.Time `json:"updated_at"` // Timestamp of last modification.
}

var _ Entity = (*Author)(nil)

// EntityID returns the author's identity.
func (a *Author) EntityID() string { return a.AuthorID }

// Field returns the value of a mutable author field.
// Returns ErrInvalidField for unknown names.
func (a *Author) Field(name string) (any, error) {
	switch name {
	case AuthorFieldName:
		return a.Name, nil
	case AuthorFieldBio:
		return a.Bio, nil
	case AuthorFieldDeleted:
		return a.Deleted, nil
	default:
		return nil, ErrInvalidField
	}
}

// SetField assigns a mutable author field and bumps UpdatedAt.
// Returns ErrInvalidField for unknown names, ErrTypeMismatch when the value
// has the wrong type, and ErrInvalidName when name would become empty.
func (a *Author) SetField(name string, value any) error {
	switch name {
	case AuthorFieldName:
		s, err := asString(value)
		if err != nil {
			return err
		}
		if s == "" {
			return ErrInvalidName
		}
		a.Name = s
	case AuthorFieldBio:
		s, err := asString(value)
		if err != nil {
			return err
		}
		a.Bio = s
	case AuthorFieldDeleted:
		b, err := asBool(value)
		if err != nil {
			return err
		}
		a.Deleted = b
	default:
		return ErrInvalidField
	}
	a.UpdatedAt = time.Now().UTC()
	return nil
}
