package types

// Standard table names for Cupboard.GetTable. They double as the entity
// paths used by the HTTP data service.
const (
	AuthorsTable = "Authors"
	BooksTable   = "Books"
)

// StandardTableNames lists all standard table names for enumeration.
var StandardTableNames = []string{
	AuthorsTable,
	BooksTable,
}

// IsStandardTable reports whether name is one of StandardTableNames.
func IsStandardTable(name string) bool {
	for _, n := range StandardTableNames {
		if n == name {
			return true
		}
	}
	return false
}

// NewEntity returns an empty entity for the named table, ready to be decoded
// into. Returns ErrTableNotFound for unknown names.
func NewEntity(table string) (Entity, error) {
	switch table {
	case AuthorsTable:
		return &Author{}, nil
	case BooksTable:
		return &Book{}, nil
	default:
		return nil, ErrTableNotFound
	}
}
