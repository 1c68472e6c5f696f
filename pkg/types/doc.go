// Package types defines the Cupboard and Table interfaces, the Author and
// Book entity types, and the standard errors shared by every catalog store
// backend and by the controller that drives them.
package types
