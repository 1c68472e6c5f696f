// Package binding provides live handles over rows of a types.Table.
//
// A Context addresses exactly one row and mutates it through the table
// (SetProperty, Delete). A List is a refreshable query over a table scoped by
// a types.Filter; each Refresh re-issues the query and replaces the rows.
package binding
