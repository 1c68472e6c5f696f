// Package controller implements the Authors/Books master-detail controller.
//
// A Controller wires four parts together:
//
//   - Selection tracks the current Author and its entity context.
//   - Registry owns the Author and Book dialog slots, creating a dialog on
//     demand and closing and destroying it on every exit path.
//   - The CRUD handlers turn confirmed dialog input into validated payloads
//     and issue them against the store, reporting one notice per action.
//   - Synchronizer keeps the Author list and the Author-filtered Book view
//     bound and refreshed after each mutation.
//
// Handlers are entry points for UI events. They take a context and return
// nothing; outcomes are reported through the View.
package controller
