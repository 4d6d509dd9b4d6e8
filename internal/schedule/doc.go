// Package schedule owns the list of class-schedule entries.
//
// A Store keeps entries in backing order (the order they were added) and
// persists the whole list through a Backend after every successful mutation.
// Listings shown to the user are sorted by rendered text, so every listing
// line is returned as a Row carrying the backing index it came from.
//
// The Store is not safe for concurrent use; callers run it from a single
// goroutine.
package schedule
