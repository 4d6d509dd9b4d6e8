// Package storage persists the schedule entry list.
//
// Every backend works on the whole list: Load returns everything stored and
// Save replaces it. Drivers:
//   - "file": a JSON file, either an array of rendered lines or an array of
//     records
//   - "sqlite": one row per entry, rewritten in a single transaction
//   - "memory": process-local, for tests and dry runs
package storage
