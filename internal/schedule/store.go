package schedule

import (
	"context"
	"sort"
	"strings"

	logx "classbook/pkg/logx"
)

// NoSelection is the index used when the user has not selected an entry.
const NoSelection = -1

// Backend persists the whole entry list.
//
// Load returns (nil, nil) when nothing has been stored yet.
// Save overwrites everything previously stored.
type Backend interface {
	Load(ctx context.Context) ([]Entry, error)
	Save(ctx context.Context, entries []Entry) error
}

// Row is one line of a listing: the rendered entry and its backing index.
type Row struct {
	Index int
	Text  string
}

// Store is the single owner of the schedule entries.
type Store struct {
	backend Backend
	log     logx.Logger

	entries []Entry
}

// Open creates a Store hydrated from the backend.
func Open(ctx context.Context, backend Backend, log logx.Logger) (*Store, error) {
	if log.IsZero() {
		log = logx.Nop()
	}
	entries, err := backend.Load(ctx)
	if err != nil {
		return nil, &StorageError{Op: "load", Err: err}
	}
	log.Debug("schedule loaded", logx.Int("entries", len(entries)))
	return &Store{
		backend: backend,
		log:     log,
		entries: append([]Entry(nil), entries...),
	}, nil
}

func (s *Store) Len() int { return len(s.entries) }

// Entries returns a copy of the entries in backing order.
func (s *Store) Entries() []Entry {
	return append([]Entry(nil), s.entries...)
}

// Add appends a new entry and persists the list.
// Fields are only checked for emptiness; surrounding spaces are kept.
func (s *Store) Add(ctx context.Context, className, day, at string) error {
	if err := validateFields(className, day, at); err != nil {
		return err
	}
	e := Entry{ClassName: className, Day: day, Time: at}
	next := make([]Entry, 0, len(s.entries)+1)
	next = append(next, s.entries...)
	next = append(next, e)
	if err := s.commit(ctx, next); err != nil {
		return err
	}
	s.log.Debug("entry added", logx.String("entry", e.String()), logx.Int("index", len(next)-1))
	return nil
}

// Update replaces the entry at a backing index.
func (s *Store) Update(ctx context.Context, index int, className, day, at string) error {
	if err := validateFields(className, day, at); err != nil {
		return err
	}
	if err := s.checkIndex(index); err != nil {
		return err
	}
	e := Entry{ClassName: className, Day: day, Time: at}
	next := append([]Entry(nil), s.entries...)
	prev := next[index]
	next[index] = e
	if err := s.commit(ctx, next); err != nil {
		return err
	}
	s.log.Debug("entry updated",
		logx.Int("index", index),
		logx.String("from", prev.String()),
		logx.String("to", e.String()),
	)
	return nil
}

// Delete removes the entry at a backing index.
func (s *Store) Delete(ctx context.Context, index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	removed := s.entries[index]
	next := make([]Entry, 0, len(s.entries)-1)
	next = append(next, s.entries[:index]...)
	next = append(next, s.entries[index+1:]...)
	if err := s.commit(ctx, next); err != nil {
		return err
	}
	s.log.Debug("entry deleted", logx.Int("index", index), logx.String("entry", removed.String()))
	return nil
}

// ListSorted returns every rendered entry in lexicographic order.
func (s *Store) ListSorted() []string {
	return texts(s.SortedRows())
}

// SortedRows returns the sorted listing with backing indices.
// Equal rendered strings keep their backing order.
func (s *Store) SortedRows() []Row {
	rows := make([]Row, len(s.entries))
	for i, e := range s.entries {
		rows[i] = Row{Index: i, Text: e.String()}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Text < rows[j].Text })
	return rows
}

// BackingIndex translates a position in the sorted listing into a backing index.
func (s *Store) BackingIndex(displayPos int) (int, error) {
	if displayPos < 0 {
		return NoSelection, &IndexError{Index: NoSelection, Len: len(s.entries)}
	}
	if displayPos >= len(s.entries) {
		return NoSelection, &IndexError{Index: displayPos, Len: len(s.entries)}
	}
	return s.SortedRows()[displayPos].Index, nil
}

// Edit returns the entry shown at a sorted-listing position together with
// its backing index, which is what Update and Delete expect.
func (s *Store) Edit(displayPos int) (Entry, int, error) {
	idx, err := s.BackingIndex(displayPos)
	if err != nil {
		return Entry{}, NoSelection, err
	}
	return s.entries[idx], idx, nil
}

// Search returns rendered entries containing term, ignoring case, in backing order.
// An empty term matches nothing new: the sorted listing is returned unchanged.
func (s *Store) Search(term string) []string {
	return texts(s.SearchRows(term))
}

func (s *Store) SearchRows(term string) []Row {
	if term == "" {
		return s.SortedRows()
	}
	needle := strings.ToLower(term)
	rows := make([]Row, 0)
	for i, e := range s.entries {
		text := e.String()
		if strings.Contains(strings.ToLower(text), needle) {
			rows = append(rows, Row{Index: i, Text: text})
		}
	}
	return rows
}

func (s *Store) checkIndex(index int) error {
	if index < 0 {
		return &IndexError{Index: NoSelection, Len: len(s.entries)}
	}
	if index >= len(s.entries) {
		return &IndexError{Index: index, Len: len(s.entries)}
	}
	return nil
}

// commit persists next and, only if that succeeds, makes it the current list.
func (s *Store) commit(ctx context.Context, next []Entry) error {
	if err := s.backend.Save(ctx, next); err != nil {
		s.log.Warn("schedule save failed; keeping previous entries",
			logx.Int("entries", len(s.entries)),
			logx.Err(err),
		)
		return &StorageError{Op: "save", Err: err}
	}
	s.entries = next
	return nil
}

func texts(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Text
	}
	return out
}
