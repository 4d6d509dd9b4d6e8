package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"classbook/internal/schedule"
	logx "classbook/pkg/logx"

	"github.com/pkg/errors"
)

// fileStore keeps the whole list in one JSON file.
//
// "strings" format (the historical layout):
//
//	["Algebra - Monday at 9:00", "Biology - Tuesday at 10:00"]
//
// "records" format:
//
//	[{"class_name": "Algebra", "day": "Monday", "time": "9:00"}]
//
// Load accepts both, element by element; Save writes the configured one.
type fileStore struct {
	path   string
	format string
	log    logx.Logger
}

func openFile(cfg Config, log logx.Logger) (Store, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("storage.path is required for file driver")
	}
	format := strings.ToLower(strings.TrimSpace(cfg.Format))
	switch format {
	case "":
		format = FormatStrings
	case FormatStrings, FormatRecords:
	default:
		return nil, errors.Errorf("unknown file format: %s", format)
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "create data dir")
		}
	}
	return &fileStore{path: path, format: format, log: log}, nil
}

func (s *fileStore) Close() error { return nil }

func (s *fileStore) Load(ctx context.Context) ([]schedule.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Debug("schedule file not found; starting empty", logx.String("path", s.path))
			return nil, nil
		}
		return nil, errors.Wrapf(err, "read %s", s.path)
	}
	entries, err := decodeEntries(b)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", s.path)
	}
	return entries, nil
}

func (s *fileStore) Save(ctx context.Context, entries []schedule.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encodeEntries(entries, s.format)
	if err != nil {
		return errors.Wrap(err, "encode schedule")
	}
	if err := writeFileAtomic(s.path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", s.path)
	}
	s.log.Trace("schedule file written", logx.String("path", s.path), logx.Int("entries", len(entries)))
	return nil
}

func decodeEntries(b []byte) ([]schedule.Entry, error) {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errors.New("expected a JSON array")
	}

	var raw []json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("trailing content after array")
	}

	out := make([]schedule.Entry, 0, len(raw))
	for i, item := range raw {
		e, err := decodeEntry(item)
		if err != nil {
			return nil, errors.Wrapf(err, "element %d", i)
		}
		out = append(out, e)
	}
	return out, nil
}

func decodeEntry(item json.RawMessage) (schedule.Entry, error) {
	switch {
	case len(item) > 0 && item[0] == '"':
		var line string
		if err := json.Unmarshal(item, &line); err != nil {
			return schedule.Entry{}, err
		}
		return schedule.ParseEntry(line)
	case len(item) > 0 && item[0] == '{':
		var e schedule.Entry
		dec := json.NewDecoder(bytes.NewReader(item))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&e); err != nil {
			return schedule.Entry{}, err
		}
		return e, nil
	default:
		return schedule.Entry{}, errors.Errorf("unexpected value %s", truncate(string(item), 40))
	}
}

func encodeEntries(entries []schedule.Entry, format string) ([]byte, error) {
	var v any
	if format == FormatRecords {
		recs := make([]schedule.Entry, len(entries))
		copy(recs, entries)
		v = recs
	} else {
		lines := make([]string, len(entries))
		for i, e := range entries {
			lines[i] = e.String()
		}
		v = lines
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if format == FormatRecords {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeFileAtomic replaces path with data: temp file in the same directory,
// fsync, rename, then fsync the directory.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return fsyncDir(dir)
}

func fsyncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	// Some platforms do not support syncing directories.
	if err := f.Sync(); err != nil && !errors.Is(err, os.ErrInvalid) {
		return err
	}
	return nil
}

func truncate(s string, maxN int) string {
	if maxN <= 0 || len(s) <= maxN {
		return s
	}
	cut := max(maxN-3, 0)
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
