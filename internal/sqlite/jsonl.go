package sqlite

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/catalog/pkg/types"
)

// Snapshot file names written by Export and read by Import.
const (
	AuthorsJSONL = "authors.jsonl"
	BooksJSONL   = "books.jsonl"
)

// SnapshotStats counts records moved by Export or Import.
type SnapshotStats struct {
	Authors int
	Books   int
}

// Export writes every author (soft-deleted included) and every book to
// dir/authors.jsonl and dir/books.jsonl, one JSON object per line.
func (b *Backend) Export(ctx context.Context, dir string) (SnapshotStats, error) {
	var stats SnapshotStats
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return stats, err
	}

	for _, spec := range []struct {
		table string
		file  string
		count *int
	}{
		{types.AuthorsTable, AuthorsJSONL, &stats.Authors},
		{types.BooksTable, BooksJSONL, &stats.Books},
	} {
		table, err := b.GetTable(spec.table)
		if err != nil {
			return stats, err
		}
		entities, err := table.Fetch(ctx, nil)
		if err != nil {
			return stats, fmt.Errorf("export %s: %w", spec.table, err)
		}
		records := make([]json.RawMessage, 0, len(entities))
		for _, e := range entities {
			raw, err := json.Marshal(e)
			if err != nil {
				return stats, fmt.Errorf("marshal %s record: %w", spec.table, err)
			}
			records = append(records, raw)
		}
		if err := writeJSONL(filepath.Join(dir, spec.file), records); err != nil {
			return stats, err
		}
		*spec.count = len(records)
	}
	return stats, nil
}

// Import upserts the records in dir/authors.jsonl then dir/books.jsonl in a
// single transaction: either every record lands or none does. Missing files
// are treated as empty; malformed lines and records without an id are
// skipped.
func (b *Backend) Import(ctx context.Context, dir string) (SnapshotStats, error) {
	var stats SnapshotStats

	authorRecords, err := readJSONLIfExists(filepath.Join(dir, AuthorsJSONL))
	if err != nil {
		return stats, err
	}
	bookRecords, err := readJSONLIfExists(filepath.Join(dir, BooksJSONL))
	if err != nil {
		return stats, err
	}

	db, release, err := b.writeDB()
	if err != nil {
		return stats, err
	}
	defer release()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("beginning import: %w", err)
	}
	defer tx.Rollback()

	var imported SnapshotStats
	for _, raw := range authorRecords {
		var a types.Author
		if err := json.Unmarshal(raw, &a); err != nil || a.AuthorID == "" {
			continue
		}
		if _, err := putAuthor(ctx, tx, a.AuthorID, &a); err != nil {
			return stats, fmt.Errorf("import author %s: %w", a.AuthorID, err)
		}
		imported.Authors++
	}
	for _, raw := range bookRecords {
		var bk types.Book
		if err := json.Unmarshal(raw, &bk); err != nil || bk.BookID == "" {
			continue
		}
		if _, err := putBook(ctx, tx, bk.BookID, &bk); err != nil {
			return stats, fmt.Errorf("import book %s: %w", bk.BookID, err)
		}
		imported.Books++
	}

	if err := tx.Commit(); err != nil {
		return stats, fmt.Errorf("committing import: %w", err)
	}
	return imported, nil
}

func readJSONLIfExists(path string) ([]json.RawMessage, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	return readJSONL(path)
}

// readJSONL reads a JSONL file and returns each non-empty, parseable line as
// a json.RawMessage. Malformed lines are skipped. Lines have no length limit.
func readJSONL(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []json.RawMessage
	r := bufio.NewReader(f)
	for {
		line, err := r.ReadBytes('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		line = bytes.TrimSpace(line)
		if len(line) > 0 && json.Valid(line) {
			records = append(records, json.RawMessage(line))
		}
		if err != nil {
			return records, nil
		}
	}
}

// writeJSONL atomically writes records to a JSONL file using the temp-file,
// fsync, rename pattern.
func writeJSONL(path string, records []json.RawMessage) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing record: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing newline: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
