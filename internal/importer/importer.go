// Package importer loads the CSV seed data into the database. Files are read
// in dependency order inside one transaction; the first bad row aborts the
// run and nothing is committed.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"
	"time"
)

// Source files, in the order they are imported.
const (
	CategoryFile   = "category.csv"
	GenreFile      = "genre.csv"
	UsersFile      = "users.csv"
	TitlesFile     = "titles.csv"
	ReviewFile     = "review.csv"
	CommentsFile   = "comments.csv"
	GenreTitleFile = "genre_title.csv"
)

// RowError identifies the file and 1-based data row (header excluded) that
// stopped the import.
type RowError struct {
	File string
	Row  int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s row %d: %v", e.File, e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Summary counts the rows written per file. Skipped lists files that were not
// present in the source.
type Summary struct {
	Counts  map[string]int
	Skipped []string
}

// Total is the number of rows written across all files.
func (s Summary) Total() int {
	n := 0
	for _, c := range s.Counts {
		n += c
	}
	return n
}

type Importer struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

func New(store Store, logger *slog.Logger) *Importer {
	return &Importer{store: store, logger: logger, now: time.Now}
}

type step struct {
	file string
	load func(r *run, ctx context.Context, rec record) error
}

var steps = []step{
	{CategoryFile, (*run).category},
	{GenreFile, (*run).genre},
	{UsersFile, (*run).user},
	{TitlesFile, (*run).title},
	{ReviewFile, (*run).review},
	{CommentsFile, (*run).comment},
	{GenreTitleFile, (*run).genreTitle},
}

// Run imports every known file found in fsys. On error the transaction is
// rolled back and the returned Summary is empty.
func (im *Importer) Run(ctx context.Context, fsys fs.FS) (Summary, error) {
	summary := Summary{Counts: make(map[string]int)}
	start := im.now()

	err := im.store.WithinTx(ctx, func(sink Sink) error {
		r := newRun(sink, im.now())
		for _, s := range steps {
			if err := ctx.Err(); err != nil {
				return err
			}

			n, err := im.loadFile(ctx, fsys, s, r)
			if errors.Is(err, fs.ErrNotExist) {
				im.logger.Warn("import file not found, skipping", slog.String("file", s.file))
				summary.Skipped = append(summary.Skipped, s.file)
				continue
			}
			if err != nil {
				return err
			}
			summary.Counts[s.file] = n
			im.logger.Info("imported file", slog.String("file", s.file), slog.Int("rows", n))
		}

		if err := sink.ResetSequences(ctx); err != nil {
			return fmt.Errorf("reset sequences: %w", err)
		}
		return nil
	})
	if err != nil {
		im.logger.Error("import aborted, transaction rolled back", slog.Any("error", err))
		return Summary{Counts: map[string]int{}}, err
	}

	im.logger.Info("import finished",
		slog.Int("rows", summary.Total()),
		slog.Int("skipped_files", len(summary.Skipped)),
		slog.Duration("elapsed", im.now().Sub(start)),
	)
	return summary, nil
}

func (im *Importer) loadFile(ctx context.Context, fsys fs.FS, s step, r *run) (int, error) {
	f, err := fsys.Open(s.file)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return 0, nil
	}
	if err != nil {
		return 0, &RowError{File: s.file, Row: 0, Err: fmt.Errorf("read header: %w", err)}
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		// Excel-exported files start with a BOM
		name = strings.TrimPrefix(name, "\ufeff")
		columns[strings.TrimSpace(name)] = i
	}

	count := 0
	for row := 1; ; row++ {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return count, &RowError{File: s.file, Row: row, Err: err}
		}
		if err := s.load(r, ctx, record{columns: columns, fields: fields}); err != nil {
			return count, &RowError{File: s.file, Row: row, Err: err}
		}
		count++
	}
	return count, nil
}

// record is one CSV row addressed by column name.
type record struct {
	columns map[string]int
	fields  []string
}

// get returns the first present column among names, trimmed.
func (r record) get(names ...string) (string, bool) {
	for _, name := range names {
		if i, ok := r.columns[name]; ok && i < len(r.fields) {
			return strings.TrimSpace(r.fields[i]), true
		}
	}
	return "", false
}

func (r record) required(name string) (string, error) {
	v, ok := r.get(name)
	if !ok {
		return "", fmt.Errorf("missing column %q", name)
	}
	if v == "" {
		return "", fmt.Errorf("column %q is empty", name)
	}
	return v, nil
}
