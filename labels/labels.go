// Package labels loads the per-interval task labels used to train sequence
// models.
//
// A label table is a tab-separated file with a header row. The first three
// columns form the row key (contig, start, end) and every remaining column
// is a task holding one numeric label per row:
//
//	chrom	start	end	task1	task2
//	chr1	100	200	1	0
package labels

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/shenwei356/xopen"
)

var (
	// ErrUnknownTask is returned when a requested task column does not exist.
	ErrUnknownTask = errors.New("unknown task column")

	// ErrMalformed is returned for tables that cannot be parsed.
	ErrMalformed = errors.New("malformed label table")
)

// keyColumns is the number of leading columns forming the row key.
const keyColumns = 3

// Interval is a 0-based, half-open genomic range.
type Interval struct {
	Chrom      string
	Start, End int
}

// Len returns the number of bases covered by the interval.
func (iv Interval) Len() int {
	return iv.End - iv.Start
}

func (iv Interval) String() string {
	return fmt.Sprintf("%s:%d-%d", iv.Chrom, iv.Start, iv.End)
}

// Table is an ordered, read-only set of labelled intervals.
type Table struct {
	tasks  []string
	keys   []Interval
	values [][]float32
	byKey  map[Interval]int
}

// New builds a table from parallel key and value slices. Every value row
// must have len(tasks) entries and keys must be unique.
func New(tasks []string, keys []Interval, values [][]float32) (*Table, error) {
	if len(tasks) == 0 {
		return nil, fmt.Errorf("%w: no tasks", ErrMalformed)
	}
	if len(keys) != len(values) {
		return nil, fmt.Errorf("%w: %d keys but %d label rows", ErrMalformed, len(keys), len(values))
	}
	t := &Table{
		tasks:  append([]string(nil), tasks...),
		keys:   append([]Interval(nil), keys...),
		values: make([][]float32, len(values)),
		byKey:  make(map[Interval]int, len(keys)),
	}
	for i, row := range values {
		if len(row) != len(tasks) {
			return nil, fmt.Errorf("%w: row %d has %d labels, want %d", ErrMalformed, i, len(row), len(tasks))
		}
		t.values[i] = append([]float32(nil), row...)
		if _, dup := t.byKey[keys[i]]; dup {
			return nil, fmt.Errorf("%w: duplicate interval %s", ErrMalformed, keys[i])
		}
		t.byKey[keys[i]] = i
	}
	return t, nil
}

// Open reads the label table at path. Compressed files (gzip, xz, zstd,
// bzip2) are detected from their content and decompressed. See ReadTable for
// the meaning of tasks.
func Open(path string, tasks []string) (*Table, error) {
	if path == "" {
		return nil, fmt.Errorf("no label table path given")
	}
	r, err := xopen.Ropen(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open label table %s: %w", path, err)
	}
	defer r.Close()

	t, err := ReadTable(r, tasks)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ReadTable parses a tab-separated label table from r. When tasks is nil
// every non-key column is used, in file order; otherwise only the named
// columns are kept, in the order given.
func ReadTable(r io.Reader, tasks []string) (*Table, error) {
	df := dataframe.ReadCSV(r,
		dataframe.WithDelimiter('\t'),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, df.Err)
	}

	names := df.Names()
	if len(names) <= keyColumns {
		return nil, fmt.Errorf("%w: need %d key columns and at least one task, got %d columns",
			ErrMalformed, keyColumns, len(names))
	}

	available := names[keyColumns:]
	if tasks == nil {
		tasks = available
	} else {
		known := make(map[string]bool, len(available))
		for _, name := range available {
			known[name] = true
		}
		if len(tasks) == 0 {
			return nil, fmt.Errorf("%w: empty task selection", ErrUnknownTask)
		}
		for _, name := range tasks {
			if !known[name] {
				return nil, fmt.Errorf("%w: %q", ErrUnknownTask, name)
			}
		}
	}

	n := df.Nrow()
	t := &Table{
		tasks:  append([]string(nil), tasks...),
		keys:   make([]Interval, n),
		values: make([][]float32, n),
		byKey:  make(map[Interval]int, n),
	}

	chroms := df.Col(names[0]).Records()
	starts := df.Col(names[1]).Records()
	ends := df.Col(names[2]).Records()
	for i := range n {
		start, err := strconv.Atoi(strings.TrimSpace(starts[i]))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: bad start %q", ErrMalformed, i+1, starts[i])
		}
		end, err := strconv.Atoi(strings.TrimSpace(ends[i]))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: bad end %q", ErrMalformed, i+1, ends[i])
		}
		t.keys[i] = Interval{Chrom: strings.TrimSpace(chroms[i]), Start: start, End: end}
		t.values[i] = make([]float32, len(tasks))
	}

	for j, name := range tasks {
		for i, rec := range df.Col(name).Records() {
			v, err := parseLabel(rec)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d, task %q: %v", ErrMalformed, i+1, name, err)
			}
			t.values[i][j] = v
		}
	}

	for i, key := range t.keys {
		if _, dup := t.byKey[key]; dup {
			return nil, fmt.Errorf("%w: duplicate interval %s", ErrMalformed, key)
		}
		t.byKey[key] = i
	}
	return t, nil
}

func parseLabel(s string) (float32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, err
	}
	return float32(v), nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.keys)
}

// Tasks returns the task column names, in label order.
func (t *Table) Tasks() []string {
	return append([]string(nil), t.tasks...)
}

// NumTasks returns the width of every label vector.
func (t *Table) NumTasks() int {
	return len(t.tasks)
}

// Key returns the interval of row i.
func (t *Table) Key(i int) Interval {
	return t.keys[i]
}

// Row returns the label vector of row i. The slice is shared with the
// table and must not be modified.
func (t *Table) Row(i int) []float32 {
	return t.values[i]
}

// Lookup returns the labels of the row keyed by iv.
func (t *Table) Lookup(iv Interval) ([]float32, bool) {
	i, ok := t.byKey[iv]
	if !ok {
		return nil, false
	}
	return t.values[i], true
}

// Select returns a table holding only the named tasks, in the order given.
func (t *Table) Select(tasks []string) (*Table, error) {
	if len(tasks) == 0 {
		return nil, fmt.Errorf("%w: empty task selection", ErrUnknownTask)
	}
	col := make(map[string]int, len(t.tasks))
	for j, name := range t.tasks {
		col[name] = j
	}
	cols := make([]int, len(tasks))
	for k, name := range tasks {
		j, ok := col[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTask, name)
		}
		cols[k] = j
	}

	s := &Table{
		tasks:  append([]string(nil), tasks...),
		keys:   t.keys,
		values: make([][]float32, len(t.values)),
		byKey:  t.byKey,
	}
	for i, row := range t.values {
		s.values[i] = make([]float32, len(cols))
		for k, j := range cols {
			s.values[i][k] = row[j]
		}
	}
	return s, nil
}

// IsPositive reports whether any task label of row i is greater than zero.
func (t *Table) IsPositive(i int) bool {
	for _, v := range t.values[i] {
		if v > 0 {
			return true
		}
	}
	return false
}

// Partition splits the table into rows with at least one positive label and
// all other rows. Row order is preserved within each part.
func (t *Table) Partition() (pos, neg *Table) {
	var posRows, negRows []int
	for i := range t.keys {
		if t.IsPositive(i) {
			posRows = append(posRows, i)
		} else {
			negRows = append(negRows, i)
		}
	}
	return t.subset(posRows), t.subset(negRows)
}

func (t *Table) subset(rows []int) *Table {
	s := &Table{
		tasks:  t.tasks,
		keys:   make([]Interval, len(rows)),
		values: make([][]float32, len(rows)),
		byKey:  make(map[Interval]int, len(rows)),
	}
	for i, r := range rows {
		s.keys[i] = t.keys[r]
		s.values[i] = t.values[r]
		s.byKey[t.keys[r]] = i
	}
	return s
}
