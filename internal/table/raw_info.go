package table

import (
	"log/slog"
	"slices"

	dberrors "github.com/leengari/table-algebra/internal/domain/errors"
)

// RawTableItem pairs a root table with row numbers in its own numbering.
type RawTableItem struct {
	Table Composable
	Rows  []int
}

// RawTableInfo records which root tables contribute which rows to a
// composite result. Position k across all items describes one logical
// row, so every item's row list has the same length.
type RawTableInfo struct {
	items []RawTableItem
}

func NewRawTableInfo() *RawTableInfo {
	return &RawTableInfo{}
}

// Add appends one item.
func (r *RawTableInfo) Add(root Composable, rows []int) {
	r.items = append(r.items, RawTableItem{Table: root, Rows: rows})
}

// Items returns the items in insertion order.
func (r *RawTableInfo) Items() []RawTableItem {
	return slices.Clone(r.items)
}

// Tables returns the contributing root tables.
func (r *RawTableInfo) Tables() []Composable {
	out := make([]Composable, len(r.items))
	for i, item := range r.items {
		out[i] = item.Table
	}
	return out
}

// RowsFor returns the row list contributed by root, or false if root is
// not part of this info.
func (r *RawTableInfo) RowsFor(root Table) ([]int, bool) {
	for _, item := range r.items {
		if Table(item.Table) == root {
			return item.Rows, true
		}
	}
	return nil, false
}

// RowCount returns the number of logical rows after checking that all
// row lists agree.
func (r *RawTableInfo) RowCount() (int, error) {
	if len(r.items) == 0 {
		return 0, nil
	}
	size := len(r.items[0].Rows)
	for _, item := range r.items[1:] {
		if len(item.Rows) != size {
			return 0, dberrors.Assertf("raw table info rows differ in length: %d (%s) vs %d (%s)",
				size, tableName(r.items[0].Table), len(item.Rows), tableName(item.Table))
		}
	}
	return size, nil
}

// Union merges two infos over the same root tables, removing duplicate
// row tuples. Both operands must describe the same set of roots.
//
// Tuples are sorted lexicographically and adjacent duplicates dropped,
// so duplicates are found without materializing rows.
func (r *RawTableInfo) Union(other *RawTableInfo) (*RawTableInfo, error) {
	aligned, err := r.align(other)
	if err != nil {
		return nil, err
	}

	size1, err := r.RowCount()
	if err != nil {
		return nil, err
	}
	size2, err := other.RowCount()
	if err != nil {
		return nil, err
	}

	width := len(r.items)
	tuples := make([][]int, size1+size2)
	for i := range size1 {
		t := make([]int, width)
		for c, item := range r.items {
			t[c] = item.Rows[i]
		}
		tuples[i] = t
	}
	for i := range size2 {
		t := make([]int, width)
		for c, item := range aligned {
			t[c] = item.Rows[i]
		}
		tuples[size1+i] = t
	}

	slices.SortFunc(tuples, func(a, b []int) int { return slices.Compare(a, b) })

	kept := tuples[:0]
	for _, t := range tuples {
		if len(kept) > 0 && slices.Equal(kept[len(kept)-1], t) {
			continue
		}
		kept = append(kept, t)
	}

	out := &RawTableInfo{items: make([]RawTableItem, width)}
	for c, item := range r.items {
		rows := make([]int, len(kept))
		for i, t := range kept {
			rows[i] = t[c]
		}
		out.items[c] = RawTableItem{Table: item.Table, Rows: rows}
	}

	slog.Debug("raw table union",
		slog.Int("tables", width),
		slog.Int("left_rows", size1),
		slog.Int("right_rows", size2),
		slog.Int("result_rows", len(kept)))

	return out, nil
}

// align returns other's items in the same root order as r, failing when
// the two do not reference exactly the same root tables. Roots compare by
// identity.
func (r *RawTableInfo) align(other *RawTableInfo) ([]RawTableItem, error) {
	if len(r.items) != len(other.items) {
		return nil, dberrors.Assertf("cannot union raw table info over %d tables with one over %d tables",
			len(r.items), len(other.items))
	}

	aligned := make([]RawTableItem, len(r.items))
	used := make([]bool, len(other.items))
	for c, item := range r.items {
		found := false
		for j, candidate := range other.items {
			if !used[j] && Table(candidate.Table) == Table(item.Table) {
				aligned[c] = candidate
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return nil, dberrors.Assertf("cannot union incompatible tables: %s is missing from the other operand",
				tableName(item.Table))
		}
	}
	return aligned, nil
}
