package table

import (
	"slices"
)

// RowPermutationTable presents an explicit list of its parent's rows, in
// list order. It is the view produced by sorting.
type RowPermutationTable struct {
	*JoinedTable
	rows []int
}

var _ Composable = (*RowPermutationTable)(nil)

// NewRowPermutationTable exposes parent's rows in the given order. rows
// are in the parent's numbering. sortColumn is the column the rows are
// ordered by, or NoSortColumn.
func NewRowPermutationTable(parent Table, rows []int, sortColumn int) (*RowPermutationTable, error) {
	v := &RowPermutationTable{rows: slices.Clone(rows)}
	v.JoinedTable = newJoinedTable(v, v, []Table{parent})
	if err := v.SetSortColumn(sortColumn); err != nil {
		return nil, err
	}
	logJoin("permutation", v.JoinedTable)
	return v, nil
}

// Parent returns the permuted table.
func (v *RowPermutationTable) Parent() Table {
	return v.parents[0]
}

func (v *RowPermutationTable) RowCount() int {
	return len(v.rows)
}

func (v *RowPermutationTable) resolveTableRows(rows []int, table int) ([]int, error) {
	if err := checkRows(v, rows, len(v.rows)); err != nil {
		return nil, err
	}
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = v.rows[r]
	}
	return out, nil
}
