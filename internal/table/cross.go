package table

// CrossJoinedTable is the cartesian product of two tables. Row r maps to
// left row r / rightCount and right row r % rightCount, so the right side
// varies fastest.
type CrossJoinedTable struct {
	*JoinedTable
	leftCount  int
	rightCount int

	// rowLists[i] holds parent i's row numbers in enumeration order when
	// that parent does not enumerate plainly as 0..n-1; nil otherwise.
	rowLists [2][]int
}

var _ Composable = (*CrossJoinedTable)(nil)

// NewCrossJoinedTable joins left and right.
func NewCrossJoinedTable(left, right Table) *CrossJoinedTable {
	c := &CrossJoinedTable{
		leftCount:  left.RowCount(),
		rightCount: right.RowCount(),
	}
	c.JoinedTable = newJoinedTable(c, c, []Table{left, right})

	for i, p := range c.parents {
		if !isSimple(p.Enumerate()) {
			c.rowLists[i] = AllRows(p)
		}
	}

	logJoin("cross", c.JoinedTable)
	return c
}

// Left returns the left parent.
func (c *CrossJoinedTable) Left() Table {
	return c.parents[0]
}

// Right returns the right parent.
func (c *CrossJoinedTable) Right() Table {
	return c.parents[1]
}

func (c *CrossJoinedTable) RowCount() int {
	return c.leftCount * c.rightCount
}

func (c *CrossJoinedTable) resolveTableRows(rows []int, table int) ([]int, error) {
	if err := checkRows(c, rows, c.RowCount()); err != nil {
		return nil, err
	}

	out := make([]int, len(rows))
	for i, r := range rows {
		var p int
		if table == 0 {
			p = r / c.rightCount
		} else {
			p = r % c.rightCount
		}
		if list := c.rowLists[table]; list != nil {
			p = list[p]
		}
		out[i] = p
	}
	return out, nil
}
