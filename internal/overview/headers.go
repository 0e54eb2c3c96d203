package overview

// Labels of the synthetic header cells placed around a group of siblings.
const (
	TotalLabel = "Total"
	OtherLabel = "Other"
)

// HeaderCell is one merged cell of the overview header.
type HeaderCell struct {
	Name    string
	ColSpan int
	RowSpan int
	Color   string
	IsTotal bool
	IsOther bool
	// Node is the category the cell describes. For Total and Other cells it is
	// the parent of the sibling group.
	Node *Node
}

// BuildHeaderRows lays out one header row per level.
//
// The first time a child of some parent shows up, a Total cell for that parent
// precedes it. Once every child of the parent has been placed, an Other cell
// follows, standing for the amount booked on the parent itself. Categories with
// children span ColumnCount columns and one row; leaves, Total and Other cells
// span one column and every remaining row.
func BuildHeaderRows(t *Tree, levels []Level) ([][]HeaderCell, error) {
	visited := make(map[string]int)
	rows := make([][]HeaderCell, 0, len(levels))

	for i, level := range levels {
		remaining := len(levels) - i
		row := make([]HeaderCell, 0, len(level))

		for _, cell := range level {
			parent := t.Parent(cell.Node)
			if parent != nil && visited[parent.ID] == 0 {
				row = append(row, HeaderCell{
					Name:    TotalLabel,
					ColSpan: 1,
					RowSpan: remaining,
					Color:   parent.Color,
					IsTotal: true,
					Node:    parent,
				})
			}

			own := HeaderCell{
				Name:    cell.Node.Name,
				ColSpan: 1,
				RowSpan: remaining,
				Color:   cell.Node.Color,
				Node:    cell.Node,
			}
			if cell.HasChildren {
				cols, err := ColumnCount(t, cell.Node)
				if err != nil {
					return nil, err
				}
				own.ColSpan = cols
				own.RowSpan = 1
			}
			row = append(row, own)

			if parent == nil {
				continue
			}
			visited[parent.ID]++
			if visited[parent.ID] == len(t.Children(parent)) {
				row = append(row, HeaderCell{
					Name:    OtherLabel,
					ColSpan: 1,
					RowSpan: remaining,
					Color:   parent.Color,
					IsOther: true,
					Node:    parent,
				})
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// LeafColumns flattens header rows into the cell that owns each column at the
// bottom of the grid, i.e. the cell a value in that column sits under.
func LeafColumns(rows [][]HeaderCell) []HeaderCell {
	if len(rows) == 0 {
		return nil
	}
	width := 0
	for _, c := range rows[0] {
		width += c.ColSpan
	}

	// occupied[col] is the first row index not yet covered by a cell placed in col.
	occupied := make([]int, width)
	columns := make([]HeaderCell, width)
	for r, row := range rows {
		col := 0
		for _, cell := range row {
			for col < width && occupied[col] > r {
				col++
			}
			for k := col; k < col+cell.ColSpan && k < width; k++ {
				occupied[k] = r + cell.RowSpan
				if cell.ColSpan == 1 {
					columns[k] = cell
				}
			}
			col += cell.ColSpan
		}
	}
	return columns
}
