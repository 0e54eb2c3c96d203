package overview

// LevelCell is one category on a level together with whether anything hangs
// below it.
type LevelCell struct {
	Node        *Node
	HasChildren bool
}

// Level holds every category at one depth, left to right in sibling order.
type Level []LevelCell

// BuildLevels layers the subtree under root by depth. Level 0 is root itself;
// level i+1 concatenates the children of every node on level i in order. A nil
// root stands for the whole project: level 0 is then the project's roots.
//
// Leaves contribute nothing past their own depth, so levels are aligned by
// depth and the deepest leaf decides the number of levels.
func BuildLevels(t *Tree, root *Node) ([]Level, error) {
	var current Level
	if root == nil {
		for _, r := range t.Roots() {
			current = append(current, t.cell(r))
		}
	} else {
		current = Level{t.cell(root)}
	}

	var levels []Level
	for len(current) > 0 {
		if len(levels) == MaxDepth {
			return nil, ErrDepthExceeded
		}
		levels = append(levels, current)

		var next Level
		for _, c := range current {
			for _, child := range t.Children(c.Node) {
				next = append(next, t.cell(child))
			}
		}
		current = next
	}
	return levels, nil
}

// ColumnCount returns how many pivot columns the subtree under n occupies: one
// per category plus one extra per category with children, which carries the
// parent's own amount. A nil n counts the whole project.
func ColumnCount(t *Tree, n *Node) (int, error) {
	levels, err := BuildLevels(t, n)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, level := range levels {
		for _, c := range level {
			count++
			if c.HasChildren {
				count++
			}
		}
	}
	return count, nil
}

func (t *Tree) cell(n *Node) LevelCell {
	return LevelCell{Node: n, HasChildren: t.HasChildren(n)}
}
