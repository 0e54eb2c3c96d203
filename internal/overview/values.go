package overview

import "github.com/shopspring/decimal"

// Value is one cell of a value row.
type Value struct {
	Amount   decimal.Decimal
	Subtotal bool
	Node     *Node
}

// Summer returns the sum of the expenses booked directly on a category, already
// restricted to whatever window the caller chose.
type Summer interface {
	DirectSum(categoryID string) decimal.Decimal
}

// SummerFunc adapts a plain function to Summer.
type SummerFunc func(categoryID string) decimal.Decimal

// DirectSum calls f.
func (f SummerFunc) DirectSum(categoryID string) decimal.Decimal { return f(categoryID) }

type valueFrame struct {
	node     *Node
	children []*Node
	next     int
	head     int
	heads    []int
	depth    int
}

// BuildValues flattens the subtree under root into value cells in column order.
//
// A leaf yields a single cell with its direct sum. A category with children
// yields its subtotal, then the cells of each child in order, then a trailing
// cell with its own direct sum. The subtotal is the direct sum plus the leading
// cell of every child, which is the child's subtotal or its only leaf value, so
// nothing below is counted twice.
//
// A nil root stands for the whole project: the cells of every root are
// concatenated with no synthetic cell around them.
func BuildValues(t *Tree, root *Node, sums Summer) ([]Value, error) {
	var (
		out   []Value
		stack []*valueFrame
	)

	enter := func(n *Node, depth int) error {
		if depth > MaxDepth {
			return ErrDepthExceeded
		}
		kids := t.Children(n)
		if len(kids) == 0 {
			out = append(out, Value{Amount: sums.DirectSum(n.ID), Node: n})
			return nil
		}
		stack = append(stack, &valueFrame{node: n, children: kids, head: len(out), depth: depth})
		out = append(out, Value{Amount: decimal.Zero, Subtotal: true, Node: n})
		return nil
	}

	if root == nil {
		stack = append(stack, &valueFrame{children: t.Roots(), head: -1})
	} else if err := enter(root, 1); err != nil {
		return nil, err
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.next < len(top.children) {
			child := top.children[top.next]
			top.next++
			top.heads = append(top.heads, len(out))
			if err := enter(child, top.depth+1); err != nil {
				return nil, err
			}
			continue
		}

		stack = stack[:len(stack)-1]
		if top.node == nil {
			continue
		}
		own := sums.DirectSum(top.node.ID)
		total := own
		for _, h := range top.heads {
			total = total.Add(out[h].Amount)
		}
		out[top.head].Amount = total
		out = append(out, Value{Amount: own, Node: top.node})
	}
	return out, nil
}
