// Copyright (c) 2025 Yoichi Hariguchi
// SPDX-License-Identifier: MIT

package art

// All returns an iterator over all routes in depth-first order,
// visiting each stored route exactly once. Within a node the indices
// are visited in tree order (1, 2, 4, ... then siblings), skipping the
// allotted copies a route leaves in the slots it covers.
//
// The table must not be modified during the iteration.
func (t *Table[V]) All() func(yield func(*Route[V]) bool) {
	return func(yield func(*Route[V]) bool) {
		if d := t.root.slots[1].route; d != nil {
			if !yield(d) {
				return
			}
		}
		t.walkNode(t.root, 1, yield)
	}
}

// walkNode walks the heap subtree of n below index i, recursing into
// child subtables at the fringe. A slot contributes a route exactly
// when the route's prefix length equals the length the index stands
// for, which filters out the allotted copies.
func (t *Table[V]) walkNode(n *node[V], i int, yield func(*Route[V]) bool) bool {
	threshold := n.threshold()
	if i >= threshold {
		tl := t.plan.Levels[n.level].TL
		e := n.slots[i]
		if e.child != nil {
			// a route pushed down into the child's node default
			// belongs to this fringe
			if d := e.child.slots[1].route; d != nil && d.PLen == tl {
				if !yield(d) {
					return false
				}
			}
			return t.walkNode(e.child, 1, yield)
		}
		if e.route != nil && e.route.PLen == tl {
			return yield(e.route)
		}
		return true
	}

	if i > 1 {
		if r := n.slots[i].route; r != nil && r.PLen == t.plenOfIndex(n, i) {
			if !yield(r) {
				return false
			}
		}
	}
	if !t.walkNode(n, i<<1, yield) {
		return false
	}
	return t.walkNode(n, i<<1|1, yield)
}

// AllBreadthFirst returns an iterator over all routes, processing the
// trie nodes in FIFO order. The slot filter is the same as for All.
//
// The table must not be modified during the iteration.
func (t *Table[V]) AllBreadthFirst() func(yield func(*Route[V]) bool) {
	return func(yield func(*Route[V]) bool) {
		if d := t.root.slots[1].route; d != nil {
			if !yield(d) {
				return
			}
		}

		queue := []*node[V]{t.root}
		for len(queue) > 0 {
			n := queue[0]
			queue = queue[1:]

			threshold := n.threshold()
			for i := 2; i < threshold; i++ {
				r := n.slots[i].route
				if r != nil && r.PLen == t.plenOfIndex(n, i) {
					if !yield(r) {
						return
					}
				}
			}

			tl := t.plan.Levels[n.level].TL
			for i := threshold; i < len(n.slots); i++ {
				e := n.slots[i]
				if e.child != nil {
					if d := e.child.slots[1].route; d != nil && d.PLen == tl {
						if !yield(d) {
							return
						}
					}
					queue = append(queue, e.child)
				} else if e.route != nil && e.route.PLen == tl {
					if !yield(e.route) {
						return
					}
				}
			}
		}
	}
}

// Flush removes all routes from the table, the default route included.
// It walks the trie collecting every (dest, plen) pair first and then
// deletes them one by one, so the node collapse of the path-compressed
// shape never invalidates in-flight iterator state. The flushed table
// is empty and ready for reuse.
func (t *Table[V]) Flush() {
	type ident struct {
		dest []byte
		plen int
	}
	idents := make([]ident, 0, t.size)
	t.All()(func(r *Route[V]) bool {
		idents = append(idents, ident{r.Dest, r.PLen})
		return true
	})
	for _, id := range idents {
		t.Delete(id.dest, id.plen)
	}
}

// Stats describes the shape of a table.
type Stats struct {
	Routes int   // number of routes
	Nodes  int   // number of trie nodes
	Levels []int // number of trie nodes per level
}

// Stats returns the current shape of the table.
func (t *Table[V]) Stats() Stats {
	st := Stats{Routes: t.size, Levels: make([]int, t.levels())}
	var count func(n *node[V])
	count = func(n *node[V]) {
		st.Nodes++
		st.Levels[n.level]++
		for i := n.threshold(); i < len(n.slots); i++ {
			if c := n.slots[i].child; c != nil {
				count(c)
			}
		}
	}
	count(t.root)
	return st
}
