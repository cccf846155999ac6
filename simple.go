// Copyright (c) 2025 Yoichi Hariguchi
// SPDX-License-Identifier: MIT

package art

import (
	"github.com/hariguchi/art/internal/bitstr"
	"github.com/hariguchi/art/internal/stride"
)

// insert adds s to a simple (dense) trie. Walking down the levels it
// promotes plain fringe slots to subtables until the level of s.PLen
// is reached, then allots s there.
func (t *Table[V]) insert(s *Route[V]) *Route[V] {
	// the default route lives in root[1]
	if s.PLen == 0 {
		if def := t.root.slots[1].route; def != nil {
			return def
		}
		t.root.slots[1].route = s
		t.size++
		return s
	}

	idx := t.plan.BaseIndex(s.Dest, s.PLen)
	cur := stride.NewCursor(s.Dest)
	n := t.root
	acc := t.plan.Levels[0].SL // accumulated address bits
	l := 0
	for {
		if s.PLen <= acc {
			s.level = l
			return t.slotInsert(n, idx, l < t.levels()-1, s)
		}

		i := cur.Fringe(t.plan.Levels[l].SL)
		child := n.slots[i].child
		if child == nil {
			// promote the slot: a route already sitting here
			// becomes the subtable default of the new child
			child = newNode[V](l+1, t.plan.Levels[l+1].SL, n.slots[i].route)
			n.slots[i] = entry[V]{child: child}
			n.count++
		}
		n = child

		l++
		acc += t.plan.Levels[l].SL
	}
}

// erase removes the route (dest, plen) from a simple trie and returns
// it, or nil if absent. Nodes whose count drops to zero are freed
// bottom-up, restoring their node default into the parent fringe slot.
func (t *Table[V]) erase(dest []byte, plen int) *Route[V] {
	if plen == 0 {
		r := t.root.slots[1].route
		if r == nil {
			return nil
		}
		t.root.slots[1].route = nil
		t.size--
		return r
	}

	idx := t.plan.BaseIndex(dest, plen)
	cur := stride.NewCursor(dest)
	n := t.root
	acc := t.plan.Levels[0].SL
	l := 0

	// descent path for the bottom-up collapse
	parents := make([]*node[V], 0, t.levels())
	parentIdx := make([]int, 0, t.levels())

	for {
		if plen <= acc {
			return t.slotErase(n, idx, l, parents, parentIdx, dest, plen)
		}

		i := cur.Fringe(t.plan.Levels[l].SL)
		parents = append(parents, n)
		parentIdx = append(parentIdx, i)

		child := n.slots[i].child
		if child == nil {
			return nil // no route
		}
		n = child

		l++
		acc += t.plan.Levels[l].SL
	}
}

// slotErase deletes the route at base index k of node n at level l.
func (t *Table[V]) slotErase(n *node[V], k, l int,
	parents []*node[V], parentIdx []int, dest []byte, plen int,
) *Route[V] {
	threshold := n.threshold()
	fringeCheck := l < t.levels()-1
	z := n.slots[k]

	var r *Route[V] // route to be deleted
	if fringeCheck && z.child != nil {
		r = z.child.slots[1].route
	} else {
		r = z.route
	}
	if r == nil || r.PLen != plen || !bitstr.Equal(r.Dest, dest, plen) {
		return nil
	}

	t.size--
	save := r
	var s *Route[V] // route to replace r
	if k>>1 > 1 {
		s = n.slots[k>>1].route
	}

	// free nodes emptied by this deletion, bottom-up
	for lv := l; ; lv-- {
		n.count--
		if n.count > 0 || lv == 0 {
			break
		}
		// restore the freed node's default into the parent slot
		r = n.slots[1].route
		parent := parents[lv-1]
		parent.slots[parentIdx[lv-1]] = entry[V]{route: r}
		n = parent
	}
	if r != save {
		return save // the target node was freed, nothing to allot
	}

	switch {
	case k < threshold:
		n.allot(k, r, s, fringeCheck)
	case fringeCheck && z.child != nil:
		z.child.slots[1].route = s
	default:
		n.slots[k].route = s
	}
	return save
}

// lookup performs the longest-prefix match on a simple trie.
func (t *Table[V]) lookup(dest []byte) *Route[V] {
	cur := stride.NewCursor(dest)
	n := t.root
	var def *Route[V] // deepest node default seen on the way down
	for l := 0; l < t.levels(); l++ {
		e := n.slots[cur.Fringe(t.plan.Levels[l].SL)]
		if e.empty() {
			break
		}
		if e.child == nil {
			return e.route
		}
		if l >= t.levels()-1 {
			break
		}
		if r := e.child.slots[1].route; r != nil {
			def = r
		}
		n = e.child
	}

	// no fringe hit, fall back to the best covering route
	if def != nil {
		return def
	}
	return t.root.slots[1].route
}

// get performs the exact match on a simple trie. The covering-route
// chain of a node is a bottom-up path from any fringe slot to index 1,
// so after descending to the target level the candidate is found by
// ascending the heap.
func (t *Table[V]) get(dest []byte, plen int) *Route[V] {
	if plen == 0 {
		return t.root.slots[1].route
	}

	ml := t.plan.PlenToLevel(plen)
	cur := stride.NewCursor(dest)
	n := t.root
	var e entry[V]
	var idx int
	for l := 0; l <= ml; l++ {
		idx = cur.Fringe(t.plan.Levels[l].SL)
		e = n.slots[idx]
		if e.empty() {
			return nil
		}
		if e.child == nil {
			break
		}
		if l == ml {
			// the exact route may be the child's node default
			e = entry[V]{route: e.child.slots[1].route}
			break
		}
		n = e.child
	}

	// ascend the covering-route chain
	for idx > 0 {
		r := e.route
		if r == nil {
			break
		}
		if r.PLen == plen && bitstr.Equal(dest, r.Dest, plen) {
			return r
		}
		idx >>= 1
		e = n.slots[idx]
	}
	return nil
}
