// Copyright (c) 2025 Yoichi Hariguchi
// SPDX-License-Identifier: MIT

package art

import (
	"math/bits"

	"github.com/hariguchi/art/internal/bitstr"
	"github.com/hariguchi/art/internal/stride"
)

// newNodePC allocates a path-compressed trie node and caches the
// address bits of the canonical prefix reaching it, truncated to
// TL[level-1] bits. Every child node's cached prefix matches its
// parent's on the parent's total stride length.
func (t *Table[V]) newNodePC(level int, def *Route[V], dest []byte) *node[V] {
	n := newNode[V](level, t.plan.Levels[level].SL, def)
	n.prefix = make([]byte, t.plan.Bytes)
	if level > 0 {
		bitstr.Copy(n.prefix, dest, t.plan.Levels[level-1].TL)
	}
	return n
}

// firstDiffLevel returns the trie level containing the first bit on
// which p1 and p2 differ, given the byte index where a bit-string
// comparison stopped.
func (t *Table[V]) firstDiffLevel(byteIdx int, p1, p2 []byte) int {
	bit := byteIdx<<3 + bits.LeadingZeros8(p1[byteIdx]^p2[byteIdx])
	for l := range t.plan.Levels {
		if t.plan.Levels[l].TL > bit {
			return l
		}
	}
	panic("art: firstDiffLevel: identical prefixes")
}

// fringeIndexAt extracts the fringe index of dest for the given level.
func (t *Table[V]) fringeIndexAt(dest []byte, level int) int {
	cur := stride.NewCursor(dest)
	cur.Seek(t.plan, level)
	return cur.Fringe(t.plan.Levels[level].SL)
}

// insertPC adds s to a path-compressed trie. Nodes exist only at
// levels where two prefixes diverge or a prefix ends, so the descent
// compares the cached prefix of every child node against s.Dest and
// interposes new nodes at divergence points.
func (t *Table[V]) insertPC(s *Route[V]) *Route[V] {
	s.level = t.plan.PlenToLevel(s.PLen)

	if s.PLen == 0 {
		if def := t.root.slots[1].route; def != nil {
			return def
		}
		t.root.slots[1].route = s
		t.size++
		return s
	}

	idx := t.plan.BaseIndex(s.Dest, s.PLen)
	n := t.root
	for l := 0; l < t.levels(); {
		i := t.fringeIndexAt(s.Dest, l)
		e := n.slots[i]

		if s.level > 0 && e.child != nil {
			c := e.child
			l = c.level

			// compare the child's cached prefix against s.Dest
			// over the bits both prefixes must share
			endBit := t.plan.Levels[l-1].TL - 1
			if s.level < l {
				endBit = t.plan.Levels[s.level-1].TL - 1
			}
			cmp, stop := bitstr.BitStrCmp(c.prefix, s.Dest, 0, endBit)

			var nl int
			if cmp == 0 {
				switch {
				case s.level > l:
					n = c
					continue
				case s.level < l:
					nl = s.level // a shorter node must appear above c
				default:
					return t.slotInsert(c, idx, l < t.levels()-1, s)
				}
			} else {
				nl = t.firstDiffLevel(stop, c.prefix, s.Dest)
			}
			if nl < l {
				return t.insertNewSubtable(n, i, nl, idx, s)
			}
			// divergence within the child's own stride
			n = c
			continue
		}

		nl := s.level
		if nl == l {
			return t.slotInsert(n, idx, l < t.levels()-1, s)
		}
		// the prefix ends below this node, add a new subtable
		return t.insertNewSubtable(n, i, nl, idx, s)
	}
	panic("art: insertPC: ran out of levels")
}

// insertNewSubtable interposes new node(s) at the fringe slot slotIdx
// of n and allots s there.
//
// If the slot holds a child c, a node nst2 at the divergence level is
// placed between n and c: c's node default moves up into nst2, c is
// linked from the nst2 fringe slot matching its cached prefix, and, if
// s terminates deeper than the divergence, a second node for s is
// linked from the slot matching s.Dest. Otherwise the slot is promoted
// to a single new node inheriting the slot's route as node default.
func (t *Table[V]) insertNewSubtable(n *node[V], slotIdx, level, baseIdx int, s *Route[V]) *Route[V] {
	l := s.level
	e := n.slots[slotIdx]

	var nst *node[V] // the node s is allotted in
	if c := e.child; c != nil {
		nst2 := t.newNodePC(level, nil, s.Dest)
		if l == level {
			nst = nst2
		} else {
			nst = t.newNodePC(l, nil, s.Dest)
			i := t.fringeIndexAt(s.Dest, level)
			nst2.slots[i] = entry[V]{child: nst}
			nst2.nSubtables++
		}

		// hook the displaced child below nst2; the covering
		// default transfers to the new higher node
		i := t.fringeIndexAt(c.prefix, level)
		nst2.slots[1].route = c.slots[1].route
		c.slots[1].route = nil
		n.slots[slotIdx] = entry[V]{child: nst2}
		nst2.slots[i] = entry[V]{child: c}
		nst2.nSubtables++
	} else {
		nst = t.newNodePC(level, e.route, s.Dest)
		n.slots[slotIdx] = entry[V]{child: nst}
		n.nSubtables++
	}

	return t.slotInsert(nst, baseIdx, l < t.levels()-1, s)
}

// pcStep records one step of a delete descent.
type pcStep[V any] struct {
	n   *node[V]
	idx int
}

// erasePC removes the route (dest, plen) from a path-compressed trie.
func (t *Table[V]) erasePC(dest []byte, plen int) *Route[V] {
	if plen == 0 {
		r := t.root.slots[1].route
		if r == nil {
			return nil
		}
		t.root.slots[1].route = nil
		t.size--
		return r
	}

	ml := t.plan.PlenToLevel(plen)
	steps := make([]pcStep[V], 0, t.levels())
	n := t.root
	var pushed *Route[V] // the route if it lives in a child's node default

	for l := n.level; l <= ml; l = n.level {
		i := t.fringeIndexAt(dest, l)
		steps = append(steps, pcStep[V]{n, i})
		e := n.slots[i]
		if e.child == nil {
			if l < ml {
				return nil // no route
			}
			return t.pcErase(steps, nil, l, dest, plen)
		}
		c := e.child
		if d := c.slots[1].route; d != nil {
			if d.PLen == plen {
				pushed = d
			}
			if l == ml {
				return t.pcErase(steps, pushed, l, dest, plen)
			}
		}
		n = c
	}
	return nil
}

// pcErase deletes the route at the node recorded by the last step and
// collapses single-child chains on the way back up: a node with no
// local routes and at most one child is removed, handing its node
// default down to the sole child or back to the grandparent slot.
func (t *Table[V]) pcErase(steps []pcStep[V], pushed *Route[V], l int, dest []byte, plen int) *Route[V] {
	top := len(steps) - 1
	n := steps[top].n
	k := t.plan.BaseIndex(dest, plen)
	threshold := n.threshold()
	fringeCheck := l < t.levels()-1
	z := n.slots[k]

	r := pushed // route to be deleted
	if r == nil {
		r = z.route
	}
	if r == nil || r.PLen != plen || !bitstr.Equal(r.Dest, dest, plen) {
		return nil
	}

	t.size--
	n.nRoutes--
	save := r
	var s *Route[V] // route to replace r
	if k>>1 > 1 {
		s = n.slots[k>>1].route
	}

	for top > 0 {
		if n.nRoutes > 0 || n.nSubtables > 1 {
			break
		}
		if n.nSubtables == 1 {
			// connect the sole child to the grandparent slot,
			// keeping the covering default at the deeper level
			c := findChild(n)
			c.slots[1].route = n.slots[1].route
			top--
			steps[top].n.slots[steps[top].idx] = entry[V]{child: c}
		} else {
			top--
			steps[top].n.slots[steps[top].idx] = entry[V]{route: n.slots[1].route}
			steps[top].n.nSubtables--
		}
		r = n.slots[1].route
		n = steps[top].n
	}

	if r == save {
		switch {
		case k < threshold:
			n.allot(k, r, s, fringeCheck)
		case fringeCheck && z.child != nil:
			z.child.slots[1].route = s
		default:
			n.slots[k].route = s
		}
	}
	return save
}

// lookupPC performs the longest-prefix match on a path-compressed
// trie. Because nodes do not exist for elided levels, a slot may refer
// to a route whose prefix diverges from dest in a skipped stride, so
// every candidate is verified before it is accepted; the node defaults
// seen on the way down serve as fallbacks, deepest first.
func (t *Table[V]) lookupPC(dest []byte) *Route[V] {
	n := t.root
	ml := t.levels() - 1
	defs := make([]*Route[V], 0, t.levels())

	for l := n.level; l <= ml; l = n.level {
		e := n.slots[t.fringeIndexAt(dest, l)]
		if e.empty() {
			break
		}
		if e.child == nil {
			if bitstr.Equal(dest, e.route.Dest, e.route.PLen) {
				return e.route
			}
			break
		}
		n = e.child
		if d := n.slots[1].route; d != nil {
			defs = append(defs, d)
		}
	}

	for i := len(defs) - 1; i >= 0; i-- {
		if bitstr.Equal(dest, defs[i].Dest, defs[i].PLen) {
			return defs[i]
		}
	}
	return t.root.slots[1].route
}

// getPC performs the exact match on a path-compressed trie.
func (t *Table[V]) getPC(dest []byte, plen int) *Route[V] {
	if plen == 0 {
		return t.root.slots[1].route
	}

	ml := t.plan.PlenToLevel(plen)
	n := t.root
	for {
		l := n.level
		if l > ml {
			// compressed past the target level: the only
			// candidate is this node's default
			d := n.slots[1].route
			if d != nil && d.PLen == plen && bitstr.Equal(dest, d.Dest, plen) {
				return d
			}
			return nil
		}

		idx := t.fringeIndexAt(dest, l)
		e := n.slots[idx]
		if e.empty() {
			return nil
		}
		if e.child != nil {
			if l < ml {
				n = e.child
				continue
			}
			// target level: the route may be the child's default
			e = entry[V]{route: e.child.slots[1].route}
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
}
