// Copyright (c) 2025 Yoichi Hariguchi
// SPDX-License-Identifier: MIT

package art

import (
	"bytes"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hariguchi/art/internal/bitstr"
)

// v4Strides is the stride plan used by most tests, chosen so that
// prefix lengths hit the root fringe boundary at /16.
var v4Strides = []int{16, 8, 8}

// mkRoute parses a CIDR string into a route with the CIDR as payload.
func mkRoute(cidr string) *Route[string] {
	pfx := netip.MustParsePrefix(cidr)
	return &Route[string]{
		Dest:  pfx.Addr().AsSlice(),
		PLen:  pfx.Bits(),
		Value: cidr,
	}
}

// addr parses an address into a byte slice.
func addr(s string) []byte {
	return netip.MustParseAddr(s).AsSlice()
}

// mustInsert inserts a fresh route for cidr and fails the test on a
// duplicate.
func mustInsert(t *testing.T, tbl *Table[string], cidr string) *Route[string] {
	t.Helper()
	r := mkRoute(cidr)
	got, ok := tbl.Insert(r)
	require.True(t, ok, "insert %s returned duplicate", cidr)
	require.Same(t, r, got)
	return r
}

// mustDelete removes cidr and fails the test if it was absent.
func mustDelete(t *testing.T, tbl *Table[string], cidr string) *Route[string] {
	t.Helper()
	r := mkRoute(cidr)
	got, ok := tbl.Delete(r.Dest, r.PLen)
	require.True(t, ok, "delete %s found no route", cidr)
	return got
}

// checkInvariants verifies the structural invariants of every node
// reachable from the root, cross-checking the bookkeeping counters
// against a full scan.
func checkInvariants(t *testing.T, tbl *Table[string]) {
	t.Helper()

	var walk func(n *node[string], parent *node[string], parentIdx int)
	walk = func(n *node[string], parent *node[string], parentIdx int) {
		l := n.level
		threshold := n.threshold()

		// the node default covers the whole stride and must be
		// shorter than any prefix native to this node
		if d := n.slots[1].route; d != nil {
			if l == 0 {
				require.Zero(t, d.PLen, "root default with plen %d", d.PLen)
			} else {
				require.LessOrEqual(t, d.PLen, tbl.plan.Levels[l-1].TL,
					"node default longer than the covered stride")
			}
		}

		// scan the slots with the same filter the walks use
		routes, children := 0, 0
		for i := 2; i < threshold; i++ {
			require.Nil(t, n.slots[i].child, "subtable at non-fringe index %d", i)
			if r := n.slots[i].route; r != nil && r.PLen == tbl.plenOfIndex(n, i) {
				routes++
			}
		}
		tl := tbl.plan.Levels[l].TL
		for i := threshold; i < len(n.slots); i++ {
			e := n.slots[i]
			switch {
			case e.child != nil:
				children++
				if d := e.child.slots[1].route; d != nil && d.PLen == tl {
					routes++
				}
			case e.route != nil && e.route.PLen == tl:
				routes++
			}
		}

		if tbl.kind == Simple {
			require.Equal(t, routes+children, n.count,
				"count mismatch at level %d", l)
		} else {
			require.Equal(t, routes, n.nRoutes, "nRoutes mismatch at level %d", l)
			require.Equal(t, children, n.nSubtables, "nSubtables mismatch at level %d", l)

			// the cached prefix of a child agrees with its parent
			// and selects the fringe slot it hangs from
			if parent != nil {
				if parent.level > 0 {
					require.True(t, bitstr.Equal(n.prefix, parent.prefix,
						tbl.plan.Levels[parent.level-1].TL),
						"cached prefix diverges from parent")
				}
				require.Equal(t, parentIdx, tbl.fringeIndexAt(n.prefix, parent.level),
					"cached prefix selects the wrong fringe slot")
			}
		}

		for i := threshold; i < len(n.slots); i++ {
			if c := n.slots[i].child; c != nil {
				require.Greater(t, c.level, n.level)
				require.Less(t, c.level, tbl.levels())
				walk(c, n, i)
			}
		}
	}
	walk(tbl.root, nil, 0)
}

// cloneTable deep-copies the trie structure, sharing the route
// records, so a later state can be compared against a snapshot.
func cloneTable(tbl *Table[string]) *Table[string] {
	var cloneNode func(n *node[string]) *node[string]
	cloneNode = func(n *node[string]) *node[string] {
		c := &node[string]{
			level:      n.level,
			count:      n.count,
			nRoutes:    n.nRoutes,
			nSubtables: n.nSubtables,
			slots:      make([]entry[string], len(n.slots)),
		}
		if n.prefix != nil {
			c.prefix = bytes.Clone(n.prefix)
		}
		copy(c.slots, n.slots)
		for i, e := range c.slots {
			if e.child != nil {
				c.slots[i].child = cloneNode(e.child)
			}
		}
		return c
	}
	return &Table[string]{
		kind: tbl.kind,
		plan: tbl.plan,
		root: cloneNode(tbl.root),
		size: tbl.size,
	}
}

// requireSameShape verifies that two tables are structurally
// identical, route pointers included.
func requireSameShape(t *testing.T, want, got *Table[string]) {
	t.Helper()
	require.Equal(t, want.size, got.size)

	var cmp func(a, b *node[string])
	cmp = func(a, b *node[string]) {
		require.Equal(t, a.level, b.level)
		require.Equal(t, a.count, b.count)
		require.Equal(t, a.nRoutes, b.nRoutes)
		require.Equal(t, a.nSubtables, b.nSubtables)
		require.Equal(t, len(a.slots), len(b.slots))
		require.True(t, bytes.Equal(a.prefix, b.prefix))
		for i := 1; i < len(a.slots); i++ {
			ea, eb := a.slots[i], b.slots[i]
			require.True(t, ea.route == eb.route, "route mismatch at index %d", i)
			require.Equal(t, ea.child == nil, eb.child == nil, "child mismatch at index %d", i)
			if ea.child != nil {
				cmp(ea.child, eb.child)
			}
		}
	}
	cmp(want.root, got.root)
}
