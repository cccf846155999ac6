// Copyright (c) 2025 Yoichi Hariguchi
// SPDX-License-Identifier: MIT

package art

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var walkCIDRs = []string{
	"0.0.0.0/0",
	"10.0.0.0/8",
	"10.0.0.0/16",
	"10.0.0.0/24",
	"10.0.5.0/24",
	"10.0.5.128/25",
	"10.0.5.77/32",
	"172.16.0.0/12",
	"172.16.0.0/16",
	"192.168.1.0/24",
	"192.168.1.128/25",
	"255.255.255.255/32",
}

// collect drains an iterator, failing on duplicate visits.
func collect(t *testing.T, it func(yield func(*Route[string]) bool)) map[*Route[string]]bool {
	t.Helper()
	seen := map[*Route[string]]bool{}
	it(func(r *Route[string]) bool {
		require.False(t, seen[r], "route %s visited twice", r)
		seen[r] = true
		return true
	})
	return seen
}

func TestWalkVisitsEveryRouteOnce(t *testing.T) {
	kinds(t, func(t *testing.T, kind Kind) {
		tbl := New[string](kind, v4Strides, 32)
		want := map[*Route[string]]bool{}
		for _, cidr := range walkCIDRs {
			want[mustInsert(t, tbl, cidr)] = true
		}

		// depth-first and breadth-first visit the same set: every
		// stored route exactly once, allotted copies skipped, the
		// table default included
		require.Equal(t, want, collect(t, tbl.All()))
		require.Equal(t, want, collect(t, tbl.AllBreadthFirst()))
	})
}

func TestWalkEarlyExit(t *testing.T) {
	kinds(t, func(t *testing.T, kind Kind) {
		tbl := New[string](kind, v4Strides, 32)
		for _, cidr := range walkCIDRs {
			mustInsert(t, tbl, cidr)
		}

		for _, it := range []func(func(*Route[string]) bool){
			tbl.All(), tbl.AllBreadthFirst(),
		} {
			n := 0
			it(func(r *Route[string]) bool {
				n++
				return n < 3
			})
			require.Equal(t, 3, n)
		}
	})
}

func TestFlush(t *testing.T) {
	kinds(t, func(t *testing.T, kind Kind) {
		tbl := New[string](kind, v4Strides, 32)
		for _, cidr := range walkCIDRs {
			mustInsert(t, tbl, cidr)
		}

		tbl.Flush()

		require.Zero(t, tbl.Size())
		require.Equal(t, 1, tbl.Stats().Nodes, "flush left nodes behind")
		checkInvariants(t, tbl)

		_, ok := tbl.Lookup(addr("10.0.5.77"))
		require.False(t, ok)

		// a flushed table is ready for reuse
		r := mustInsert(t, tbl, "10.0.0.0/8")
		got, _ := tbl.Lookup(addr("10.1.2.3"))
		require.Same(t, r, got)
	})
}

func TestStats(t *testing.T) {
	t.Parallel()

	tbl := New[string](Simple, v4Strides, 32)
	require.Equal(t, Stats{Routes: 0, Nodes: 1, Levels: []int{1, 0, 0}}, tbl.Stats())

	mustInsert(t, tbl, "10.0.0.0/8")
	mustInsert(t, tbl, "10.0.0.0/24")
	mustInsert(t, tbl, "10.0.5.77/32")
	require.Equal(t, Stats{Routes: 3, Nodes: 3, Levels: []int{1, 1, 1}}, tbl.Stats())
}

func TestStringify(t *testing.T) {
	t.Parallel()

	tbl := New[string](PathCompressed, v4Strides, 32)
	mustInsert(t, tbl, "10.0.0.0/8")
	mustInsert(t, tbl, "0.0.0.0/0")

	require.Equal(t, "0.0.0.0/0\n10.0.0.0/8\n", tbl.String())
}

func TestJsonify(t *testing.T) {
	t.Parallel()

	tbl := New[string](Simple, v4Strides, 32)
	mustInsert(t, tbl, "0.0.0.0/0")
	mustInsert(t, tbl, "192.168.1.0/24")

	out, err := tbl.MarshalJSON()
	require.NoError(t, err)
	require.JSONEq(t,
		`[{"cidr":"0.0.0.0/0","value":"0.0.0.0/0"},
		  {"cidr":"192.168.1.0/24","value":"192.168.1.0/24"}]`,
		string(out))
}
