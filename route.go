// Copyright (c) 2025 Yoichi Hariguchi
// SPDX-License-Identifier: MIT

package art

import (
	"fmt"
	"net/netip"
)

// Route is one routing table entry with payload V.
//
// A route is identified by (Dest masked to PLen, PLen). Bits of Dest
// beyond PLen are ignored by identity but kept verbatim for the caller.
// The table owns a route from a successful Insert until it is deleted
// or the table is flushed; the caller must not mutate Dest or PLen
// while the route is in a table.
type Route[V any] struct {
	Dest  []byte // destination in network byte order
	PLen  int    // prefix length in bits
	Value V      // opaque payload

	level int // trie level of PLen, cached on insert
}

// String returns the route in CIDR notation. Destinations of 4 and 16
// bytes render as IP prefixes, anything else as hex.
func (r *Route[V]) String() string {
	if addr, ok := netip.AddrFromSlice(r.Dest); ok {
		return netip.PrefixFrom(addr, r.PLen).String()
	}
	return fmt.Sprintf("%x/%d", r.Dest, r.PLen)
}
