// Copyright (c) 2025 Yoichi Hariguchi
// SPDX-License-Identifier: MIT

// Package art provides Allotment Routing Tables (ART) for
// longest-prefix-match lookups on arbitrary-length bit-string keys,
// typically IPv4 /32 and IPv6 /128 prefixes.
//
// ART organizes prefixes as a multi-bit trie whose nodes are complete
// binary heaps of fixed stride: a stride of s bits compacts all
// prefixes of up to s bits into 2*2^s heap slots, so every fringe slot
// already carries its longest matching route and lookup is one indexed
// load per level.
//
// Two table shapes are available:
//
//   - Simple:         one heap per traversed stride level
//   - PathCompressed: heaps only at levels where prefixes diverge or end
//
// The stride plan is chosen at construction time; strides of 1 to 24
// bits per level are supported and must sum up to the address length.
//
// The algorithm of ART was invented by Donald Knuth in 2000 while
// reviewing Yoichi's SMART paper (http://www.hariguchi.org/art/smart.pdf).
//
// Tables are not safe for concurrent use; callers serialize access, an
// external reader/writer lock around the whole table is sufficient.
package art
