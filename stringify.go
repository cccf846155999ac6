// Copyright (c) 2025 Yoichi Hariguchi
// SPDX-License-Identifier: MIT

package art

import "strings"

// String returns a human readable dump of the table, one route per
// line in depth-first walk order.
func (t *Table[V]) String() string {
	var sb strings.Builder
	t.All()(func(r *Route[V]) bool {
		sb.WriteString(r.String())
		sb.WriteByte('\n')
		return true
	})
	return sb.String()
}
