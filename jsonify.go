// Copyright (c) 2025 Yoichi Hariguchi
// SPDX-License-Identifier: MIT

package art

import jsoniter "github.com/json-iterator/go"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DumpEntry is one route of a table dump.
type DumpEntry[V any] struct {
	CIDR  string `json:"cidr"`
	Value V      `json:"value"`
}

// DumpList returns all routes in depth-first walk order, rendered for
// serialization.
func (t *Table[V]) DumpList() []DumpEntry[V] {
	list := make([]DumpEntry[V], 0, t.size)
	t.All()(func(r *Route[V]) bool {
		list = append(list, DumpEntry[V]{CIDR: r.String(), Value: r.Value})
		return true
	})
	return list
}

// MarshalJSON implements json.Marshaler, dumping the table as an array
// of {cidr, value} objects in depth-first walk order.
func (t *Table[V]) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.DumpList())
}
