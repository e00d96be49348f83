// Copyright 2025 The MaidSafe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eventsender

// Category is the umbrella category for observers listening to both the
// network transport and the routing layer.
type Category int

const (
	// CategoryNetwork indicates a network transport event has been fired.
	CategoryNetwork Category = iota
	// CategoryRouting indicates a routing event has been fired.
	CategoryRouting
)

// String implements the fmt.Stringer interface.
func (c Category) String() string {
	switch c {
	case CategoryNetwork:
		return "network"
	case CategoryRouting:
		return "routing"
	}
	return "unknown"
}

// Observer is the sender type the network and routing layers hand out to
// their subscribers.
type Observer[E any] = EventSender[Category, E]
