// Copyright 2025 The MaidSafe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package eventsender implements event subsetting for a single consuming
// goroutine.
//
// A module that observes several other modules would otherwise need one
// shared event type covering every producer, which lets producers fire
// events that were never meant to originate from them. An EventSender bakes
// the producer's event subset and its umbrella category together: producers
// can only fire events from their own subset, while the consumer selects on
// a single category channel and drains the matching subset channel. One
// goroutine serves any number of producers without polling.
package eventsender

import (
	"errors"
	"fmt"
)

// ErrShutdown is wrapped by Send failures observed after the consumer has
// signalled shutdown.
var ErrShutdown = errors.New("event consumer has shut down")

// Leg identifies which half of a send failed.
type Leg int

const (
	// LegEvent means the event did not reach the subset channel.
	LegEvent Leg = iota
	// LegCategory means the event was delivered but the category
	// notification was not.
	LegCategory
)

// String implements the fmt.Stringer interface.
func (l Leg) String() string {
	if l == LegEvent {
		return "event"
	}
	return "category"
}

// SendError reports a failed Send. When Leg is LegEvent the undelivered
// event is retained in Event.
type SendError[E any] struct {
	Leg   Leg
	Event E
}

// Error implements the error interface.
func (e *SendError[E]) Error() string {
	return fmt.Sprintf("send on %s leg failed: %s", e.Leg, ErrShutdown)
}

// Unwrap lets errors.Is match ErrShutdown.
func (e *SendError[E]) Unwrap() error { return ErrShutdown }

// EventSender couples a typed event channel with its umbrella category.
// Values are cheap to copy; copies share the underlying channels.
type EventSender[C, E any] struct {
	events     chan<- E
	category   C
	categories chan<- C
	done       <-chan struct{}
}

// New creates an EventSender firing events on the given subset channel and
// announcing them with the fixed category value on the shared category
// channel. Closing done invalidates the sender; Send then fails instead of
// blocking.
func New[C, E any](events chan<- E, category C, categories chan<- C, done <-chan struct{}) EventSender[C, E] {
	return EventSender[C, E]{
		events:     events,
		category:   category,
		categories: categories,
		done:       done,
	}
}

// Send fires the event to the subset channel and then announces its
// category. The category announcement never precedes the event delivery,
// so a consumer drained by category always finds the event waiting.
func (s EventSender[C, E]) Send(event E) error {
	select {
	case s.events <- event:
	case <-s.done:
		return &SendError[E]{Leg: LegEvent, Event: event}
	}
	select {
	case s.categories <- s.category:
	case <-s.done:
		return &SendError[E]{Leg: LegCategory}
	}
	return nil
}

// Category returns the umbrella category baked into the sender.
func (s EventSender[C, E]) Category() C { return s.category }
