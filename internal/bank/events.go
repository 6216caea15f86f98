package bank

import (
	"fmt"

	"github.com/edward-ap/functor/internal/curve"
)

// Event is an inbound request from a widget or the remote surface.
type Event interface {
	isEvent()
}

// SelectEvent moves the selection cursor.
type SelectEvent struct {
	Mode  curve.Mode
	Index int
}

// SetEvent replaces a preset slot.
type SetEvent struct {
	Mode   curve.Mode
	Index  int
	Preset curve.Preset
}

func (SelectEvent) isEvent() {}
func (SetEvent) isEvent()    {}

// ChangeKind tells subscribers what a mutation touched.
type ChangeKind int

const (
	// ChangeSelected means the cursor moved; slot data is untouched.
	ChangeSelected ChangeKind = iota + 1
	// ChangeUpdated means the preset at (Mode, Index) was replaced.
	ChangeUpdated
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeSelected:
		return "selected"
	case ChangeUpdated:
		return "updated"
	default:
		return fmt.Sprintf("change(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k ChangeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ChangeKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "selected":
		*k = ChangeSelected
	case "updated":
		*k = ChangeUpdated
	default:
		return fmt.Errorf("unknown change kind %q", b)
	}
	return nil
}

// Change is the notification published after every successful mutation.
// It carries no preset data: observers re-read the bank through its queries.
//
// Seq numbers mutations in the order they were applied, starting at 1.
// Mutations on different goroutines may be delivered out of that order, so an
// observer that tracks state from notifications alone keeps the highest Seq
// it has seen and ignores older ones.
type Change struct {
	Kind  ChangeKind `json:"kind"`
	Mode  curve.Mode `json:"mode"`
	Index int        `json:"index"`
	Seq   uint64     `json:"seq"`
}

// Subscribe registers fn for every Change. fn runs synchronously on the
// goroutine that performed the mutation, after the bank lock is released, so it
// may call back into the bank. Concurrent mutations are not serialized against
// each other's delivery; see Change.Seq. The returned function removes the subscription.
func (b *Bank) Subscribe(fn func(Change)) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	b.subMu.Lock()
	b.nextSub++
	id := b.nextSub
	b.subs = append(b.subs, subscriber{id: id, fn: fn})
	b.subMu.Unlock()

	return func() {
		b.subMu.Lock()
		defer b.subMu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

func (b *Bank) publish(ch Change) {
	b.subMu.Lock()
	subs := make([]subscriber, len(b.subs))
	copy(subs, b.subs)
	b.subMu.Unlock()

	for _, s := range subs {
		s.fn(ch)
	}
}
