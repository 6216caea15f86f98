// Package bank owns the two preset collections of the editor together with the
// selection cursor, and applies the Select/Set protocol that keeps list views,
// the curve view and the remote surface consistent.
package bank

import (
	"errors"
	"fmt"
	"sync"

	"github.com/edward-ap/functor/internal/curve"
)

var (
	// ErrOutOfRange is returned when a query or mutation addresses a slot beyond
	// the current length of its collection.
	ErrOutOfRange = errors.New("preset slot out of range")
	// ErrIgnoredMutation marks a Set that changed nothing.
	ErrIgnoredMutation = errors.New("preset mutation ignored")
	// ErrUnknownEvent is returned by Apply for event types it does not handle.
	ErrUnknownEvent = errors.New("unknown preset event")
)

// Logger is the small logging interface used for non-fatal conditions.
type Logger interface {
	Printf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// Option configures a Bank.
type Option func(*Bank)

// WithLogger routes ignored mutations to log.
func WithLogger(log Logger) Option {
	return func(b *Bank) {
		if log != nil {
			b.log = log
		}
	}
}

// Bank holds the beat and volume presets and the (mode, index) cursor. Select
// and Set are its only mutations; UpdateSelected is a Set computed from the
// slot's current value. All methods are safe for concurrent use.
type Bank struct {
	mu    sync.RWMutex
	beat  []curve.Preset
	vol   []curve.Preset
	mode  curve.Mode
	index int
	seq   uint64

	subMu   sync.Mutex
	subs    []subscriber
	nextSub uint64

	log Logger
}

type subscriber struct {
	id uint64
	fn func(Change)
}

// New builds a bank from deep copies of beat and vol. The cursor starts at
// (Beat, 0).
func New(beat, vol []curve.Preset, opts ...Option) *Bank {
	b := &Bank{
		beat: curve.ClonePresets(beat),
		vol:  curve.ClonePresets(vol),
		mode: curve.Beat,
		log:  nopLogger{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewDemo builds a bank holding n demo presets in each collection.
func NewDemo(n int, opts ...Option) *Bank {
	return New(curve.TestPresets(n), curve.TestPresets(n), opts...)
}

// collection returns the slice backing mode. Unknown modes have no slots.
// Callers must hold b.mu.
func (b *Bank) collection(mode curve.Mode) []curve.Preset {
	switch mode {
	case curve.Beat:
		return b.beat
	case curve.Vol:
		return b.vol
	}
	return nil
}

func rangeError(mode curve.Mode, index, n int) error {
	return fmt.Errorf("%w: %s[%d] with %d presets", ErrOutOfRange, mode, index, n)
}

// slot returns a pointer to the preset at (mode, index). Callers must hold b.mu.
func (b *Bank) slot(mode curve.Mode, index int) (*curve.Preset, error) {
	list := b.collection(mode)
	if index < 0 || index >= len(list) {
		return nil, rangeError(mode, index, len(list))
	}
	return &list[index], nil
}

// Cursor reports the current selection.
func (b *Bank) Cursor() (curve.Mode, int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.mode, b.index
}

// CursorSeq reports the current selection together with the Seq of the last
// applied mutation, read under one lock.
func (b *Bank) CursorSeq() (curve.Mode, int, uint64) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.mode, b.index, b.seq
}

// CollectionLength reports how many presets mode holds.
func (b *Bank) CollectionLength(mode curve.Mode) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.collection(mode))
}

// Preset returns a copy of the preset at (mode, index).
func (b *Bank) Preset(mode curve.Mode, index int) (curve.Preset, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	p, err := b.slot(mode, index)
	if err != nil {
		return curve.Preset{}, err
	}
	return p.Clone(), nil
}

// SlotName returns the display name of the preset at (mode, index).
func (b *Bank) SlotName(mode curve.Mode, index int) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	p, err := b.slot(mode, index)
	if err != nil {
		return "", err
	}
	return p.Name, nil
}

// SelectedPreset returns a copy of the preset under the cursor. A cursor that
// points past the end of its collection yields ErrOutOfRange, never a default.
func (b *Bank) SelectedPreset() (curve.Preset, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	p, err := b.slot(b.mode, b.index)
	if err != nil {
		return curve.Preset{}, fmt.Errorf("selected preset: %w", err)
	}
	return p.Clone(), nil
}

// SelectedCurve returns a copy of the curve under the cursor.
func (b *Bank) SelectedCurve() (curve.Curve, error) {
	p, err := b.SelectedPreset()
	if err != nil {
		return curve.Curve{}, err
	}
	return p.Curve, nil
}

// Presets returns a deep copy of the whole collection for mode.
func (b *Bank) Presets(mode curve.Mode) []curve.Preset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return curve.ClonePresets(b.collection(mode))
}

// Select moves the cursor to (mode, index). It never fails: the index is not
// checked against the collection, later queries report ErrOutOfRange instead.
func (b *Bank) Select(mode curve.Mode, index int) Change {
	b.mu.Lock()
	b.mode = mode
	b.index = index
	b.seq++
	ch := Change{Kind: ChangeSelected, Mode: mode, Index: index, Seq: b.seq}
	b.mu.Unlock()

	b.publish(ch)
	return ch
}

// Set replaces the preset at (mode, index) with a copy of p. Out-of-range slots
// are left alone: the collection does not grow and the returned error wraps
// both ErrIgnoredMutation and ErrOutOfRange.
func (b *Bank) Set(mode curve.Mode, index int, p curve.Preset) (Change, error) {
	b.mu.Lock()
	slot, err := b.slot(mode, index)
	if err != nil {
		b.mu.Unlock()
		b.log.Printf("bank: ignored set of %s[%d]: %v", mode, index, err)
		return Change{}, fmt.Errorf("%w: %w", ErrIgnoredMutation, err)
	}
	*slot = p.Clone()
	b.seq++
	ch := Change{Kind: ChangeUpdated, Mode: mode, Index: index, Seq: b.seq}
	b.mu.Unlock()

	b.publish(ch)
	return ch, nil
}

// UpdateSelected is a Set of the selected slot whose new value is computed by
// fn from the current one. The cursor lookup, fn and the write happen under
// one lock, so a concurrent Set cannot slip in between read and write. fn gets
// a copy, must not call back into the bank and reports false to leave the slot
// untouched, in which case no Change is published and the zero Change is
// returned. A stale cursor yields an error wrapping ErrIgnoredMutation and
// ErrOutOfRange.
func (b *Bank) UpdateSelected(fn func(curve.Preset) (curve.Preset, bool)) (Change, error) {
	b.mu.Lock()
	mode, index := b.mode, b.index
	slot, err := b.slot(mode, index)
	if err != nil {
		b.mu.Unlock()
		b.log.Printf("bank: ignored update of %s[%d]: %v", mode, index, err)
		return Change{}, fmt.Errorf("%w: selected preset: %w", ErrIgnoredMutation, err)
	}
	p, ok := fn(slot.Clone())
	if !ok {
		b.mu.Unlock()
		return Change{}, nil
	}
	*slot = p.Clone()
	b.seq++
	ch := Change{Kind: ChangeUpdated, Mode: mode, Index: index, Seq: b.seq}
	b.mu.Unlock()

	b.publish(ch)
	return ch, nil
}

// Apply dispatches an inbound UI event to Select or Set.
func (b *Bank) Apply(ev Event) (Change, error) {
	switch e := ev.(type) {
	case SelectEvent:
		return b.Select(e.Mode, e.Index), nil
	case *SelectEvent:
		return b.Select(e.Mode, e.Index), nil
	case SetEvent:
		return b.Set(e.Mode, e.Index, e.Preset)
	case *SetEvent:
		return b.Set(e.Mode, e.Index, e.Preset)
	}
	return Change{}, fmt.Errorf("%w: %T", ErrUnknownEvent, ev)
}
