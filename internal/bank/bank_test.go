package bank

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/edward-ap/functor/internal/curve"
)

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) Printf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func newTestBank() *Bank {
	beat := curve.TestPresets(12)
	vol := curve.TestPresets(12)
	for i := range vol {
		vol[i].Name = fmt.Sprintf("Gate %d", i)
		vol[i].Curve = curve.NewCurve(curve.Node{X: 1, Y: float32(i) / 12})
	}
	return New(beat, vol)
}

func TestDemoBank(t *testing.T) {
	b := NewDemo(12)
	if got := b.CollectionLength(curve.Beat); got != 12 {
		t.Fatalf("beat length = %d, want 12", got)
	}
	if got := b.CollectionLength(curve.Vol); got != 12 {
		t.Fatalf("vol length = %d, want 12", got)
	}
	name, err := b.SlotName(curve.Beat, 3)
	if err != nil || name != "Test 3" {
		t.Fatalf("SlotName(Beat, 3) = %q, %v; want %q", name, err, "Test 3")
	}
	if mode, idx := b.Cursor(); mode != curve.Beat || idx != 0 {
		t.Fatalf("default cursor = (%s, %d), want (beat, 0)", mode, idx)
	}
}

func TestSelectThenSelectedCurve(t *testing.T) {
	b := newTestBank()
	for _, mode := range curve.Modes() {
		want := b.Presets(mode)
		for i := range want {
			b.Select(mode, i)
			got, err := b.SelectedCurve()
			if err != nil {
				t.Fatalf("SelectedCurve(%s, %d): %v", mode, i, err)
			}
			if !got.Equal(want[i].Curve) {
				t.Fatalf("SelectedCurve(%s, %d) = %+v, want %+v", mode, i, got, want[i].Curve)
			}
		}
	}
}

func TestSelectVolThenSet(t *testing.T) {
	b := newTestBank()
	vol := b.Presets(curve.Vol)

	b.Select(curve.Vol, 5)
	got, err := b.SelectedCurve()
	if err != nil {
		t.Fatalf("SelectedCurve: %v", err)
	}
	if !got.Equal(vol[5].Curve) {
		t.Fatalf("after Select(Vol, 5) curve = %+v, want %+v", got, vol[5].Curve)
	}

	next := curve.Preset{Name: "Chop", Curve: curve.NewCurve(curve.Node{X: 0.25, Y: 1}, curve.Node{X: 0.75, Y: 0})}
	if _, err := b.Set(curve.Vol, 5, next); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err = b.SelectedCurve()
	if err != nil || !got.Equal(next.Curve) {
		t.Fatalf("after Set selected curve = %+v, %v; want %+v", got, err, next.Curve)
	}
	if beat, _ := b.Preset(curve.Beat, 5); beat.Name != "Test 5" {
		t.Fatalf("Set on vol leaked into beat: %q", beat.Name)
	}
}

func TestSetThenSelectReadsBack(t *testing.T) {
	b := newTestBank()
	p := curve.Preset{Name: "", Curve: curve.NewCurve(curve.Node{X: 0.1, Y: 0.9})}
	if _, err := b.Set(curve.Beat, 11, p); err != nil {
		t.Fatalf("Set: %v", err)
	}
	b.Select(curve.Beat, 11)
	got, err := b.SelectedCurve()
	if err != nil || !got.Equal(p.Curve) {
		t.Fatalf("read back %+v, %v; want %+v", got, err, p.Curve)
	}
	if name, _ := b.SlotName(curve.Beat, 11); name != "" {
		t.Fatalf("empty names must be kept, got %q", name)
	}
}

func TestSetOutOfRangeIsIgnored(t *testing.T) {
	log := &recordingLogger{}
	b := New(curve.TestPresets(4), curve.TestPresets(2), WithLogger(log))
	before := b.Presets(curve.Beat)

	for _, idx := range []int{4, 100, -1} {
		ch, err := b.Set(curve.Beat, idx, curve.Preset{Name: "x"})
		if !errors.Is(err, ErrIgnoredMutation) || !errors.Is(err, ErrOutOfRange) {
			t.Fatalf("Set(Beat, %d) error = %v, want ignored + out of range", idx, err)
		}
		if ch != (Change{}) {
			t.Fatalf("ignored Set returned change %+v", ch)
		}
	}
	if got := b.CollectionLength(curve.Beat); got != 4 {
		t.Fatalf("collection grew to %d", got)
	}
	after := b.Presets(curve.Beat)
	for i := range before {
		if before[i].Name != after[i].Name || !before[i].Curve.Equal(after[i].Curve) {
			t.Fatalf("slot %d changed: %+v -> %+v", i, before[i], after[i])
		}
	}
	if len(log.lines) != 3 {
		t.Fatalf("expected 3 log lines, got %d: %v", len(log.lines), log.lines)
	}
}

func TestOutOfRangeQueriesFail(t *testing.T) {
	b := New(curve.TestPresets(3), nil)

	b.Select(curve.Beat, 3)
	if _, err := b.SelectedCurve(); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("SelectedCurve past end error = %v, want ErrOutOfRange", err)
	}
	b.Select(curve.Vol, 0)
	if _, err := b.SelectedCurve(); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("SelectedCurve on empty collection error = %v, want ErrOutOfRange", err)
	}
	if mode, idx := b.Cursor(); mode != curve.Vol || idx != 0 {
		t.Fatalf("Select must store the cursor unchecked, got (%s, %d)", mode, idx)
	}
	if _, err := b.SlotName(curve.Beat, -1); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("SlotName(-1) error = %v", err)
	}
	if _, err := b.SlotName(curve.Mode(9), 0); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("SlotName(unknown mode) error = %v", err)
	}
	if got := b.CollectionLength(curve.Mode(9)); got != 0 {
		t.Fatalf("unknown mode length = %d", got)
	}
}

func TestQueriesReturnCopies(t *testing.T) {
	b := newTestBank()
	c, _ := b.SelectedCurve()
	c.Nodes[1].Y = 42
	again, _ := b.SelectedCurve()
	if again.Nodes[1].Y == 42 {
		t.Fatalf("SelectedCurve exposes internal storage")
	}

	list := b.Presets(curve.Vol)
	list[0].Name = "changed"
	if name, _ := b.SlotName(curve.Vol, 0); name == "changed" {
		t.Fatalf("Presets exposes internal storage")
	}

	p := curve.Preset{Name: "mine", Curve: curve.NewCurve(curve.Node{X: 0.5, Y: 0.5})}
	b.Set(curve.Beat, 0, p)
	p.Curve.Nodes[0].X = 0
	got, _ := b.Preset(curve.Beat, 0)
	if got.Curve.Nodes[0].X != 0.5 {
		t.Fatalf("Set keeps a reference to the caller's nodes")
	}
}

func TestNewCopiesInput(t *testing.T) {
	beat := curve.TestPresets(2)
	b := New(beat, nil)
	beat[1].Curve.Nodes[1].X = 0.99
	got, _ := b.Preset(curve.Beat, 1)
	if got.Curve.Nodes[1].X == 0.99 {
		t.Fatalf("New aliases the caller's slices")
	}
}

func TestApply(t *testing.T) {
	b := newTestBank()

	ch, err := b.Apply(SelectEvent{Mode: curve.Vol, Index: 2})
	if err != nil || ch != (Change{Kind: ChangeSelected, Mode: curve.Vol, Index: 2, Seq: 1}) {
		t.Fatalf("Apply(select) = %+v, %v", ch, err)
	}

	p := curve.Preset{Name: "Applied"}
	ch, err = b.Apply(&SetEvent{Mode: curve.Vol, Index: 2, Preset: p})
	if err != nil || ch.Kind != ChangeUpdated {
		t.Fatalf("Apply(set) = %+v, %v", ch, err)
	}
	if name, _ := b.SlotName(curve.Vol, 2); name != "Applied" {
		t.Fatalf("Apply(set) did not store preset, name %q", name)
	}

	if _, err := b.Apply(SetEvent{Mode: curve.Vol, Index: 99}); !errors.Is(err, ErrIgnoredMutation) {
		t.Fatalf("Apply(set out of range) error = %v", err)
	}
	if _, err := b.Apply(nil); !errors.Is(err, ErrUnknownEvent) {
		t.Fatalf("Apply(nil) error = %v", err)
	}
}

func TestSubscribeNotifications(t *testing.T) {
	b := newTestBank()
	var got []Change
	cancel := b.Subscribe(func(ch Change) {
		// observers re-pull from the bank while being notified
		if ch.Kind == ChangeSelected {
			if _, err := b.SelectedCurve(); err != nil {
				t.Errorf("re-pull during notification: %v", err)
			}
		}
		got = append(got, ch)
	})

	b.Select(curve.Vol, 1)
	b.Set(curve.Beat, 0, curve.Preset{Name: "n"})
	b.Set(curve.Beat, 50, curve.Preset{Name: "ignored"})
	cancel()
	b.Select(curve.Beat, 0)

	want := []Change{
		{Kind: ChangeSelected, Mode: curve.Vol, Index: 1, Seq: 1},
		{Kind: ChangeUpdated, Mode: curve.Beat, Index: 0, Seq: 2},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d notifications %+v, want %+v", len(got), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("notification %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSubscribeOrderAndCancel(t *testing.T) {
	b := newTestBank()
	var order []string
	cancelA := b.Subscribe(func(Change) { order = append(order, "a") })
	b.Subscribe(func(Change) { order = append(order, "b") })
	b.Select(curve.Beat, 1)
	cancelA()
	cancelA()
	b.Select(curve.Beat, 2)

	want := []string{"a", "b", "b"}
	if fmt.Sprint(order) != fmt.Sprint(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	if b.Subscribe(nil) == nil {
		t.Fatalf("Subscribe(nil) should return a usable cancel func")
	}
}

func TestConcurrentAccess(t *testing.T) {
	b := newTestBank()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				b.Select(curve.Mode(j%2), (n+j)%12)
				b.Set(curve.Vol, j%12, curve.Preset{Name: "w"})
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if _, err := b.SelectedCurve(); err != nil {
					t.Errorf("SelectedCurve: %v", err)
					return
				}
				_ = b.CollectionLength(curve.Beat)
			}
		}()
	}
	wg.Wait()
}

func TestUpdateSelected(t *testing.T) {
	log := &recordingLogger{}
	b := New(curve.TestPresets(4), curve.TestPresets(2), WithLogger(log))
	b.Select(curve.Vol, 1)

	var got []Change
	b.Subscribe(func(ch Change) { got = append(got, ch) })

	ch, err := b.UpdateSelected(func(p curve.Preset) (curve.Preset, bool) {
		p.Name = "Edited"
		p.Curve = p.Curve.Insert(curve.Node{X: 0.5, Y: 0.5})
		return p, true
	})
	if err != nil || ch.Kind != ChangeUpdated || ch.Mode != curve.Vol || ch.Index != 1 {
		t.Fatalf("UpdateSelected = %+v, %v", ch, err)
	}
	p, _ := b.Preset(curve.Vol, 1)
	if p.Name != "Edited" || p.Curve.Len() != 3 {
		t.Fatalf("stored preset = %+v", p)
	}

	ch, err = b.UpdateSelected(func(p curve.Preset) (curve.Preset, bool) { return p, false })
	if err != nil || ch != (Change{}) {
		t.Fatalf("declined update = %+v, %v", ch, err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d notifications, want 1", len(got))
	}

	b.Select(curve.Vol, 5)
	called := false
	_, err = b.UpdateSelected(func(p curve.Preset) (curve.Preset, bool) {
		called = true
		return p, true
	})
	if !errors.Is(err, ErrIgnoredMutation) || !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("stale cursor error = %v", err)
	}
	if called {
		t.Fatalf("fn ran for a stale cursor")
	}
	if b.CollectionLength(curve.Vol) != 2 || len(log.lines) != 1 {
		t.Fatalf("length %d, %d log lines", b.CollectionLength(curve.Vol), len(log.lines))
	}
}

func TestUpdateSelectedLosesNoConcurrentWrites(t *testing.T) {
	b := New([]curve.Preset{{Name: "start"}}, nil)

	const editors = 20
	var wg sync.WaitGroup
	for i := 0; i < editors; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_, err := b.UpdateSelected(func(p curve.Preset) (curve.Preset, bool) {
				p.Curve = p.Curve.Insert(curve.Node{X: float32(n) / editors})
				return p, true
			})
			if err != nil {
				t.Errorf("UpdateSelected: %v", err)
			}
		}(i)
		go func() {
			defer wg.Done()
			_ = b.Presets(curve.Beat)
			b.Select(curve.Beat, 0)
		}()
	}
	wg.Wait()

	c, _ := b.SelectedCurve()
	if c.Len() != editors {
		t.Fatalf("curve has %d nodes after %d concurrent edits", c.Len(), editors)
	}
}

func TestUpdateSelectedWaitsForConcurrentSet(t *testing.T) {
	b := New([]curve.Preset{{Name: "v1"}}, nil)
	remote := curve.Preset{Name: "v2", Curve: curve.NewCurve(curve.Node{X: 1, Y: 1})}

	setDone := make(chan struct{})
	_, err := b.UpdateSelected(func(p curve.Preset) (curve.Preset, bool) {
		go func() {
			defer close(setDone)
			if _, err := b.Set(curve.Beat, 0, remote); err != nil {
				t.Errorf("Set: %v", err)
			}
		}()
		select {
		case <-setDone:
			t.Errorf("Set completed between read and write of an update")
		case <-time.After(20 * time.Millisecond):
		}
		p.Name = "v1 edited"
		return p, true
	})
	if err != nil {
		t.Fatalf("UpdateSelected: %v", err)
	}
	<-setDone

	got, _ := b.Preset(curve.Beat, 0)
	if got.Name != "v2" {
		t.Fatalf("slot = %q, want the later Set to win", got.Name)
	}
}

func TestChangeSeqOrdersConcurrentMutations(t *testing.T) {
	b := newTestBank()
	var (
		mu   sync.Mutex
		last Change
	)
	b.Subscribe(func(ch Change) {
		if ch.Kind != ChangeSelected {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if ch.Seq > last.Seq {
			last = ch
		}
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				b.Select(curve.Mode(j%2), (n*50+j)%12)
				b.Set(curve.Beat, j%12, curve.Preset{Name: "w"})
			}
		}(i)
	}
	wg.Wait()

	mode, idx, seq := b.CursorSeq()
	if seq != 8*50*2 {
		t.Fatalf("seq = %d, want %d", seq, 8*50*2)
	}
	if last.Mode != mode || last.Index != idx {
		t.Fatalf("highest-seq selection = (%s, %d), cursor = (%s, %d)", last.Mode, last.Index, mode, idx)
	}
}

func TestChangeKindText(t *testing.T) {
	for _, k := range []ChangeKind{ChangeSelected, ChangeUpdated} {
		b, _ := k.MarshalText()
		var back ChangeKind
		if err := back.UnmarshalText(b); err != nil || back != k {
			t.Fatalf("round trip of %s = %v, %v", k, back, err)
		}
	}
	var k ChangeKind
	if err := k.UnmarshalText([]byte("deleted")); err == nil {
		t.Fatalf("unknown kind should fail")
	}
}
