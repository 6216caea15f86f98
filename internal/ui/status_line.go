package ui

import (
	"context"
	"sync"
	"time"

	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/widget"
)

// StatusLine drives a label that shows the editor state ("beat 3 · Test 3")
// and can flash short notices ("Presets saved") that fall back to it after a
// delay. All methods are safe to call from any goroutine.
type StatusLine struct {
	lbl  *widget.Label
	bind binding.String

	mu     sync.Mutex
	base   string
	cancel context.CancelFunc
}

// NewStatusLine binds lbl to a new status line showing base.
func NewStatusLine(lbl *widget.Label, base string) *StatusLine {
	b := binding.NewString()
	lbl.Bind(b)
	_ = b.Set(base)
	return &StatusLine{lbl: lbl, bind: b, base: base}
}

// Text returns what the label currently shows.
func (s *StatusLine) Text() string {
	v, _ := s.bind.Get()
	return v
}

// SetBase replaces the resting text. A running notice keeps showing until it
// expires.
func (s *StatusLine) SetBase(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base = text
	if s.cancel == nil {
		_ = s.bind.Set(text)
	}
}

// Flash shows text for d, then restores the resting text. A newer Flash
// replaces an older one.
func (s *StatusLine) Flash(text string, d time.Duration) {
	ctx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	_ = s.bind.Set(text)
	s.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			return
		case <-time.After(d):
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if ctx.Err() != nil {
			return
		}
		s.cancel = nil
		cancel()
		_ = s.bind.Set(s.base)
	}()
}

// Close cancels a pending restore and leaves the current text.
func (s *StatusLine) Close() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()
}
