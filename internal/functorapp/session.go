package functorapp

import (
	"errors"
	"fmt"
	"os"

	"github.com/edward-ap/functor/internal/bank"
	"github.com/edward-ap/functor/internal/config"
	"github.com/edward-ap/functor/internal/curve"
	"github.com/edward-ap/functor/internal/presetstore"
)

// openBank builds the bank for cfg. A missing preset file silently falls back
// to demo presets; any other load failure also falls back but is returned so
// the caller can tell the user. The cursor is restored from cfg.
func openBank(cfg *config.Config, opts ...bank.Option) (*bank.Bank, error) {
	var (
		b       *bank.Bank
		loadErr error
	)
	s, err := presetstore.Load(cfg.PresetFile)
	switch {
	case err == nil:
		b = s.NewBank(opts...)
	case errors.Is(err, os.ErrNotExist):
		b = bank.NewDemo(cfg.DemoPresets, opts...)
	default:
		loadErr = fmt.Errorf("load presets from %s: %w", cfg.PresetFile, err)
		b = bank.NewDemo(cfg.DemoPresets, opts...)
	}
	b.Select(cfg.LastMode, cfg.LastIndex)
	return b, loadErr
}

// saveSession stores the cursor in cfg and writes both config and presets.
// Both writes are attempted; the first failure is returned.
func saveSession(cfg *config.Config, b *bank.Bank) error {
	cfg.LastMode, cfg.LastIndex = b.Cursor()
	cfgErr := cfg.Save()
	presetErr := presetstore.Save(cfg.PresetFile, presetstore.FromBank(b))
	if cfgErr != nil {
		return fmt.Errorf("save config: %w", cfgErr)
	}
	if presetErr != nil {
		return fmt.Errorf("save presets: %w", presetErr)
	}
	return nil
}

// statusText describes the cursor for the status line, e.g. "gate 3 · Test 3".
// The vol collection is labelled "gate" like its list caption.
func statusText(b *bank.Bank) string {
	mode, idx := b.Cursor()
	name, err := b.SlotName(mode, idx)
	if err != nil {
		return fmt.Sprintf("%s %d · empty slot", caption(mode), idx)
	}
	p, _ := b.Preset(mode, idx)
	return fmt.Sprintf("%s %d · %s · %d nodes", caption(mode), idx, name, p.Curve.Len())
}

// caption is the list caption shown for mode.
func caption(mode curve.Mode) string {
	if mode == curve.Vol {
		return "gate"
	}
	return mode.String()
}
