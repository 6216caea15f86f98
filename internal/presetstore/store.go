// Package presetstore loads and saves both preset collections as a single JSON
// document. The bank itself never touches the disk; this package is the
// collaborator the application uses at session start and end.
package presetstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/edward-ap/functor/internal/bank"
	"github.com/edward-ap/functor/internal/curve"
)

// Version is the document version written by Save.
const Version = 1

// ErrUnsupportedVersion is returned for documents newer than this build.
var ErrUnsupportedVersion = errors.New("unsupported preset file version")

// Banks is the persisted form of the two collections.
type Banks struct {
	Version int            `json:"version"`
	Beat    []curve.Preset `json:"beat"`
	Vol     []curve.Preset `json:"vol"`
}

// FromBank snapshots both collections of b.
func FromBank(b *bank.Bank) Banks {
	return Banks{
		Version: Version,
		Beat:    b.Presets(curve.Beat),
		Vol:     b.Presets(curve.Vol),
	}
}

// NewBank builds a bank from the stored collections.
func (s Banks) NewBank(opts ...bank.Option) *bank.Bank {
	return bank.New(s.Beat, s.Vol, opts...)
}

// Load reads the document at path. A missing file is reported with an error
// matching os.ErrNotExist so callers can fall back to demo presets.
func Load(path string) (Banks, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Banks{}, err
	}
	var s Banks
	if err := json.Unmarshal(data, &s); err != nil {
		return Banks{}, fmt.Errorf("preset file parse error: %w", err)
	}
	if s.Version > Version {
		return Banks{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, s.Version)
	}
	if s.Beat == nil {
		s.Beat = []curve.Preset{}
	}
	if s.Vol == nil {
		s.Vol = []curve.Preset{}
	}
	s.Version = Version
	return s, nil
}

// Save atomically writes s to path: the JSON goes to a temp file that is then
// renamed over path.
func Save(path string, s Banks) error {
	if s.Beat == nil {
		s.Beat = []curve.Preset{}
	}
	if s.Vol == nil {
		s.Vol = []curve.Preset{}
	}
	s.Version = Version

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
