package adapter

import (
	"github.com/edward-ap/functor/internal/bank"
	"github.com/edward-ap/functor/internal/curve"
)

// RowWidth is the number of slot buttons per list row.
const RowWidth = 3

// Slot addresses one preset of a collection.
type Slot struct {
	Mode  curve.Mode
	Index int
}

// Event is the Select trigger fired when the slot is clicked.
func (s Slot) Event() bank.SelectEvent {
	return bank.SelectEvent{Mode: s.Mode, Index: s.Index}
}

// Rows splits n slots into rows of RowWidth. The last row holds the n%RowWidth
// remainder, or a full row when n divides evenly. n <= 0 yields no rows.
func Rows(mode curve.Mode, n int) [][]Slot {
	if n <= 0 {
		return nil
	}
	rows := make([][]Slot, 0, (n+RowWidth-1)/RowWidth)
	for start := 0; start < n; start += RowWidth {
		end := start + RowWidth
		if end > n {
			end = n
		}
		row := make([]Slot, 0, end-start)
		for i := start; i < end; i++ {
			row = append(row, Slot{Mode: mode, Index: i})
		}
		rows = append(rows, row)
	}
	return rows
}

// ListSource is the part of the bank the list adapter reads.
type ListSource interface {
	CollectionLength(mode curve.Mode) int
	SlotName(mode curve.Mode, index int) (string, error)
}

// Entry is a slot together with its current label.
type Entry struct {
	Slot
	Label string
}

// Entries lays out mode's collection and resolves every label. A slot whose
// name lookup fails keeps an empty label.
func Entries(src ListSource, mode curve.Mode) [][]Entry {
	rows := Rows(mode, src.CollectionLength(mode))
	out := make([][]Entry, len(rows))
	for r, row := range rows {
		out[r] = make([]Entry, len(row))
		for c, slot := range row {
			name, _ := src.SlotName(slot.Mode, slot.Index)
			out[r][c] = Entry{Slot: slot, Label: name}
		}
	}
	return out
}
