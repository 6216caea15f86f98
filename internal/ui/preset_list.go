package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/edward-ap/functor/internal/adapter"
	"github.com/edward-ap/functor/internal/bank"
	"github.com/edward-ap/functor/internal/curve"
)

// PresetList shows one collection as rows of adapter.RowWidth buttons. A tap
// selects that slot; the selected slot is highlighted.
type PresetList struct {
	widget.BaseWidget

	bank *bank.Bank
	mode curve.Mode

	rows    *fyne.Container
	buttons []*widget.Button

	cancel func()
}

// NewPresetList builds the list for mode and keeps it in sync with b.
func NewPresetList(b *bank.Bank, mode curve.Mode) *PresetList {
	l := &PresetList{
		bank: b,
		mode: mode,
		rows: container.NewVBox(),
	}
	l.ExtendBaseWidget(l)
	l.sync()
	l.cancel = b.Subscribe(func(ch bank.Change) {
		// Selection moves touch both lists; updates only the owning one.
		if ch.Kind == bank.ChangeUpdated && ch.Mode != l.mode {
			return
		}
		CallOnMain(l.sync)
	})
	return l
}

// Mode is the collection the list shows.
func (l *PresetList) Mode() curve.Mode { return l.mode }

// Detach stops following bank changes.
func (l *PresetList) Detach() {
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

// sync re-pulls labels and highlight from the bank. Buttons are rebuilt only
// when the number of slots changed.
func (l *PresetList) sync() {
	entries := adapter.Entries(l.bank, l.mode)
	n := 0
	for _, row := range entries {
		n += len(row)
	}
	if n != len(l.buttons) {
		l.buildRows(entries)
	}

	mode, idx := l.bank.Cursor()
	for _, row := range entries {
		for _, e := range row {
			btn := l.buttons[e.Index]
			if btn.Text != e.Label {
				btn.SetText(e.Label)
			}
			want := widget.MediumImportance
			if mode == e.Mode && idx == e.Index {
				want = widget.HighImportance
			}
			if btn.Importance != want {
				btn.Importance = want
				btn.Refresh()
			}
		}
	}
}

func (l *PresetList) buildRows(entries [][]adapter.Entry) {
	l.buttons = l.buttons[:0]
	objs := make([]fyne.CanvasObject, 0, len(entries))
	for _, row := range entries {
		cells := make([]fyne.CanvasObject, 0, adapter.RowWidth)
		for _, e := range row {
			slot := e.Slot
			btn := widget.NewButton(e.Label, func() {
				l.bank.Apply(slot.Event())
			})
			l.buttons = append(l.buttons, btn)
			cells = append(cells, btn)
		}
		// Pad the short last row so buttons keep the same width.
		for len(cells) < adapter.RowWidth {
			cells = append(cells, widget.NewLabel(""))
		}
		objs = append(objs, container.NewGridWithColumns(adapter.RowWidth, cells...))
	}
	l.rows.Objects = objs
	l.rows.Refresh()
}

func (l *PresetList) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewVScroll(l.rows))
}
