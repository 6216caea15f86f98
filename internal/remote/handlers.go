package remote

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/edward-ap/functor/internal/adapter"
	"github.com/edward-ap/functor/internal/bank"
	"github.com/edward-ap/functor/internal/curve"
)

type cursorJSON struct {
	Mode  curve.Mode `json:"mode"`
	Index int        `json:"index"`
	Seq   uint64     `json:"seq"`
}

// cursorRequest is the PUT /api/cursor body. Both fields are required.
type cursorRequest struct {
	Mode  *curve.Mode `json:"mode"`
	Index *int        `json:"index"`
}

type entryJSON struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

type listJSON struct {
	Mode   curve.Mode    `json:"mode"`
	Length int           `json:"length"`
	Rows   [][]entryJSON `json:"rows"`
}

type errorJSON struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorJSON{Error: err.Error()})
}

// slotParams parses the {mode} and {index} URL parameters.
func slotParams(r *http.Request) (curve.Mode, int, error) {
	mode, err := curve.ParseMode(chi.URLParam(r, "mode"))
	if err != nil {
		return 0, 0, err
	}
	raw := chi.URLParam(r, "index")
	if raw == "" {
		return mode, 0, nil
	}
	idx, err := strconv.Atoi(raw)
	if err != nil {
		return 0, 0, errors.New("index must be an integer")
	}
	return mode, idx, nil
}

func (s *Server) getCursor(w http.ResponseWriter, r *http.Request) {
	mode, idx, seq := s.bank.CursorSeq()
	writeJSON(w, http.StatusOK, cursorJSON{Mode: mode, Index: idx, Seq: seq})
}

func (s *Server) putCursor(w http.ResponseWriter, r *http.Request) {
	var c cursorRequest
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if c.Mode == nil || c.Index == nil {
		writeError(w, http.StatusBadRequest, errors.New("mode and index are required"))
		return
	}
	ch, err := s.bank.Apply(bank.SelectEvent{Mode: *c.Mode, Index: *c.Index})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, ch)
}

func (s *Server) listPresets(w http.ResponseWriter, r *http.Request) {
	mode, _, err := slotParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	entries := adapter.Entries(s.bank, mode)
	out := listJSON{Mode: mode, Rows: make([][]entryJSON, len(entries))}
	for i, row := range entries {
		out.Rows[i] = make([]entryJSON, len(row))
		for j, e := range row {
			out.Rows[i][j] = entryJSON{Index: e.Index, Name: e.Label}
			out.Length++
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getPreset(w http.ResponseWriter, r *http.Request) {
	mode, idx, err := slotParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	p, err := s.bank.Preset(mode, idx)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) putPreset(w http.ResponseWriter, r *http.Request) {
	mode, idx, err := slotParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var p curve.Preset
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	ch, err := s.bank.Apply(bank.SetEvent{Mode: mode, Index: idx, Preset: p})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, bank.ErrOutOfRange) {
			status = http.StatusNotFound
		}
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, ch)
}

// getCurve renders the selected curve into a w×h box. A cursor that points
// past its collection answers 409 Conflict with the border-only drawing error.
func (s *Server) getCurve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	width, err := queryFloat(q.Get("w"), 500)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	height, err := queryFloat(q.Get("h"), 500)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	opts := adapter.RenderOptions{Interpolation: curve.Linear}
	if v := q.Get("interp"); v != "" {
		in, err := curve.ParseInterpolation(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		opts.Interpolation = in
	}
	if v := q.Get("steps"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, errors.New("steps must be a non-negative integer"))
			return
		}
		opts.Steps = n
	}

	d, err := adapter.Render(s.bank, adapter.Rect{W: width, H: height}, opts)
	if err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func queryFloat(raw string, def float32) (float32, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 32)
	if err != nil || v <= 0 {
		return 0, errors.New("size must be a positive number")
	}
	return float32(v), nil
}
