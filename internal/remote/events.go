package remote

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/edward-ap/functor/internal/bank"
	"github.com/edward-ap/functor/internal/curve"
)

var errMissingPreset = errors.New("set message without preset")

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsMessage is the frame used in both directions on /api/events.
//
// Server to client: "hello" once after connecting with the current cursor,
// "change" for every bank notification, "error" when an inbound frame failed.
// hello and change carry the bank's Seq; change frames from concurrent
// mutations can arrive out of order, and a client tracking the cursor ignores
// frames with a Seq at or below the highest it has seen.
// Client to server: "select" moves the cursor, "set" replaces one preset.
type wsMessage struct {
	Type   string           `json:"type"`
	ID     string           `json:"id,omitempty"`
	Kind   *bank.ChangeKind `json:"kind,omitempty"`
	Mode   curve.Mode       `json:"mode"`
	Index  int              `json:"index"`
	Preset *curve.Preset    `json:"preset,omitempty"`
	Seq    uint64           `json:"seq,omitempty"`
	Error  string           `json:"error,omitempty"`
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	// Register before upgrading so no change published after the handshake is missed.
	id, changes, ok := s.register()
	if !ok {
		http.Error(w, "server closed", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.unregister(id)
		s.log.Printf("remote: websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()
	defer s.unregister(id)

	// gorilla/websocket allows one concurrent writer.
	var writeMu sync.Mutex
	writeMsg := func(msg wsMessage) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteJSON(msg)
	}

	mode, idx, seq := s.bank.CursorSeq()
	if err := writeMsg(wsMessage{Type: "hello", ID: id.String(), Mode: mode, Index: idx, Seq: seq}); err != nil {
		return
	}

	// Exits when unregister or Close closes the channel.
	go func() {
		for ch := range changes {
			kind := ch.Kind
			if err := writeMsg(wsMessage{Type: "change", Kind: &kind, Mode: ch.Mode, Index: ch.Index, Seq: ch.Seq}); err != nil {
				return
			}
		}
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			if werr := writeMsg(wsMessage{Type: "error", Error: err.Error()}); werr != nil {
				return
			}
			continue
		}
		if err := s.applyMessage(id, msg); err != nil {
			if werr := writeMsg(wsMessage{Type: "error", Mode: msg.Mode, Index: msg.Index, Error: err.Error()}); werr != nil {
				return
			}
		}
	}
}

func (s *Server) applyMessage(id uuid.UUID, msg wsMessage) error {
	var ev bank.Event
	switch msg.Type {
	case "select":
		ev = bank.SelectEvent{Mode: msg.Mode, Index: msg.Index}
	case "set":
		if msg.Preset == nil {
			return errMissingPreset
		}
		ev = bank.SetEvent{Mode: msg.Mode, Index: msg.Index, Preset: *msg.Preset}
	default:
		s.log.Printf("remote: client %s sent unknown message type %q", id, msg.Type)
		return bank.ErrUnknownEvent
	}
	_, err := s.bank.Apply(ev)
	return err
}
