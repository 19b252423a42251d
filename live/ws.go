package live

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/alabanza/alabanza/logging"
)

const (
	wsWriteWait        = 10 * time.Second
	wsPongWait         = 60 * time.Second
	defaultWSPingEvery = (wsPongWait * 9) / 10
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// Inbound is a command sent by a connected client
type Inbound struct {
	Type   string `json:"type"` // ping, set_song, set_mix, signal, clear_signal, clear_song
	ID     string `json:"id,omitempty"`
	Signal string `json:"signal,omitempty"`
}

// Outbound is a message pushed to connected clients
type Outbound struct {
	Type    string `json:"type"` // state, pong, error
	State   *State `json:"state,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// WSHandler streams hub state over a websocket and applies director commands
type WSHandler struct {
	hub       *Hub
	pingEvery time.Duration
	writeWait time.Duration
	logger    logging.Logger
}

// NewWSHandler creates a handler; pingEvery <= 0 uses the default keepalive
func NewWSHandler(hub *Hub, pingEvery time.Duration) *WSHandler {
	if pingEvery <= 0 || pingEvery >= wsPongWait {
		pingEvery = defaultWSPingEvery
	}
	return &WSHandler{
		hub:       hub,
		pingEvery: pingEvery,
		writeWait: wsWriteWait,
		logger: logging.WithFields(logging.Fields{
			"component": "live_ws",
		}),
	}
}

func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("Websocket upgrade failed", logging.Fields{"error": err.Error()})
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(wsPongWait)); err != nil {
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	writeCh := make(chan Outbound, 32)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		// unblocks ReadJSON once writes have failed
		defer conn.Close()
		ticker := time.NewTicker(h.pingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case out := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(h.writeWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(out); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(h.writeWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	forwarderDone := make(chan struct{})
	states := h.hub.Subscribe(ctx)
	go func() {
		defer close(forwarderDone)
		for st := range states {
			pushOutbound(writeCh, Outbound{Type: "state", State: &st})
		}
	}()

	defer func() {
		cancel()
		<-writerDone
		<-forwarderDone
	}()

	for {
		var in Inbound
		if err := conn.ReadJSON(&in); err != nil {
			return
		}
		if out, ok := h.apply(in); ok {
			pushOutbound(writeCh, out)
		}
	}
}

// apply runs one client command. State changes reach the client through the
// subscription, so only pong and error replies are returned here.
func (h *WSHandler) apply(in Inbound) (Outbound, bool) {
	if strings.EqualFold(strings.TrimSpace(in.Type), "ping") {
		return Outbound{Type: "pong"}, true
	}
	if _, err := h.hub.Apply(in); err != nil {
		return Outbound{Type: "error", Code: "invalid_argument", Message: err.Error()}, true
	}
	return Outbound{}, false
}

func pushOutbound(writeCh chan Outbound, out Outbound) {
	select {
	case writeCh <- out:
		return
	default:
	}
	select {
	case <-writeCh:
	default:
	}
	select {
	case writeCh <- out:
	default:
	}
}
