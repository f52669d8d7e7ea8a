package ws

import (
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/gstplayer/gstplayer/internal/api"
	"github.com/gstplayer/gstplayer/internal/app"
	"github.com/rs/zerolog"
)

func Init() {
	var cfg struct {
		Mod struct {
			Origin string `yaml:"origin"`
		} `yaml:"api"`
	}

	app.LoadConfig(&cfg)

	log = app.GetLogger("api")

	upgrader = newUpgrader(cfg.Mod.Origin)

	api.HandleFunc("api/ws", apiWS)
}

var log = zerolog.Nop()

// Message - player command from web client or notification to it
type Message struct {
	Type  string `json:"type"`
	Value any    `json:"value,omitempty"`
	Raw   []byte `json:"-"`
}

// String - value of the command as a string, empty for other JSON types
func (m *Message) String() (value string) {
	_ = json.Unmarshal(m.Raw, &value)
	return
}

type WSHandler func(tr *Transport, msg *Message) error

var handlers = map[string]WSHandler{}

// HandleFunc - register handler for message type, must be called before serving
func HandleFunc(msgType string, handler WSHandler) {
	handlers[msgType] = handler
}

var upgrader = newUpgrader("")

// newUpgrader - origin "" allows same host with any port, "*" allows any origin
func newUpgrader(origin string) *websocket.Upgrader {
	u := &websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 4096}
	switch origin {
	case "":
		u.CheckOrigin = sameHost
	case "*":
		u.CheckOrigin = func(*http.Request) bool { return true }
	}
	return u
}

func sameHost(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if u.Host == r.Host || u.Hostname() == r.Host {
		return true
	}
	log.Trace().Msgf("[api] ws origin=%s, host=%s", u.Host, r.Host)
	return false
}

func apiWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Caller().Msgf("host=%s origin=%s", r.Host, r.Header.Get("Origin"))
		return
	}

	tr := &Transport{Request: r}
	tr.OnWrite(func(msg any) error {
		_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		return conn.WriteJSON(msg)
	})

	serve(conn, tr)

	_ = conn.Close()
	tr.Close()
}

// serve - read messages until the client is gone, handlers run in order of messages
func serve(conn *websocket.Conn, tr *Transport) {
	for {
		var raw struct {
			Type  string          `json:"type"`
			Value json.RawMessage `json:"value"`
		}
		if err := conn.ReadJSON(&raw); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNoStatusReceived, websocket.CloseNormalClosure) {
				log.Trace().Err(err).Caller().Send()
			}
			return
		}

		msg := &Message{Type: raw.Type, Raw: raw.Value}

		log.Trace().Str("type", msg.Type).Msg("[api] ws msg")

		handler, ok := handlers[msg.Type]
		if !ok {
			tr.Write(&Message{Type: "error", Value: msg.Type + ": unknown message"})
			continue
		}

		if err := handler(tr, msg); err != nil {
			tr.Write(&Message{Type: "error", Value: msg.Type + ": " + err.Error()})
		}
	}
}

// Transport - one web client, Write is safe from any goroutine
type Transport struct {
	Request *http.Request

	mu      sync.Mutex
	onWrite func(msg any) error
	onClose []func()
	closed  bool
}

func (t *Transport) OnWrite(f func(msg any) error) {
	t.mu.Lock()
	t.onWrite = f
	t.mu.Unlock()
}

// Write - errors are dropped, the reader will see a broken connection and close the transport
func (t *Transport) Write(msg any) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed || t.onWrite == nil {
		return
	}
	if err := t.onWrite(msg); err != nil {
		log.Trace().Err(err).Msg("[api] ws write")
	}
}

// OnClose - f is called once on close, immediately for closed transport
func (t *Transport) OnClose(f func()) {
	t.mu.Lock()
	if !t.closed {
		t.onClose = append(t.onClose, f)
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()
	f()
}

func (t *Transport) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	callbacks := t.onClose
	t.onClose = nil
	t.mu.Unlock()

	for _, f := range callbacks {
		f()
	}
}
