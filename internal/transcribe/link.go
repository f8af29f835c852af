package transcribe

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/ambergeldar/video-chat/internal/core"
)

// Link states. A link moves Connecting -> Open -> Closing -> Closed; the
// upstream hanging up moves it straight to Closed. Audio is forwarded only
// while Open.
const (
	stateConnecting = iota
	stateOpen
	stateClosing
	stateClosed
)

var dialer = &websocket.Dialer{HandshakeTimeout: 10 * time.Second}

// Opener dials the speech service for each admitted connection.
type Opener struct {
	Cfg Config
}

// Open starts a link in Connecting state and returns immediately; the dial
// happens in the background so admission never blocks on the upstream.
func (o *Opener) Open(sid core.SessionID, ev core.LinkEvents) core.TranscriptionLink {
	l := &Link{cfg: o.Cfg, sid: sid, ev: ev, state: stateConnecting}
	go l.run()
	return l
}

// Link is one outbound streaming session. It belongs to exactly one client
// connection and dies with it.
type Link struct {
	cfg Config
	sid core.SessionID
	ev  core.LinkEvents

	mu       sync.Mutex
	state    int
	conn     *websocket.Conn
	notified bool
}

func (l *Link) run() {
	conn, resp, err := dialer.Dial(l.cfg.endpoint(), l.cfg.header())
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		log.Error().Err(err).Str("module", "transcribe").Str("sid", string(l.sid)).Msg("upstream dial failed")
		l.finish(nil)
		return
	}

	l.mu.Lock()
	if l.state == stateClosing {
		// Owner disconnected while we were dialing.
		l.state = stateClosed
		l.mu.Unlock()
		conn.Close()
		l.finish(nil)
		return
	}
	l.conn = conn
	l.state = stateOpen
	l.mu.Unlock()

	log.Info().Str("module", "transcribe").Str("sid", string(l.sid)).Msg("upstream stream open")
	if l.ev.OnOpen != nil {
		l.ev.OnOpen()
	}
	l.readLoop(conn)
}

// readLoop delivers upstream messages in arrival order until the socket dies,
// either from our Close or from the service hanging up. Undecodable payloads
// are logged and dropped, never fatal.
func (l *Link) readLoop(conn *websocket.Conn) {
	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			log.Info().Err(err).Str("module", "transcribe").Str("sid", string(l.sid)).Msg("upstream read ended")
			l.finish(conn)
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		var doc json.RawMessage
		if err := json.Unmarshal(data, &doc); err != nil {
			log.Warn().Err(err).Str("module", "transcribe").Str("sid", string(l.sid)).Msg("undecodable upstream message, dropping")
			continue
		}
		if l.ev.OnResult != nil {
			l.ev.OnResult(doc)
		}
	}
}

// SendAudio forwards one frame upstream if the link is Open, otherwise the
// frame is discarded. Frames are written in call order; the owner calls this
// from a single goroutine.
func (l *Link) SendAudio(frame core.Frame) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != stateOpen {
		return nil
	}
	return l.conn.WriteMessage(websocket.BinaryMessage, frame)
}

// Close is idempotent. From Open it sends the zero-length end-of-stream
// marker, then closes the transport. From Connecting it flags the dial
// goroutine to finish the teardown once the dial resolves.
func (l *Link) Close() {
	l.mu.Lock()
	switch l.state {
	case stateClosed, stateClosing:
		l.mu.Unlock()
		return
	case stateConnecting:
		l.state = stateClosing
		l.mu.Unlock()
		return
	}
	l.state = stateClosing
	conn := l.conn
	_ = conn.WriteMessage(websocket.BinaryMessage, []byte{})
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	l.state = stateClosed
	l.mu.Unlock()
	conn.Close()
}

// finish settles the terminal state and fires OnClosed exactly once.
func (l *Link) finish(conn *websocket.Conn) {
	l.mu.Lock()
	already := l.notified
	l.notified = true
	l.state = stateClosed
	l.mu.Unlock()
	if conn != nil {
		conn.Close()
	}
	if !already && l.ev.OnClosed != nil {
		l.ev.OnClosed()
	}
}
