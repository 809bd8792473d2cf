package relay

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"github.com/google/uuid"

	"github.com/pongfair/pongcore/pongconfig"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  pongconfig.WSReadBufferSize,
	WriteBufferSize: pongconfig.WSWriteBufferSize,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// peerConn is one websocket connection's send/receive plumbing, adapted
// from the teacher's ClientConnection: a buffered Send channel drained by
// writePump, and a blocking readPump dispatching on envelope type.
type peerConn struct {
	id         string
	role       Role
	conn       *websocket.Conn
	send       chan []byte
	writeMutex sync.Mutex
}

func (p *peerConn) writeEnvelope(kind Kind, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	b, err := json.Marshal(Envelope{Type: kind, Data: payload})
	if err != nil {
		return err
	}
	select {
	case p.send <- b:
		return nil
	default:
		return fmt.Errorf("relay: peer %s send buffer full", p.id)
	}
}

func (p *peerConn) writePump() {
	defer p.conn.Close()
	for msg := range p.send {
		p.writeMutex.Lock()
		err := p.conn.WriteMessage(websocket.TextMessage, msg)
		p.writeMutex.Unlock()
		if err != nil {
			log.Printf("❌ relay: write error for peer %s: %v", p.id, err)
			return
		}
	}
}

// hostedSession pairs a Session with the live connections of whichever
// peers have joined it so the server can fan out broadcasts.
type hostedSession struct {
	mu      sync.Mutex
	key     string
	session *Session
	left    *peerConn
	right   *peerConn
}

func (h *hostedSession) connFor(role Role) *peerConn {
	h.mu.Lock()
	defer h.mu.Unlock()
	if role == RoleLeft {
		return h.left
	}
	return h.right
}

func (h *hostedSession) opponentOf(role Role) *peerConn {
	if role == RoleLeft {
		return h.connFor(RoleRight)
	}
	return h.connFor(RoleLeft)
}

func (h *hostedSession) setConn(role Role, p *peerConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if role == RoleLeft {
		h.left = p
	} else {
		h.right = p
	}
}

func (h *hostedSession) clearConn(p *peerConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.left == p {
		h.left = nil
	}
	if h.right == p {
		h.right = nil
	}
}

func (h *hostedSession) broadcast(kind Kind, data any) {
	h.mu.Lock()
	left, right := h.left, h.right
	h.mu.Unlock()
	for _, p := range []*peerConn{left, right} {
		if p == nil {
			continue
		}
		if err := p.writeEnvelope(kind, data); err != nil {
			log.Printf("❌ relay: broadcast %s to %s failed: %v", kind, p.id, err)
		}
	}
}

// Server hosts relay sessions keyed by a caller-supplied session key
// (e.g. a lobby code) and wires WebSocket connections to them.
type Server struct {
	mu       sync.Mutex
	sessions map[string]*hostedSession
	gameIDs  uint32

	onSnapshot func(key string, snap Snapshot)
	onFinish   func(key string, log GameEnd)
}

// NewServer returns an empty Server.
func NewServer() *Server {
	return &Server{sessions: make(map[string]*hostedSession)}
}

// SetSnapshotFunc installs a callback invoked after every completed event
// pair, e.g. to persist the session's progress to Redis.
func (s *Server) SetSnapshotFunc(fn func(key string, snap Snapshot)) { s.onSnapshot = fn }

// SetFinishFunc installs a callback invoked with the assembled CompactLog
// once a session finishes, e.g. to validate and archive the match.
func (s *Server) SetFinishFunc(fn func(key string, end GameEnd)) { s.onFinish = fn }

func (s *Server) hostedFor(key string) *hostedSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok := s.sessions[key]; ok {
		return h
	}
	gameID := atomic.AddUint32(&s.gameIDs, 1)
	h := &hostedSession{key: key, session: NewSession(gameID)}
	s.sessions[key] = h
	return h
}

// HandleWS upgrades r into a websocket connection, joins it to the
// session named by the "session" query parameter (one is created on first
// join), and pumps messages until the connection closes.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("session")
	if key == "" {
		http.Error(w, "missing session parameter", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ relay: upgrade failed: %v", err)
		return
	}

	h := s.hostedFor(key)
	role, err := h.session.Join()
	if err != nil {
		conn.WriteJSON(Envelope{Type: KindOpponentDisconnected})
		conn.Close()
		return
	}

	peer := &peerConn{id: uuid.NewString(), role: role, conn: conn, send: make(chan []byte, 64)}
	h.setConn(role, peer)
	go peer.writePump()

	if err := peer.writeEnvelope(KindGameStart, GameStart{GameID: h.session.gameID, Role: role}); err != nil {
		log.Printf("❌ relay: failed to send game_start to %s: %v", peer.id, err)
	}
	if opp := h.opponentOf(role); opp != nil {
		h.broadcast(KindOpponentConnected, OpponentConnected{Role: role})
	}

	s.readPump(h, peer)
}

func (s *Server) readPump(h *hostedSession, peer *peerConn) {
	defer func() {
		h.clearConn(peer)
		close(peer.send)
		peer.conn.Close()
		if opp := h.opponentOf(peer.role); opp != nil {
			h.broadcast(KindOpponentDisconnected, OpponentDisconnected{Role: peer.role})
		}
	}()

	for {
		_, raw, err := peer.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("❌ relay: read error for peer %s: %v", peer.id, err)
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			log.Printf("⚠️  relay: malformed envelope from %s: %v", peer.id, err)
			continue
		}

		s.dispatch(h, peer, env)
	}
}

func (s *Server) dispatch(h *hostedSession, peer *peerConn, env Envelope) {
	switch env.Type {
	case KindPlayerReady:
		if h.session.SetReady(peer.role) {
			h.broadcast(KindGameReady, GameReady{GameID: h.session.gameID})
		}

	case KindPlayerLog:
		var msg PlayerLog
		if err := json.Unmarshal(env.Data, &msg); err != nil {
			log.Printf("⚠️  relay: malformed player_log from %s: %v", peer.id, err)
			return
		}
		h.session.SetSeed(msg.Role, msg.Seed)
		s.maybeFinish(h)

	case KindPaddlePosition:
		var msg PaddlePosition
		if err := json.Unmarshal(env.Data, &msg); err != nil {
			log.Printf("⚠️  relay: malformed paddle_position from %s: %v", peer.id, err)
			return
		}
		msg.Role = peer.role
		_, _, ok, err := h.session.ReportPaddle(peer.role, msg)
		if err != nil {
			log.Printf("⚠️  relay: desync for peer %s: %v", peer.id, err)
			return
		}
		// Forward immediately so the opponent can check its optimistic
		// prediction without waiting for the pair to complete.
		if opp := h.opponentOf(peer.role); opp != nil {
			if err := opp.writeEnvelope(KindOpponentPaddle, OpponentPaddle{EventIndex: msg.EventIndex, PaddleY: msg.PaddleY}); err != nil {
				log.Printf("❌ relay: failed to forward opponent_paddle to %s: %v", opp.id, err)
			}
		}
		if ok && s.onSnapshot != nil {
			s.onSnapshot(h.key, h.session.Snapshot())
		}

	default:
		log.Printf("⚠️  relay: unhandled envelope type %q from %s", env.Type, peer.id)
	}
}

// maybeFinish assembles and broadcasts the final CompactLog once both
// sides have reported their seed via player_log.
func (s *Server) maybeFinish(h *hostedSession) {
	if h.session.Done() {
		return
	}
	finished, err := h.session.Finish()
	if err != nil {
		return // not both seeds reported yet
	}
	end := GameEnd{Log: finished}
	h.broadcast(KindGameEnd, end)
	if s.onFinish != nil {
		s.onFinish(h.key, end)
	}
}
