// Package live streams a filtered, paginated record table over websocket
// connections. Each connection owns its own view.Table and receives a fresh
// page whenever the store or its criteria change.
package live

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"recordbook/internal/filter"
	"recordbook/internal/view"
)

const (
	writeWait = 10 * time.Second
	// maxQueryBytes bounds a single client frame.
	maxQueryBytes = 4096
)

// Query is what a client sends to change its view.
type Query struct {
	Text  string `json:"q"`
	Start string `json:"start"`
	End   string `json:"end"`
	Page  int    `json:"page"`
}

type pageMessage struct {
	Type string `json:"type"`
	view.Body
}

type errorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// Hub tracks every live session so they can be closed together.
type Hub struct {
	log      *zap.Logger
	mu       sync.Mutex
	sessions map[*session]struct{}
}

// NewHub returns an empty Hub.
func NewHub(log *zap.Logger) *Hub {
	return &Hub{log: log, sessions: make(map[*session]struct{})}
}

// Serve drives conn until the client goes away. It takes ownership of both
// conn and table and closes them on return.
func (h *Hub) Serve(conn *websocket.Conn, table *view.Table, loc *time.Location) {
	s := &session{
		conn:   conn,
		table:  table,
		loc:    loc,
		log:    h.log,
		notify: make(chan struct{}, 1),
		errs:   make(chan string, 8),
		done:   make(chan struct{}),
	}
	s.page.Store(1)

	h.mu.Lock()
	h.sessions[s] = struct{}{}
	count := len(h.sessions)
	h.mu.Unlock()
	h.log.Info("live client connected", zap.Int("clients", count))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.writeLoop()
	}()

	table.OnChange(s.wake)
	s.wake()
	s.readLoop()

	table.Close()
	close(s.done)
	_ = conn.Close()
	wg.Wait()

	h.mu.Lock()
	delete(h.sessions, s)
	count = len(h.sessions)
	h.mu.Unlock()
	h.log.Info("live client disconnected", zap.Int("clients", count))
}

// Len returns the number of connected sessions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// CloseAll disconnects every session.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.sessions {
		_ = s.conn.Close()
	}
}

type session struct {
	conn  *websocket.Conn
	table *view.Table
	loc   *time.Location
	log   *zap.Logger
	page  atomic.Int64

	notify chan struct{}
	errs   chan string
	done   chan struct{}
}

// wake asks the writer to send the current page. Pending wakes coalesce.
func (s *session) wake() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func (s *session) fail(msg string) {
	select {
	case s.errs <- msg:
	default:
	}
}

func (s *session) readLoop() {
	s.conn.SetReadLimit(maxQueryBytes)
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug("live read failed", zap.Error(err))
			}
			return
		}

		var q Query
		if err := json.Unmarshal(data, &q); err != nil {
			s.fail("invalid request payload")
			continue
		}
		c, err := filter.ParseCriteria(q.Text, q.Start, q.End, s.loc)
		if err != nil {
			s.fail(err.Error())
			continue
		}
		s.page.Store(int64(max(q.Page, 1)))
		s.table.SetCriteria(c)
	}
}

func (s *session) writeLoop() {
	for {
		var msg interface{}
		select {
		case <-s.done:
			return
		case <-s.notify:
			page := s.table.Page(int(s.page.Load()))
			msg = pageMessage{Type: "page", Body: page.Body()}
		case e := <-s.errs:
			msg = errorMessage{Type: "error", Error: e}
		}

		_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := s.conn.WriteJSON(msg); err != nil {
			s.log.Debug("live write failed", zap.Error(err))
			// Unblocks readLoop, which tears the session down.
			_ = s.conn.Close()
			return
		}
	}
}
