package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/zeusync/simmeta/internal/core/events/bus"
	"github.com/zeusync/simmeta/internal/core/observability/log"
)

// FeedReady is the first message every feed client receives, sent once the
// client is subscribed.
const FeedReady = "feed.ready"

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type feedClient struct {
	id     string
	conn   *websocket.Conn
	family string
	send   chan bus.Event
	once   sync.Once
}

func (c *feedClient) close() {
	c.once.Do(func() { close(c.send) })
}

// eventFeed fans registry events out to websocket clients. Each client has
// a bounded queue; events for a client whose queue is full are dropped.
type eventFeed struct {
	maxClients int
	bufferSize int
	logger     log.Log

	mu      sync.Mutex
	clients map[string]*feedClient
	sub     bus.Subscription
}

func newEventFeed(maxClients, bufferSize int, logger log.Log) *eventFeed {
	return &eventFeed{
		maxClients: maxClients,
		bufferSize: bufferSize,
		logger:     logger.With(log.String("feed", "events")),
		clients:    make(map[string]*feedClient),
	}
}

func (f *eventFeed) attach(events bus.EventBus) error {
	sub, err := events.Subscribe(bus.AnyType, f.broadcast)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.sub = sub
	f.mu.Unlock()
	return nil
}

func (f *eventFeed) detach() error {
	f.mu.Lock()
	sub := f.sub
	f.sub = nil
	f.mu.Unlock()
	if sub == nil {
		return nil
	}
	return sub.Cancel()
}

func (f *eventFeed) broadcast(ev bus.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.clients {
		if c.family != "" && c.family != ev.Topic {
			continue
		}
		select {
		case c.send <- ev:
		default:
			f.logger.Warn("Feed client too slow, dropping event",
				log.String("client_id", c.id),
				log.String("event", ev.Type))
		}
	}
	return nil
}

func (f *eventFeed) add(c *feedClient) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.clients) >= f.maxClients {
		return ErrFeedFull
	}
	f.clients[c.id] = c
	return nil
}

func (f *eventFeed) remove(id string) {
	f.mu.Lock()
	c, ok := f.clients[id]
	delete(f.clients, id)
	f.mu.Unlock()
	if ok {
		c.close()
	}
}

func (f *eventFeed) closeAll() {
	f.mu.Lock()
	clients := f.clients
	f.clients = make(map[string]*feedClient)
	f.mu.Unlock()
	for _, c := range clients {
		c.close()
	}
}

func (f *eventFeed) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.clients)
}

// handleEvents upgrades to a websocket and streams registry events as JSON.
// The optional family query parameter restricts the stream to one family.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	family := r.URL.Query().Get("family")
	if family != "" {
		if _, ok := s.lib.Family(family); !ok {
			writeError(w, http.StatusNotFound, ErrFamilyNotFound)
			return
		}
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Websocket upgrade failed", log.Error(err))
		return
	}

	client := &feedClient{
		id:     uuid.NewString(),
		conn:   conn,
		family: family,
		send:   make(chan bus.Event, s.feed.bufferSize),
	}
	if err = s.feed.add(client); err != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, err.Error()),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}

	clientLogger := s.logger.With(log.String("client_id", client.id))
	clientLogger.Info("Feed client connected",
		log.String("remote_addr", conn.RemoteAddr().String()),
		log.String("family", family))

	go s.readFeed(client)
	s.writeFeed(client, clientLogger)
}

// readFeed discards client input and unregisters the client once the
// connection closes.
func (s *Server) readFeed(c *feedClient) {
	defer s.feed.remove(c.id)
	for {
		if _, _, err := c.conn.NextReader(); err != nil {
			return
		}
	}
}

func (s *Server) writeFeed(c *feedClient, logger log.Log) {
	defer func() {
		s.feed.remove(c.id)
		_ = c.conn.Close()
		logger.Info("Feed client disconnected")
	}()

	ready := bus.NewEvent(FeedReady, c.family, "", -1, "")
	ready.Source = "server"
	if err := s.writeEvent(c, ready); err != nil {
		return
	}

	for ev := range c.send {
		if err := s.writeEvent(c, ev); err != nil {
			logger.Debug("Feed write failed", log.Error(err))
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
		time.Now().Add(writeWait))
}

func (s *Server) writeEvent(c *feedClient, ev bus.Event) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(ev)
}
