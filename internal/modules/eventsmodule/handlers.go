package eventsmodule

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/movielog/movielog/internal/errors"
	"github.com/movielog/movielog/internal/events"
	"github.com/movielog/movielog/internal/logger"
)

const (
	writeWait      = 10 * time.Second
	pingPeriod     = 30 * time.Second
	streamCapacity = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Same-origin browser clients only; the app serves its own pages
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler serves the event log API
type Handler struct{}

// NewHandler creates a new events handler
func NewHandler() *Handler {
	return &Handler{}
}

// ListEvents handles GET /api/events with optional type/source filters
// and limit/offset pagination.
func (h *Handler) ListEvents(c *gin.Context) {
	bus := events.GetGlobalEventBus()
	if bus == nil {
		errors.Respond(c, errors.NewInternalError("Event bus not running", nil))
		return
	}

	filter := events.EventFilter{}
	if t := c.Query("type"); t != "" {
		filter.Types = []events.EventType{events.EventType(t)}
	}
	if s := c.Query("source"); s != "" {
		filter.Sources = []string{s}
	}

	limit := queryInt(c, "limit", 50)
	if limit < 1 || limit > 500 {
		limit = 50
	}
	offset := queryInt(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	list, total, err := bus.GetEvents(filter, limit, offset)
	if err != nil {
		errors.Respond(c, errors.NewDatabaseError("list events", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": list,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// GetStats handles GET /api/events/stats
func (h *Handler) GetStats(c *gin.Context) {
	bus := events.GetGlobalEventBus()
	if bus == nil {
		errors.Respond(c, errors.NewInternalError("Event bus not running", nil))
		return
	}

	c.JSON(http.StatusOK, bus.GetStats())
}

// StreamEvents handles GET /api/events/stream, upgrading to a websocket
// and pushing matching events as they are published. A slow client drops
// events rather than blocking the bus.
func (h *Handler) StreamEvents(c *gin.Context) {
	bus := events.GetGlobalEventBus()
	if bus == nil {
		errors.Respond(c, errors.NewInternalError("Event bus not running", nil))
		return
	}

	filter := events.EventFilter{}
	if t := c.Query("type"); t != "" {
		filter.Types = []events.EventType{events.EventType(t)}
	}
	if s := c.Query("source"); s != "" {
		filter.Sources = []string{s}
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	stream := make(chan events.Event, streamCapacity)
	sub, err := bus.Subscribe(c.Request.Context(), filter, func(event events.Event) error {
		select {
		case stream <- event:
		default:
		}
		return nil
	})
	if err != nil {
		logger.Error("event stream subscription failed", "error", err)
		return
	}
	defer bus.Unsubscribe(sub.ID)

	// Reader goroutine: we never expect client messages, but reading is
	// what surfaces close frames and dead connections.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case event := <-stream:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
