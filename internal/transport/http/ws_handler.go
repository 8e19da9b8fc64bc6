package http

import (
	"net/http"

	"github.com/gorilla/websocket"

	"quiz-risk-service/internal/app"
	"quiz-risk-service/internal/logger"
)

// WSHandler streams review feed events to connected teachers.
type WSHandler struct {
	feed     *app.ReviewFeed
	log      *logger.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(feed *app.ReviewFeed, log *logger.Logger) *WSHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &WSHandler{
		feed: feed,
		log:  log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type string `json:"type"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type subscribedPayload struct {
	ReviewerID string `json:"reviewerId"`
}

// ServeWS upgrades the request and forwards submission events until the
// client disconnects. Clients may send {"type":"ping"} to receive a pong.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	reviewer := userFrom(r.Context())
	events, cancel := h.feed.Subscribe()
	defer cancel()
	h.log.Info("review feed subscribed", "reviewer_id", reviewer.ID)

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	eventsDone := make(chan struct{})

	// single writer: gorilla connections do not support concurrent writes
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.log.Debug("ws write error", "error", err)
				// unblocks the read loop below
				_ = conn.Close()
				return
			}
		}
	}()

	go func() {
		defer close(eventsDone)
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: string(ev.Type), Payload: ev}:
				case <-writerDone:
					return
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	writing := enqueue(send, writerDone, outboundMessage[any]{Type: "subscribed", Payload: subscribedPayload{ReviewerID: reviewer.ID}})

	for writing {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "ping":
			writing = enqueue(send, writerDone, outboundMessage[any]{Type: "pong", Payload: struct{}{}})
		default:
			writing = enqueue(send, writerDone, outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}})
		}
	}

	close(closeSignals)
	<-eventsDone
	close(send)
	<-writerDone
	h.log.Info("review feed closed", "reviewer_id", reviewer.ID)
}

// enqueue hands msg to the writer. It reports false once the writer has
// stopped, so callers never block on a full queue nobody drains.
func enqueue(send chan<- outboundMessage[any], writerDone <-chan struct{}, msg outboundMessage[any]) bool {
	select {
	case send <- msg:
		return true
	case <-writerDone:
		return false
	}
}
