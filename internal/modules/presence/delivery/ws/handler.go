// Package ws is the realtime transport: it turns an authenticated websocket
// into a registry entry for the lifetime of the connection.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"anoa.com/socialhub/internal/entity"
	chatDto "anoa.com/socialhub/internal/modules/chat/dto"
	"anoa.com/socialhub/internal/modules/presence/registry"
	presence "anoa.com/socialhub/internal/modules/presence/service"
	"anoa.com/socialhub/pkg/apperror"
	"anoa.com/socialhub/pkg/response"
	"anoa.com/socialhub/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	EventSendMessageToUser = "SendMessageToUser"
	EventError             = "Error"
)

// MessageSender is the inbound side of chat.
type MessageSender interface {
	SendMessage(ctx context.Context, fromUserID, toUserID, chatID uuid.UUID, text string) (*entity.ChatMessage, error)
}

type ErrorPayload struct {
	Event   string `json:"event,omitempty"`
	Message string `json:"message"`
}

type Options struct {
	PingInterval time.Duration
	WriteTimeout time.Duration
}

type Handler struct {
	registry *registry.Registry
	presence presence.PresenceService
	messages MessageSender
	upgrader websocket.Upgrader
	opts     Options
}

func NewHandler(reg *registry.Registry, presenceService presence.PresenceService, messages MessageSender, opts Options) *Handler {
	if opts.PingInterval <= 0 {
		opts.PingInterval = 25 * time.Second
	}
	return &Handler{
		registry: reg,
		presence: presenceService,
		messages: messages,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // origin is enforced by the token, not the browser
			},
		},
		opts: opts,
	}
}

func (h *Handler) HandleWebSocket(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, apperror.ErrAuthRejected)
		return
	}

	wsConn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[ws] upgrade for user %s failed: %v", userID, err)
		return
	}

	h.serve(c.Request.Context(), userID, NewConn(wsConn, h.opts.WriteTimeout))
}

func (h *Handler) serve(ctx context.Context, userID uuid.UUID, conn *Conn) {
	if replaced := h.registry.Register(userID, conn); replaced != nil {
		log.Printf("[ws] user %s reconnected, session %s no longer receives pushes", userID, replaced.ID())
	}
	h.presence.MarkOnline(ctx, userID, conn.ID())
	log.Printf("[ws] user %s connected (session %s)", userID, conn.ID())

	done := make(chan struct{})
	go h.keepAlive(ctx, userID, conn, done)

	h.readLoop(ctx, userID, conn)
	close(done)

	// A newer session may already own the slot.
	h.registry.UnregisterIf(userID, conn)
	h.presence.MarkOffline(context.WithoutCancel(ctx), userID, conn.ID())
	_ = conn.Close()
	log.Printf("[ws] user %s disconnected (session %s)", userID, conn.ID())
}

func (h *Handler) keepAlive(ctx context.Context, userID uuid.UUID, conn *Conn, done <-chan struct{}) {
	ticker := time.NewTicker(h.opts.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.ping(); err != nil {
				// unblocks the read loop, which does the cleanup
				_ = conn.Close()
				return
			}
			h.presence.Refresh(ctx, userID, conn.ID())
		}
	}
}

func (h *Handler) readLoop(ctx context.Context, userID uuid.UUID, conn *Conn) {
	pongWait := 2 * h.opts.PingInterval
	_ = conn.ws.SetReadDeadline(time.Now().Add(pongWait))
	conn.ws.SetPongHandler(func(string) error {
		return conn.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[ws] read from user %s: %v", userID, err)
			}
			return
		}
		_ = conn.ws.SetReadDeadline(time.Now().Add(pongWait))

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			h.sendError(conn, "", "frame must be a JSON envelope")
			continue
		}
		h.dispatch(ctx, userID, conn, env)
	}
}

func (h *Handler) dispatch(ctx context.Context, userID uuid.UUID, conn *Conn, env Envelope) {
	switch env.Event {
	case EventSendMessageToUser:
		var req chatDto.SendMessageRequest
		if err := json.Unmarshal(env.Data, &req); err != nil {
			h.sendError(conn, env.Event, "invalid data: "+err.Error())
			return
		}
		if err := validator.Struct(req); err != nil {
			h.sendError(conn, env.Event, validator.FormatValidationError(err))
			return
		}
		if _, err := h.messages.SendMessage(ctx, userID, req.ToUserID, req.ChatID, req.Text); err != nil {
			h.sendError(conn, env.Event, clientMessage(err))
		}
	default:
		h.sendError(conn, env.Event, fmt.Sprintf("unknown event %q", env.Event))
	}
}

func (h *Handler) sendError(conn *Conn, event, message string) {
	if err := conn.Send(EventError, ErrorPayload{Event: event, Message: message}); err != nil {
		log.Printf("[ws] send error frame on session %s: %v", conn.ID(), err)
	}
}

// clientMessage hides store details from the socket.
func clientMessage(err error) string {
	if errors.Is(err, apperror.ErrPersistence) {
		log.Printf("[Internal Error]: %v", err)
		return "message could not be saved"
	}
	return err.Error()
}
