package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"market-chat-service/internal/auth"
	"market-chat-service/internal/chat"
	"market-chat-service/internal/models"
	"market-chat-service/internal/observability"
)

// Config carries the transport limits applied to each connection.
type Config struct {
	MaxMessageBytes  int64
	SendTimeout      time.Duration
	WriteBufferBytes int
}

// DefaultConfig returns generous transport limits.
func DefaultConfig() Config {
	return Config{
		MaxMessageBytes:  256 << 10,
		SendTimeout:      30 * time.Second,
		WriteBufferBytes: 1 << 20,
	}
}

// Gate authenticates the connect handshake, binds chatroom membership and
// drives the session lifecycle. A rejected connect never completes the
// handshake.
type Gate struct {
	hub      *Hub
	registry *Registry
	tokens   *auth.TokenProvider
	chatSvc  *chat.Service
	cfg      Config
	upgrader websocket.Upgrader
}

// NewGate constructs a Gate.
func NewGate(hub *Hub, registry *Registry, tokens *auth.TokenProvider, chatSvc *chat.Service, cfg Config) *Gate {
	return &Gate{
		hub:      hub,
		registry: registry,
		tokens:   tokens,
		chatSvc:  chatSvc,
		cfg:      cfg,
		upgrader: websocket.Upgrader{
			WriteBufferSize: cfg.WriteBufferBytes,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Handle runs the connect handshake and, on success, the connection's read
// loop until disconnect.
func (g *Gate) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("market-chat-service/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	chatroomID, err := chatroomIDFromRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chatroom id"})
		return
	}

	memberID, err := g.authenticate(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	session := &Session{
		ID:          newSessionID(),
		ChatroomID:  chatroomID,
		MemberID:    memberID,
		DeviceID:    observability.DeviceIDFromRequest(c.Request),
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   observability.RequestIDFromRequest(c.Request),
		TraceID:     span.SpanContext().TraceID().String(),
		ConnectedAt: time.Now(),
	}

	conn, err := g.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	conn.SetReadLimit(g.cfg.MaxMessageBytes)
	session.Transition(StateConnected)
	g.registry.Register(session)

	if _, err := g.chatSvc.EnterRoom(ctx, chatroomID, memberID); err != nil {
		if errors.Is(err, chat.ErrForbiddenAccess) {
			g.close(conn, websocket.ClosePolicyViolation, "not a chatroom participant")
		} else {
			g.close(conn, websocket.CloseInternalServerErr, "enter room failed")
		}
		g.registry.Remove(session.ID)
		return
	}
	g.hub.Add(chatroomID, conn, session.ID)
	session.Transition(StateSubscribed)

	observability.IncWSActive()
	observability.IncWSEvent("ws_connect")
	g.publishLifecycleEvent(ctx, "ws_connect", session, "")

	go g.readLoop(conn, session)
}

// readLoop accepts inbound publish frames until the connection drops, then
// runs the disconnect accounting exactly once.
func (g *Gate) readLoop(conn *websocket.Conn, session *Session) {
	ctx := context.Background()
	var closeReason string
	defer func() {
		if !session.Transition(StateDisconnected) {
			return
		}
		g.hub.Remove(session.ChatroomID, conn)
		conn.Close()
		g.registry.Remove(session.ID)

		if err := g.chatSvc.DisconnectChatRoom(ctx, session.ChatroomID, session.MemberID); err != nil {
			observability.IncWSEvent("ws_error")
		}
		observability.DecWSActive()
		observability.IncWSEvent("ws_disconnect")
		g.publishLifecycleEvent(ctx, "ws_disconnect", session, closeReason)
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			closeReason = err.Error()
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				observability.IncWSEvent("ws_error")
			}
			return
		}

		var inbound models.Message
		if err := json.Unmarshal(payload, &inbound); err != nil {
			g.hub.WriteError(conn, "malformed message")
			continue
		}
		// Identity and room come from the session, never the payload.
		inbound.SenderID = session.MemberID
		inbound.ChatroomID = session.ChatroomID

		if _, err := g.chatSvc.SendMessage(ctx, inbound); err != nil {
			observability.IncWSEvent("send_error")
			g.hub.WriteError(conn, sendErrorReason(err))
		}
	}
}

func (g *Gate) authenticate(c *gin.Context) (int64, error) {
	token := c.GetHeader("Authorization")
	if token == "" {
		token = c.Query("token")
		if token != "" {
			token = "Bearer " + token
		}
	}

	parts := strings.Split(token, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return 0, auth.ErrInvalidToken
	}
	return g.tokens.Validate(parts[1])
}

func (g *Gate) close(conn *websocket.Conn, code int, reason string) {
	deadline := time.Now().Add(g.cfg.SendTimeout)
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
	conn.Close()
}

func (g *Gate) publishLifecycleEvent(ctx context.Context, name string, session *Session, reason string) {
	_ = observability.PublishEvent(ctx, "ws_events.chatrooms", observability.EventEnvelope{
		EventType: "ws_events",
		EventName: name,
		Payload: map[string]any{
			"ws": map[string]any{
				"chatroom_id": session.ChatroomID,
				"event":       name,
				"session_id":  session.ID,
				"duration_ms": time.Since(session.ConnectedAt).Milliseconds(),
				"reason":      reason,
			},
			"identity": map[string]any{
				"member_id": session.MemberID,
				"device_id": session.DeviceID,
				"ip":        session.IP,
			},
		},
	})
}

func sendErrorReason(err error) string {
	switch {
	case errors.Is(err, chat.ErrInvalidMessage):
		return "invalid message"
	case errors.Is(err, chat.ErrBrokerUnavailable):
		return "message stored but not delivered"
	default:
		return "send failed"
	}
}

func chatroomIDFromRequest(c *gin.Context) (int64, error) {
	raw := c.GetHeader("chatRoomId")
	if raw == "" {
		raw = c.Query("chatRoomId")
	}
	return strconv.ParseInt(raw, 10, 64)
}
