// Package ws exposes the turn-processing contract over a persistent
// WebSocket, for clients that stream utterances instead of polling
// the HTTP endpoint.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/voicedesk/agent-service/internal/api/dto"
	domainerrors "github.com/voicedesk/agent-service/internal/domain/errors"
)

// Frame types exchanged on the socket.
const (
	frameConnected  = "connected"
	frameVoiceAgent = "voice_agent"
	frameResponse   = "voice_agent_response"
	framePing       = "ping"
	framePong       = "pong"
	frameError      = "error"
)

// frame is the envelope for every message on the socket.
type frame struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	MessageID string          `json:"messageId,omitempty"`
}

type outFrame struct {
	Type      string             `json:"type"`
	Data      interface{}        `json:"data,omitempty"`
	Error     *dto.ErrorResponse `json:"error,omitempty"`
	MessageID string             `json:"messageId,omitempty"`
}

// TurnProcessor runs one dialogue turn for an inbound frame.
// Implemented by handlers.VoiceHandler.
type TurnProcessor interface {
	ProcessTurn(ctx context.Context, req *dto.TurnRequest) (*dto.TurnResponse, error)
}

// Handler upgrades connections and runs the per-connection frame loop.
type Handler struct {
	processor TurnProcessor
	upgrader  websocket.Upgrader
}

// NewHandler creates a new WebSocket handler. The origin check mirrors
// the CORS allow list used by the HTTP endpoints.
func NewHandler(processor TurnProcessor, checkOrigin func(r *http.Request) bool) *Handler {
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &Handler{
		processor: processor,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     checkOrigin,
		},
	}
}

// Serve handles GET /agent/ws.
func (h *Handler) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	s := &socket{conn: conn}
	s.send(&outFrame{Type: frameConnected})

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("WebSocket read failed")
			}
			return
		}

		var f frame
		if err := json.Unmarshal(payload, &f); err != nil {
			s.sendError("", domainerrors.NewValidationError("invalid frame", err.Error()))
			continue
		}

		switch f.Type {
		case framePing:
			s.send(&outFrame{Type: framePong, MessageID: f.MessageID})
		case frameVoiceAgent:
			h.handleTurn(c.Request.Context(), s, &f)
		default:
			s.sendError(f.MessageID, domainerrors.NewValidationError("unknown frame type", f.Type))
		}
	}
}

// handleTurn processes one voice_agent frame. Turns on a single
// connection run serially; the per-session guard still protects
// against a second connection racing the same session.
func (h *Handler) handleTurn(ctx context.Context, s *socket, f *frame) {
	var req dto.TurnRequest
	if err := json.Unmarshal(f.Data, &req); err != nil {
		s.sendError(f.MessageID, domainerrors.NewValidationError("invalid turn payload", err.Error()))
		return
	}
	if req.SessionID == "" {
		s.sendError(f.MessageID, domainerrors.NewValidationError("sessionId is required", ""))
		return
	}

	resp, err := h.processor.ProcessTurn(ctx, &req)
	if err != nil {
		log.Warn().Err(err).Str("session_id", req.SessionID).Msg("Turn failed")
		s.sendError(f.MessageID, err)
		return
	}

	s.send(&outFrame{Type: frameResponse, Data: resp, MessageID: f.MessageID})
}

// socket serializes writes to one connection.
type socket struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (s *socket) send(f *outFrame) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteJSON(f); err != nil {
		log.Warn().Err(err).Msg("WebSocket write failed")
	}
}

func (s *socket) sendError(messageID string, err error) {
	resp := &dto.ErrorResponse{
		Code:    domainerrors.ErrCodeInternal,
		Message: "internal server error",
	}
	if domainErr, ok := domainerrors.GetDomainError(err); ok {
		resp.Code = domainErr.Code
		resp.Message = domainErr.Message
		resp.Details = domainErr.Details
	}
	s.send(&outFrame{Type: frameError, Error: resp, MessageID: messageID})
}
