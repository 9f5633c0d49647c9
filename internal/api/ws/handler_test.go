package ws_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voicedesk/agent-service/internal/api/dto"
	"github.com/voicedesk/agent-service/internal/api/ws"
	domainerrors "github.com/voicedesk/agent-service/internal/domain/errors"
	"github.com/voicedesk/agent-service/internal/domain/models"
)

type stubProcessor struct {
	resp *dto.TurnResponse
	err  error
}

func (s *stubProcessor) ProcessTurn(ctx context.Context, req *dto.TurnRequest) (*dto.TurnResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

// received mirrors the server's outbound envelope.
type received struct {
	Type      string             `json:"type"`
	Data      json.RawMessage    `json:"data"`
	Error     *dto.ErrorResponse `json:"error"`
	MessageID string             `json:"messageId"`
}

func dial(t *testing.T, processor *stubProcessor) *websocket.Conn {
	t.Helper()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := ws.NewHandler(processor, nil)
	router.GET("/ws", handler.Serve)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) received {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var f received
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func TestServe_SendsConnectedGreeting(t *testing.T) {
	conn := dial(t, &stubProcessor{})

	f := readFrame(t, conn)
	assert.Equal(t, "connected", f.Type)
}

func TestServe_PingPong(t *testing.T) {
	conn := dial(t, &stubProcessor{})
	readFrame(t, conn) // connected

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "ping", "messageId": "m1"}))

	f := readFrame(t, conn)
	assert.Equal(t, "pong", f.Type)
	assert.Equal(t, "m1", f.MessageID)
}

func TestServe_TurnRoundTrip(t *testing.T) {
	askFor := "email"
	processor := &stubProcessor{resp: &dto.TurnResponse{
		ReplyText: "What's your email?",
		AskFor:    &askFor,
		SessionState: dto.SessionState{
			SessionID:     "s1",
			CollectedData: models.CollectedData{Name: "Jane"},
		},
	}}
	conn := dial(t, processor)
	readFrame(t, conn) // connected

	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"type":      "voice_agent",
		"messageId": "m2",
		"data":      dto.TurnRequest{SessionID: "s1", Text: "Jane here", Final: true},
	}))

	f := readFrame(t, conn)
	assert.Equal(t, "voice_agent_response", f.Type)
	assert.Equal(t, "m2", f.MessageID)

	var resp dto.TurnResponse
	require.NoError(t, json.Unmarshal(f.Data, &resp))
	assert.Equal(t, "What's your email?", resp.ReplyText)
	assert.Equal(t, "Jane", resp.SessionState.CollectedData.Name)
}

func TestServe_TurnRequiresSessionID(t *testing.T) {
	conn := dial(t, &stubProcessor{})
	readFrame(t, conn) // connected

	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"type":      "voice_agent",
		"messageId": "m3",
		"data":      map[string]string{"text": "hello"},
	}))

	f := readFrame(t, conn)
	assert.Equal(t, "error", f.Type)
	assert.Equal(t, "m3", f.MessageID)
	require.NotNil(t, f.Error)
	assert.Equal(t, domainerrors.ErrCodeValidation, f.Error.Code)
}

func TestServe_TurnErrorMapsDomainCode(t *testing.T) {
	processor := &stubProcessor{err: domainerrors.NewConflictError("a turn is already being processed for this session", "s1")}
	conn := dial(t, processor)
	readFrame(t, conn) // connected

	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"type": "voice_agent",
		"data": dto.TurnRequest{SessionID: "s1", Text: "hello", Final: true},
	}))

	f := readFrame(t, conn)
	assert.Equal(t, "error", f.Type)
	require.NotNil(t, f.Error)
	assert.Equal(t, domainerrors.ErrCodeConflict, f.Error.Code)
}

func TestServe_UnknownFrameType(t *testing.T) {
	conn := dial(t, &stubProcessor{})
	readFrame(t, conn) // connected

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "bogus", "messageId": "m4"}))

	f := readFrame(t, conn)
	assert.Equal(t, "error", f.Type)
	assert.Equal(t, "m4", f.MessageID)
}
