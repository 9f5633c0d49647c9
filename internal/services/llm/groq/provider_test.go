package groq_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voicedesk/agent-service/internal/domain/models"
	"github.com/voicedesk/agent-service/internal/services/llm/groq"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *groq.Provider {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	provider, err := groq.NewProvider(&groq.Config{
		APIKey:  "gr-key",
		Model:   "llama-3.3-70b-versatile",
		BaseURL: server.URL,
	})
	require.NoError(t, err)
	return provider
}

func TestComplete(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]interface{}

	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": `{"replyText":"Hi"}`}},
			},
		})
	})

	messages := []models.Message{
		{Role: models.RoleSystem, Content: "You are Ava."},
		{Role: models.RoleUser, Content: "Hello"},
	}

	completion, err := provider.Complete(context.Background(), messages)
	require.NoError(t, err)
	assert.Equal(t, `{"replyText":"Hi"}`, completion)
	assert.Equal(t, "/chat/completions", gotPath)
	assert.Equal(t, "Bearer gr-key", gotAuth)

	sent := gotBody["messages"].([]interface{})
	require.Len(t, sent, 2)
	assert.Equal(t, "system", sent[0].(map[string]interface{})["role"])
	assert.Equal(t, "json_object", gotBody["response_format"].(map[string]interface{})["type"])
}

func TestComplete_ServerError(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})

	_, err := provider.Complete(context.Background(), []models.Message{{Role: models.RoleUser, Content: "hi"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestComplete_NoChoices(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	})

	_, err := provider.Complete(context.Background(), []models.Message{{Role: models.RoleUser, Content: "hi"}})
	assert.Error(t, err)
}
