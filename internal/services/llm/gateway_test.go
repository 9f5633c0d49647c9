// Package llm_test provides unit tests for the llm gateway.
package llm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voicedesk/agent-service/internal/domain/models"
	"github.com/voicedesk/agent-service/internal/services/llm"
)

// stubProvider is a hand-rolled Provider that counts invocations.
type stubProvider struct {
	name  string
	text  string
	err   error
	calls int
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Complete(ctx context.Context, messages []models.Message) (string, error) {
	p.calls++
	return p.text, p.err
}

func TestNewGateway_RequiresPrimary(t *testing.T) {
	gw, err := llm.NewGateway(nil, &stubProvider{name: "secondary"})

	assert.Error(t, err)
	assert.Nil(t, gw)
}

func TestComplete_PrimarySucceeds(t *testing.T) {
	primary := &stubProvider{name: "gemini", text: `{"replyText":"hi"}`}
	secondary := &stubProvider{name: "groq", text: "unused"}
	gw, err := llm.NewGateway(primary, secondary)
	require.NoError(t, err)

	text, provider, err := gw.Complete(context.Background(), nil)

	assert.NoError(t, err)
	assert.Equal(t, `{"replyText":"hi"}`, text)
	assert.Equal(t, "gemini", provider)
	assert.Equal(t, 0, secondary.calls)
}

func TestComplete_FallsBackExactlyOnce(t *testing.T) {
	primary := &stubProvider{name: "gemini", err: errors.New("quota exceeded")}
	secondary := &stubProvider{name: "groq", text: "fallback reply"}
	gw, err := llm.NewGateway(primary, secondary)
	require.NoError(t, err)

	text, provider, err := gw.Complete(context.Background(), nil)

	assert.NoError(t, err)
	assert.Equal(t, "fallback reply", text)
	assert.Equal(t, "groq", provider)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

func TestComplete_EmptyCompletionCountsAsFailure(t *testing.T) {
	primary := &stubProvider{name: "gemini", text: ""}
	secondary := &stubProvider{name: "groq", text: "rescued"}
	gw, err := llm.NewGateway(primary, secondary)
	require.NoError(t, err)

	text, provider, err := gw.Complete(context.Background(), nil)

	assert.NoError(t, err)
	assert.Equal(t, "rescued", text)
	assert.Equal(t, "groq", provider)
}

func TestComplete_BothFail(t *testing.T) {
	primary := &stubProvider{name: "gemini", err: errors.New("down")}
	secondary := &stubProvider{name: "groq", err: errors.New("also down")}
	gw, err := llm.NewGateway(primary, secondary)
	require.NoError(t, err)

	_, _, err = gw.Complete(context.Background(), nil)

	assert.ErrorIs(t, err, llm.ErrProvidersUnavailable)
	// At most one retry total, on the alternate provider only.
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

func TestComplete_NoSecondaryIsTerminal(t *testing.T) {
	primary := &stubProvider{name: "gemini", err: errors.New("down")}
	gw, err := llm.NewGateway(primary, nil)
	require.NoError(t, err)

	_, _, err = gw.Complete(context.Background(), nil)

	assert.ErrorIs(t, err, llm.ErrProvidersUnavailable)
}
