package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/voicedesk/agent-service/internal/domain/models"
)

// ErrProvidersUnavailable is returned when the primary and the
// fallback provider both failed. The turn is terminal at that point;
// the gateway never retries more than once.
var ErrProvidersUnavailable = errors.New("both language model providers are unavailable")

// Gateway invokes the primary provider and falls back to the secondary
// exactly once on any primary failure.
type Gateway struct {
	primary   Provider
	secondary Provider
}

// NewGateway creates a new gateway. The secondary provider is
// optional; without one, a primary failure is immediately terminal.
func NewGateway(primary, secondary Provider) (*Gateway, error) {
	if primary == nil {
		return nil, fmt.Errorf("primary provider is required")
	}
	return &Gateway{primary: primary, secondary: secondary}, nil
}

// Complete returns the completion text plus the provenance tag of the
// provider that produced it. An empty completion counts as a provider
// failure.
func (g *Gateway) Complete(ctx context.Context, messages []models.Message) (string, string, error) {
	text, err := g.primary.Complete(ctx, messages)
	if err == nil && text != "" {
		return text, g.primary.Name(), nil
	}
	if err == nil {
		err = fmt.Errorf("empty completion")
	}

	log.Warn().Err(err).Str("provider", g.primary.Name()).Msg("primary provider failed, falling back")

	if g.secondary == nil {
		return "", "", fmt.Errorf("%w: %s: %v", ErrProvidersUnavailable, g.primary.Name(), err)
	}

	text, ferr := g.secondary.Complete(ctx, messages)
	if ferr == nil && text != "" {
		return text, g.secondary.Name(), nil
	}
	if ferr == nil {
		ferr = fmt.Errorf("empty completion")
	}

	return "", "", fmt.Errorf("%w: %s: %v; %s: %v",
		ErrProvidersUnavailable, g.primary.Name(), err, g.secondary.Name(), ferr)
}
