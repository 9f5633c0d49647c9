// Package llm provides the language-model gateway with provider
// failover.
package llm

import (
	"context"

	"github.com/voicedesk/agent-service/internal/domain/models"
)

// Provider is one language-model backend. Implementations send the
// conversation and return the raw completion text.
type Provider interface {
	// Name returns the provider identifier used as the provenance tag.
	Name() string

	// Complete sends the conversation and returns the completion text.
	Complete(ctx context.Context, messages []models.Message) (string, error)
}
