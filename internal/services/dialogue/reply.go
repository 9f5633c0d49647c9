package dialogue

import (
	"encoding/json"
	"fmt"
	"strings"
)

// assistantReply is the structured object the model is instructed to
// produce on every turn.
type assistantReply struct {
	ReplyText   string
	AskFor      *string
	ReadyToBook bool
}

// rawAssistantReply defers readyToBook decoding: models occasionally
// emit a string there, and that must not discard an otherwise good
// reply.
type rawAssistantReply struct {
	ReplyText   string          `json:"replyText"`
	AskFor      *string         `json:"askFor"`
	ReadyToBook json.RawMessage `json:"readyToBook"`
}

var validAskFor = map[string]bool{
	AskForName:              true,
	AskForEmail:             true,
	AskForMeetingPreference: true,
	AskForPreferredTime:     true,
	AskForConfirmation:      true,
}

// parseAssistantReply decodes the model output, tolerating markdown
// code fences and surrounding prose around the JSON object.
func parseAssistantReply(raw string) (*assistantReply, error) {
	candidate := strings.TrimSpace(raw)

	if strings.HasPrefix(candidate, "```") {
		candidate = strings.TrimPrefix(candidate, "```json")
		candidate = strings.TrimPrefix(candidate, "```")
		if idx := strings.LastIndex(candidate, "```"); idx >= 0 {
			candidate = candidate[:idx]
		}
		candidate = strings.TrimSpace(candidate)
	}

	// Models sometimes wrap the object in prose. Take the outermost
	// braces.
	if !strings.HasPrefix(candidate, "{") {
		start := strings.Index(candidate, "{")
		end := strings.LastIndex(candidate, "}")
		if start < 0 || end <= start {
			return nil, fmt.Errorf("no JSON object in model output")
		}
		candidate = candidate[start : end+1]
	}

	var decoded rawAssistantReply
	if err := json.Unmarshal([]byte(candidate), &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode model output: %w", err)
	}
	if strings.TrimSpace(decoded.ReplyText) == "" {
		return nil, fmt.Errorf("model output missing replyText")
	}

	reply := assistantReply{ReplyText: decoded.ReplyText, AskFor: decoded.AskFor}
	if reply.AskFor != nil && !validAskFor[*reply.AskFor] {
		reply.AskFor = nil
	}
	// readyToBook defaults false when absent or non-boolean.
	if len(decoded.ReadyToBook) > 0 {
		var b bool
		if err := json.Unmarshal(decoded.ReadyToBook, &b); err == nil {
			reply.ReadyToBook = b
		}
	}
	return &reply, nil
}

// askingFor reports whether the reply asks for the given field.
func (r *assistantReply) askingFor(field string) bool {
	return r.AskFor != nil && *r.AskFor == field
}
