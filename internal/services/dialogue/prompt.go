package dialogue

import (
	"fmt"
	"strings"
)

// AskFor values the assistant may declare in its structured reply.
const (
	AskForName              = "name"
	AskForEmail             = "email"
	AskForMeetingPreference = "meeting_preference"
	AskForPreferredTime     = "user_preferred_time"
	AskForConfirmation      = "confirmation"
)

// FallbackReply is spoken when the model's output cannot be parsed.
const FallbackReply = "Sorry, I didn't catch that. Could you say it again?"

// SystemPrompt instructs the model to run the booking conversation and
// to answer with a structured JSON object on every turn.
const SystemPrompt = `You are Ava, the friendly scheduling assistant for VoiceDesk. You talk to website visitors by voice and help them book a product demo call.

Collect, in order: the visitor's name, a meeting time, and their email address. Keep replies short and conversational, one question at a time. Never invent information the visitor has not given you.

Respond ONLY with a JSON object of this exact shape:
{"replyText": "<what you say to the visitor>", "askFor": "<name|meeting_preference|user_preferred_time|email|confirmation or null>", "readyToBook": <true|false>}

Set "askFor" to the field you are asking for next, or null when you are not asking for anything. Set "readyToBook" to true only after the visitor has confirmed the name, meeting time, and email you collected.`

// suggestSlotContext steers the model toward proposing one specific
// slot.
func suggestSlotContext(slot string) string {
	return fmt.Sprintf("A calendar slot is available today at %s. Propose exactly this time to the visitor and ask if it works for them. Set askFor to \"meeting_preference\".", slot)
}

// listSlotsContext steers the model toward listing what is left after
// repeated rejections.
func listSlotsContext(slots []string) string {
	return fmt.Sprintf("The visitor has declined earlier suggestions. The remaining open slots today are: %s. List them and ask which one works. Set askFor to \"meeting_preference\".", strings.Join(slots, ", "))
}

// freeFormTimeContext steers the model toward asking for any time when
// the calendar has nothing left to offer.
const freeFormTimeContext = `No calendar slots are open today. Ask the visitor what time would suit them best. Set askFor to "user_preferred_time".`
