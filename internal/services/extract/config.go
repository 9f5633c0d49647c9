package extract

// Config holds the word lists the heuristic extractor matches against.
// The lists were tuned empirically; they are configuration data so
// deployments can extend them without code changes. Zero-value fields
// fall back to the defaults.
type Config struct {
	// RejectionPhrases decline a suggested slot outright.
	RejectionPhrases []string
	// AffirmativePhrases accept a suggested slot.
	AffirmativePhrases []string
	// BusyNegators cancel the rejection signal of "busy" when one of
	// them appears immediately before it ("won't be busy").
	BusyNegators []string
	// AlternativeMarkers introduce a competing time inside a rejection
	// ("no, but 3pm works").
	AlternativeMarkers []string
	// NegativeWindowWords discard a bare parsed time when they appear
	// within the guard window around it ("3pm doesn't work").
	NegativeWindowWords []string
	// EmailFillerPreambles are stripped before reconstructing a
	// dictated address.
	EmailFillerPreambles []string
	// EmailFillerWords are dropped from the local part.
	EmailFillerWords []string
	// ProviderAliases maps spoken provider names to canonical domains.
	ProviderAliases map[string]string
	// NamePrefixes are lead-ins stripped from name utterances.
	NamePrefixes []string
}

func (c *Config) applyDefaults() {
	if c.RejectionPhrases == nil {
		c.RejectionPhrases = []string{
			"doesn't work",
			"does not work",
			"doesn't suit",
			"not available",
			"not free",
			"won't work",
			"can't do",
			"cannot do",
			"can't make",
			"cannot make",
			"too early",
			"too late",
			"inconvenient",
			"not good",
			"no good",
			"another time",
			"different time",
			"something else",
			"reschedule",
		}
	}
	if c.AffirmativePhrases == nil {
		c.AffirmativePhrases = []string{
			"yes",
			"yeah",
			"yep",
			"yup",
			"sure",
			"sounds good",
			"sounds great",
			"works for me",
			"that works",
			"perfect",
			"great",
			"okay",
			"ok",
			"fine",
			"alright",
			"let's do it",
			"book it",
			"confirm",
		}
	}
	if c.BusyNegators == nil {
		c.BusyNegators = []string{"not", "won't", "wont", "isn't", "aren't", "never", "no"}
	}
	if c.AlternativeMarkers == nil {
		c.AlternativeMarkers = []string{"but", "maybe", "instead", "how about", "what about", "prefer"}
	}
	if c.NegativeWindowWords == nil {
		c.NegativeWindowWords = []string{"doesn't", "don't", "not", "no", "can't", "cannot", "won't", "busy", "bad"}
	}
	if c.EmailFillerPreambles == nil {
		c.EmailFillerPreambles = []string{
			"my email address is",
			"my email is",
			"the email is",
			"email address is",
			"email is",
			"it is",
			"it's",
			"its",
		}
	}
	if c.EmailFillerWords == nil {
		c.EmailFillerWords = []string{"the", "my", "is", "um", "uh", "so", "yeah"}
	}
	if c.ProviderAliases == nil {
		c.ProviderAliases = map[string]string{
			"gmail":       "gmail.com",
			"g mail":      "gmail.com",
			"gee mail":    "gmail.com",
			"geemail":     "gmail.com",
			"googlemail":  "gmail.com",
			"yahoo":       "yahoo.com",
			"ya hoo":      "yahoo.com",
			"outlook":     "outlook.com",
			"out look":    "outlook.com",
			"hotmail":     "hotmail.com",
			"hot mail":    "hotmail.com",
			"icloud":      "icloud.com",
			"i cloud":     "icloud.com",
			"protonmail":  "protonmail.com",
			"proton mail": "protonmail.com",
		}
	}
	if c.NamePrefixes == nil {
		c.NamePrefixes = []string{
			"my name is",
			"my name's",
			"the name is",
			"name is",
			"this is",
			"i am",
			"i'm",
			"call me",
			"it's",
		}
	}
}
