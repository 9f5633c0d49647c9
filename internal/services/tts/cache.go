package tts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/voicedesk/agent-service/internal/core/cache"
)

// cacheKeyPrefix namespaces speech entries in the shared cache client.
const cacheKeyPrefix = "tts:"

// CacheEntry is one memoized synthesis result, keyed by exact text.
// Concurrent misses for the same text may both synthesize and both
// write; last write wins. Caching is best-effort, not exactly-once.
type CacheEntry struct {
	Text        string    `json:"text"`
	AudioURL    string    `json:"audioUrl"`
	GeneratedAt time.Time `json:"generatedAt"`
	Hits        int64     `json:"hits"`
}

// SpeechCache memoizes synthesized audio for short phrases. Exact-text
// hits are served from the cache; misses synthesize on demand and are
// cached opportunistically when the text is short enough.
type SpeechCache struct {
	cacheClient     cache.Client
	provider        Provider
	voiceID         string
	maxCacheableLen int
	prewarmWorkers  int
}

// Config holds the configuration for the speech cache.
type Config struct {
	CacheClient cache.Client
	Provider    Provider
	VoiceID     string
	// MaxCacheableLen stops large one-off dynamic replies from filling
	// the cache. Zero means the default of 200.
	MaxCacheableLen int
	PrewarmWorkers  int
}

// NewSpeechCache creates a new speech cache.
func NewSpeechCache(cfg *Config) (*SpeechCache, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.CacheClient == nil {
		return nil, fmt.Errorf("cache client is required")
	}
	if cfg.Provider == nil {
		return nil, fmt.Errorf("tts provider is required")
	}

	maxLen := cfg.MaxCacheableLen
	if maxLen == 0 {
		maxLen = 200
	}
	workers := cfg.PrewarmWorkers
	if workers == 0 {
		workers = 4
	}

	return &SpeechCache{
		cacheClient:     cfg.CacheClient,
		provider:        cfg.Provider,
		voiceID:         cfg.VoiceID,
		maxCacheableLen: maxLen,
		prewarmWorkers:  workers,
	}, nil
}

// Speak returns a playable audio reference for the text. Cache hits
// increment the entry's hit counter; misses synthesize via the
// provider and cache the result when the text is short enough.
func (s *SpeechCache) Speak(ctx context.Context, text string) (string, error) {
	key := cacheKeyPrefix + text

	if raw, err := s.cacheClient.Get(ctx, key); err == nil && raw != nil {
		var entry CacheEntry
		if err := json.Unmarshal(raw, &entry); err == nil {
			entry.Hits++
			s.store(ctx, key, &entry)
			return entry.AudioURL, nil
		}
		// Corrupted entry: fall through and resynthesize.
	}

	audioURL, err := s.provider.Synthesize(ctx, text, s.voiceID)
	if err != nil {
		return "", fmt.Errorf("synthesis failed: %w", err)
	}

	if len(text) <= s.maxCacheableLen {
		s.store(ctx, key, &CacheEntry{
			Text:        text,
			AudioURL:    audioURL,
			GeneratedAt: time.Now().UTC(),
		})
	}
	return audioURL, nil
}

// Entry returns the cached entry for the text, or nil when the text
// has never been cached. Observability only.
func (s *SpeechCache) Entry(ctx context.Context, text string) (*CacheEntry, error) {
	raw, err := s.cacheClient.Get(ctx, cacheKeyPrefix+text)
	if err != nil || raw == nil {
		return nil, err
	}
	var entry CacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("corrupted cache entry: %w", err)
	}
	return &entry, nil
}

// store writes an entry best-effort: a failed write only loses a
// future cache hit.
func (s *SpeechCache) store(ctx context.Context, key string, entry *CacheEntry) {
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	_ = s.cacheClient.Set(ctx, key, data, 0)
}
