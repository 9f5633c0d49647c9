package tts

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// jobQueue fans phrase synthesis out over a bounded set of workers.
type jobQueue struct {
	jobs       chan string
	workerFunc func(ctx context.Context, text string) error
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
	started    bool
	mu         sync.Mutex
}

// newJobQueue creates a queue with the given buffer size and worker function.
func newJobQueue(bufferSize int, workerFunc func(ctx context.Context, text string) error) *jobQueue {
	ctx, cancel := context.WithCancel(context.Background())
	return &jobQueue{
		jobs:       make(chan string, bufferSize),
		workerFunc: workerFunc,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// start starts the queue workers.
func (q *jobQueue) start(workerCount int) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.started {
		return
	}
	q.started = true

	for i := 0; i < workerCount; i++ {
		q.wg.Add(1)
		go q.worker()
	}
}

func (q *jobQueue) worker() {
	defer q.wg.Done()

	for {
		select {
		case <-q.ctx.Done():
			return
		case text, ok := <-q.jobs:
			if !ok {
				return
			}
			if err := q.workerFunc(q.ctx, text); err != nil {
				log.Warn().Err(err).Str("text", text).Msg("phrase prewarm failed")
			}
		}
	}
}

// enqueue adds a phrase to the queue, dropping it when the buffer is full.
func (q *jobQueue) enqueue(text string) {
	select {
	case q.jobs <- text:
	default:
	}
}

// drain closes the queue and waits for workers to finish.
func (q *jobQueue) drain() {
	close(q.jobs)
	q.wg.Wait()
	q.cancel()
}

// Prewarm synchronously synthesizes the phrase catalog through a
// bounded worker pool so the common replies are cache hits from the
// first turn. Individual failures are logged and skipped; the phrase
// will simply be synthesized on demand later.
func (s *SpeechCache) Prewarm(ctx context.Context, phrases []string) {
	if len(phrases) == 0 {
		return
	}

	q := newJobQueue(len(phrases), func(_ context.Context, text string) error {
		_, err := s.Speak(ctx, text)
		return err
	})
	q.start(s.prewarmWorkers)

	for _, phrase := range phrases {
		q.enqueue(phrase)
	}
	q.drain()

	log.Info().Int("phrases", len(phrases)).Msg("speech cache prewarmed")
}
