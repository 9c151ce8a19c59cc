// Package chat holds the client-side conversation: the ordered transcript,
// the pending input line and the send/respond cycle against a remote Replier.
package chat

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/mfsandbox/camacho-chat/internal/client"
	"github.com/mfsandbox/camacho-chat/internal/model/chat"
)

// Key names a keyboard action routed into the session.
type Key string

// KeyEnter commits the pending input.
const KeyEnter Key = "enter"

// DefaultFallbacks are the canned lines used when the remote reply is unavailable.
var DefaultFallbacks = []string{
	"I’m President Camacho, and I’m here to fix everything!",
	"Don't worry; I'm gonna solve all the problems!",
	"I've got electrolytes! They’re what plants crave!",
	"Just relax. I got this, America!",
}

// Event describes a single append to the transcript.
type Event struct {
	Message chat.Message
	// Index is the position of Message in the transcript.
	Index int
	// Fallback is set when a bot message was substituted locally.
	Fallback bool
}

// Listener is notified after every append. Listeners run on the goroutine
// that performed the append and must not block.
type Listener func(Event)

// Session owns the conversation state of one chat client.
type Session struct {
	replier   client.Replier
	logger    *zap.Logger
	ctx       context.Context
	fallbacks []string

	mu        sync.Mutex
	rng       *rand.Rand
	messages  []chat.Message
	input     string
	listeners map[int]Listener
	nextID    int

	pending  sync.WaitGroup
	inFlight atomic.Int64
}

// Option customizes a Session.
type Option func(*Session)

// WithRand sets the random source used to pick fallback lines.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// WithSeed seeds the fallback random source deterministically.
func WithSeed(seed uint64) Option {
	return func(s *Session) {
		s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithFallbacks replaces the canned fallback lines. An empty list is ignored.
func WithFallbacks(lines []string) Option {
	return func(s *Session) {
		if len(lines) > 0 {
			s.fallbacks = append([]string(nil), lines...)
		}
	}
}

// WithContext sets the context handed to the Replier for every turn.
func WithContext(ctx context.Context) Option {
	return func(s *Session) {
		if ctx != nil {
			s.ctx = ctx
		}
	}
}

// NewSession creates an empty session. A nil replier makes every turn
// resolve with a fallback line.
func NewSession(replier client.Replier, opts ...Option) *Session {
	now := uint64(time.Now().UnixNano())
	s := &Session{
		replier:   replier,
		logger:    zap.NewNop(),
		ctx:       context.Background(),
		fallbacks: DefaultFallbacks,
		rng:       rand.New(rand.NewPCG(now, now>>1)),
		messages:  make([]chat.Message, 0, 16),
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetInput replaces the pending input line.
func (s *Session) SetInput(text string) {
	s.mu.Lock()
	s.input = text
	s.mu.Unlock()
}

// Input returns the pending input line.
func (s *Session) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// Messages returns a snapshot of the transcript.
func (s *Session) Messages() []chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]chat.Message(nil), s.messages...)
}

// Len returns the number of transcript entries.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// Subscribe registers a listener for transcript appends and returns a
// function that removes it.
func (s *Session) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// Submit sends raw as a user turn. Whitespace-only input is ignored and
// reported as false. Otherwise the user message is appended immediately,
// the pending input is cleared and the reply is fetched in the background.
func (s *Session) Submit(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return false
	}

	s.mu.Lock()
	s.input = ""
	s.mu.Unlock()

	s.inFlight.Add(1)
	s.append(chat.UserMessage(raw), false)

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		s.fetchReply(raw)
	}()
	return true
}

// CommitKey routes a key press. The commit key submits the pending input
// and returns true so the caller can suppress the key's default action.
func (s *Session) CommitKey(key Key) bool {
	if key != KeyEnter {
		return false
	}
	s.Submit(s.Input())
	return true
}

// Pending reports how many turns are still awaiting their reply.
func (s *Session) Pending() int {
	return int(s.inFlight.Load())
}

// Wait blocks until every in-flight reply has been appended.
func (s *Session) Wait() {
	s.pending.Wait()
}

// fetchReply resolves one turn. The turn stays counted by Pending until its
// bot message is in the transcript.
func (s *Session) fetchReply(text string) {
	defer s.inFlight.Add(-1)
	started := time.Now()

	reply, err := s.callReplier(text)
	if err != nil {
		s.logger.Warn("remote reply unavailable, using fallback",
			zap.Error(err),
			zap.Bool("remote_unavailable", errors.Is(err, client.ErrRemoteUnavailable)),
			zap.Duration("elapsed", time.Since(started)),
		)
		s.append(chat.BotMessage(s.pickFallback()), true)
		return
	}

	s.logger.Debug("remote reply received",
		zap.Int("length", len(reply)),
		zap.Duration("elapsed", time.Since(started)),
	)
	s.append(chat.BotMessage(reply), false)
}

func (s *Session) callReplier(text string) (reply string, err error) {
	if s.replier == nil {
		return "", client.ErrRemoteUnavailable
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("replier panicked", zap.Any("panic", r))
			reply, err = "", client.ErrRemoteUnavailable
		}
	}()
	return s.replier.Reply(s.ctx, text)
}

func (s *Session) pickFallback() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fallbacks[s.rng.IntN(len(s.fallbacks))]
}

func (s *Session) append(msg chat.Message, fallback bool) {
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	ev := Event{Message: msg, Index: len(s.messages) - 1, Fallback: fallback}
	listeners := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(ev)
	}
}
