package conversation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/moxuz/gemchat/config"
)

type state struct {
	// mu serializes exchanges on this conversation, including the remote
	// call, so concurrent senders cannot interleave or lose turns.
	mu         sync.Mutex
	chat       ChatSession
	history    []Turn
	createdAt  time.Time
	lastActive time.Time
}

func (c *state) append(turn Turn, max int) {
	c.history = append(c.history, turn)
	if max > 0 && len(c.history) > max {
		c.history = c.history[len(c.history)-max:]
	}
}

// Store maps conversation ids to their live state. All conversation state is
// process memory; nothing survives a restart except image files already
// written to the output directory.
type Store struct {
	mu            sync.RWMutex
	conversations map[string]*state

	opener     SessionOpener
	maxHistory int
	outputDir  string
	logger     *zap.SugaredLogger
}

func NewStore(opener SessionOpener, cfg config.GeminiConfig, logger *zap.SugaredLogger) *Store {
	maxHistory := cfg.MaxHistory
	if maxHistory <= 0 {
		maxHistory = 30
	}

	return &Store{
		conversations: make(map[string]*state),
		opener:        opener,
		maxHistory:    maxHistory,
		outputDir:     cfg.OutputDir,
		logger:        logger,
	}
}

// Create opens a fresh remote chat session and registers it under id,
// generating an id when none is supplied. An existing entry under the same
// id is replaced, which is also how Reset is implemented.
func (s *Store) Create(ctx context.Context, id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		id = uuid.NewString()
	}

	chat, err := s.opener.OpenSession(ctx)
	if err != nil {
		return "", fmt.Errorf("open chat session: %w", err)
	}

	now := time.Now().UTC()

	s.mu.Lock()
	s.conversations[id] = &state{
		chat:       chat,
		history:    make([]Turn, 0, s.maxHistory),
		createdAt:  now,
		lastActive: now,
	}
	s.mu.Unlock()

	return id, nil
}

// IDs returns a snapshot of the active conversation ids, in no particular
// order.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.conversations))
	for id := range s.conversations {
		ids = append(ids, id)
	}
	return ids
}

// History returns a copy of the conversation's turns. An unknown id yields
// an empty slice, not an error.
func (s *Store) History(id string) []Turn {
	s.mu.RLock()
	conv, ok := s.conversations[id]
	s.mu.RUnlock()

	if !ok {
		return []Turn{}
	}

	conv.mu.Lock()
	defer conv.mu.Unlock()
	return append([]Turn(nil), conv.history...)
}

// Reset re-creates the conversation under the same id with empty history and
// a fresh remote session. It reports false, mutating nothing, when the id is
// unknown.
func (s *Store) Reset(ctx context.Context, id string) (bool, error) {
	s.mu.RLock()
	_, ok := s.conversations[id]
	s.mu.RUnlock()

	if !ok {
		return false, nil
	}

	if _, err := s.Create(ctx, id); err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes the conversation entirely, reporting whether it existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[id]; !ok {
		return false
	}
	delete(s.conversations, id)
	return true
}

// lookup resolves id to live state, creating the conversation when id is
// empty or unknown. The store lock is never held beyond the map access.
func (s *Store) lookup(ctx context.Context, id string) (*state, string, error) {
	if strings.TrimSpace(id) != "" {
		s.mu.RLock()
		conv, ok := s.conversations[id]
		s.mu.RUnlock()
		if ok {
			return conv, id, nil
		}
	}

	effectiveID, err := s.Create(ctx, id)
	if err != nil {
		return nil, "", err
	}

	s.mu.RLock()
	conv := s.conversations[effectiveID]
	s.mu.RUnlock()
	return conv, effectiveID, nil
}
