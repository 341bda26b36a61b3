package chat

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/homesync/homesync/internal/inventory"
	"github.com/homesync/homesync/internal/observability"
)

// Session owns one conversation: its turn log, its store handle, and
// the dispatch/generation machinery. Handle serializes messages, so two
// requests racing into the same conversation cannot interleave turns.
type Session struct {
	ID            string
	mu            sync.Mutex
	history       *History
	store         inventory.Store
	dispatcher    *Dispatcher
	pipeline      *Pipeline
	validateInput bool
	logger        *slog.Logger
}

type SessionConfig struct {
	ID            string
	Store         inventory.Store
	Dispatcher    *Dispatcher
	Pipeline      *Pipeline
	ValidateInput bool
	Logger        *slog.Logger
}

func NewSession(cfg SessionConfig) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	dispatcher := cfg.Dispatcher
	if dispatcher == nil {
		dispatcher = NewDispatcher()
	}
	return &Session{
		ID:            cfg.ID,
		history:       NewHistory(),
		store:         cfg.Store,
		dispatcher:    dispatcher,
		pipeline:      cfg.Pipeline,
		validateInput: cfg.ValidateInput,
		logger:        logger,
	}
}

// Handle routes one user message and returns the assistant reply. Both
// the message and the reply are appended to the turn log.
func (s *Session) Handle(ctx context.Context, message string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	observability.IncrementChatMessage()
	s.history.Append(RoleUser, message)

	reply, err := s.dispatcher.Dispatch(ctx, s.store, message)
	switch {
	case err == nil:
	case errors.Is(err, ErrUnhandled):
		if s.validateInput && !ValidMessage(message) {
			reply = Apology
		} else {
			reply = s.pipeline.Respond(ctx, s.history, message)
		}
	default:
		s.logger.WarnContext(ctx, "dispatcher rule failed",
			slog.String("session_id", s.ID),
			slog.String("error", err.Error()),
		)
		reply = Apology
	}

	s.history.Append(RoleAssistant, reply)
	return reply
}

// History exposes the turn log for rendering.
func (s *Session) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Turns()
}
