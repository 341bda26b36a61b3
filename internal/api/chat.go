package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/homesync/homesync/internal/chat"
	"github.com/homesync/homesync/internal/inventory"
	"github.com/homesync/homesync/internal/llm"
	"github.com/homesync/homesync/internal/observability"
)

// SessionManager owns all live conversations. Sessions are created on
// first use and evicted oldest-first once the cap is reached.
type SessionManager struct {
	mu          sync.Mutex
	sessions    map[string]*chat.Session
	order       []string
	maxSessions int

	store         inventory.Store
	model         llm.Client
	validateInput bool
	logger        *slog.Logger
}

type SessionManagerConfig struct {
	Store         inventory.Store
	Model         llm.Client
	MaxSessions   int
	ValidateInput bool
	Logger        *slog.Logger
}

func NewSessionManager(cfg SessionManagerConfig) *SessionManager {
	maxSessions := cfg.MaxSessions
	if maxSessions <= 0 {
		maxSessions = 1000
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionManager{
		sessions:      map[string]*chat.Session{},
		maxSessions:   maxSessions,
		store:         cfg.Store,
		model:         cfg.Model,
		validateInput: cfg.ValidateInput,
		logger:        logger,
	}
}

// Acquire returns the session for the given conversation ID, creating
// one (with a fresh ID when blank). The bool reports whether the
// conversation already existed.
func (m *SessionManager) Acquire(conversationID string) (*chat.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if conversationID != "" {
		if session, ok := m.sessions[conversationID]; ok {
			return session, true
		}
	} else {
		conversationID = uuid.NewString()
	}

	if len(m.order) >= m.maxSessions {
		oldest := m.order[0]
		m.order = m.order[1:]
		delete(m.sessions, oldest)
	}

	session := chat.NewSession(chat.SessionConfig{
		ID:            conversationID,
		Store:         m.store,
		Pipeline:      chat.NewPipeline(m.store, m.model, m.logger),
		ValidateInput: m.validateInput,
		Logger:        m.logger,
	})
	m.sessions[conversationID] = session
	m.order = append(m.order, conversationID)
	return session, false
}

// Lookup returns an existing session without creating one.
func (m *SessionManager) Lookup(conversationID string) (*chat.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[conversationID]
	return session, ok
}

type chatRequest struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
}

type chatResponse struct {
	ConversationID string `json:"conversation_id"`
	Reply          string `json:"reply"`
	HistoryLen     int    `json:"history_len"`
}

func handleChat(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", "invalid JSON body: "+err.Error(), false)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", "message is required", false)
		return
	}

	session, _ := deps.Sessions.Acquire(strings.TrimSpace(req.ConversationID))
	reply := session.Handle(r.Context(), req.Message)

	w.Header().Set(observability.ConversationHeader, session.ID)
	writeJSON(w, http.StatusOK, chatResponse{
		ConversationID: session.ID,
		Reply:          reply,
		HistoryLen:     len(session.History()),
	})
}

func handleGetConversation(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	conversationID := r.PathValue("conversation")
	session, ok := deps.Sessions.Lookup(conversationID)
	if !ok {
		writeError(r.Context(), w, http.StatusNotFound, "CONVERSATION_NOT_FOUND", "unknown conversation: "+conversationID, false)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"conversation_id": session.ID,
		"turns":           session.History(),
	})
}
