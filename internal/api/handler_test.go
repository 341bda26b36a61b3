package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/homesync/homesync/internal/auth"
	"github.com/homesync/homesync/internal/config"
	"github.com/homesync/homesync/internal/export"
	"github.com/homesync/homesync/internal/inventory"
)

type stubStore struct {
	items     []inventory.Item
	updateErr error
}

func (s *stubStore) HealthCheck(context.Context) error { return nil }

func (s *stubStore) SchemaText(context.Context) (string, error) {
	return "CREATE TABLE inventory (item text, quantity integer);", nil
}
func (s *stubStore) RunRead(context.Context, string) (inventory.ResultSet, error) {
	return inventory.ResultSet{Columns: []string{"quantity"}, Rows: [][]string{{"5"}}}, nil
}
func (s *stubStore) RunWrite(context.Context, string) error { return nil }

func (s *stubStore) GetItem(context.Context, string) (inventory.Item, error) {
	return inventory.Item{}, inventory.ErrNotFound
}
func (s *stubStore) ListAll(context.Context) ([]inventory.Item, error) { return s.items, nil }

func (s *stubStore) ListAvailable(context.Context) ([]inventory.Item, error) {
	return s.items, nil
}

func (s *stubStore) ListBelow(context.Context, int) ([]inventory.Item, error) { return nil, nil }

func (s *stubStore) UpdateQuantity(_ context.Context, name string, quantity int) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	for i, item := range s.items {
		if item.Name == name {
			s.items[i].Quantity = quantity
			return nil
		}
	}
	return inventory.ErrNotFound
}

type stubModel struct {
	called  bool
	replies []string
}

func (s *stubModel) Complete(context.Context, string) (string, error) {
	s.called = true
	if len(s.replies) == 0 {
		return "", errors.New("no replies queued")
	}
	reply := s.replies[0]
	s.replies = s.replies[1:]
	return reply, nil
}

func newTestHandler(t *testing.T, cfg config.Config, store *stubStore, model *stubModel) http.Handler {
	t.Helper()
	sessions := NewSessionManager(SessionManagerConfig{Store: store, Model: model})
	return NewHandler(cfg, Dependencies{
		Store:    store,
		Sessions: sessions,
	})
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.Load("homesync-api", func(string) (string, bool) { return "", false })
	if err != nil {
		t.Fatalf("config.Load() error = %v", err)
	}
	return cfg
}

func TestHealthEndpoint(t *testing.T) {
	handler := newTestHandler(t, testConfig(t), &stubStore{}, &stubModel{})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if payload["service"] != "homesync-api" {
		t.Fatalf("service = %v", payload["service"])
	}
}

func TestReadyEndpointReportsFailure(t *testing.T) {
	cfg := testConfig(t)
	handler := NewHandler(cfg, Dependencies{
		Readiness: func(context.Context) error { return errors.New("db unreachable") },
		Sessions:  NewSessionManager(SessionManagerConfig{Store: &stubStore{}, Model: &stubModel{}}),
		Store:     &stubStore{},
	})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/ready", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestChatGreetingShortCircuitsModel(t *testing.T) {
	model := &stubModel{}
	handler := newTestHandler(t, testConfig(t), &stubStore{}, model)

	body := strings.NewReader(`{"message":"hi"}`)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/chat", body))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rr.Code, rr.Body.String())
	}

	var resp chatResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.Reply != "Hi I am Yokie, your inventory chatbot. How can I help you?" {
		t.Fatalf("reply = %q", resp.Reply)
	}
	if resp.ConversationID == "" {
		t.Fatal("expected a conversation id")
	}
	if resp.HistoryLen != 3 {
		t.Fatalf("history_len = %d, want 3 (welcome, user, assistant)", resp.HistoryLen)
	}
	if got := rr.Header().Get("X-Conversation-ID"); got != resp.ConversationID {
		t.Fatalf("X-Conversation-ID = %q, want %q", got, resp.ConversationID)
	}
	if model.called {
		t.Fatal("model must not be called for a greeting")
	}
}

func TestChatContinuesConversation(t *testing.T) {
	store := &stubStore{}
	model := &stubModel{replies: []string{
		"SELECT quantity FROM inventory WHERE item = 'apple';",
		"You have 5 apples.",
	}}
	sessions := NewSessionManager(SessionManagerConfig{Store: store, Model: model})
	handler := NewHandler(testConfig(t), Dependencies{Store: store, Sessions: sessions})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/chat", strings.NewReader(`{"message":"hello"}`)))
	var first chatResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &first); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/chat",
		strings.NewReader(`{"conversation_id":"`+first.ConversationID+`","message":"how many apples do I have?"}`)))
	var second chatResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &second); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if second.ConversationID != first.ConversationID {
		t.Fatalf("conversation id changed: %q vs %q", first.ConversationID, second.ConversationID)
	}
	if second.Reply != "You have 5 apples." {
		t.Fatalf("reply = %q", second.Reply)
	}
	if second.HistoryLen != first.HistoryLen+2 {
		t.Fatalf("history_len = %d after first = %d", second.HistoryLen, first.HistoryLen)
	}

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/chat/"+first.ConversationID, nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var conversation struct {
		Turns []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"turns"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &conversation); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	// welcome + 2 user turns + 2 assistant turns
	if len(conversation.Turns) != 5 {
		t.Fatalf("turns = %d", len(conversation.Turns))
	}
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	handler := newTestHandler(t, testConfig(t), &stubStore{}, &stubModel{})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/chat", strings.NewReader(`{"message":"  "}`)))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestGetUnknownConversation(t *testing.T) {
	handler := newTestHandler(t, testConfig(t), &stubStore{}, &stubModel{})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/chat/nope", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestListItems(t *testing.T) {
	store := &stubStore{items: []inventory.Item{{Name: "apple", Quantity: 5}}}
	handler := newTestHandler(t, testConfig(t), store, &stubModel{})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/items", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var payload struct {
		Items []itemPayload `json:"items"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(payload.Items) != 1 || payload.Items[0].Item != "apple" || payload.Items[0].Quantity != 5 {
		t.Fatalf("items = %+v", payload.Items)
	}
}

func TestUpdateItemQuantity(t *testing.T) {
	store := &stubStore{items: []inventory.Item{{Name: "rice", Quantity: 2}}}
	handler := newTestHandler(t, testConfig(t), store, &stubModel{})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/v1/items/rice", strings.NewReader(`{"quantity":10}`)))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rr.Code, rr.Body.String())
	}
	var payload map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if payload["message"] != "Successfully updated rice quantity to 10." {
		t.Fatalf("message = %v", payload["message"])
	}
	if store.items[0].Quantity != 10 {
		t.Fatalf("quantity = %d", store.items[0].Quantity)
	}
}

func TestUpdateMissingItemReportsNotFoundMessage(t *testing.T) {
	handler := newTestHandler(t, testConfig(t), &stubStore{}, &stubModel{})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/v1/items/kiwi", strings.NewReader(`{"quantity":4}`)))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if payload["message"] != "Item 'kiwi' not found in the inventory." {
		t.Fatalf("message = %v", payload["message"])
	}
}

func TestUpdateItemRejectsNegativeQuantity(t *testing.T) {
	handler := newTestHandler(t, testConfig(t), &stubStore{}, &stubModel{})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/v1/items/rice", strings.NewReader(`{"quantity":-1}`)))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
}

type stubExporter struct {
	result export.Result
	err    error
}

func (s *stubExporter) Run(context.Context) (export.Result, error) { return s.result, s.err }

func TestExportEndpoint(t *testing.T) {
	cfg := testConfig(t)
	handler := NewHandler(cfg, Dependencies{
		Store:    &stubStore{},
		Sessions: NewSessionManager(SessionManagerConfig{Store: &stubStore{}, Model: &stubModel{}}),
		Exporter: &stubExporter{result: export.Result{Key: "exports/inventory/date=2026-08-30/x.parquet", RecordCount: 9}},
	})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/export", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var result export.Result
	if err := json.Unmarshal(rr.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if result.RecordCount != 9 {
		t.Fatalf("RecordCount = %d", result.RecordCount)
	}
}

func TestAuthRequiredProtectsChat(t *testing.T) {
	cfg := testConfig(t)
	cfg.Auth.Required = true
	validator, err := auth.NewStaticAPIKeyValidator("k1:alice:chat_user")
	if err != nil {
		t.Fatalf("NewStaticAPIKeyValidator() error = %v", err)
	}
	store := &stubStore{}
	handler := NewHandler(cfg, Dependencies{
		Store:          store,
		Sessions:       NewSessionManager(SessionManagerConfig{Store: store, Model: &stubModel{}}),
		AuthMiddleware: auth.Middleware(nil, validator),
	})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/chat", strings.NewReader(`{"message":"hi"}`)))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status without key = %d", rr.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/chat", strings.NewReader(`{"message":"hi"}`))
	req.Header.Set("X-API-Key", "k1")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status with key = %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("health should stay open, status = %d", rr.Code)
	}
}
