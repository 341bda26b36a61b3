package chat

import (
	"context"
	"testing"

	"github.com/homesync/homesync/internal/inventory"
)

func TestSessionStartsWithWelcomeTurn(t *testing.T) {
	session := NewSession(SessionConfig{ID: "s-1", Store: &fakeStore{}})
	turns := session.History()
	if len(turns) != 1 {
		t.Fatalf("len(turns) = %d", len(turns))
	}
	if turns[0].Role != RoleAssistant || turns[0].Content != WelcomeMessage {
		t.Fatalf("opening turn = %+v", turns[0])
	}
}

func TestSessionHandlesGreetingWithoutPipeline(t *testing.T) {
	store := &fakeStore{}
	session := NewSession(SessionConfig{
		ID:       "s-1",
		Store:    store,
		Pipeline: NewPipeline(store, &fakeModel{}, nil),
	})

	reply := session.Handle(context.Background(), "hi")
	if reply != "Hi I am Yokie, your inventory chatbot. How can I help you?" {
		t.Fatalf("Handle() = %q", reply)
	}
	if store.calls != 0 {
		t.Fatalf("store called %d times for a greeting", store.calls)
	}

	turns := session.History()
	if len(turns) != 3 {
		t.Fatalf("len(turns) = %d", len(turns))
	}
	if turns[1].Role != RoleUser || turns[1].Content != "hi" {
		t.Fatalf("user turn = %+v", turns[1])
	}
	if turns[2].Role != RoleAssistant || turns[2].Content != reply {
		t.Fatalf("assistant turn = %+v", turns[2])
	}
}

func TestSessionFallsThroughToPipeline(t *testing.T) {
	store := &fakeStore{
		readResult: inventory.ResultSet{Columns: []string{"quantity"}, Rows: [][]string{{"5"}}},
	}
	model := &fakeModel{replies: []string{"SELECT quantity FROM inventory WHERE item = 'apple';", "You have 5 apples."}}
	session := NewSession(SessionConfig{
		ID:       "s-1",
		Store:    store,
		Pipeline: NewPipeline(store, model, nil),
	})

	reply := session.Handle(context.Background(), "how many apples do I have?")
	if reply != "You have 5 apples." {
		t.Fatalf("Handle() = %q", reply)
	}
	if len(model.prompts) != 2 {
		t.Fatalf("model called %d times", len(model.prompts))
	}
}

func TestSessionValidatesInputWhenEnabled(t *testing.T) {
	store := &fakeStore{}
	model := &fakeModel{}
	session := NewSession(SessionConfig{
		ID:            "s-1",
		Store:         store,
		Pipeline:      NewPipeline(store, model, nil),
		ValidateInput: true,
	})

	reply := session.Handle(context.Background(), "apples")
	if reply != Apology {
		t.Fatalf("Handle() = %q, want apology", reply)
	}
	if len(model.prompts) != 0 {
		t.Fatal("model must not be called for rejected input")
	}
}

func TestSessionRecoversFromDispatcherStoreFailure(t *testing.T) {
	store := &fakeStore{listErr: errStoreDown}
	session := NewSession(SessionConfig{ID: "s-1", Store: store})

	reply := session.Handle(context.Background(), "show items present")
	if reply != Apology {
		t.Fatalf("Handle() = %q, want apology", reply)
	}
}
