package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/homesync/homesync/internal/inventory"
	"github.com/homesync/homesync/internal/observability"
)

// ErrUnhandled signals that no static rule claimed the message and the
// caller should fall through to the generation pipeline.
var ErrUnhandled = errors.New("chat: message not handled by dispatcher")

var greetings = map[string]string{
	"hi":             "Hi I am Yokie, your inventory chatbot. How can I help you?",
	"hello":          "Hi I am Yokie, your inventory chatbot. How can I help you?",
	"hey":            "Hi I am Yokie, your inventory chatbot. How can I help you?",
	"good morning":   "Good morning!",
	"good afternoon": "Good afternoon!",
	"good night":     "Good night!",
}

var farewells = []string{"bye", "goodbye", "see you", "later", "quit"}

var aboutBot = []string{"who are you", "what are you", "what do you do"}

var thanks = []string{"thanks", "thank you"}

var smallTalk = []string{"how are you", "what's up", "how's it going", "do you love me", "do you hate me", "i love you"}

// phrasePair keeps substring rules in their checking order; the first
// phrase contained in the message wins.
type phrasePair struct {
	phrase string
	reply  string
}

var phraseReplies = []phrasePair{
	{"your name", "I am Yokie - your inventory chatbot."},
	{"what do you do", "I am Yokie. I am here to help you with your home inventory."},
	{"guide me", `Click on the chatbox below and ask your query. For example, "tell me about the items in my inventory".`},
	{"steps to use you", "Click on the chatbox below and ask me about your home inventory."},
	{"who is your creator", "I have been created by the team of HomeSync."},
	{"what can you do", "I can update the quantity of any items in your inventory, check for details of items in your inventory, and provide you with a summarized shopping list."},
}

// rule pairs a pure predicate over the normalized message with a
// handler. Rules run in declaration order; the first predicate hit wins.
type rule struct {
	intent string
	match  func(msg string) bool
	handle func(ctx context.Context, store inventory.Store, msg string) (string, error)
}

type Dispatcher struct {
	rules []rule
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{rules: []rule{
		{
			intent: "greeting",
			match:  func(msg string) bool { _, ok := greetings[msg]; return ok },
			handle: func(_ context.Context, _ inventory.Store, msg string) (string, error) {
				return greetings[msg], nil
			},
		},
		{
			intent: "farewell",
			match:  matchAny(farewells),
			handle: staticReply("Goodbye! Have a great day!"),
		},
		{
			intent: "about",
			match:  matchAny(aboutBot),
			handle: staticReply("I am an AI assistant here to help you manage your home inventory. Ask me anything about your inventory."),
		},
		{
			intent: "thanks",
			match:  matchAny(thanks),
			handle: staticReply("You're welcome! If you have any more questions, feel free to ask."),
		},
		{
			intent: "small_talk",
			match:  matchAny(smallTalk),
			handle: staticReply("As an AI assistant, I don't have feelings, but I'm here to help you!"),
		},
		{
			intent: "phrase",
			match: func(msg string) bool {
				for _, pair := range phraseReplies {
					if strings.Contains(msg, pair.phrase) {
						return true
					}
				}
				return false
			},
			handle: func(_ context.Context, _ inventory.Store, msg string) (string, error) {
				for _, pair := range phraseReplies {
					if strings.Contains(msg, pair.phrase) {
						return pair.reply, nil
					}
				}
				return "", ErrUnhandled
			},
		},
		{
			intent: "can_you",
			match:  func(msg string) bool { return strings.HasPrefix(msg, "can you") },
			handle: func(_ context.Context, _ inventory.Store, msg string) (string, error) {
				if strings.Contains(msg, "home inventory") {
					return "Yes- I can assist you with your home inventory.", nil
				}
				return "No", nil
			},
		},
		{
			intent: "generate_recipe",
			match:  func(msg string) bool { return msg == "generate recipe" },
			handle: func(ctx context.Context, store inventory.Store, _ string) (string, error) {
				return GenerateRecipe(ctx, store)
			},
		},
		{
			intent: "show_items",
			match:  func(msg string) bool { return msg == "show items present" },
			handle: func(ctx context.Context, store inventory.Store, _ string) (string, error) {
				items, err := store.ListAvailable(ctx)
				if err != nil {
					return "", err
				}
				return inventory.RenderAvailable(items), nil
			},
		},
	}}
}

// Dispatch normalizes the message and walks the rule list. It returns
// ErrUnhandled when no rule matches.
func (d *Dispatcher) Dispatch(ctx context.Context, store inventory.Store, message string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(message))
	for _, r := range d.rules {
		if r.match(normalized) {
			observability.IncrementDispatcherHit(r.intent)
			return r.handle(ctx, store, normalized)
		}
	}
	return "", ErrUnhandled
}

func matchAny(set []string) func(string) bool {
	return func(msg string) bool {
		for _, candidate := range set {
			if msg == candidate {
				return true
			}
		}
		return false
	}
}

func staticReply(reply string) func(context.Context, inventory.Store, string) (string, error) {
	return func(context.Context, inventory.Store, string) (string, error) {
		return reply, nil
	}
}
